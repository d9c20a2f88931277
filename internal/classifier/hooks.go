package classifier

import (
	"vitess.io/vitess/go/vt/sqlparser"
)

// parsed marks the record as fully understood by a statement hook and
// replaces the keyword-based type mask.
func (r *Record) parsed(types TypeMask, op Operation) {
	r.status = Parsed
	r.types = types
	if op != OpUndefined {
		r.operation = op
	}
}

// dispatch runs the hook for stmt and reports whether one claimed it.
func (w *walker) dispatch(stmt sqlparser.Statement) bool {
	switch s := stmt.(type) {
	case *sqlparser.Select:
		w.hookSelect(s, s.Into != nil)
	case *sqlparser.Union:
		w.hookSelect(s, s.Into != nil)
	case *sqlparser.Insert:
		w.hookInsert(s)
	case *sqlparser.Update:
		w.hookUpdate(s)
	case *sqlparser.Delete:
		w.hookDelete(s)

	case *sqlparser.Set:
		w.hookSet(s)
	case *sqlparser.Show:
		return w.hookShow(s)

	case *sqlparser.Begin:
		w.hookBegin(s)
	case *sqlparser.Commit:
		w.rec.parsed(TypeCommit, OpUndefined)
	case *sqlparser.Rollback:
		w.rec.parsed(TypeRollback, OpUndefined)
	case *sqlparser.Savepoint, *sqlparser.Release, *sqlparser.SRollback:
		w.rec.parsed(TypeWrite, OpUndefined)

	case *sqlparser.PrepareStmt:
		w.hookPrepare(s)
	case *sqlparser.ExecuteStmt:
		w.rec.parsed(TypeWrite, OpUndefined)
		w.rec.isRealQuery = true
		w.rec.prepareName = s.Name.String()
	case *sqlparser.DeallocateStmt:
		w.rec.parsed(TypeWrite, OpUndefined)
		w.rec.prepareName = s.Name.String()

	case *sqlparser.Use:
		w.rec.parsed(TypeSessionWrite, OpChangeDB)

	case *sqlparser.CallProc:
		w.rec.parsed(TypeWrite, OpUndefined)
	case *sqlparser.Flush:
		w.rec.parsed(TypeWrite|TypeCommit, OpUndefined)
	case *sqlparser.LockTables:
		w.rec.parsed(TypeWrite, OpUndefined)
		for _, t := range s.Tables {
			w.rec.addSourceNames([]sqlparser.TableExpr{t.Table})
		}
	case *sqlparser.UnlockTables:
		w.rec.parsed(TypeWrite, OpUndefined)
	case *sqlparser.Load:
		w.rec.parsed(TypeWrite, OpLoad)
	case *sqlparser.OtherAdmin:
		w.rec.parsed(TypeWrite, OpUndefined)

	case *sqlparser.ExplainTab:
		w.hookExplainTable(s)
	case *sqlparser.ExplainStmt:
		w.rec.parsed(TypeRead, OpUndefined)

	default:
		return w.dispatchDDL(stmt)
	}
	return true
}

func (w *walker) hookSelect(stmt sqlparser.SQLNode, into bool) {
	types := TypeRead
	if into {
		// INTO @var, OUTFILE and DUMPFILE all count as a variable write.
		types = TypeGlobalSysVarWrite
	}
	w.rec.parsed(types, OpSelect)
	w.walkSelect(stmt, UsedInSelect, nil)
}

func (w *walker) hookInsert(ins *sqlparser.Insert) {
	rec := w.rec
	rec.parsed(TypeWrite, OpInsert)
	rec.isRealQuery = true

	if ins.Table != nil {
		rec.addSourceNames([]sqlparser.TableExpr{ins.Table})
	}

	for _, col := range ins.Columns {
		rec.note("", "", col.String(), 0, nil)
	}

	switch rows := ins.Rows.(type) {
	case nil:
	case sqlparser.Values:
		for _, tuple := range rows {
			w.walkExprs(tuple, 0, nil)
		}
	default:
		w.walkSelect(rows, UsedInSelect, nil)
	}

	for _, ue := range ins.OnDup {
		w.walkExpr(tokNone, assignment(ue), 0, posMiddle, nil)
	}
}

func (w *walker) hookUpdate(upd *sqlparser.Update) {
	rec := w.rec
	rec.parsed(TypeWrite, OpUpdate)
	rec.isRealQuery = true
	rec.addSourceNames(upd.TableExprs)
	rec.hasClause = upd.Where != nil

	for _, ue := range upd.Exprs {
		w.walkExpr(tokNone, assignment(ue), UsedInSet, posMiddle, nil)
	}

	if upd.Where != nil {
		w.walkExpr(tokNone, upd.Where.Expr, UsedInWhere, posMiddle, excludeFromUpdateExprs(upd.Exprs))
	}
}

func (w *walker) hookDelete(del *sqlparser.Delete) {
	rec := w.rec
	rec.parsed(TypeWrite, OpDelete)
	rec.isRealQuery = true
	rec.hasClause = del.Where != nil

	rec.addSourceNames(del.TableExprs)
	if len(del.Targets) > 0 {
		// Multi-table form: targets already named by a source are not
		// registered twice.
		aliases := sourceAliases(del.TableExprs)
		for _, target := range del.Targets {
			if !aliasedBy(aliases, target.Name.String()) {
				rec.addTableName(target)
			}
		}
	}

	if del.Where != nil {
		w.walkExpr(tokNone, del.Where.Expr, UsedInWhere, posMiddle, nil)
	}
}

func (w *walker) hookBegin(b *sqlparser.Begin) {
	types := TypeBeginTrx
	for _, mode := range b.TxAccessModes {
		switch mode {
		case sqlparser.ReadOnly:
			types |= TypeRead
		case sqlparser.ReadWrite:
			types |= TypeWrite
		}
	}
	w.rec.parsed(types, OpUndefined)
}

func (w *walker) hookPrepare(ps *sqlparser.PrepareStmt) {
	rec := w.rec
	rec.parsed(TypePrepareNamedStmt, OpUndefined)
	rec.isRealQuery = true
	rec.prepareName = ps.Name.String()

	if lit, ok := ps.Statement.(*sqlparser.Literal); ok && lit.Type == sqlparser.StrVal {
		rec.preparableStmt = lit.Val
	}
}

var explainColumns = []string{
	"COLUMN_DEFAULT", "COLUMN_KEY", "COLUMN_NAME", "COLUMN_TYPE", "EXTRA", "IS_NULLABLE",
}

func (w *walker) hookExplainTable(e *sqlparser.ExplainTab) {
	rec := w.rec
	rec.parsed(TypeRead, OpUndefined)
	rec.addTableName(e.Table)
	rec.noteSchema("COLUMNS", explainColumns)
}

// assignment turns one SET-list entry into the equivalent a = b expression.
func assignment(ue *sqlparser.UpdateExpr) sqlparser.Expr {
	return &sqlparser.ComparisonExpr{
		Operator: sqlparser.EqualOp,
		Left:     ue.Name,
		Right:    ue.Expr,
	}
}

// noteSchema records fixed information_schema columns.
func (r *Record) noteSchema(table string, columns []string) {
	for _, col := range columns {
		r.note(informationSchema, table, col, UsedInSelect, nil)
	}
}

const informationSchema = "information_schema"
