package classifier

import (
	"strings"

	"vitess.io/vitess/go/vt/sqlparser"
)

// addTable registers one table reference. Both names are unquoted first;
// database may be empty.
func (r *Record) addTable(database, table string) {
	table = dequote(table)
	if table == "" {
		return
	}
	database = dequote(database)

	r.tableNames = append(r.tableNames, table)
	if database != "" {
		r.databaseNames = append(r.databaseNames, database)
		r.tableFullnames = append(r.tableFullnames, database+"."+table)
	} else {
		r.tableFullnames = append(r.tableFullnames, table)
	}
}

func (r *Record) addTableName(tn sqlparser.TableName) {
	if tn.IsEmpty() {
		return
	}
	r.addTable(tn.Qualifier.String(), tn.Name.String())
}

// isDual reports whether tn is the DUAL pseudo table. The grammar supplies
// it for a SELECT without FROM, so it never names a real source.
func isDual(tn sqlparser.TableName) bool {
	return tn.Qualifier.IsEmpty() && strings.EqualFold(tn.Name.String(), "dual")
}

// addSources registers the sources of a FROM, JOIN or USING list in the
// order they were written. Derived tables are walked as sub-selects.
func (w *walker) addSources(exprs []sqlparser.TableExpr, usage Usage, exclude excludeList) {
	for _, expr := range exprs {
		w.addSource(expr, usage, exclude)
	}
}

func (w *walker) addSource(expr sqlparser.TableExpr, usage Usage, exclude excludeList) {
	switch t := expr.(type) {
	case *sqlparser.AliasedTableExpr:
		switch src := t.Expr.(type) {
		case sqlparser.TableName:
			if isDual(src) {
				return
			}
			w.rec.addTableName(src)
			w.rec.isRealQuery = true
		case *sqlparser.DerivedTable:
			w.walkSelect(src.Select, subselectUsage(usage), exclude)
		}
	case *sqlparser.JoinTableExpr:
		w.addSource(t.LeftExpr, usage, exclude)
		w.addSource(t.RightExpr, usage, exclude)
	case *sqlparser.ParenTableExpr:
		for _, inner := range t.Exprs {
			w.addSource(inner, usage, exclude)
		}
	}
}

// joinConditions collects the ON conditions of every join in a source list.
func joinConditions(exprs []sqlparser.TableExpr) []sqlparser.Expr {
	var conds []sqlparser.Expr
	for _, expr := range exprs {
		switch t := expr.(type) {
		case *sqlparser.JoinTableExpr:
			conds = append(conds, joinConditions([]sqlparser.TableExpr{t.LeftExpr})...)
			conds = append(conds, joinConditions([]sqlparser.TableExpr{t.RightExpr})...)
			if t.Condition != nil && t.Condition.On != nil {
				conds = append(conds, t.Condition.On)
			}
		case *sqlparser.ParenTableExpr:
			conds = append(conds, joinConditions(t.Exprs)...)
		}
	}
	return conds
}

// sourceAliases maps every alias (or bare name when unaliased) of a source
// list to its table name.
func sourceAliases(exprs []sqlparser.TableExpr) map[string]sqlparser.TableName {
	aliases := make(map[string]sqlparser.TableName)
	var visit func(sqlparser.TableExpr)
	visit = func(expr sqlparser.TableExpr) {
		switch t := expr.(type) {
		case *sqlparser.AliasedTableExpr:
			tn, ok := t.Expr.(sqlparser.TableName)
			if !ok {
				return
			}
			if !t.As.IsEmpty() {
				aliases[t.As.String()] = tn
			}
			aliases[tn.Name.String()] = tn
		case *sqlparser.JoinTableExpr:
			visit(t.LeftExpr)
			visit(t.RightExpr)
		case *sqlparser.ParenTableExpr:
			for _, inner := range t.Exprs {
				visit(inner)
			}
		}
	}
	for _, expr := range exprs {
		visit(expr)
	}
	return aliases
}

// dequote strips one level of `, " or ' quoting and collapses doubled
// quote characters inside.
func dequote(s string) string {
	if len(s) < 2 {
		return s
	}
	q := s[0]
	if (q != '`' && q != '"' && q != '\'') || s[len(s)-1] != q {
		return s
	}
	inner := s[1 : len(s)-1]
	doubled := string([]byte{q, q})
	return strings.ReplaceAll(inner, doubled, string(q))
}

// splitQualified splits a possibly quoted, possibly qualified name
// (db.table or table) into its parts.
func splitQualified(name string) (string, string) {
	name = strings.TrimSpace(name)
	if idx := qualifierDot(name); idx >= 0 {
		return dequote(name[:idx]), dequote(name[idx+1:])
	}
	return "", dequote(name)
}

// qualifierDot returns the index of the first dot outside backquotes.
func qualifierDot(name string) int {
	quoted := false
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '`':
			quoted = !quoted
		case '.':
			if !quoted {
				return i
			}
		}
	}
	return -1
}

// addSourceNames registers only the names of a source list, including the
// sources of derived tables. Used by statements whose sources are targets
// rather than row producers (UPDATE, DELETE, LOCK TABLES).
func (r *Record) addSourceNames(exprs []sqlparser.TableExpr) {
	for _, expr := range exprs {
		switch t := expr.(type) {
		case *sqlparser.AliasedTableExpr:
			switch src := t.Expr.(type) {
			case sqlparser.TableName:
				if !isDual(src) {
					r.addTableName(src)
				}
			case *sqlparser.DerivedTable:
				r.addSelectSourceNames(src.Select)
			}
		case *sqlparser.JoinTableExpr:
			r.addSourceNames([]sqlparser.TableExpr{t.LeftExpr, t.RightExpr})
		case *sqlparser.ParenTableExpr:
			r.addSourceNames(t.Exprs)
		}
	}
}

func (r *Record) addSelectSourceNames(node sqlparser.SQLNode) {
	switch s := node.(type) {
	case *sqlparser.Select:
		r.addSourceNames(s.From)
	case *sqlparser.Union:
		r.addSelectSourceNames(s.Left)
		r.addSelectSourceNames(s.Right)
	}
}

// aliasedBy reports whether name is one of the aliases or bare names of a
// source list. The comparison ignores case.
func aliasedBy(aliases map[string]sqlparser.TableName, name string) bool {
	for alias := range aliases {
		if strings.EqualFold(alias, name) {
			return true
		}
	}
	return false
}
