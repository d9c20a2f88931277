package classifier

import (
	"vitess.io/vitess/go/vt/sqlparser"
)

func (w *walker) dispatchDDL(stmt sqlparser.Statement) bool {
	rec := w.rec

	switch s := stmt.(type) {
	case *sqlparser.CreateTable:
		types := TypeWrite
		if s.Temp {
			types |= TypeCreateTmpTable
		} else {
			types |= TypeCommit
		}
		rec.parsed(types, OpCreate)
		rec.addTableName(s.Table)
		if len(rec.tableNames) > 0 {
			rec.createdTableName = rec.tableNames[0]
		}
		if s.OptLike != nil {
			rec.addTableName(s.OptLike.LikeTable)
		}

	case *sqlparser.CreateView:
		rec.parsed(TypeWrite|TypeCommit, OpCreate)
		rec.addTableName(s.ViewName)
		if s.Select != nil {
			w.walkSelect(s.Select, UsedInSelect, nil)
			rec.isRealQuery = false
		}

	case *sqlparser.AlterView:
		rec.parsed(TypeWrite|TypeCommit, OpAlter)
		rec.addTableName(s.ViewName)

	case *sqlparser.AlterTable:
		// CREATE INDEX and DROP INDEX arrive as ALTER TABLE; the leading
		// keyword tells them apart.
		op := OpAlter
		switch rec.keyword1 {
		case "CREATE":
			op = OpCreate
		case "DROP":
			op = OpDrop
		}
		rec.parsed(TypeWrite|TypeCommit, op)
		rec.addTableName(s.Table)

	case *sqlparser.DropTable:
		types := TypeWrite
		if !s.Temp {
			types |= TypeCommit
		}
		rec.parsed(types, OpDrop)
		rec.isDropTable = true
		for _, tn := range s.FromTables {
			rec.addTableName(tn)
		}

	case *sqlparser.DropView:
		rec.parsed(TypeWrite|TypeCommit, OpDrop)
		for _, tn := range s.FromTables {
			rec.addTableName(tn)
		}

	case *sqlparser.TruncateTable:
		rec.parsed(TypeWrite|TypeCommit, OpTruncate)
		rec.isRealQuery = true
		rec.addTableName(s.Table)

	case *sqlparser.RenameTable:
		rec.parsed(TypeWrite|TypeCommit, OpUndefined)
		for _, pair := range s.TablePairs {
			rec.addTableName(pair.FromTable)
			rec.addTable("", pair.ToTable.Name.String())
		}

	case *sqlparser.CreateDatabase:
		rec.parsed(TypeWrite|TypeCommit, OpCreate)
	case *sqlparser.DropDatabase:
		rec.parsed(TypeWrite|TypeCommit, OpDrop)
	case *sqlparser.AlterDatabase:
		rec.parsed(TypeWrite|TypeCommit, OpAlter)

	default:
		return false
	}
	return true
}

// fullyParsed reports whether the grammar understood all of a DDL
// statement. Statements of other kinds are always fully parsed.
func fullyParsed(stmt sqlparser.Statement) bool {
	if ddl, ok := stmt.(interface{ IsFullyParsed() bool }); ok {
		return ddl.IsFullyParsed()
	}
	return true
}
