package classifier

import (
	"vitess.io/vitess/go/vt/sqlparser"
)

// SHOW statements are answered from information_schema, so each subject
// reports the table and columns it reads there.
var (
	showColumnsFields = []string{
		"COLUMN_DEFAULT", "COLUMN_KEY", "COLUMN_NAME", "COLUMN_TYPE", "EXTRA", "IS_NULLABLE",
	}
	showFullColumnsFields = []string{
		"COLLATION_NAME", "COLUMN_COMMENT", "COLUMN_DEFAULT", "COLUMN_KEY", "COLUMN_NAME",
		"COLUMN_TYPE", "EXTRA", "IS_NULLABLE", "PRIVILEGES",
	}
	showIndexFields = []string{
		"CARDINALITY", "COLLATION", "COLUMN_NAME", "COMMENT", "INDEX_COMMENT", "INDEX_NAME",
		"INDEX_TYPE", "NON_UNIQUE", "NULLABLE", "PACKED", "SEQ_IN_INDEX", "SUB_PART", "TABLE_NAME",
	}
	showTableStatusFields = []string{
		"AUTO_INCREMENT", "AVG_ROW_LENGTH", "CHECKSUM", "CHECK_TIME", "CREATE_OPTIONS",
		"CREATE_TIME", "DATA_FREE", "DATA_LENGTH", "ENGINE", "INDEX_LENGTH", "MAX_DATA_LENGTH",
		"ROW_FORMAT", "TABLE_COLLATION", "TABLE_COMMENT", "TABLE_NAME", "TABLE_ROWS",
		"UPDATE_TIME", "VERSION",
	}
	showStatusFields = []string{"VARIABLE_NAME", "VARIABLE_VALUE"}
)

func (w *walker) hookShow(show *sqlparser.Show) bool {
	switch s := show.Internal.(type) {
	case *sqlparser.ShowBasic:
		return w.hookShowBasic(s)

	case *sqlparser.ShowCreate:
		switch s.Command {
		case sqlparser.CreateTbl, sqlparser.CreateV:
			w.rec.parsed(TypeWrite, OpUndefined)
			w.rec.addTableName(s.Op)
			return true
		}
	}
	return false
}

func (w *walker) hookShowBasic(s *sqlparser.ShowBasic) bool {
	rec := w.rec

	switch s.Command {
	case sqlparser.Column:
		rec.parsed(TypeWrite, OpUndefined)
		tn := s.Tbl
		if tn.Qualifier.IsEmpty() && s.DbName.NotEmpty() {
			tn.Qualifier = s.DbName
		}
		rec.addTableName(tn)
		if s.Full {
			rec.noteSchema("COLUMNS", showFullColumnsFields)
		} else {
			rec.noteSchema("COLUMNS", showColumnsFields)
		}

	case sqlparser.Database:
		rec.parsed(TypeShowDatabases, OpUndefined)
		rec.addTable(informationSchema, "SCHEMATA")
		rec.noteSchema("SCHEMATA", []string{"SCHEMA_NAME"})

	case sqlparser.Table:
		rec.parsed(TypeShowTables, OpUndefined)
		rec.addTable(informationSchema, "TABLE_NAMES")
		rec.noteSchema("TABLE_NAMES", []string{"TABLE_NAME"})

	case sqlparser.Index:
		rec.parsed(TypeWrite, OpUndefined)
		rec.addTable(informationSchema, "STATISTICS")
		rec.noteSchema("STATISTICS", showIndexFields)

	case sqlparser.TableStatus:
		rec.parsed(TypeWrite, OpUndefined)
		rec.addTable(informationSchema, "TABLES")
		rec.noteSchema("TABLES", showTableStatusFields)

	case sqlparser.StatusGlobal, sqlparser.StatusSession:
		rec.parsed(TypeUnknown, OpUndefined)
		rec.addTable(informationSchema, "SESSION_STATUS")
		rec.noteSchema("SESSION_STATUS", showStatusFields)

	case sqlparser.VariableGlobal, sqlparser.VariableSession:
		types := TypeSysVarRead
		if s.Command == sqlparser.VariableGlobal {
			types = TypeGlobalSysVarRead
		}
		rec.parsed(types, OpUndefined)
		rec.addTable(informationSchema, "SESSION_VARIABLES")
		rec.noteSchema("SESSION_STATUS", showStatusFields)

	default:
		return false
	}
	return true
}
