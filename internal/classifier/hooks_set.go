package classifier

import (
	"strings"

	"vitess.io/vitess/go/vt/sqlparser"
)

// hookSet classifies SET statements. SET TRANSACTION is handled before
// parsing. The keyword classification is discarded and every assignment
// contributes its own flags.
func (w *walker) hookSet(set *sqlparser.Set) {
	rec := w.rec
	rec.parsed(0, OpUndefined)

	for _, se := range set.Exprs {
		if se.Var == nil {
			continue
		}

		if se.Var.Scope == sqlparser.VariableScope {
			rec.types |= TypeUserVarWrite
		} else {
			rec.types |= TypeGlobalSysVarWrite
			if strings.EqualFold(se.Var.Name.String(), "autocommit") {
				switch truth(se.Expr) {
				case 0:
					rec.types |= TypeBeginTrx | TypeDisableAutocommit
				case 1:
					rec.types |= TypeEnableAutocommit | TypeCommit
				}
			}
		}

		if sub, ok := se.Expr.(*sqlparser.Subquery); ok {
			w.walkSelect(sub.Select, UsedInSubselect, nil)
			rec.isRealQuery = false
		}
	}
}

// truth interprets the value assigned to autocommit: 1 for true, 0 for
// false and -1 when it is neither.
func truth(expr sqlparser.Expr) int {
	var s string
	switch v := expr.(type) {
	case sqlparser.BoolVal:
		if v {
			return 1
		}
		return 0
	case *sqlparser.Literal:
		s = v.Val
	case *sqlparser.ColName:
		if !v.Qualifier.IsEmpty() {
			return -1
		}
		s = v.Name.String()
	default:
		return -1
	}

	switch strings.ToLower(s) {
	case "1", "on", "true":
		return 1
	case "0", "off", "false":
		return 0
	}
	return -1
}
