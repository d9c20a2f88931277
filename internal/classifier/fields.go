package classifier

import (
	"strings"

	"vitess.io/vitess/go/vt/sqlparser"
)

// excludeItem is one candidate of an exclusion list: a projection entry of
// a SELECT, or an assignment of an UPDATE SET list.
type excludeItem struct {
	alias string
	expr  sqlparser.Expr
}

type excludeList []excludeItem

func excludeFromSelectExprs(exprs []sqlparser.SelectExpr) excludeList {
	var list excludeList
	for _, se := range exprs {
		ae, ok := se.(*sqlparser.AliasedExpr)
		if !ok {
			continue
		}
		list = append(list, excludeItem{alias: ae.As.String(), expr: ae.Expr})
	}
	return list
}

func excludeFromUpdateExprs(exprs []*sqlparser.UpdateExpr) excludeList {
	list := make(excludeList, 0, len(exprs))
	for _, ue := range exprs {
		list = append(list, excludeItem{expr: &sqlparser.ComparisonExpr{
			Operator: sqlparser.EqualOp,
			Left:     ue.Name,
			Right:    ue.Expr,
		}})
	}
	return list
}

// shouldExclude reports whether a bare column reference names one of the
// candidates. Only the alias, one a = b (left side) and the column part of
// a qualified reference are considered.
func (l excludeList) shouldExclude(column string) bool {
	for _, item := range l {
		if item.alias != "" && strings.EqualFold(item.alias, column) {
			return true
		}

		expr := item.expr
		if cmp, ok := expr.(*sqlparser.ComparisonExpr); ok && cmp.Operator == sqlparser.EqualOp {
			expr = cmp.Left
		}
		if col, ok := expr.(*sqlparser.ColName); ok && strings.EqualFold(col.Name.String(), column) {
			return true
		}
	}
	return false
}

// note records a column reference. References to the same
// (database, table, column) are merged by OR-ing the usage; the column
// compares case-insensitively, table and database case-sensitively.
func (r *Record) note(database, table, column string, usage Usage, exclude excludeList) {
	if column == "" {
		return
	}
	if table == "" {
		database = ""
	}

	for i := range r.fieldInfos {
		fi := &r.fieldInfos[i]
		if !strings.EqualFold(fi.Column, column) {
			continue
		}
		if table != "" && (fi.Table != table || fi.Database != database) {
			continue
		}
		if table == "" && fi.Table != "" {
			continue
		}
		fi.Usage |= usage
		return
	}

	if table == "" && exclude.shouldExclude(column) {
		return
	}

	r.fieldInfos = append(r.fieldInfos, FieldInfo{
		Database: database,
		Table:    table,
		Column:   column,
		Usage:    usage,
	})
}
