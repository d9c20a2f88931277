package classifier

import (
	"strings"

	"github.com/rs/zerolog"
	"vitess.io/vitess/go/vt/sqlparser"
)

// position is where an expression sits relative to its parent operator.
type position int

const (
	posLeft position = iota
	posMiddle
	posRight
)

// token is the operator of the parent node, as far as the walker cares.
type token int

const (
	tokNone token = iota
	tokEq
)

// walker drives the name registry and the field tracker of one record.
type walker struct {
	rec *Record
	log zerolog.Logger
}

// walkExpr records the columns, variables and function calls of expr.
func (w *walker) walkExpr(prev token, expr sqlparser.Expr, usage Usage, pos position, exclude excludeList) {
	if expr == nil {
		return
	}

	switch e := expr.(type) {
	case *sqlparser.ColName:
		w.noteColumn(e, usage, exclude)

	case *sqlparser.Variable:
		w.noteVariable(prev, e, pos)

	case *sqlparser.Argument, *sqlparser.Literal, *sqlparser.NullVal, sqlparser.BoolVal:
		// Placeholders and literals; booleans never reach the field tracker.

	case *sqlparser.FuncExpr:
		w.noteFunction(e)
		w.walkChildren(e, usage, exclude)

	case *sqlparser.Subquery:
		w.walkSelect(e.Select, subselectUsage(usage), exclude)

	case *sqlparser.ComparisonExpr:
		op := tokNone
		if e.Operator == sqlparser.EqualOp {
			op = tokEq
		}
		w.walkExpr(op, e.Left, usage, posLeft, exclude)
		w.walkExpr(op, e.Right, usage&^UsedInSet, posRight, exclude)
		w.walkExpr(op, e.Escape, usage&^UsedInSet, posRight, exclude)

	case *sqlparser.AssignmentExpr:
		w.walkExpr(tokEq, e.Left, usage, posLeft, exclude)
		w.walkExpr(tokEq, e.Right, usage&^UsedInSet, posRight, exclude)

	case *sqlparser.AndExpr:
		w.walkExpr(tokNone, e.Left, usage, posLeft, exclude)
		w.walkExpr(tokNone, e.Right, usage&^UsedInSet, posRight, exclude)

	case *sqlparser.OrExpr:
		w.walkExpr(tokNone, e.Left, usage, posLeft, exclude)
		w.walkExpr(tokNone, e.Right, usage&^UsedInSet, posRight, exclude)

	case *sqlparser.XorExpr:
		w.walkExpr(tokNone, e.Left, usage, posLeft, exclude)
		w.walkExpr(tokNone, e.Right, usage&^UsedInSet, posRight, exclude)

	case *sqlparser.BinaryExpr:
		w.walkExpr(tokNone, e.Left, usage, posLeft, exclude)
		w.walkExpr(tokNone, e.Right, usage&^UsedInSet, posRight, exclude)

	case *sqlparser.BetweenExpr:
		w.walkExpr(tokNone, e.Left, usage, posLeft, exclude)
		w.walkExpr(tokNone, e.From, usage&^UsedInSet, posMiddle, exclude)
		w.walkExpr(tokNone, e.To, usage&^UsedInSet, posMiddle, exclude)

	case *sqlparser.CaseExpr:
		w.walkExpr(tokNone, e.Expr, usage, posLeft, exclude)
		for _, when := range e.Whens {
			w.walkExpr(tokNone, when.Cond, usage, posMiddle, exclude)
			w.walkExpr(tokNone, when.Val, usage, posMiddle, exclude)
		}
		w.walkExpr(tokNone, e.Else, usage&^UsedInSet, posRight, exclude)

	default:
		w.walkChildren(expr, usage, exclude)
	}
}

// walkChildren walks the immediate child expressions of node. Nodes that
// are not expressions themselves (WHEN clauses, window specifications) are
// descended into until the next expression is found.
func (w *walker) walkChildren(node sqlparser.SQLNode, usage Usage, exclude excludeList) {
	root := true
	_ = sqlparser.Walk(func(child sqlparser.SQLNode) (bool, error) {
		if root {
			root = false
			return true, nil
		}
		if e, ok := child.(sqlparser.Expr); ok {
			w.walkExpr(tokNone, e, usage, posMiddle, exclude)
			return false, nil
		}
		return true, nil
	}, node)
}

func (w *walker) walkExprs(exprs []sqlparser.Expr, usage Usage, exclude excludeList) {
	for _, e := range exprs {
		w.walkExpr(tokNone, e, usage, posMiddle, exclude)
	}
}

func (w *walker) noteColumn(col *sqlparser.ColName, usage Usage, exclude excludeList) {
	var database, table string
	if !col.Qualifier.IsEmpty() {
		table = col.Qualifier.Name.String()
		database = col.Qualifier.Qualifier.String()
	}
	w.rec.note(database, table, col.Name.String(), usage, exclude)
}

func (w *walker) noteStar(star *sqlparser.StarExpr, usage Usage, exclude excludeList) {
	var database, table string
	if !star.TableName.IsEmpty() {
		table = star.TableName.Name.String()
		database = star.TableName.Qualifier.String()
	}
	w.rec.note(database, table, "*", usage, exclude)
}

func (w *walker) noteVariable(prev token, v *sqlparser.Variable, pos position) {
	write := prev == tokEq && pos == posLeft
	name := v.Name.Lowered()

	if v.Scope == sqlparser.VariableScope {
		if write {
			w.rec.types |= TypeUserVarWrite
		} else {
			w.rec.types |= TypeUserVarRead
		}
		return
	}

	switch {
	case write:
		w.rec.types |= TypeGlobalSysVarWrite
	case name == "identity" || name == "last_insert_id":
		w.rec.types |= TypeMasterRead
	default:
		w.rec.types |= TypeSysVarRead
	}
}

func (w *walker) noteFunction(f *sqlparser.FuncExpr) {
	name := f.Name.Lowered()
	switch {
	case name == "last_insert_id":
		w.rec.types |= TypeRead | TypeMasterRead
	case !f.Qualifier.IsEmpty(), !isBuiltinReadOnlyFunction(name):
		w.rec.types |= TypeWrite
	}
}

// subselectUsage replaces UsedInSelect with UsedInSubselect.
func subselectUsage(usage Usage) Usage {
	return usage&^UsedInSelect | UsedInSubselect
}

// walkSelect registers the sources of a select and records its columns.
// node is a *Select, a *Union or any wrapper around them.
func (w *walker) walkSelect(node sqlparser.SQLNode, usage Usage, exclude excludeList) {
	switch s := node.(type) {
	case nil:
		return

	case *sqlparser.Select:
		if s.With != nil {
			for _, cte := range s.With.CTEs {
				w.walkSelect(cte.Subquery, subselectUsage(usage), exclude)
			}
		}

		w.addSources(s.From, usage, exclude)

		var projection []sqlparser.SelectExpr
		if s.SelectExprs != nil {
			projection = s.SelectExprs.Exprs
		}
		w.walkSelectExprs(projection, usage, nil)
		projected := excludeFromSelectExprs(projection)

		for _, on := range joinConditions(s.From) {
			w.walkExpr(tokNone, on, UsedInWhere, posMiddle, nil)
		}

		if s.Where != nil {
			w.rec.hasClause = true
			w.walkExpr(tokNone, s.Where.Expr, UsedInWhere, posMiddle, nil)
		}

		if s.GroupBy != nil {
			w.walkExprs(s.GroupBy.Exprs, UsedInGroupBy, projected)
		}

		if s.Having != nil {
			// HAVING can only name what is already surfaced elsewhere.
			w.rec.hasClause = true
		}

	case *sqlparser.Union:
		w.walkSelect(s.Left, usage, exclude)
		w.walkSelect(s.Right, usage, exclude)

	default:
		// Parenthesised selects and other wrappers: descend to the first
		// select found.
		_ = sqlparser.Walk(func(child sqlparser.SQLNode) (bool, error) {
			switch child.(type) {
			case *sqlparser.Select, *sqlparser.Union:
				w.walkSelect(child, usage, exclude)
				return false, nil
			}
			return true, nil
		}, node)
	}
}

func (w *walker) walkSelectExprs(exprs []sqlparser.SelectExpr, usage Usage, exclude excludeList) {
	for _, se := range exprs {
		switch e := se.(type) {
		case *sqlparser.AliasedExpr:
			w.walkExpr(tokNone, e.Expr, usage, posMiddle, exclude)
		case *sqlparser.StarExpr:
			w.noteStar(e, usage, exclude)
		}
	}
}

// isBuiltinReadOnlyFunction reports whether name is a built-in function
// known to have no side effects.
func isBuiltinReadOnlyFunction(name string) bool {
	_, ok := builtinReadOnlyFunctions[strings.ToLower(name)]
	return ok
}
