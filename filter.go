package jandas

import (
	"fmt"
	"strings"
)

// CompareOp is a comparison operator used by Compare conditions.
type CompareOp uint8

const (
	OpGt CompareOp = iota // >
	OpLt                  // <
	OpEq                  // =
	OpGe                  // >=
	OpLe                  // <=
)

// String returns the operator symbol.
func (op CompareOp) String() string {
	switch op {
	case OpGt:
		return ">"
	case OpLt:
		return "<"
	case OpEq:
		return "="
	case OpGe:
		return ">="
	case OpLe:
		return "<="
	default:
		return fmt.Sprintf("op(%d)", op)
	}
}

// ParseCompareOp parses one of >, <, =, ==, >=, <=.
func ParseCompareOp(s string) (CompareOp, error) {
	switch strings.TrimSpace(s) {
	case ">":
		return OpGt, nil
	case "<":
		return OpLt, nil
	case "=", "==":
		return OpEq, nil
	case ">=":
		return OpGe, nil
	case "<=":
		return OpLe, nil
	default:
		return 0, fmt.Errorf("%w: comparison operator %q", ErrInvalidParameter, s)
	}
}

func (op CompareOp) holds(c int) (bool, error) {
	switch op {
	case OpGt:
		return c > 0, nil
	case OpLt:
		return c < 0, nil
	case OpEq:
		return c == 0, nil
	case OpGe:
		return c >= 0, nil
	case OpLe:
		return c <= 0, nil
	default:
		return false, fmt.Errorf("%w: comparison operator %s", ErrInvalidParameter, op)
	}
}

type condKind uint8

const (
	condInvalid condKind = iota
	condCompare
	condAnd
	condOr
	condNot
)

// Condition is a boolean predicate over one row. It is a tree of comparisons
// combined with And, Or and Not. The zero value is invalid.
type Condition struct {
	kind     condKind
	column   string
	op       CompareOp
	literal  any
	children []Condition
}

// Row is the view of a single row handed to Condition.Evaluate.
type Row struct {
	Label   Label
	Values  []Cell
	Columns []Label
}

// Compare returns a condition comparing the named column with literal.
// A missing cell never satisfies a comparison.
func Compare(column string, op CompareOp, literal any) Condition {
	return Condition{kind: condCompare, column: column, op: op, literal: literal}
}

// And is true when every condition is true. Conditions are evaluated left to
// right and evaluation stops at the first false one.
func And(conds ...Condition) Condition {
	return Condition{kind: condAnd, children: append([]Condition{}, conds...)}
}

// Or is true when any condition is true. Evaluation stops at the first true one.
func Or(conds ...Condition) Condition {
	return Condition{kind: condOr, children: append([]Condition{}, conds...)}
}

// Not negates a condition.
func Not(cond Condition) Condition {
	return Condition{kind: condNot, children: []Condition{cond}}
}

// And combines c with other.
func (c Condition) And(other Condition) Condition { return And(c, other) }

// Or combines c with other.
func (c Condition) Or(other Condition) Condition { return Or(c, other) }

// Not negates c.
func (c Condition) Not() Condition { return Not(c) }

// Columns returns the column names referenced by the condition.
func (c Condition) Columns() []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(Condition)
	walk = func(n Condition) {
		if n.kind == condCompare && !seen[n.column] {
			seen[n.column] = true
			names = append(names, n.column)
		}
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(c)
	return names
}

// Evaluate reports whether the row satisfies the condition.
func (c Condition) Evaluate(row Row) (bool, error) {
	switch c.kind {
	case condCompare:
		return c.evalCompare(row)

	case condAnd:
		for _, child := range c.children {
			ok, err := child.Evaluate(row)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	case condOr:
		for _, child := range c.children {
			ok, err := child.Evaluate(row)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case condNot:
		ok, err := c.children[0].Evaluate(row)
		if err != nil {
			return false, err
		}
		return !ok, nil

	default:
		return false, fmt.Errorf("%w: empty condition", ErrInvalidParameter)
	}
}

func (c Condition) evalCompare(row Row) (bool, error) {
	pos := -1
	for i, l := range row.Columns {
		if l.String() == c.column {
			pos = i
			break
		}
	}
	if pos < 0 || pos >= len(row.Values) {
		return false, labelNotFound("column", StringLabel(c.column))
	}

	lit, err := normalizeValue(c.literal)
	if err != nil {
		return false, err
	}
	if lit == nil {
		return false, fmt.Errorf("%w: literal for column %q", ErrNullArgument, c.column)
	}

	cell := row.Values[pos]
	if cell.IsMissing() {
		return false, nil
	}
	cmp, err := compareValues(cell.value, lit)
	if err != nil {
		return false, fmt.Errorf("column %q: %w", c.column, err)
	}
	return c.op.holds(cmp)
}

// String renders the condition, e.g. ((Edad > 30) AND NOT (Ciudad = Lima)).
func (c Condition) String() string {
	switch c.kind {
	case condCompare:
		return fmt.Sprintf("(%s %s %v)", c.column, c.op, c.literal)
	case condAnd, condOr:
		if len(c.children) == 0 {
			if c.kind == condAnd {
				return "TRUE"
			}
			return "FALSE"
		}
		sep := " AND "
		if c.kind == condOr {
			sep = " OR "
		}
		parts := make([]string, len(c.children))
		for i, child := range c.children {
			parts[i] = child.String()
		}
		return "(" + strings.Join(parts, sep) + ")"
	case condNot:
		return "NOT " + c.children[0].String()
	default:
		return "<invalid>"
	}
}

// ============================================================================
// Column builder
// ============================================================================

// ColExpr builds comparisons against one column: Col("Edad").Gt(30).
type ColExpr struct {
	Name string
}

// Col references a column by name.
func Col(name string) ColExpr { return ColExpr{Name: name} }

func (e ColExpr) Gt(v any) Condition { return Compare(e.Name, OpGt, v) }
func (e ColExpr) Lt(v any) Condition { return Compare(e.Name, OpLt, v) }
func (e ColExpr) Eq(v any) Condition { return Compare(e.Name, OpEq, v) }
func (e ColExpr) Ge(v any) Condition { return Compare(e.Name, OpGe, v) }
func (e ColExpr) Le(v any) Condition { return Compare(e.Name, OpLe, v) }

// ParseComparison parses a textual comparison such as "Edad >= 30" or
// `Ciudad = "Lima"`. The column is everything before the first operator
// character. The literal is parsed with ParseLiteral.
func ParseComparison(expr string) (Condition, error) {
	i := strings.IndexAny(expr, "<>=")
	if i < 0 {
		return Condition{}, fmt.Errorf("%w: no comparison operator in %q", ErrInvalidParameter, expr)
	}
	j := i + 1
	if j < len(expr) && expr[j] == '=' {
		j++
	}
	op, err := ParseCompareOp(expr[i:j])
	if err != nil {
		return Condition{}, err
	}
	column := strings.TrimSpace(expr[:i])
	literal := strings.TrimSpace(expr[j:])
	if column == "" || literal == "" {
		return Condition{}, fmt.Errorf("%w: comparison %q needs a column and a literal", ErrInvalidParameter, expr)
	}
	if strings.ContainsAny(literal[:1], "<>=") {
		return Condition{}, fmt.Errorf("%w: malformed operator in %q", ErrInvalidParameter, expr)
	}
	return Compare(column, op, ParseLiteral(literal)), nil
}

// ParseLiteral turns text into a comparison or fill value. Double- or
// single-quoted text is kept as a string; anything else is read as an
// integer, a float, a boolean literal or plain text, in that order.
func ParseLiteral(s string) any {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	if s == "" {
		return s
	}
	return parseText(s)
}

// ============================================================================
// DataFrame filtering
// ============================================================================

// Filter returns a new DataFrame with the rows that satisfy cond, in their
// original order and with their original labels. Columns, labels and dtypes
// are preserved.
func (df *DataFrame) Filter(cond Condition) (*DataFrame, error) {
	columns := df.ColumnLabels()
	indices := make([]int, 0, df.Height())
	for i := 0; i < df.Height(); i++ {
		ok, err := cond.Evaluate(Row{Label: df.rowLabels[i], Values: df.rowCells(i), Columns: columns})
		if err != nil {
			return nil, fmt.Errorf("filter row %s: %w", df.rowLabels[i].Quoted(), err)
		}
		if ok {
			indices = append(indices, i)
		}
	}
	return df.take(indices), nil
}
