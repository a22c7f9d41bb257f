// Package tcr holds the tree-structured command representation: a small
// tagged tree that classifies parsed expressions into the data operations a
// spreadsheet user would recognise.
package tcr

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the tag of a Node
type Kind int

const (
	KindUnknown Kind = iota
	KindVariable
	KindString
	KindNumber
	KindAttribute
	KindShape
	KindColumnAccess
	KindSelectRows
	KindCompare
	KindBoolOp
	KindArithmeticOp
	KindFunctionCall
	KindAssign
)

var kindNames = map[Kind]string{
	KindUnknown:      "unknown",
	KindVariable:     "variable",
	KindString:       "string",
	KindNumber:       "number",
	KindAttribute:    "attribute",
	KindShape:        "shape",
	KindColumnAccess: "column_access",
	KindSelectRows:   "select_rows",
	KindCompare:      "compare",
	KindBoolOp:       "bool_op",
	KindArithmeticOp: "arithmetic_op",
	KindFunctionCall: "function_call",
	KindAssign:       "assign",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is one TCR node. Nodes are immutable once built.
type Node interface {
	Kind() Kind
	String() string
}

// Literal is a node usable as a column name or shape index
type Literal interface {
	Node
	Text() string
}

type (
	// Unknown stands for any shape the builder does not recognise.
	// Reason names the syntax node that produced it.
	Unknown struct {
		Reason string
	}

	Variable struct {
		Name string
	}

	String struct {
		Value string
	}

	// Number keeps the canonical text of a numeric literal
	Number struct {
		Value string
	}

	Attribute struct {
		Base Node
		Name string
	}

	// Shape is `base.shape` or `base.shape[index]`; Index is nil for the former
	Shape struct {
		Base  Node
		Index Literal
	}

	ColumnAccess struct {
		Base   Node
		Column Literal
	}

	// SelectRows filters rows by `base op condition`. Op is already a
	// row-filter word ("is", "and", ...) or the raw arithmetic symbol.
	SelectRows struct {
		Base      Node
		Op        string
		Condition Node
	}

	// Compare keeps the comparison symbol; phrasing happens at render time
	Compare struct {
		Left  Node
		Op    string
		Right Node
	}

	BoolOp struct {
		Op       string
		Operands []Node
	}

	// ArithmeticOp carries the phrase of its operator ("added to", ...)
	ArithmeticOp struct {
		Op    string
		Left  Node
		Right Node
	}

	FunctionCall struct {
		Callee Node
		Args   []Node
	}

	Assign struct {
		Target Node
		Value  Node
	}
)

func (*Unknown) Kind() Kind      { return KindUnknown }
func (*Variable) Kind() Kind     { return KindVariable }
func (*String) Kind() Kind       { return KindString }
func (*Number) Kind() Kind       { return KindNumber }
func (*Attribute) Kind() Kind    { return KindAttribute }
func (*Shape) Kind() Kind        { return KindShape }
func (*ColumnAccess) Kind() Kind { return KindColumnAccess }
func (*SelectRows) Kind() Kind   { return KindSelectRows }
func (*Compare) Kind() Kind      { return KindCompare }
func (*BoolOp) Kind() Kind       { return KindBoolOp }
func (*ArithmeticOp) Kind() Kind { return KindArithmeticOp }
func (*FunctionCall) Kind() Kind { return KindFunctionCall }
func (*Assign) Kind() Kind       { return KindAssign }

func (s *String) Text() string { return s.Value }
func (n *Number) Text() string { return n.Value }

func (u *Unknown) String() string {
	if u.Reason == "" {
		return "unknown()"
	}

	return "unknown(" + u.Reason + ")"
}

func (v *Variable) String() string { return "variable(" + v.Name + ")" }
func (s *String) String() string   { return "string(" + strconv.Quote(s.Value) + ")" }
func (n *Number) String() string   { return "number(" + n.Value + ")" }

func (a *Attribute) String() string {
	return sexp(KindAttribute, a.Base.String(), a.Name)
}

func (s *Shape) String() string {
	if s.Index == nil {
		return sexp(KindShape, s.Base.String())
	}

	return sexp(KindShape, s.Base.String(), s.Index.String())
}

func (c *ColumnAccess) String() string {
	return sexp(KindColumnAccess, c.Base.String(), c.Column.String())
}

func (s *SelectRows) String() string {
	return sexp(KindSelectRows, s.Base.String(), strconv.Quote(s.Op), s.Condition.String())
}

func (c *Compare) String() string {
	return sexp(KindCompare, c.Left.String(), strconv.Quote(c.Op), c.Right.String())
}

func (b *BoolOp) String() string {
	return sexp(KindBoolOp, strconv.Quote(b.Op), list(b.Operands))
}

func (a *ArithmeticOp) String() string {
	return sexp(KindArithmeticOp, strconv.Quote(a.Op), a.Left.String(), a.Right.String())
}

func (f *FunctionCall) String() string {
	return sexp(KindFunctionCall, f.Callee.String(), list(f.Args))
}

func (a *Assign) String() string {
	return sexp(KindAssign, a.Target.String(), a.Value.String())
}

func sexp(kind Kind, fields ...string) string {
	return kind.String() + "(" + strings.Join(fields, ", ") + ")"
}

func list(nodes []Node) string {
	items := make([]string, 0, len(nodes))
	for _, node := range nodes {
		items = append(items, node.String())
	}

	return "[" + strings.Join(items, ", ") + "]"
}
