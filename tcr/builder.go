package tcr

import (
	"fmt"
	"strings"

	"github.com/shibukawa/pandasteps/parser"
)

// Build classifies one statement or expression. It never fails: anything
// outside the recognised subset becomes *Unknown.
func Build(node parser.Node) Node {
	switch n := node.(type) {
	case *parser.ExprStmt:
		return Build(n.Value)
	case *parser.Assign:
		return &Assign{Target: Build(n.Targets[0]), Value: Build(n.Value)}
	case *parser.Attribute:
		if n.Attr == "shape" {
			return &Shape{Base: Build(n.Value)}
		}

		return &Attribute{Base: Build(n.Value), Name: n.Attr}
	case *parser.Subscript:
		return buildSubscript(n)
	case *parser.Compare:
		return &Compare{
			Left:  Build(n.Left),
			Op:    lookup(compareOperators, n.Ops[0]),
			Right: Build(n.Comparators[0]),
		}
	case *parser.BoolOp:
		operands := make([]Node, 0, len(n.Values))
		for _, value := range n.Values {
			operands = append(operands, Build(value))
		}

		return &BoolOp{Op: lookup(boolOperators, n.Op), Operands: operands}
	case *parser.BinOp:
		return &ArithmeticOp{
			Op:    lookup(arithmeticPhrases, n.Op),
			Left:  Build(n.Left),
			Right: Build(n.Right),
		}
	case *parser.Call:
		args := make([]Node, 0, len(n.Args))
		for _, arg := range n.Args {
			args = append(args, Build(arg))
		}

		return &FunctionCall{Callee: Build(n.Func), Args: args}
	case *parser.Name:
		return &Variable{Name: n.ID}
	case *parser.Constant, *parser.UnaryOp:
		if lit, ok := literal(n.(parser.Expr)); ok {
			return lit
		}
	}

	return unknown(node)
}

// Subscripts are told apart by the shape of their parts, in this order:
// a row mask, a shape index, then a plain column.
func buildSubscript(n *parser.Subscript) Node {
	if left, op, right, ok := rowPredicate(n.Slice); ok {
		return &SelectRows{
			Base:      Build(left),
			Op:        lookup(rowFilterOperators, op),
			Condition: Build(right),
		}
	}

	if attr, ok := n.Value.(*parser.Attribute); ok && attr.Attr == "shape" {
		index, ok := literal(n.Slice)
		if !ok {
			return unknown(n)
		}

		return &Shape{Base: Build(n.Value), Index: index}
	}

	column, ok := literal(n.Slice)
	if !ok {
		return unknown(n)
	}

	return &ColumnAccess{Base: Build(n.Value), Column: column}
}

// rowPredicate normalises both mask shapes into left, operator symbol, right.
// Chained comparisons keep their first link only.
func rowPredicate(index parser.Expr) (parser.Expr, string, parser.Expr, bool) {
	switch idx := index.(type) {
	case *parser.BinOp:
		return idx.Left, string(idx.Op), idx.Right, true
	case *parser.Compare:
		return idx.Left, string(idx.Ops[0]), idx.Comparators[0], true
	}

	return nil, "", nil, false
}

func literal(expr parser.Expr) (Literal, bool) {
	switch e := expr.(type) {
	case *parser.Constant:
		switch e.Kind {
		case parser.StrConstant:
			return &String{Value: e.Value}, true
		case parser.IntConstant, parser.FloatConstant:
			value, err := FormatNumber(e.Value)
			if err != nil {
				return nil, false
			}

			return &Number{Value: value}, true
		case parser.BoolConstant:
			return &Number{Value: e.Value}, true
		}
	case *parser.UnaryOp:
		// -1 reads as a single number to anyone looking at the code
		if e.Op != parser.USub && e.Op != parser.UAdd {
			return nil, false
		}

		operand, ok := e.Operand.(*parser.Constant)
		if !ok || (operand.Kind != parser.IntConstant && operand.Kind != parser.FloatConstant) {
			return nil, false
		}

		number, ok := literal(operand)
		if !ok {
			return nil, false
		}

		if e.Op == parser.USub && number.Text() != "0" {
			return &Number{Value: "-" + number.Text()}, true
		}

		return number, true
	}

	return nil, false
}

func unknown(node parser.Node) *Unknown {
	if node == nil {
		return &Unknown{}
	}

	reason := strings.TrimPrefix(fmt.Sprintf("%T", node), "*parser.")
	if c, ok := node.(*parser.Constant); ok {
		reason += "(" + c.Kind.String() + ")"
	}

	return &Unknown{Reason: reason}
}
