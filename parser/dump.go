package parser

import (
	"fmt"
	"strings"
)

// Dump renders a node as a compact one-line tree, one line per statement
// for a Module.
func Dump(node Node) string {
	var b strings.Builder
	dump(&b, node)

	return b.String()
}

// DumpModule renders every statement of a module on its own line.
func DumpModule(module *Module) string {
	lines := make([]string, 0, len(module.Body))
	for _, stmt := range module.Body {
		lines = append(lines, Dump(stmt))
	}

	return strings.Join(lines, "\n")
}

func dump(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("None")
	case *ExprStmt:
		call(b, "Expr", n.Value)
	case *Assign:
		b.WriteString("Assign([")
		for i, target := range n.Targets {
			if i > 0 {
				b.WriteString(", ")
			}
			dump(b, target)
		}
		b.WriteString("], ")
		dump(b, n.Value)
		b.WriteString(")")
	case *AugAssign:
		b.WriteString("AugAssign(")
		dump(b, n.Target)
		fmt.Fprintf(b, ", '%s', ", n.Op)
		dump(b, n.Value)
		b.WriteString(")")
	case *Import:
		if n.From != "" {
			fmt.Fprintf(b, "ImportFrom(%s, %s)", n.From, strings.Join(n.Names, ", "))
		} else {
			fmt.Fprintf(b, "Import(%s)", strings.Join(n.Names, ", "))
		}
	case *Pass:
		b.WriteString("Pass()")
	case *Name:
		fmt.Fprintf(b, "Name(%s)", n.ID)
	case *Constant:
		switch n.Kind {
		case StrConstant:
			fmt.Fprintf(b, "Constant('%s')", n.Value)
		case BytesConstant:
			fmt.Fprintf(b, "Constant(b'%s')", n.Value)
		case FormatConstant:
			fmt.Fprintf(b, "JoinedStr('%s')", n.Value)
		case EllipsisConstant:
			b.WriteString("Constant(...)")
		default:
			fmt.Fprintf(b, "Constant(%s)", n.Value)
		}
	case *Attribute:
		b.WriteString("Attribute(")
		dump(b, n.Value)
		fmt.Fprintf(b, ", '%s')", n.Attr)
	case *Subscript:
		call(b, "Subscript", n.Value, n.Slice)
	case *Slice:
		call(b, "Slice", n.Lower, n.Upper, n.Step)
	case *Tuple:
		call(b, "Tuple", n.Elts...)
	case *List:
		call(b, "List", n.Elts...)
	case *Set:
		call(b, "Set", n.Elts...)
	case *Dict:
		b.WriteString("Dict(")
		for i := range n.Values {
			if i > 0 {
				b.WriteString(", ")
			}
			if n.Keys[i] == nil {
				b.WriteString("**")
			} else {
				dump(b, n.Keys[i])
				b.WriteString(": ")
			}
			dump(b, n.Values[i])
		}
		b.WriteString(")")
	case *BinOp:
		b.WriteString("BinOp(")
		dump(b, n.Left)
		fmt.Fprintf(b, ", '%s', ", n.Op)
		dump(b, n.Right)
		b.WriteString(")")
	case *UnaryOp:
		fmt.Fprintf(b, "UnaryOp('%s', ", n.Op)
		dump(b, n.Operand)
		b.WriteString(")")
	case *BoolOp:
		fmt.Fprintf(b, "BoolOp('%s'", n.Op)
		for _, value := range n.Values {
			b.WriteString(", ")
			dump(b, value)
		}
		b.WriteString(")")
	case *Compare:
		b.WriteString("Compare(")
		dump(b, n.Left)
		for i, op := range n.Ops {
			fmt.Fprintf(b, ", '%s', ", op)
			dump(b, n.Comparators[i])
		}
		b.WriteString(")")
	case *Call:
		b.WriteString("Call(")
		dump(b, n.Func)
		for _, arg := range n.Args {
			b.WriteString(", ")
			dump(b, arg)
		}
		for _, kw := range n.Keywords {
			if kw.Arg == "" {
				b.WriteString(", **")
			} else {
				fmt.Fprintf(b, ", %s=", kw.Arg)
			}
			dump(b, kw.Value)
		}
		b.WriteString(")")
	case *Starred:
		call(b, "Starred", n.Value)
	case *IfExp:
		call(b, "IfExp", n.Test, n.Body, n.OrElse)
	default:
		fmt.Fprintf(b, "%T", node)
	}
}

func call(b *strings.Builder, name string, args ...Expr) {
	b.WriteString(name)
	b.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		if arg == nil {
			b.WriteString("None")
			continue
		}
		dump(b, arg)
	}
	b.WriteString(")")
}
