package parser

import "github.com/shibukawa/pandasteps/tokenizer"

// Node is implemented by every syntax tree node
type Node interface {
	Pos() tokenizer.Position
}

// Expr is an expression node
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node
type Stmt interface {
	Node
	stmtNode()
}

// BinaryOperator is an arithmetic or bitwise operator of BinOp
type BinaryOperator string

const (
	Add      BinaryOperator = "+"
	Sub      BinaryOperator = "-"
	Mult     BinaryOperator = "*"
	Div      BinaryOperator = "/"
	FloorDiv BinaryOperator = "//"
	Mod      BinaryOperator = "%"
	Pow      BinaryOperator = "**"
	MatMult  BinaryOperator = "@"
	BitAnd   BinaryOperator = "&"
	BitOr    BinaryOperator = "|"
	BitXor   BinaryOperator = "^"
	LShift   BinaryOperator = "<<"
	RShift   BinaryOperator = ">>"
)

// CompareOperator is an operator of Compare
type CompareOperator string

const (
	Eq    CompareOperator = "=="
	NotEq CompareOperator = "!="
	Lt    CompareOperator = "<"
	LtE   CompareOperator = "<="
	Gt    CompareOperator = ">"
	GtE   CompareOperator = ">="
	Is    CompareOperator = "is"
	IsNot CompareOperator = "is not"
	In    CompareOperator = "in"
	NotIn CompareOperator = "not in"
)

// BoolOperator is an operator of BoolOp
type BoolOperator string

const (
	And BoolOperator = "and"
	Or  BoolOperator = "or"
)

// UnaryOperator is an operator of UnaryOp
type UnaryOperator string

const (
	UAdd   UnaryOperator = "+"
	USub   UnaryOperator = "-"
	Invert UnaryOperator = "~"
	Not    UnaryOperator = "not"
)

// ConstantKind tells which literal produced a Constant
type ConstantKind int

const (
	StrConstant ConstantKind = iota
	IntConstant
	FloatConstant
	ComplexConstant
	BoolConstant
	NoneConstant
	BytesConstant
	FormatConstant
	EllipsisConstant
)

func (k ConstantKind) String() string {
	switch k {
	case StrConstant:
		return "str"
	case IntConstant:
		return "int"
	case FloatConstant:
		return "float"
	case ComplexConstant:
		return "complex"
	case BoolConstant:
		return "bool"
	case NoneConstant:
		return "None"
	case BytesConstant:
		return "bytes"
	case FormatConstant:
		return "fstring"
	case EllipsisConstant:
		return "Ellipsis"
	}

	return "unknown"
}

// Module is the root of a parsed source
type Module struct {
	Body []Stmt
}

type (
	// ExprStmt is an expression evaluated for its value
	ExprStmt struct {
		Value Expr
		Start tokenizer.Position
	}

	// Assign is `targets[0] = targets[1] = ... = value`
	Assign struct {
		Targets []Expr
		Value   Expr
		Start   tokenizer.Position
	}

	// AugAssign is `target op= value`
	AugAssign struct {
		Target Expr
		Op     BinaryOperator
		Value  Expr
		Start  tokenizer.Position
	}

	// Import holds the dotted names of an import or from-import statement
	Import struct {
		From  string
		Names []string
		Start tokenizer.Position
	}

	// Pass is the pass statement
	Pass struct {
		Start tokenizer.Position
	}
)

type (
	// Name is a bare identifier
	Name struct {
		ID    string
		Start tokenizer.Position
	}

	// Constant is a literal. Value holds the decoded text for strings and
	// the source spelling for numbers.
	Constant struct {
		Kind  ConstantKind
		Value string
		Start tokenizer.Position
	}

	// Attribute is `value.attr`
	Attribute struct {
		Value Expr
		Attr  string
		Start tokenizer.Position
	}

	// Subscript is `value[slice]`
	Subscript struct {
		Value Expr
		Slice Expr
		Start tokenizer.Position
	}

	// Slice is `lower:upper:step`; omitted parts are nil
	Slice struct {
		Lower Expr
		Upper Expr
		Step  Expr
		Start tokenizer.Position
	}

	Tuple struct {
		Elts  []Expr
		Start tokenizer.Position
	}

	List struct {
		Elts  []Expr
		Start tokenizer.Position
	}

	Set struct {
		Elts  []Expr
		Start tokenizer.Position
	}

	// Dict keeps keys and values in parallel; a nil key marks `**value`
	Dict struct {
		Keys   []Expr
		Values []Expr
		Start  tokenizer.Position
	}

	BinOp struct {
		Left  Expr
		Op    BinaryOperator
		Right Expr
		Start tokenizer.Position
	}

	UnaryOp struct {
		Op      UnaryOperator
		Operand Expr
		Start   tokenizer.Position
	}

	// BoolOp flattens chains of the same boolean operator
	BoolOp struct {
		Op     BoolOperator
		Values []Expr
		Start  tokenizer.Position
	}

	// Compare is `left ops[0] comparators[0] ops[1] comparators[1] ...`
	Compare struct {
		Left        Expr
		Ops         []CompareOperator
		Comparators []Expr
		Start       tokenizer.Position
	}

	Call struct {
		Func     Expr
		Args     []Expr
		Keywords []Keyword
		Start    tokenizer.Position
	}

	// Starred is `*value` in a call or display
	Starred struct {
		Value Expr
		Start tokenizer.Position
	}

	// IfExp is `body if test else orelse`
	IfExp struct {
		Test   Expr
		Body   Expr
		OrElse Expr
		Start  tokenizer.Position
	}
)

// Keyword is a `name=value` call argument. Arg is empty for `**value`.
type Keyword struct {
	Arg   string
	Value Expr
}

func (n *ExprStmt) Pos() tokenizer.Position  { return n.Start }
func (n *Assign) Pos() tokenizer.Position    { return n.Start }
func (n *AugAssign) Pos() tokenizer.Position { return n.Start }
func (n *Import) Pos() tokenizer.Position    { return n.Start }
func (n *Pass) Pos() tokenizer.Position      { return n.Start }
func (n *Name) Pos() tokenizer.Position      { return n.Start }
func (n *Constant) Pos() tokenizer.Position  { return n.Start }
func (n *Attribute) Pos() tokenizer.Position { return n.Start }
func (n *Subscript) Pos() tokenizer.Position { return n.Start }
func (n *Slice) Pos() tokenizer.Position     { return n.Start }
func (n *Tuple) Pos() tokenizer.Position     { return n.Start }
func (n *List) Pos() tokenizer.Position      { return n.Start }
func (n *Set) Pos() tokenizer.Position       { return n.Start }
func (n *Dict) Pos() tokenizer.Position      { return n.Start }
func (n *BinOp) Pos() tokenizer.Position     { return n.Start }
func (n *UnaryOp) Pos() tokenizer.Position   { return n.Start }
func (n *BoolOp) Pos() tokenizer.Position    { return n.Start }
func (n *Compare) Pos() tokenizer.Position   { return n.Start }
func (n *Call) Pos() tokenizer.Position      { return n.Start }
func (n *Starred) Pos() tokenizer.Position   { return n.Start }
func (n *IfExp) Pos() tokenizer.Position     { return n.Start }

func (*ExprStmt) stmtNode()  {}
func (*Assign) stmtNode()    {}
func (*AugAssign) stmtNode() {}
func (*Import) stmtNode()    {}
func (*Pass) stmtNode()      {}

func (*Name) exprNode()      {}
func (*Constant) exprNode()  {}
func (*Attribute) exprNode() {}
func (*Subscript) exprNode() {}
func (*Slice) exprNode()     {}
func (*Tuple) exprNode()     {}
func (*List) exprNode()      {}
func (*Set) exprNode()       {}
func (*Dict) exprNode()      {}
func (*BinOp) exprNode()     {}
func (*UnaryOp) exprNode()   {}
func (*BoolOp) exprNode()    {}
func (*Compare) exprNode()   {}
func (*Call) exprNode()      {}
func (*Starred) exprNode()   {}
func (*IfExp) exprNode()     {}
