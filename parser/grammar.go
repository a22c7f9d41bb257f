package parser

import (
	"fmt"
	"strings"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/shibukawa/pandasteps/tokenizer"
)

type nodeParser = pc.Parser[entity]

var (
	comma        = primitive(tokenizer.COMMA)
	colon        = primitive(tokenizer.COLON)
	dot          = primitive(tokenizer.DOT)
	assignOp     = primitive(tokenizer.ASSIGN)
	name         = primitive(tokenizer.NAME)
	parenOpen    = primitive(tokenizer.OPENED_PARENS)
	parenClose   = primitive(tokenizer.CLOSED_PARENS)
	bracketOpen  = primitive(tokenizer.OPENED_BRACKET)
	bracketClose = primitive(tokenizer.CLOSED_BRACKET)
	braceOpen    = primitive(tokenizer.OPENED_BRACE)
	braceClose   = primitive(tokenizer.CLOSED_BRACE)
	star         = primitive(tokenizer.MULTIPLY)
	doubleStar   = primitive(tokenizer.POWER)
)

var (
	expression nodeParser
	statement  nodeParser
)

func init() {
	lazyExpression := pc.Lazy(func() nodeParser { return expression })

	starOrExpr := pc.Or(
		pc.Trans(pc.Seq(star, lazyExpression), func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			return exprToken(tokens[0], &Starred{Value: tokens[1].Val.expr, Start: tokens[0].Val.tok.Position}), nil
		}),
		lazyExpression,
	)

	// a, b, c with optional trailing comma; raw commas are kept so callers can tell `(a)` from `(a,)`
	exprList := pc.Seq(
		starOrExpr,
		pc.ZeroOrMore("expression list", pc.Seq(comma, starOrExpr)),
		pc.Optional(comma),
	)

	atom := pc.Or(
		pc.Trans(name, func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			tok := tokens[0].Val.tok
			return exprToken(tokens[0], &Name{ID: tok.Value, Start: tok.Position}), nil
		}),
		pc.Trans(primitive(tokenizer.NUMBER), func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			tok := tokens[0].Val.tok
			return exprToken(tokens[0], &Constant{Kind: numberKind(tok.Value), Value: tok.Value, Start: tok.Position}), nil
		}),
		pc.Trans(
			pc.Seq(primitive(tokenizer.STRING), pc.ZeroOrMore("adjacent strings", primitive(tokenizer.STRING))),
			concatStrings,
		),
		pc.Trans(primitive(tokenizer.TRUE, tokenizer.FALSE), func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			tok := tokens[0].Val.tok
			return exprToken(tokens[0], &Constant{Kind: BoolConstant, Value: tok.Value, Start: tok.Position}), nil
		}),
		pc.Trans(primitive(tokenizer.NONE), func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			tok := tokens[0].Val.tok
			return exprToken(tokens[0], &Constant{Kind: NoneConstant, Value: "None", Start: tok.Position}), nil
		}),
		pc.Trans(primitive(tokenizer.ELLIPSIS), func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			tok := tokens[0].Val.tok
			return exprToken(tokens[0], &Constant{Kind: EllipsisConstant, Value: "...", Start: tok.Position}), nil
		}),
		pc.Trans(pc.Seq(parenOpen, pc.Optional(exprList), parenClose), func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			inner := tokens[1 : len(tokens)-1]
			elts := exprs(inner)
			if len(elts) == 1 && !hasRaw(inner, tokenizer.COMMA) {
				return exprToken(tokens[0], elts[0]), nil
			}

			return exprToken(tokens[0], &Tuple{Elts: elts, Start: tokens[0].Val.tok.Position}), nil
		}),
		pc.Trans(pc.Seq(bracketOpen, pc.Optional(exprList), bracketClose), func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			return exprToken(tokens[0], &List{Elts: exprs(tokens), Start: tokens[0].Val.tok.Position}), nil
		}),
		pc.Trans(pc.Seq(braceOpen, pc.Optional(pc.Or(dictItems(lazyExpression), exprList)), braceClose), buildBraces),
	)

	argument := pc.Or(
		pc.Trans(pc.Seq(name, assignOp, lazyExpression), func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			kw := &Keyword{Arg: tokens[0].Val.tok.Value, Value: tokens[2].Val.expr}
			return reduced(tokens[0], entity{keyword: kw}), nil
		}),
		pc.Trans(pc.Seq(doubleStar, lazyExpression), func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			return reduced(tokens[0], entity{keyword: &Keyword{Value: tokens[1].Val.expr}}), nil
		}),
		starOrExpr,
	)

	callTrailer := pc.Trans(
		pc.Seq(
			parenOpen,
			pc.Optional(pc.Seq(argument, pc.ZeroOrMore("arguments", pc.Seq(comma, argument)), pc.Optional(comma))),
			parenClose,
		),
		func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			args := exprs(tokens)

			var keywords []Keyword
			for _, token := range tokens {
				if token.Val.keyword != nil {
					keywords = append(keywords, *token.Val.keyword)
				}
			}

			return reduced(tokens[0], entity{trailer: func(base Expr) Expr {
				return &Call{Func: base, Args: args, Keywords: keywords, Start: base.Pos()}
			}}), nil
		},
	)

	attributeTrailer := pc.Trans(pc.Seq(dot, name), func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
		attr := tokens[1].Val.tok.Value
		return reduced(tokens[0], entity{trailer: func(base Expr) Expr {
			return &Attribute{Value: base, Attr: attr, Start: base.Pos()}
		}}), nil
	})

	// lower? (: upper? (: step?)?)? ; an item without a colon is a plain index
	subscriptItem := pc.Trans(
		pc.Seq(
			pc.Optional(lazyExpression),
			pc.Optional(pc.Seq(colon, pc.Optional(lazyExpression), pc.Optional(pc.Seq(colon, pc.Optional(lazyExpression))))),
		),
		buildSlice,
	)

	subscriptTrailer := pc.Trans(
		pc.Seq(
			bracketOpen,
			subscriptItem,
			pc.ZeroOrMore("subscripts", pc.Seq(comma, subscriptItem)),
			pc.Optional(comma),
			bracketClose,
		),
		func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			inner := tokens[1 : len(tokens)-1]
			items := exprs(inner)

			var index Expr
			if len(items) == 1 && !hasRaw(inner, tokenizer.COMMA) {
				index = items[0]
			} else {
				index = &Tuple{Elts: items, Start: items[0].Pos()}
			}

			return reduced(tokens[0], entity{trailer: func(base Expr) Expr {
				return &Subscript{Value: base, Slice: index, Start: base.Pos()}
			}}), nil
		},
	)

	primary := pc.Trans(
		pc.Seq(atom, pc.ZeroOrMore("trailers", pc.Or(attributeTrailer, callTrailer, subscriptTrailer))),
		func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			result := tokens[0].Val.expr
			for _, token := range tokens[1:] {
				result = token.Val.trailer(result)
			}

			return exprToken(tokens[0], result), nil
		},
	)

	var factor nodeParser
	lazyFactor := pc.Lazy(func() nodeParser { return factor })

	// ** binds tighter than unary minus on its left and looser on its right
	power := pc.Trans(
		pc.Seq(primary, pc.Optional(pc.Seq(operator(tokenizer.POWER), lazyFactor))),
		func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			if len(tokens) == 1 {
				return tokens, nil
			}

			left := tokens[0].Val.expr
			return exprToken(tokens[0], &BinOp{Left: left, Op: Pow, Right: tokens[2].Val.expr, Start: left.Pos()}), nil
		},
	)

	factor = pc.Or(
		pc.Trans(pc.Seq(operator(tokenizer.PLUS, tokenizer.MINUS, tokenizer.TILDE), lazyFactor), unary),
		power,
	)

	term := binaryChain(factor, operator(tokenizer.MULTIPLY, tokenizer.DIVIDE, tokenizer.FLOOR_DIVIDE, tokenizer.MODULO, tokenizer.MATMUL))
	arith := binaryChain(term, operator(tokenizer.PLUS, tokenizer.MINUS))
	shift := binaryChain(arith, operator(tokenizer.LEFT_SHIFT, tokenizer.RIGHT_SHIFT))
	bitAnd := binaryChain(shift, operator(tokenizer.AMPERSAND))
	bitXor := binaryChain(bitAnd, operator(tokenizer.CARET))
	bitOr := binaryChain(bitXor, operator(tokenizer.PIPE))

	compareOp := pc.Or(
		phrase(string(IsNot), tokenizer.IS, tokenizer.NOT),
		phrase(string(NotIn), tokenizer.NOT, tokenizer.IN),
		operator(
			tokenizer.EQUAL, tokenizer.NOT_EQUAL,
			tokenizer.LESS_THAN, tokenizer.LESS_EQUAL,
			tokenizer.GREATER_THAN, tokenizer.GREATER_EQUAL,
			tokenizer.IS, tokenizer.IN,
		),
	)

	comparison := pc.Trans(
		pc.Seq(bitOr, pc.ZeroOrMore("comparisons", pc.Seq(compareOp, bitOr))),
		func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			if len(tokens) == 1 {
				return tokens, nil
			}

			left := tokens[0].Val.expr
			cmp := &Compare{Left: left, Start: left.Pos()}
			for i := 1; i+1 < len(tokens); i += 2 {
				cmp.Ops = append(cmp.Ops, CompareOperator(tokens[i].Val.op))
				cmp.Comparators = append(cmp.Comparators, tokens[i+1].Val.expr)
			}

			return exprToken(tokens[0], cmp), nil
		},
	)

	var notTest nodeParser
	notTest = pc.Or(
		pc.Trans(pc.Seq(operator(tokenizer.NOT), pc.Lazy(func() nodeParser { return notTest })), unary),
		comparison,
	)

	andTest := boolChain(notTest, tokenizer.AND, And)
	orTest := boolChain(andTest, tokenizer.OR, Or)

	expression = pc.Trans(
		pc.Seq(orTest, pc.Optional(pc.Seq(primitive(tokenizer.IF), orTest, primitive(tokenizer.ELSE), lazyExpression))),
		func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			if len(tokens) == 1 {
				return tokens, nil
			}

			body := tokens[0].Val.expr
			return exprToken(tokens[0], &IfExp{
				Test:   tokens[2].Val.expr,
				Body:   body,
				OrElse: tokens[4].Val.expr,
				Start:  body.Pos(),
			}), nil
		},
	)

	// a, b  is a tuple; a  alone stays as is
	testList := pc.Trans(exprList, func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
		elts := exprs(tokens)
		if len(elts) == 1 && !hasRaw(tokens, tokenizer.COMMA) {
			return exprToken(tokens[0], elts[0]), nil
		}

		return exprToken(tokens[0], &Tuple{Elts: elts, Start: elts[0].Pos()}), nil
	})

	exprStatement := pc.Trans(
		pc.Seq(
			testList,
			pc.Optional(pc.Or(
				pc.Seq(assignOp, testList, pc.ZeroOrMore("chained assignments", pc.Seq(assignOp, testList))),
				pc.Seq(operator(tokenizer.AUG_ASSIGN), testList),
			)),
		),
		buildExprStatement,
	)

	passStatement := pc.Trans(primitive(tokenizer.PASS), func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
		return reduced(tokens[0], entity{stmt: &Pass{Start: tokens[0].Val.tok.Position}}), nil
	})

	statement = pc.Or[entity](importStatement, passStatement, exprStatement)
}

func binaryChain(operand, op nodeParser) nodeParser {
	return pc.Trans(
		pc.Seq(operand, pc.ZeroOrMore("operator chain", pc.Seq(op, operand))),
		func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			result := tokens[0].Val.expr
			for i := 1; i+1 < len(tokens); i += 2 {
				result = &BinOp{Left: result, Op: BinaryOperator(tokens[i].Val.op), Right: tokens[i+1].Val.expr, Start: result.Pos()}
			}

			return exprToken(tokens[0], result), nil
		},
	)
}

func boolChain(operand nodeParser, keyword tokenizer.TokenType, op BoolOperator) nodeParser {
	return pc.Trans(
		pc.Seq(operand, pc.ZeroOrMore(string(op), pc.Seq(primitive(keyword), operand))),
		func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
			values := exprs(tokens)
			if len(values) == 1 {
				return tokens, nil
			}

			return exprToken(tokens[0], &BoolOp{Op: op, Values: values, Start: values[0].Pos()}), nil
		},
	)
}

func unary(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
	return exprToken(tokens[0], &UnaryOp{
		Op:      UnaryOperator(tokens[0].Val.op),
		Operand: tokens[1].Val.expr,
		Start:   tokens[0].Val.tok.Position,
	}), nil
}

func numberKind(literal string) ConstantKind {
	lower := strings.ToLower(literal)

	switch {
	case strings.HasSuffix(lower, "j"):
		return ComplexConstant
	case strings.HasPrefix(lower, "0x"), strings.HasPrefix(lower, "0o"), strings.HasPrefix(lower, "0b"):
		return IntConstant
	case strings.ContainsAny(lower, ".e"):
		return FloatConstant
	}

	return IntConstant
}

func concatStrings(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
	var (
		value strings.Builder
		kind  = StrConstant
	)

	for i, token := range tokens {
		lit, err := tokenizer.ParseStringLiteral(token.Val.tok.Value)
		if err != nil {
			return nil, &SyntaxError{Pos: token.Val.tok.Position, Message: err.Error(), Err: ErrSyntax}
		}

		partKind := StrConstant
		switch lit.Kind {
		case tokenizer.BytesString:
			partKind = BytesConstant
		case tokenizer.FormatString:
			partKind = FormatConstant
		}

		switch {
		case i == 0:
			kind = partKind
		case (kind == BytesConstant) != (partKind == BytesConstant):
			return nil, syntaxError(token.Val.tok.Position, "cannot mix bytes and nonbytes literals")
		case partKind == FormatConstant:
			kind = FormatConstant
		}

		value.WriteString(lit.Value)
	}

	return exprToken(tokens[0], &Constant{Kind: kind, Value: value.String(), Start: tokens[0].Val.tok.Position}), nil
}

func dictItems(value nodeParser) nodeParser {
	item := pc.Or(
		pc.Seq(doubleStar, value),
		pc.Seq(value, colon, value),
	)

	return pc.Seq(item, pc.ZeroOrMore("dict items", pc.Seq(comma, item)), pc.Optional(comma))
}

func buildBraces(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
	start := tokens[0].Val.tok.Position
	inner := tokens[1 : len(tokens)-1]

	if len(inner) == 0 {
		return exprToken(tokens[0], &Dict{Start: start}), nil
	}

	if !hasRaw(inner, tokenizer.COLON) && !hasRaw(inner, tokenizer.POWER) {
		return exprToken(tokens[0], &Set{Elts: exprs(inner), Start: start}), nil
	}

	dict := &Dict{Start: start}
	for i := 0; i < len(inner); i++ {
		switch {
		case inner[i].Val.isRaw(tokenizer.POWER):
			dict.Keys = append(dict.Keys, nil)
			dict.Values = append(dict.Values, inner[i+1].Val.expr)
			i++
		case inner[i].Val.expr != nil:
			dict.Keys = append(dict.Keys, inner[i].Val.expr)
			dict.Values = append(dict.Values, inner[i+2].Val.expr)
			i += 2
		}
	}

	return exprToken(tokens[0], dict), nil
}

func buildSlice(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
	if len(tokens) == 0 {
		return nil, pc.ErrNotMatch
	}

	if !hasRaw(tokens, tokenizer.COLON) {
		return tokens, nil
	}

	slice := &Slice{Start: tokens[0].Val.tok.Position}
	if tokens[0].Val.expr != nil {
		slice.Start = tokens[0].Val.expr.Pos()
	}

	colons := 0
	for _, token := range tokens {
		switch {
		case token.Val.isRaw(tokenizer.COLON):
			colons++
		case colons == 0:
			slice.Lower = token.Val.expr
		case colons == 1:
			slice.Upper = token.Val.expr
		default:
			slice.Step = token.Val.expr
		}
	}

	return exprToken(tokens[0], slice), nil
}

func buildExprStatement(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
	first := tokens[0].Val.expr
	// the statement starts at its first token, which may be a parenthesis
	start := tokens[0].Val.tok.Position

	if len(tokens) == 1 {
		return reduced(tokens[0], entity{stmt: &ExprStmt{Value: first, Start: start}}), nil
	}

	if op := tokens[1].Val.op; op != "" {
		if err := checkTarget(first); err != nil {
			return nil, err
		}

		aug := &AugAssign{
			Target: first,
			Op:     BinaryOperator(strings.TrimSuffix(op, "=")),
			Value:  tokens[2].Val.expr,
			Start:  start,
		}

		return reduced(tokens[0], entity{stmt: aug}), nil
	}

	values := exprs(tokens)
	for _, target := range values[:len(values)-1] {
		if err := checkTarget(target); err != nil {
			return nil, err
		}
	}

	assign := &Assign{Targets: values[:len(values)-1], Value: values[len(values)-1], Start: start}

	return reduced(tokens[0], entity{stmt: assign}), nil
}

func checkTarget(target Expr) error {
	switch t := target.(type) {
	case *Name, *Attribute, *Subscript, *Starred:
		return nil
	case *Tuple:
		for _, elt := range t.Elts {
			if err := checkTarget(elt); err != nil {
				return err
			}
		}

		return nil
	case *List:
		for _, elt := range t.Elts {
			if err := checkTarget(elt); err != nil {
				return err
			}
		}

		return nil
	}

	return syntaxError(target.Pos(), "cannot assign to %s", describe(target))
}

func describe(expr Expr) string {
	switch e := expr.(type) {
	case *Constant:
		return "literal"
	case *Call:
		return "function call"
	case *Compare:
		return "comparison"
	case *BinOp, *UnaryOp, *BoolOp:
		return "expression"
	default:
		return fmt.Sprintf("%T", e)
	}
}

// importStatement takes the whole statement; the names are kept for display only.
func importStatement(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
	if len(tokens) == 0 || !tokens[0].Val.isRaw(tokenizer.IMPORT, tokenizer.FROM) {
		return 0, nil, pc.ErrNotMatch
	}

	stmt := &Import{Start: tokens[0].Val.tok.Position}

	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			stmt.Names = append(stmt.Names, current.String())
			current.Reset()
		}
	}

	inFrom := tokens[0].Val.isRaw(tokenizer.FROM)
	for _, token := range tokens[1:] {
		tok := token.Val.tok

		switch tok.Type {
		case tokenizer.NAME, tokenizer.DOT, tokenizer.ELLIPSIS:
			current.WriteString(tok.Value)
		case tokenizer.MULTIPLY:
			current.WriteString("*")
		case tokenizer.AS:
			current.WriteString(" as ")
		case tokenizer.IMPORT:
			if !inFrom {
				return 0, nil, syntaxError(tok.Position, "unexpected 'import'")
			}

			stmt.From = current.String()
			current.Reset()
			inFrom = false
		case tokenizer.COMMA:
			flush()
		case tokenizer.OPENED_PARENS, tokenizer.CLOSED_PARENS:
		default:
			return 0, nil, syntaxError(tok.Position, "unexpected %q in import", tok.Value)
		}
	}

	flush()

	if inFrom || len(stmt.Names) == 0 {
		return 0, nil, syntaxError(tokens[0].Val.tok.Position, "incomplete import statement")
	}

	return len(tokens), reduced(tokens[0], entity{stmt: stmt}), nil
}
