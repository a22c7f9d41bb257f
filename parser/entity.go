package parser

import (
	"slices"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/shibukawa/pandasteps/tokenizer"
)

// entity is the value carried by parser combinator tokens. Raw tokens only
// have tok; reduced tokens carry one of the other fields.
type entity struct {
	tok     tokenizer.Token
	expr    Expr
	stmt    Stmt
	op      string
	trailer func(Expr) Expr
	keyword *Keyword
}

func (e entity) isRaw(types ...tokenizer.TokenType) bool {
	if e.expr != nil || e.stmt != nil || e.op != "" || e.trailer != nil || e.keyword != nil {
		return false
	}

	return len(types) == 0 || slices.Contains(types, e.tok.Type)
}

func toParserTokens(tokens []tokenizer.Token) []pc.Token[entity] {
	results := make([]pc.Token[entity], 0, len(tokens))

	for _, token := range tokens {
		results = append(results, pc.Token[entity]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  token.Position.Line,
				Col:   token.Position.Column,
				Index: token.Position.Offset,
			},
			Val: entity{tok: token},
			Raw: token.Value,
		})
	}

	return results
}

// primitive matches one raw token of the given types.
func primitive(types ...tokenizer.TokenType) pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		if len(tokens) > 0 && tokens[0].Val.isRaw(types...) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

// operator matches one raw token and reduces it to an operator entity.
func operator(types ...tokenizer.TokenType) pc.Parser[entity] {
	return pc.Trans(primitive(types...), func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
		return reduced(tokens[0], entity{tok: tokens[0].Val.tok, op: tokens[0].Val.tok.Value}), nil
	})
}

// phrase matches a fixed token sequence and reduces it to a single operator.
func phrase(op string, types ...tokenizer.TokenType) pc.Parser[entity] {
	parsers := make([]pc.Parser[entity], 0, len(types))
	for _, t := range types {
		parsers = append(parsers, primitive(t))
	}

	return pc.Trans(pc.Seq(parsers...), func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) ([]pc.Token[entity], error) {
		return reduced(tokens[0], entity{tok: tokens[0].Val.tok, op: op}), nil
	})
}

func reduced(from pc.Token[entity], val entity) []pc.Token[entity] {
	if val.tok.Type == tokenizer.EOF && val.tok.Value == "" {
		val.tok = from.Val.tok
	}

	return []pc.Token[entity]{{Type: "node", Pos: from.Pos, Val: val}}
}

func exprToken(from pc.Token[entity], expr Expr) []pc.Token[entity] {
	return reduced(from, entity{expr: expr})
}

// exprs collects reduced expressions in order, skipping punctuation.
func exprs(tokens []pc.Token[entity]) []Expr {
	var results []Expr

	for _, token := range tokens {
		if token.Val.expr != nil {
			results = append(results, token.Val.expr)
		}
	}

	return results
}

func hasRaw(tokens []pc.Token[entity], t tokenizer.TokenType) bool {
	return slices.ContainsFunc(tokens, func(token pc.Token[entity]) bool {
		return token.Val.isRaw(t)
	})
}
