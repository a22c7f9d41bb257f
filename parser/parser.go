package parser

import (
	"errors"
	"fmt"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/shibukawa/pandasteps/tokenizer"
)

// Parse parses a sequence of simple statements.
//
// Statements are separated by newlines or semicolons. Compound statements,
// lambdas, comprehensions and other constructs that never appear in a
// one-line data-frame expression are rejected with ErrUnsupportedSyntax.
func Parse(src string) (*Module, error) {
	tokens, err := tokenizer.NewPythonTokenizer(src, tokenizer.TokenizerOptions{SkipComments: true}).AllTokens()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	module := &Module{}

	for _, group := range splitStatements(tokens) {
		stmt, err := parseStatement(group)
		if err != nil {
			return nil, err
		}

		module.Body = append(module.Body, stmt)
	}

	return module, nil
}

// ParseExpr parses source holding exactly one expression.
func ParseExpr(src string) (Expr, error) {
	module, err := Parse(src)
	if err != nil {
		return nil, err
	}

	if len(module.Body) != 1 {
		return nil, fmt.Errorf("%w: expected one expression, got %d statements", ErrSyntax, len(module.Body))
	}

	stmt, ok := module.Body[0].(*ExprStmt)
	if !ok {
		return nil, syntaxError(module.Body[0].Pos(), "expected an expression")
	}

	return stmt.Value, nil
}

func splitStatements(tokens []tokenizer.Token) [][]tokenizer.Token {
	var (
		groups  [][]tokenizer.Token
		current []tokenizer.Token
	)

	for _, token := range tokens {
		switch token.Type {
		case tokenizer.NEWLINE, tokenizer.SEMICOLON, tokenizer.EOF:
			if len(current) > 0 {
				groups = append(groups, current)
				current = nil
			}
		case tokenizer.COMMENT:
		default:
			current = append(current, token)
		}
	}

	return groups
}

func parseStatement(tokens []tokenizer.Token) (Stmt, error) {
	if err := checkSupported(tokens); err != nil {
		return nil, err
	}

	pctx := pc.NewParseContext[entity]()

	consumed, parsed, err := statement(pctx, toParserTokens(tokens))
	if err != nil {
		if errors.Is(err, pc.ErrNotMatch) {
			return nil, syntaxError(tokens[0].Position, "unexpected %s", quote(tokens[0]))
		}

		var syntaxErr *SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, syntaxErr
		}

		return nil, &SyntaxError{Pos: tokens[0].Position, Message: err.Error(), Err: ErrSyntax}
	}

	if consumed < len(tokens) {
		return nil, syntaxError(tokens[consumed].Position, "unexpected %s", quote(tokens[consumed]))
	}

	if len(parsed) != 1 || parsed[0].Val.stmt == nil {
		return nil, syntaxError(tokens[0].Position, "invalid statement")
	}

	return parsed[0].Val.stmt, nil
}

func checkSupported(tokens []tokenizer.Token) error {
	first := tokens[0]

	switch first.Type {
	case tokenizer.RESERVED, tokenizer.IF, tokenizer.ELSE, tokenizer.FOR:
		return unsupported(first.Position, "'%s' statements", first.Value)
	}

	for _, token := range tokens {
		switch token.Type {
		case tokenizer.LAMBDA:
			return unsupported(token.Position, "lambda expressions")
		case tokenizer.FOR:
			return unsupported(token.Position, "comprehensions")
		case tokenizer.WALRUS:
			return unsupported(token.Position, "assignment expressions")
		case tokenizer.RESERVED:
			return unsupported(token.Position, "'%s'", token.Value)
		}
	}

	if last := tokens[len(tokens)-1]; last.Type == tokenizer.COLON {
		return unsupported(first.Position, "compound statements")
	}

	return nil
}

func quote(token tokenizer.Token) string {
	if token.Type == tokenizer.EOF {
		return "end of input"
	}

	return fmt.Sprintf("'%s'", token.Value)
}
