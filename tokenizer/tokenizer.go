package tokenizer

import (
	"fmt"
	"iter"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// TokenIterator uses Go 1.24 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// PythonTokenizer splits Python source into tokens and returns an iterator
type PythonTokenizer struct {
	input   string
	options TokenizerOptions
}

// TokenizerOptions are options for the tokenizer
type TokenizerOptions struct {
	SkipComments bool
}

// NewPythonTokenizer creates a new PythonTokenizer.
// The input is normalized to NFC first so that visually identical column names
// produce identical tokens.
func NewPythonTokenizer(input string, options ...TokenizerOptions) *PythonTokenizer {
	opts := TokenizerOptions{}
	if len(options) > 0 {
		opts = options[0]
	}

	return &PythonTokenizer{
		input:   norm.NFC.String(input),
		options: opts,
	}
}

// Tokens returns an iterator of tokens.
// NEWLINE is only emitted at the end of a non-empty logical line; the sequence
// always finishes with EOF unless an error is yielded first.
func (t *PythonTokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		tokenizer := &tokenizer{
			input:  []rune(t.input),
			offset: -1,
			line:   1,
		}

		tokenizer.readChar()

		lastType := NEWLINE

		for {
			token, err := tokenizer.nextToken()
			if err != nil {
				yield(Token{}, err)
				return
			}

			if token.Type == EOF {
				yield(token, nil)
				return
			}

			if token.Type == NEWLINE && lastType == NEWLINE {
				continue
			}

			if t.options.SkipComments && token.Type == COMMENT {
				continue
			}

			if token.Type != COMMENT {
				lastType = token.Type
			}

			if !yield(token, nil) {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice
func (t *PythonTokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, 64)

	for token, err := range t.Tokens() {
		if err != nil {
			return tokens, err
		}

		tokens = append(tokens, token)
	}

	return tokens, nil
}

// Internal tokenizer implementation.
// line/column/offset always describe the position of current.
type tokenizer struct {
	input    []rune
	offset   int
	line     int
	column   int
	current  rune
	brackets []Token
}

func (t *tokenizer) nextToken() (Token, error) {
	for {
		switch {
		case t.current == 0:
			if len(t.brackets) > 0 {
				open := t.brackets[len(t.brackets)-1]
				return Token{}, fmt.Errorf("%w: '%s' at line %d, column %d is never closed", ErrUnbalancedBracket, open.Value, open.Position.Line, open.Position.Column)
			}

			return Token{Type: EOF, Position: t.pos()}, nil
		case t.current == '\n':
			pos := t.pos()
			t.readChar()

			// Newlines inside brackets do not end the logical line
			if len(t.brackets) > 0 {
				continue
			}

			return Token{Type: NEWLINE, Value: "\n", Position: pos}, nil
		case t.current == '\\' && (t.peekChar() == '\n' || (t.peekChar() == '\r' && t.peekAt(2) == '\n')):
			for t.current != '\n' {
				t.readChar()
			}

			t.readChar()
		case t.current == '#':
			return t.readComment(), nil
		case unicode.IsSpace(t.current):
			t.readChar()
		case isIdentStart(t.current):
			return t.readWord()
		case unicode.IsDigit(t.current) || (t.current == '.' && unicode.IsDigit(t.peekChar())):
			return t.readNumber()
		case t.current == '\'' || t.current == '"':
			return t.readString(t.pos(), "")
		default:
			return t.readOperator()
		}
	}
}

// readChar reads the next character
func (t *tokenizer) readChar() {
	if t.offset >= 0 && t.current == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}

	t.offset++
	if t.offset >= len(t.input) {
		t.current = 0
		return
	}

	t.current = t.input[t.offset]
}

// peekChar looks ahead at the next character
func (t *tokenizer) peekChar() rune {
	return t.peekAt(1)
}

func (t *tokenizer) peekAt(n int) rune {
	if t.offset+n >= len(t.input) {
		return 0
	}

	return t.input[t.offset+n]
}

func (t *tokenizer) lookingAt(s string) bool {
	i := 0
	for _, r := range s {
		if t.peekAt(i) != r {
			return false
		}
		i++
	}

	return true
}

func (t *tokenizer) pos() Position {
	return Position{Line: t.line, Column: t.column, Offset: t.offset}
}

// readComment reads a comment up to (not including) the end of line
func (t *tokenizer) readComment() Token {
	start := t.pos()

	var builder strings.Builder
	for t.current != 0 && t.current != '\n' {
		builder.WriteRune(t.current)
		t.readChar()
	}

	return Token{
		Type:     COMMENT,
		Value:    strings.TrimRight(builder.String(), "\r"),
		Position: start,
	}
}

// readWord reads identifiers, keywords and prefixed strings
func (t *tokenizer) readWord() (Token, error) {
	start := t.pos()

	var builder strings.Builder
	for isIdentPart(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	word := builder.String()
	if (t.current == '\'' || t.current == '"') && isStringPrefix(word) {
		return t.readString(start, word)
	}

	if tokenType, ok := keywords[word]; ok {
		return Token{Type: tokenType, Value: word, Position: start}, nil
	}

	return Token{Type: NAME, Value: word, Position: start}, nil
}

// readString reads string literals. The token value keeps prefix and quotes;
// use ParseStringLiteral to decode it.
func (t *tokenizer) readString(start Position, prefix string) (Token, error) {
	var builder strings.Builder
	builder.WriteString(prefix)

	quote := t.current
	triple := t.peekChar() == quote && t.peekAt(2) == quote

	if triple {
		for range 3 {
			builder.WriteRune(quote)
			t.readChar()
		}
	} else {
		builder.WriteRune(quote)
		t.readChar()
	}

	for {
		switch {
		case t.current == 0:
			return Token{}, fmt.Errorf("%w: %c at line %d, column %d", ErrUnterminatedString, quote, start.Line, start.Column)
		case t.current == '\n' && !triple:
			return Token{}, fmt.Errorf("%w: %c at line %d, column %d", ErrUnterminatedString, quote, start.Line, start.Column)
		case t.current == '\\':
			builder.WriteRune(t.current)
			t.readChar()

			if t.current != 0 {
				builder.WriteRune(t.current)
				t.readChar()
			}
		case t.current == quote && (!triple || (t.peekChar() == quote && t.peekAt(2) == quote)):
			count := 1
			if triple {
				count = 3
			}

			for range count {
				builder.WriteRune(quote)
				t.readChar()
			}

			return Token{Type: STRING, Value: builder.String(), Position: start}, nil
		default:
			builder.WriteRune(t.current)
			t.readChar()
		}
	}
}

// readNumber reads numeric literals
func (t *tokenizer) readNumber() (Token, error) {
	start := t.pos()

	var builder strings.Builder

	invalid := func() (Token, error) {
		return Token{}, fmt.Errorf("%w: %s at line %d, column %d", ErrInvalidNumber, builder.String(), start.Line, start.Column)
	}

	// Prefixed integers: 0x, 0o, 0b
	if t.current == '0' && strings.ContainsRune("xXoObB", t.peekChar()) {
		builder.WriteRune(t.current)
		t.readChar()

		base := unicode.ToLower(t.current)
		builder.WriteRune(t.current)
		t.readChar()

		digits := 0
		for isBaseDigit(t.current, base) || t.current == '_' {
			if t.current != '_' {
				digits++
			}

			builder.WriteRune(t.current)
			t.readChar()
		}

		if digits == 0 || isIdentPart(t.current) {
			return invalid()
		}

		return Token{Type: NUMBER, Value: builder.String(), Position: start}, nil
	}

	// Integer part
	t.readDigits(&builder)

	// Decimal point
	if t.current == '.' {
		builder.WriteRune(t.current)
		t.readChar()
		t.readDigits(&builder)
	}

	// Exponential part
	if t.current == 'e' || t.current == 'E' {
		builder.WriteRune(t.current)
		t.readChar()

		if t.current == '+' || t.current == '-' {
			builder.WriteRune(t.current)
			t.readChar()
		}

		if !unicode.IsDigit(t.current) {
			return invalid()
		}

		t.readDigits(&builder)
	}

	// Imaginary suffix
	if t.current == 'j' || t.current == 'J' {
		builder.WriteRune(t.current)
		t.readChar()
	}

	if isIdentPart(t.current) {
		builder.WriteRune(t.current)
		return invalid()
	}

	return Token{Type: NUMBER, Value: builder.String(), Position: start}, nil
}

func (t *tokenizer) readDigits(builder *strings.Builder) {
	for unicode.IsDigit(t.current) || (t.current == '_' && unicode.IsDigit(t.peekChar())) {
		builder.WriteRune(t.current)
		t.readChar()
	}
}

// operators is ordered longest first so that lookahead picks the longest match
var operators = []struct {
	text      string
	tokenType TokenType
}{
	{"**=", AUG_ASSIGN}, {"//=", AUG_ASSIGN}, {">>=", AUG_ASSIGN}, {"<<=", AUG_ASSIGN}, {"...", ELLIPSIS},
	{"**", POWER}, {"//", FLOOR_DIVIDE}, {"<<", LEFT_SHIFT}, {">>", RIGHT_SHIFT},
	{"<=", LESS_EQUAL}, {">=", GREATER_EQUAL}, {"==", EQUAL}, {"!=", NOT_EQUAL},
	{"+=", AUG_ASSIGN}, {"-=", AUG_ASSIGN}, {"*=", AUG_ASSIGN}, {"/=", AUG_ASSIGN}, {"%=", AUG_ASSIGN},
	{"&=", AUG_ASSIGN}, {"|=", AUG_ASSIGN}, {"^=", AUG_ASSIGN}, {"@=", AUG_ASSIGN},
	{":=", WALRUS}, {"->", ARROW},
	{"+", PLUS}, {"-", MINUS}, {"*", MULTIPLY}, {"/", DIVIDE}, {"%", MODULO}, {"@", MATMUL},
	{"&", AMPERSAND}, {"|", PIPE}, {"^", CARET}, {"~", TILDE}, {"<", LESS_THAN}, {">", GREATER_THAN},
	{"(", OPENED_PARENS}, {")", CLOSED_PARENS}, {"[", OPENED_BRACKET}, {"]", CLOSED_BRACKET},
	{"{", OPENED_BRACE}, {"}", CLOSED_BRACE}, {",", COMMA}, {":", COLON}, {";", SEMICOLON},
	{".", DOT}, {"=", ASSIGN},
}

var closingBrackets = map[TokenType]TokenType{
	CLOSED_PARENS:  OPENED_PARENS,
	CLOSED_BRACKET: OPENED_BRACKET,
	CLOSED_BRACE:   OPENED_BRACE,
}

// readOperator reads operators, brackets and punctuation
func (t *tokenizer) readOperator() (Token, error) {
	start := t.pos()

	for _, op := range operators {
		if !t.lookingAt(op.text) {
			continue
		}

		for range len(op.text) {
			t.readChar()
		}

		token := Token{Type: op.tokenType, Value: op.text, Position: start}

		switch op.tokenType {
		case OPENED_PARENS, OPENED_BRACKET, OPENED_BRACE:
			t.brackets = append(t.brackets, token)
		case CLOSED_PARENS, CLOSED_BRACKET, CLOSED_BRACE:
			if len(t.brackets) == 0 || t.brackets[len(t.brackets)-1].Type != closingBrackets[op.tokenType] {
				return Token{}, fmt.Errorf("%w: unexpected '%s' at line %d, column %d", ErrUnbalancedBracket, op.text, start.Line, start.Column)
			}

			t.brackets = t.brackets[:len(t.brackets)-1]
		}

		return token, nil
	}

	return Token{}, fmt.Errorf("%w: '%c' at line %d, column %d", ErrUnexpectedCharacter, t.current, start.Line, start.Column)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isStringPrefix(word string) bool {
	switch strings.ToLower(word) {
	case "r", "u", "b", "f", "br", "rb", "fr", "rf":
		return true
	}

	return false
}

func isBaseDigit(r rune, base rune) bool {
	switch base {
	case 'x':
		return unicode.IsDigit(r) || ('a' <= unicode.ToLower(r) && unicode.ToLower(r) <= 'f')
	case 'o':
		return '0' <= r && r <= '7'
	case 'b':
		return r == '0' || r == '1'
	}

	return false
}
