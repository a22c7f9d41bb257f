package tokenizer

import "errors"

// Sentinel errors
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrInvalidNumber       = errors.New("invalid number format")
	ErrUnbalancedBracket   = errors.New("unbalanced bracket")
	ErrInvalidEscape       = errors.New("invalid escape sequence")
)

// TokenType represents the type of a token
type TokenType int

const (
	// Basic tokens
	EOF     TokenType = iota
	NEWLINE           // end of a logical line
	NAME              // identifiers
	NUMBER            // numeric literals
	STRING            // string literals including prefix and quotes
	COMMENT           // # comment

	// Brackets and punctuation
	OPENED_PARENS   // (
	CLOSED_PARENS   // )
	OPENED_BRACKET  // [
	CLOSED_BRACKET  // ]
	OPENED_BRACE    // {
	CLOSED_BRACE    // }
	COMMA           // ,
	COLON           // :
	SEMICOLON       // ;
	DOT             // .
	ASSIGN          // =
	AUG_ASSIGN      // += -= *= /= //= %= **= &= |= ^= <<= >>= @=
	WALRUS          // :=
	ARROW           // ->
	ELLIPSIS        // ...

	// Arithmetic and bitwise operators
	PLUS         // +
	MINUS        // -
	MULTIPLY     // *
	DIVIDE       // /
	FLOOR_DIVIDE // //
	MODULO       // %
	POWER        // **
	MATMUL       // @
	AMPERSAND    // &
	PIPE         // |
	CARET        // ^
	TILDE        // ~
	LEFT_SHIFT   // <<
	RIGHT_SHIFT  // >>

	// Comparison operators
	EQUAL         // ==
	NOT_EQUAL     // !=
	LESS_THAN     // <
	GREATER_THAN  // >
	LESS_EQUAL    // <=
	GREATER_EQUAL // >=

	// Keywords
	AND    // and
	OR     // or
	NOT    // not
	IN     // in
	IS     // is
	IF     // if
	ELSE   // else
	TRUE   // True
	FALSE  // False
	NONE   // None
	IMPORT // import
	FROM   // from
	AS     // as
	PASS   // pass
	LAMBDA // lambda
	FOR    // for

	// RESERVED is any other keyword of the language; none of them is supported
	RESERVED
)

var tokenTypeNames = map[TokenType]string{
	EOF:             "EOF",
	NEWLINE:         "NEWLINE",
	NAME:            "NAME",
	NUMBER:          "NUMBER",
	STRING:          "STRING",
	COMMENT:         "COMMENT",
	OPENED_PARENS:   "OPENED_PARENS",
	CLOSED_PARENS:   "CLOSED_PARENS",
	OPENED_BRACKET:  "OPENED_BRACKET",
	CLOSED_BRACKET:  "CLOSED_BRACKET",
	OPENED_BRACE:    "OPENED_BRACE",
	CLOSED_BRACE:    "CLOSED_BRACE",
	COMMA:           "COMMA",
	COLON:           "COLON",
	SEMICOLON:       "SEMICOLON",
	DOT:             "DOT",
	ASSIGN:          "ASSIGN",
	AUG_ASSIGN:      "AUG_ASSIGN",
	WALRUS:          "WALRUS",
	ARROW:           "ARROW",
	ELLIPSIS:        "ELLIPSIS",
	PLUS:            "PLUS",
	MINUS:           "MINUS",
	MULTIPLY:        "MULTIPLY",
	DIVIDE:          "DIVIDE",
	FLOOR_DIVIDE:    "FLOOR_DIVIDE",
	MODULO:          "MODULO",
	POWER:           "POWER",
	MATMUL:          "MATMUL",
	AMPERSAND:       "AMPERSAND",
	PIPE:            "PIPE",
	CARET:           "CARET",
	TILDE:           "TILDE",
	LEFT_SHIFT:      "LEFT_SHIFT",
	RIGHT_SHIFT:     "RIGHT_SHIFT",
	EQUAL:           "EQUAL",
	NOT_EQUAL:       "NOT_EQUAL",
	LESS_THAN:       "LESS_THAN",
	GREATER_THAN:    "GREATER_THAN",
	LESS_EQUAL:      "LESS_EQUAL",
	GREATER_EQUAL:   "GREATER_EQUAL",
	AND:             "AND",
	OR:              "OR",
	NOT:             "NOT",
	IN:              "IN",
	IS:              "IS",
	IF:              "IF",
	ELSE:            "ELSE",
	TRUE:            "TRUE",
	FALSE:           "FALSE",
	NONE:            "NONE",
	IMPORT:          "IMPORT",
	FROM:            "FROM",
	AS:              "AS",
	PASS:            "PASS",
	LAMBDA:          "LAMBDA",
	FOR:             "FOR",
	RESERVED:        "RESERVED",
}

// String returns the string representation of TokenType
func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// keywords maps source keywords to their token type. Keywords are case sensitive.
var keywords = map[string]TokenType{
	"and":    AND,
	"or":     OR,
	"not":    NOT,
	"in":     IN,
	"is":     IS,
	"if":     IF,
	"else":   ELSE,
	"True":   TRUE,
	"False":  FALSE,
	"None":   NONE,
	"import": IMPORT,
	"from":   FROM,
	"as":     AS,
	"pass":   PASS,
	"lambda": LAMBDA,
	"for":    FOR,

	"assert":   RESERVED,
	"async":    RESERVED,
	"await":    RESERVED,
	"break":    RESERVED,
	"class":    RESERVED,
	"continue": RESERVED,
	"def":      RESERVED,
	"del":      RESERVED,
	"elif":     RESERVED,
	"except":   RESERVED,
	"finally":  RESERVED,
	"global":   RESERVED,
	"nonlocal": RESERVED,
	"raise":    RESERVED,
	"return":   RESERVED,
	"try":      RESERVED,
	"while":    RESERVED,
	"with":     RESERVED,
	"yield":    RESERVED,
}

// Position represents a position in the source code
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}

// IsKeyword reports whether the token is a language keyword
func (t Token) IsKeyword() bool {
	return t.Type >= AND && t.Type <= RESERVED
}
