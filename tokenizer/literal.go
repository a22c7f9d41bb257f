package tokenizer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// StringKind classifies a string literal by its prefix
type StringKind int

const (
	TextString   StringKind = iota // '...', u'...', r'...'
	BytesString                    // b'...'
	FormatString                   // f'...'
)

// StringLiteral is a decoded STRING token
type StringLiteral struct {
	Value string
	Kind  StringKind
	Raw   bool
}

// ParseStringLiteral decodes the value of a STRING token.
// Escape sequences follow the host language: unknown escapes keep their backslash.
func ParseStringLiteral(text string) (StringLiteral, error) {
	quoteAt := strings.IndexAny(text, `'"`)
	if quoteAt < 0 || len(text) < quoteAt+2 {
		return StringLiteral{}, fmt.Errorf("%w: %s", ErrUnterminatedString, text)
	}

	prefix := strings.ToLower(text[:quoteAt])
	body := text[quoteAt:]

	quoteLen := 1
	if len(body) >= 6 && (strings.HasPrefix(body, `"""`) || strings.HasPrefix(body, `'''`)) {
		quoteLen = 3
	}

	if len(body) < quoteLen*2 || body[len(body)-quoteLen:] != body[:quoteLen] {
		return StringLiteral{}, fmt.Errorf("%w: %s", ErrUnterminatedString, text)
	}

	body = body[quoteLen : len(body)-quoteLen]

	lit := StringLiteral{Raw: strings.Contains(prefix, "r")}

	switch {
	case strings.Contains(prefix, "b"):
		lit.Kind = BytesString
	case strings.Contains(prefix, "f"):
		lit.Kind = FormatString
	}

	if lit.Raw {
		lit.Value = body
		return lit, nil
	}

	value, err := unescape(body, lit.Kind != BytesString)
	if err != nil {
		return StringLiteral{}, err
	}

	lit.Value = value

	return lit, nil
}

func unescape(body string, unicodeEscapes bool) (string, error) {
	if !strings.Contains(body, `\`) {
		return body, nil
	}

	var builder strings.Builder

	for i := 0; i < len(body); {
		r, size := utf8.DecodeRuneInString(body[i:])
		if r != '\\' || i+size >= len(body) {
			builder.WriteRune(r)
			i += size
			continue
		}

		i += size
		c := body[i]

		switch c {
		case '\n':
			i++
		case '\r':
			i++
			if i < len(body) && body[i] == '\n' {
				i++
			}
		case '\\', '\'', '"':
			builder.WriteByte(c)
			i++
		case 'a':
			builder.WriteByte('\a')
			i++
		case 'b':
			builder.WriteByte('\b')
			i++
		case 'f':
			builder.WriteByte('\f')
			i++
		case 'n':
			builder.WriteByte('\n')
			i++
		case 'r':
			builder.WriteByte('\r')
			i++
		case 't':
			builder.WriteByte('\t')
			i++
		case 'v':
			builder.WriteByte('\v')
			i++
		case '0', '1', '2', '3', '4', '5', '6', '7':
			end := i + 1
			for end < len(body) && end < i+3 && body[end] >= '0' && body[end] <= '7' {
				end++
			}

			code, _ := strconv.ParseUint(body[i:end], 8, 32)
			builder.WriteRune(rune(code))
			i = end
		case 'x', 'u', 'U':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[c]
			if c != 'x' && !unicodeEscapes {
				builder.WriteByte('\\')
				builder.WriteByte(c)
				i++
				continue
			}

			if i+1+width > len(body) {
				return "", fmt.Errorf(`%w: \%c needs %d hex digits`, ErrInvalidEscape, c, width)
			}

			code, err := strconv.ParseUint(body[i+1:i+1+width], 16, 32)
			if err != nil {
				return "", fmt.Errorf(`%w: \%c%s`, ErrInvalidEscape, c, body[i+1:i+1+width])
			}

			builder.WriteRune(rune(code))
			i += 1 + width
		default:
			builder.WriteByte('\\')
		}
	}

	return builder.String(), nil
}
