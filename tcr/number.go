package tcr

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidNumber is returned by FormatNumber for text that is not a real number literal
var ErrInvalidNumber = errors.New("invalid number literal")

// FormatNumber canonicalises a numeric literal the way the host language
// prints the value: integers in decimal whatever base they were written in,
// floats in shortest round-trip form with a trailing ".0" when integral and
// exponent notation outside [1e-4, 1e16).
func FormatNumber(literal string) (string, error) {
	text := strings.ReplaceAll(literal, "_", "")
	lower := strings.ToLower(text)

	if strings.HasSuffix(lower, "j") {
		return "", fmt.Errorf("%w: complex %s", ErrInvalidNumber, literal)
	}

	if isIntegerLiteral(lower) {
		base := 10
		if len(lower) > 1 && lower[0] == '0' && strings.ContainsRune("xob", rune(lower[1])) {
			base = 0
		}

		value, ok := new(big.Int).SetString(lower, base)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrInvalidNumber, literal)
		}

		return decimal.NewFromBigInt(value, 0).String(), nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return "", fmt.Errorf("%w: %s", ErrInvalidNumber, literal)
	}

	return formatFloat(f), nil
}

func isIntegerLiteral(lower string) bool {
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		return true
	}

	return !strings.ContainsAny(lower, ".e")
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}

		return "0.0"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)

	exponent, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err != nil {
		return sci
	}

	if exponent < -4 || exponent >= 16 {
		return sci
	}

	text := decimal.NewFromFloat(f).String()
	if !strings.Contains(text, ".") {
		text += ".0"
	}

	return text
}
