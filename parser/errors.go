package parser

import (
	"errors"
	"fmt"

	"github.com/shibukawa/pandasteps/tokenizer"
)

// Sentinel errors
var (
	ErrSyntax            = errors.New("invalid syntax")
	ErrUnsupportedSyntax = errors.New("unsupported syntax")
)

// SyntaxError reports where parsing stopped.
type SyntaxError struct {
	Pos     tokenizer.Position
	Message string
	Err     error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at line %d, column %d: %s", e.Err, e.Pos.Line, e.Pos.Column, e.Message)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func syntaxError(pos tokenizer.Position, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Message: fmt.Sprintf(format, args...), Err: ErrSyntax}
}

func unsupported(pos tokenizer.Position, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Message: fmt.Sprintf(format, args...), Err: ErrUnsupportedSyntax}
}
