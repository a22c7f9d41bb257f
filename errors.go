package pandasteps

import "errors"

// Common errors used throughout the pandasteps package
var (
	// ErrConfigValidation is returned when configuration validation fails
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrInvalidOutputFormat is returned for an output format that no formatter handles
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrEmptyContent indicates the source or Markdown document had nothing to explain.
	ErrEmptyContent = errors.New("empty content")
	// ErrNoCodeBlock indicates a Markdown document without any fenced block in a configured language.
	ErrNoCodeBlock = errors.New("no code block found")
)
