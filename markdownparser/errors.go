package markdownparser

import "errors"

// Sentinel errors
var (
	ErrInvalidFrontMatter = errors.New("invalid front matter")
	ErrEmptyContent       = errors.New("empty content")
)
