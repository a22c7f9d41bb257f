package utterance

import "errors"

// ErrMalformedTree is returned when a tree breaks an assumption the templates
// rely on, such as an assignment target that renders no step.
var ErrMalformedTree = errors.New("malformed tree")
