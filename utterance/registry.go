package utterance

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shibukawa/pandasteps/tcr"
)

// Template renders one method call. Returning no steps drops the whole call.
type Template func(call *MethodCall) ([]string, error)

// MethodCall is what a Template sees of a call such as
// df['a'].str.count('x'): the method name, the callee attribute and the
// arguments, plus helpers that render them in the caller's mode.
type MethodCall struct {
	Method string
	Callee *tcr.Attribute
	Args   []tcr.Node
	Mode   Mode

	generator *Generator
}

// CalleeSteps renders the callee, which yields the steps of its base.
func (c *MethodCall) CalleeSteps() ([]string, error) {
	return c.generator.render(c.Callee, c.Mode)
}

// CalleeHeadline is the first step of the callee.
func (c *MethodCall) CalleeHeadline() (string, error) {
	return c.generator.headline(c.Callee, c.Mode)
}

// Arg returns the text of argument i: the payload of a string, number or
// variable, otherwise the first step of its rendering.
func (c *MethodCall) Arg(i int) (string, error) {
	if i >= len(c.Args) {
		return "", fmt.Errorf("%w: %s() needs argument %d, got %d", ErrMalformedTree, c.Method, i+1, len(c.Args))
	}

	switch arg := c.Args[i].(type) {
	case *tcr.String:
		return arg.Value, nil
	case *tcr.Number:
		return arg.Value, nil
	case *tcr.Variable:
		return arg.Name, nil
	}

	return c.generator.headline(c.Args[i], c.Mode)
}

// ArgTexts returns Arg for every argument.
func (c *MethodCall) ArgTexts() ([]string, error) {
	texts := make([]string, 0, len(c.Args))

	for i := range c.Args {
		text, err := c.Arg(i)
		if err != nil {
			return nil, err
		}

		texts = append(texts, text)
	}

	return texts, nil
}

// Registry maps method names to templates. It is not safe for concurrent
// Register calls; once populated it is read-only.
type Registry struct {
	templates map[string]Template
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: map[string]Template{}}
}

// DefaultRegistry returns a fresh registry holding count, split and len.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("count", countTemplate)
	r.Register("split", splitTemplate)
	r.Register("len", lenTemplate)

	return r
}

// Register adds or replaces the template for name.
func (r *Registry) Register(name string, template Template) {
	r.templates[name] = template
}

// Lookup returns the template for name.
func (r *Registry) Lookup(name string) (Template, bool) {
	template, ok := r.templates[name]
	return template, ok
}

// Names lists the registered methods in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.templates))
}

// Clone copies the registry so it can be extended independently.
func (r *Registry) Clone() *Registry {
	return &Registry{templates: maps.Clone(r.templates)}
}

// count("x") reads as one phrase about its callee; count() is a step of its own.
func countTemplate(call *MethodCall) ([]string, error) {
	if len(call.Args) == 0 {
		steps, err := call.CalleeSteps()
		if err != nil {
			return nil, err
		}

		return append(steps, "count"), nil
	}

	arg, err := call.Arg(0)
	if err != nil {
		return nil, err
	}

	headline, err := call.CalleeHeadline()
	if err != nil {
		return nil, err
	}

	return []string{fmt.Sprintf("count %s from %s", quote(arg), headline)}, nil
}

func splitTemplate(call *MethodCall) ([]string, error) {
	steps, err := call.CalleeSteps()
	if err != nil {
		return nil, err
	}

	arg, err := call.Arg(0)
	if err != nil {
		return nil, err
	}

	return append(steps, "split the text on "+quote(arg)), nil
}

func lenTemplate(call *MethodCall) ([]string, error) {
	steps, err := call.CalleeSteps()
	if err != nil {
		return nil, err
	}

	return append(steps, "get length"), nil
}
