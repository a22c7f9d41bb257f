// Package utterance renders TCR trees as ordered natural-language steps.
package utterance

import (
	"fmt"
	"strings"

	"github.com/shibukawa/pandasteps/tcr"
)

const rowCountStep = "return number of rows"

var comparePhrases = map[string]string{
	">":   "greater than",
	">=":  "greater than or equal to",
	"<":   "less than",
	"<=":  "less than or equal to",
	"==":  "equal to",
	"!=":  "not equal to",
	"and": "and",
	"or":  "or",
}

var boolPhrases = map[string]string{
	"and": "and",
	"or":  "or",
}

// Generator renders TCR nodes. It holds no per-call state and is safe for
// concurrent use as long as its registry is not modified.
type Generator struct {
	methods *Registry
}

// NewGenerator creates a generator that resolves method calls through
// methods. A nil registry means DefaultRegistry.
func NewGenerator(methods *Registry) *Generator {
	if methods == nil {
		methods = DefaultRegistry()
	}

	return &Generator{methods: methods}
}

var defaultGenerator = NewGenerator(nil)

// Render renders node with the built-in method templates.
func Render(node tcr.Node) ([]string, error) {
	return defaultGenerator.Render(node)
}

// Render returns the steps of node in select mode.
func (g *Generator) Render(node tcr.Node) ([]string, error) {
	return g.render(node, SelectMode)
}

func (g *Generator) render(node tcr.Node, mode Mode) ([]string, error) {
	steps, err := g.steps(node, mode)
	if err != nil {
		return nil, err
	}

	return finalize(steps), nil
}

// headline is the first step of node. Composite phrases only ever quote a
// child's headline; the rest of its steps are dropped.
func (g *Generator) headline(node tcr.Node, mode Mode) (string, error) {
	steps, err := g.render(node, mode)
	if err != nil {
		return "", err
	}

	if len(steps) == 0 {
		return "", fmt.Errorf("%w: %s renders no step to quote", ErrMalformedTree, describe(node))
	}

	return steps[0], nil
}

func (g *Generator) steps(node tcr.Node, mode Mode) ([]string, error) {
	switch n := node.(type) {
	case nil, *tcr.Unknown, *tcr.Variable:
		return nil, nil

	case *tcr.String:
		return []string{quote(n.Value)}, nil

	case *tcr.Number:
		return []string{n.Value}, nil

	case *tcr.ColumnAccess:
		steps, err := g.render(n.Base, mode)
		if err != nil {
			return nil, err
		}

		return append(steps, fmt.Sprintf("%s column %s", mode.verb(), quote(n.Column.Text()))), nil

	case *tcr.Attribute:
		return g.render(n.Base, mode)

	case *tcr.FunctionCall:
		return g.call(n, mode)

	case *tcr.Assign:
		target, err := g.headline(n.Target, CreateMode)
		if err != nil {
			return nil, fmt.Errorf("assignment target: %w", err)
		}

		value, err := g.render(n.Value, SelectMode)
		if err != nil {
			return nil, err
		}

		return append([]string{target}, value...), nil

	case *tcr.ArithmeticOp:
		left, right, err := g.headlines(n.Left, n.Right)
		if err != nil {
			return nil, err
		}

		return []string{fmt.Sprintf("%s %s %s", left, n.Op, right)}, nil

	case *tcr.Compare:
		left, right, err := g.headlines(n.Left, n.Right)
		if err != nil {
			return nil, err
		}

		return []string{fmt.Sprintf("%s %s %s", left, phrase(comparePhrases, n.Op), right)}, nil

	case *tcr.BoolOp:
		operands := make([]string, 0, len(n.Operands))
		for _, operand := range n.Operands {
			text, err := g.headline(operand, mode)
			if err != nil {
				return nil, err
			}

			operands = append(operands, text)
		}

		return []string{strings.Join(operands, " "+phrase(boolPhrases, n.Op)+" ")}, nil

	case *tcr.SelectRows:
		column, err := g.headline(n.Base, mode)
		if err != nil {
			return nil, err
		}

		condition, err := g.headline(n.Condition, mode)
		if err != nil {
			return nil, err
		}

		return []string{fmt.Sprintf("%s rows where %s %s %s", mode.verb(), column, n.Op, condition)}, nil

	case *tcr.Shape:
		// df.shape[0] wraps df.shape, which already ends with the row count
		if inner, ok := n.Base.(*tcr.Shape); ok {
			return g.render(inner, mode)
		}

		// a bare table (df.shape) has no step to quote
		base, err := g.render(n.Base, mode)
		if err != nil {
			return nil, err
		}

		if len(base) == 0 {
			return []string{rowCountStep}, nil
		}

		return []string{base[0], rowCountStep}, nil
	}

	return nil, fmt.Errorf("%w: unexpected node %T", ErrMalformedTree, node)
}

// headlines renders both operands of an arithmetic or comparison phrase without verbs.
func (g *Generator) headlines(left, right tcr.Node) (string, string, error) {
	l, err := g.headline(left, BareMode)
	if err != nil {
		return "", "", err
	}

	r, err := g.headline(right, BareMode)
	if err != nil {
		return "", "", err
	}

	return l, r, nil
}

func (g *Generator) call(n *tcr.FunctionCall, mode Mode) ([]string, error) {
	callee, ok := n.Callee.(*tcr.Attribute)
	if !ok {
		return nil, fmt.Errorf("%w: cannot call %s, only methods are supported", ErrMalformedTree, describe(n.Callee))
	}

	template, ok := g.methods.Lookup(callee.Name)
	if !ok {
		return nil, nil
	}

	return template(&MethodCall{
		Method:    callee.Name,
		Callee:    callee,
		Args:      n.Args,
		Mode:      mode,
		generator: g,
	})
}

// finalize drops the "str" accessor placeholder and spells out "len".
func finalize(steps []string) []string {
	results := steps[:0:0]

	for _, step := range steps {
		switch step {
		case "str":
		case "len":
			results = append(results, "get length")
		default:
			results = append(results, step)
		}
	}

	return results
}

func phrase(table map[string]string, op string) string {
	if text, ok := table[op]; ok {
		return text
	}

	return tcr.UnknownOperation
}

func quote(text string) string {
	return "“" + text + "”"
}

func describe(node tcr.Node) string {
	if node == nil {
		return "empty tree"
	}

	return node.String()
}
