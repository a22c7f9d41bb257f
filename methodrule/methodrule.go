// Package methodrule turns configured method rules into utterance templates.
//
// A rule is a CEL guard plus a step template:
//
//	methods:
//	  mean:
//	    - step: "calculate the average"
//	  round:
//	    - when: "argc > 0"
//	      step: "round to {arg} decimal places"
//	    - step: "round to whole numbers"
//
// The guard sees `method` (string), `argc` (int), `args` (list of string)
// and `mode` (string). Rules are tried in order; the first match renders.
// When none match, the template that was registered before (a built-in,
// usually) takes over.
package methodrule

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/shibukawa/pandasteps/utterance"
)

// Sentinel errors
var (
	ErrInvalidRule    = errors.New("invalid method rule")
	ErrRuleEvaluation = errors.New("method rule evaluation failed")
)

// Rule is one configured rendering of a method.
type Rule struct {
	When   string `yaml:"when,omitempty" json:"when,omitempty"`
	Step   string `yaml:"step" json:"step"`
	Inline bool   `yaml:"inline,omitempty" json:"inline,omitempty"`
}

var placeholderPattern = regexp.MustCompile(`\{([a-z]+)\}`)

var placeholders = map[string]bool{
	"arg":    true,
	"args":   true,
	"callee": true,
	"method": true,
}

type compiledRule struct {
	Rule
	program cel.Program
}

// Method is the compiled rule list of one method name.
type Method struct {
	Name  string
	rules []compiledRule
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("method", cel.StringType),
		cel.Variable("argc", cel.IntType),
		cel.Variable("args", cel.ListType(cel.StringType)),
		cel.Variable("mode", cel.StringType),
	)
}

// Compile checks and compiles the rules of one method.
func Compile(name string, rules []Rule) (*Method, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: method name is empty", ErrInvalidRule)
	}

	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: method '%s' has no rules", ErrInvalidRule, name)
	}

	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	method := &Method{Name: name}

	for i, rule := range rules {
		if strings.TrimSpace(rule.Step) == "" {
			return nil, fmt.Errorf("%w: %s rule %d: step is empty", ErrInvalidRule, name, i+1)
		}

		for _, match := range placeholderPattern.FindAllStringSubmatch(rule.Step, -1) {
			if !placeholders[match[1]] {
				return nil, fmt.Errorf("%w: %s rule %d: unknown placeholder %s", ErrInvalidRule, name, i+1, match[0])
			}
		}

		compiled := compiledRule{Rule: rule}

		if strings.TrimSpace(rule.When) != "" {
			ast, issues := env.Compile(rule.When)
			if issues != nil && issues.Err() != nil {
				return nil, fmt.Errorf("%w: %s rule %d: %w", ErrInvalidRule, name, i+1, issues.Err())
			}

			if outputType := ast.OutputType().String(); outputType != "bool" {
				return nil, fmt.Errorf("%w: %s rule %d: condition must be bool, got %s", ErrInvalidRule, name, i+1, outputType)
			}

			program, err := env.Program(ast)
			if err != nil {
				return nil, fmt.Errorf("failed to create CEL program: %w", err)
			}

			compiled.program = program
		}

		method.rules = append(method.rules, compiled)
	}

	return method, nil
}

// Template wraps the method as an utterance template. fallback may be nil.
func (m *Method) Template(fallback utterance.Template) utterance.Template {
	return func(call *utterance.MethodCall) ([]string, error) {
		args := make([]string, 0, len(call.Args))
		for i := range call.Args {
			// an argument without any step still counts, it just reads as empty
			text, err := call.Arg(i)
			if err != nil && !errors.Is(err, utterance.ErrMalformedTree) {
				return nil, err
			}

			args = append(args, text)
		}

		vars := map[string]any{
			"method": call.Method,
			"argc":   int64(len(args)),
			"args":   args,
			"mode":   call.Mode.String(),
		}

		for i, rule := range m.rules {
			matched, err := rule.matches(vars)
			if err != nil {
				return nil, fmt.Errorf("%w: %s rule %d: %w", ErrRuleEvaluation, m.Name, i+1, err)
			}

			if matched {
				return rule.render(call, args)
			}
		}

		if fallback != nil {
			return fallback(call)
		}

		return nil, nil
	}
}

func (r compiledRule) matches(vars map[string]any) (bool, error) {
	if r.program == nil {
		return true, nil
	}

	result, _, err := r.program.Eval(vars)
	if err != nil {
		return false, err
	}

	matched, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("condition returned %T", result.Value())
	}

	return matched, nil
}

func (r compiledRule) render(call *utterance.MethodCall, args []string) ([]string, error) {
	var callee string

	if strings.Contains(r.Step, "{callee}") {
		headline, err := call.CalleeHeadline()
		if err != nil {
			return nil, err
		}

		callee = headline
	}

	first := ""
	if len(args) > 0 {
		first = args[0]
	}

	step := strings.NewReplacer(
		"{arg}", first,
		"{args}", strings.Join(args, ", "),
		"{callee}", callee,
		"{method}", call.Method,
	).Replace(r.Step)

	if r.Inline {
		return []string{step}, nil
	}

	steps, err := call.CalleeSteps()
	if err != nil {
		return nil, err
	}

	return append(steps, step), nil
}

// Apply compiles every method and registers it on registry. Methods already
// in the registry become the fallback of their rules.
func Apply(registry *utterance.Registry, methods map[string][]Rule) error {
	for _, name := range slices.Sorted(maps.Keys(methods)) {
		method, err := Compile(name, methods[name])
		if err != nil {
			return err
		}

		fallback, _ := registry.Lookup(name)
		registry.Register(name, method.Template(fallback))
	}

	return nil
}
