package pandasteps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/shibukawa/pandasteps/markdownparser"
	"github.com/shibukawa/pandasteps/methodrule"
	"github.com/shibukawa/pandasteps/parser"
	"github.com/shibukawa/pandasteps/tcr"
	"github.com/shibukawa/pandasteps/utterance"
)

// StatementSteps holds the steps produced by one top-level statement
type StatementSteps struct {
	Line    int      `json:"line" yaml:"line"`
	Source  string   `json:"source" yaml:"source"`
	Kind    string   `json:"kind" yaml:"kind"`
	Heading string   `json:"heading,omitempty" yaml:"heading,omitempty"`
	Steps   []string `json:"steps" yaml:"steps"`
}

// Explanation is the result of explaining a source text or Markdown document
type Explanation struct {
	ID         uuid.UUID        `json:"id" yaml:"id"`
	Title      string           `json:"title,omitempty" yaml:"title,omitempty"`
	Source     string           `json:"-" yaml:"-"`
	Statements []StatementSteps `json:"statements" yaml:"statements"`
}

// Steps returns the steps of every statement as one flat sequence in source order.
func (e *Explanation) Steps() []string {
	var steps []string
	for _, statement := range e.Statements {
		steps = append(steps, statement.Steps...)
	}

	return steps
}

// Explainer translates source code into steps. It is safe for concurrent use.
type Explainer struct {
	config    *Config
	generator *utterance.Generator
}

// NewExplainer creates an explainer. Method rules from the configuration are
// layered on top of the built-in method templates. A nil config means
// DefaultConfig.
func NewExplainer(config *Config) (*Explainer, error) {
	if config == nil {
		config = DefaultConfig()
	}

	registry := utterance.DefaultRegistry()

	err := methodrule.Apply(registry, config.Methods)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}

	return &Explainer{
		config:    config,
		generator: utterance.NewGenerator(registry),
	}, nil
}

// Explain parses src and renders the steps of every top-level statement.
func (e *Explainer) Explain(ctx context.Context, src string) (*Explanation, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmptyContent
	}

	statements, err := e.explain(ctx, src, 0)
	if err != nil {
		return nil, err
	}

	return &Explanation{
		ID:         uuid.New(),
		Source:     src,
		Statements: statements,
	}, nil
}

// ExplainMarkdown explains the fenced code blocks of a Markdown document in
// document order. Statement lines refer to the Markdown document.
func (e *Explainer) ExplainMarkdown(ctx context.Context, doc []byte) (*Explanation, error) {
	document, err := markdownparser.Parse(bytes.NewReader(doc), e.config.Markdown.Languages)
	if errors.Is(err, markdownparser.ErrEmptyContent) {
		return nil, fmt.Errorf("%w: %w", ErrEmptyContent, err)
	} else if err != nil {
		return nil, err
	}

	if len(document.Blocks) == 0 {
		return nil, fmt.Errorf("%w: looked for %s", ErrNoCodeBlock, strings.Join(e.config.Markdown.Languages, ", "))
	}

	explanation := &Explanation{
		ID:     uuid.New(),
		Title:  document.Title,
		Source: string(doc),
	}

	for _, block := range document.Blocks {
		statements, err := e.explain(ctx, block.Code, block.Line-1)
		if errors.Is(err, parser.ErrSyntax) || errors.Is(err, parser.ErrUnsupportedSyntax) {
			return nil, fmt.Errorf("code block at line %d: %w", block.Line, err)
		} else if err != nil {
			return nil, err
		}

		for i := range statements {
			statements[i].Heading = block.Heading
		}

		explanation.Statements = append(explanation.Statements, statements...)
	}

	return explanation, nil
}

// explain translates every statement of src. lineOffset is added to the
// reported statement lines.
func (e *Explainer) explain(ctx context.Context, src string, lineOffset int) ([]StatementSteps, error) {
	module, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}

	snippets := statementSources(src, module.Body)
	results := make([]StatementSteps, len(module.Body))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(e.concurrency())

	for i, stmt := range module.Body {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			line := stmt.Pos().Line + lineOffset
			node := tcr.Build(stmt)

			steps, err := e.generator.Render(node)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}

			results[i] = StatementSteps{
				Line:   line,
				Source: snippets[i],
				Kind:   node.Kind().String(),
				Steps:  steps,
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if e.config.Explain.KeepUnknown {
		return results, nil
	}

	statements := make([]StatementSteps, 0, len(results))
	for _, result := range results {
		if len(result.Steps) > 0 {
			statements = append(statements, result)
		}
	}

	return statements, nil
}

func (e *Explainer) concurrency() int {
	if e.config.Explain.Concurrency > 0 {
		return e.config.Explain.Concurrency
	}

	return runtime.GOMAXPROCS(0)
}

// statementSources cuts the source text of each statement: from its first
// token up to the next statement, without trailing separators, blank lines
// and comment lines.
func statementSources(src string, body []parser.Stmt) []string {
	// Token offsets count runes of the normalized input
	runes := []rune(norm.NFC.String(src))
	sources := make([]string, len(body))

	for i, stmt := range body {
		start := min(stmt.Pos().Offset, len(runes))

		end := len(runes)
		if i+1 < len(body) {
			end = min(body[i+1].Pos().Offset, len(runes))
		}

		lines := strings.Split(string(runes[start:end]), "\n")
		for len(lines) > 1 {
			last := strings.TrimSpace(lines[len(lines)-1])
			if last != "" && !strings.HasPrefix(last, "#") {
				break
			}

			lines = lines[:len(lines)-1]
		}

		sources[i] = strings.TrimRight(strings.Join(lines, "\n"), " \t\r;")
	}

	return sources
}
