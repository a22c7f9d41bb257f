// Package formatter writes explanations in the supported output formats.
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shibukawa/pandasteps"
)

// OutputFormat names an output format
type OutputFormat string

// Output formats
const (
	FormatText     OutputFormat = "text"
	FormatJSON     OutputFormat = "json"
	FormatYAML     OutputFormat = "yaml"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatHTML     OutputFormat = "html"
	FormatXML      OutputFormat = "xml"
)

// Formatter formats explanations
type Formatter struct {
	Output OutputFormat
	// Numbered prefixes text steps with (1), (2), ...
	Numbered bool
	// Color highlights step numbers in text output
	Color bool
}

// NewFormatter creates a formatter for format with numbered, uncolored text.
func NewFormatter(format OutputFormat) *Formatter {
	return &Formatter{
		Output:   format,
		Numbered: true,
	}
}

// Format writes the explanation according to the configured format
func (f *Formatter) Format(explanation *pandasteps.Explanation, output io.Writer) error {
	switch f.Output {
	case FormatText:
		return f.formatAsText(explanation, output)
	case FormatJSON:
		return f.formatAsJSON(explanation, output)
	case FormatYAML:
		return f.formatAsYAML(explanation, output)
	case FormatCSV:
		return f.formatAsCSV(explanation, output)
	case FormatMarkdown:
		return f.formatAsMarkdown(explanation, output)
	case FormatHTML:
		return f.formatAsHTML(explanation, output)
	case FormatXML:
		return f.formatAsXML(explanation, output)
	default:
		return fmt.Errorf("%w: %s", pandasteps.ErrInvalidOutputFormat, f.Output)
	}
}

// formatAsText prints one step per line
func (f *Formatter) formatAsText(explanation *pandasteps.Explanation, output io.Writer) error {
	number := color.New(color.FgCyan)
	if f.Color {
		number.EnableColor()
	} else {
		number.DisableColor()
	}

	for i, step := range explanation.Steps() {
		var err error
		if f.Numbered {
			_, err = fmt.Fprintf(output, "%s %s\n", number.Sprintf("(%d)", i+1), step)
		} else {
			_, err = fmt.Fprintln(output, step)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// document is the structured form shared by json and yaml
type document struct {
	ID         string                      `json:"id" yaml:"id"`
	Title      string                      `json:"title,omitempty" yaml:"title,omitempty"`
	Statements []pandasteps.StatementSteps `json:"statements" yaml:"statements"`
	Steps      []string                    `json:"steps" yaml:"steps"`
}

func newDocument(explanation *pandasteps.Explanation) document {
	statements := slices.Clone(explanation.Statements)
	for i := range statements {
		statements[i].Steps = nonNil(statements[i].Steps)
	}

	return document{
		ID:         explanation.ID.String(),
		Title:      explanation.Title,
		Statements: nonNil(statements),
		Steps:      nonNil(explanation.Steps()),
	}
}

// formatAsJSON formats the explanation as JSON
func (f *Formatter) formatAsJSON(explanation *pandasteps.Explanation, output io.Writer) error {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	return encoder.Encode(newDocument(explanation))
}

// formatAsYAML formats the explanation as YAML
func (f *Formatter) formatAsYAML(explanation *pandasteps.Explanation, output io.Writer) error {
	data, err := yaml.Marshal(newDocument(explanation))
	if err != nil {
		return fmt.Errorf("failed to marshal explanation to YAML: %w", err)
	}

	_, err = output.Write(data)

	return err
}

// formatAsCSV writes one row per step
func (f *Formatter) formatAsCSV(explanation *pandasteps.Explanation, output io.Writer) error {
	writer := csv.NewWriter(output)

	if err := writer.Write([]string{"index", "line", "step"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	index := 0

	for _, statement := range explanation.Statements {
		for _, step := range statement.Steps {
			index++

			if err := writer.Write([]string{strconv.Itoa(index), strconv.Itoa(statement.Line), step}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	writer.Flush()

	return writer.Error()
}

// formatAsMarkdown writes a section per statement with its source and an
// ordered list that keeps counting across statements
func (f *Formatter) formatAsMarkdown(explanation *pandasteps.Explanation, output io.Writer) error {
	_, err := io.WriteString(output, markdown(explanation))
	return err
}

func markdown(explanation *pandasteps.Explanation) string {
	var b strings.Builder

	title := explanation.Title
	if title == "" {
		title = "Steps"
	}

	fmt.Fprintf(&b, "# %s\n", title)

	caser := cases.Title(language.English)
	index := 0

	for _, statement := range explanation.Statements {
		kind := caser.String(strings.ReplaceAll(statement.Kind, "_", " "))
		fmt.Fprintf(&b, "\n## Line %d: %s\n\n", statement.Line, kind)

		if statement.Heading != "" {
			fmt.Fprintf(&b, "_%s_\n\n", statement.Heading)
		}

		fence := "```"
		for strings.Contains(statement.Source, fence) {
			fence += "`"
		}

		fmt.Fprintf(&b, "%spython\n%s\n%s\n\n", fence, statement.Source, fence)

		if len(statement.Steps) == 0 {
			b.WriteString("No steps.\n")
			continue
		}

		for _, step := range statement.Steps {
			index++
			fmt.Fprintf(&b, "%d. %s\n", index, strings.TrimSpace(step))
		}
	}

	return b.String()
}

// formatAsHTML renders the Markdown form to HTML
func (f *Formatter) formatAsHTML(explanation *pandasteps.Explanation, output io.Writer) error {
	var buf bytes.Buffer

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	if err := md.Convert([]byte(markdown(explanation)), &buf); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}

	_, err := buf.WriteTo(output)

	return err
}

// formatAsXML formats the explanation as an XML document
func (f *Formatter) formatAsXML(explanation *pandasteps.Explanation, output io.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("explanation")
	root.CreateAttr("id", explanation.ID.String())

	if explanation.Title != "" {
		root.CreateAttr("title", explanation.Title)
	}

	index := 0

	for _, statement := range explanation.Statements {
		element := root.CreateElement("statement")
		element.CreateAttr("line", strconv.Itoa(statement.Line))
		element.CreateAttr("kind", statement.Kind)

		if statement.Heading != "" {
			element.CreateAttr("heading", statement.Heading)
		}

		element.CreateElement("source").SetText(statement.Source)

		for _, step := range statement.Steps {
			index++

			stepElement := element.CreateElement("step")
			stepElement.CreateAttr("index", strconv.Itoa(index))
			stepElement.SetText(step)
		}
	}

	doc.Indent(2)

	if _, err := doc.WriteTo(output); err != nil {
		return fmt.Errorf("failed to write XML: %w", err)
	}

	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}

// IsValidOutputFormat checks if the output format is valid
func IsValidOutputFormat(format string) bool {
	return slices.Contains(pandasteps.OutputFormats, strings.ToLower(format))
}
