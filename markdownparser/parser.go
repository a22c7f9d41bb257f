// Package markdownparser pulls source code out of Markdown documents so that
// notebooks exported as Markdown or README walkthroughs can be explained
// block by block.
package markdownparser

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// CodeBlock is one fenced code block
type CodeBlock struct {
	Language string
	Code     string
	Line     int    // 1-based line of the first code line in the original document
	Heading  string // text of the nearest heading above the block, if any
}

// Document is a parsed Markdown document
type Document struct {
	Title    string
	Metadata map[string]any
	Blocks   []CodeBlock
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
}

// Parse reads a Markdown document and collects the fenced code blocks whose
// info string names one of languages (case-insensitive).
func Parse(reader io.Reader, languages []string) (*Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return nil, ErrEmptyContent
	}

	metadata, body, err := parseFrontMatter(string(content))
	if err != nil {
		return nil, err
	}

	offset := frontMatterLines(string(content), body)
	source := []byte(body)

	doc := newMarkdown().Parser().Parse(text.NewReader(source))

	document := &Document{Metadata: metadata}

	var heading string

	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			heading = extractTextFromNode(node, source)
			if node.Level == 1 && document.Title == "" {
				document.Title = heading
			}

			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			language := codeBlockLanguage(node, source)
			if !matchesLanguage(language, languages) {
				return ast.WalkSkipChildren, nil
			}

			document.Blocks = append(document.Blocks, CodeBlock{
				Language: language,
				Code:     extractCodeBlockContent(node, source),
				Line:     codeBlockLine(node, source) + offset,
				Heading:  heading,
			})

			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk markdown: %w", err)
	}

	if title, ok := metadata["title"].(string); ok && title != "" {
		document.Title = title
	}

	return document, nil
}

// ExtractCodeBlocks returns the code blocks of doc written in one of languages.
func ExtractCodeBlocks(doc []byte, languages []string) ([]CodeBlock, error) {
	document, err := Parse(bytes.NewReader(doc), languages)
	if err != nil {
		return nil, err
	}

	return document.Blocks, nil
}

func matchesLanguage(language string, languages []string) bool {
	return language != "" && slices.ContainsFunc(languages, func(candidate string) bool {
		return strings.EqualFold(candidate, language)
	})
}

// codeBlockLanguage returns the first word of the info string: ```python title="x"
func codeBlockLanguage(codeBlock *ast.FencedCodeBlock, content []byte) string {
	if codeBlock.Info == nil {
		return ""
	}

	segment := codeBlock.Info.Segment
	fields := strings.Fields(string(content[segment.Start:segment.Stop]))

	if len(fields) == 0 {
		return ""
	}

	// {.python} style attributes
	return strings.Trim(fields[0], "{}.")
}

// codeBlockLine converts the byte offset of the block's first line into a line number
func codeBlockLine(codeBlock *ast.FencedCodeBlock, content []byte) int {
	var start int

	switch {
	case codeBlock.Lines().Len() > 0:
		start = codeBlock.Lines().At(0).Start
	case codeBlock.Info != nil:
		return bytes.Count(content[:codeBlock.Info.Segment.Start], []byte("\n")) + 2
	}

	return bytes.Count(content[:start], []byte("\n")) + 1
}

// extractCodeBlockContent extracts the actual content from a code block AST node
func extractCodeBlockContent(codeBlock ast.Node, content []byte) string {
	var result strings.Builder

	lines := codeBlock.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		result.Write(line.Value(content))
	}

	return strings.TrimRight(result.String(), "\n")
}

// extractTextFromNode extracts text content from any AST node
func extractTextFromNode(node ast.Node, content []byte) string {
	var result strings.Builder

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch textNode := n.(type) {
		case *ast.Text:
			result.Write(textNode.Segment.Value(content))
		case *ast.String:
			result.Write(textNode.Value)
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(result.String())
}
