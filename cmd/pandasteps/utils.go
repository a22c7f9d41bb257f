package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/shibukawa/pandasteps"
)

// source is the text a command works on
type source struct {
	Name     string
	Text     string
	Markdown bool
}

// readSource resolves the input of explain and tree: --expr text, a file,
// or stdin when input is empty or "-".
func readSource(ctx *Context, input, expr string, markdown bool) (*source, error) {
	if expr != "" {
		if input != "" && input != "-" {
			return nil, ErrInputConflict
		}

		return &source{Name: "<expr>", Text: expr, Markdown: markdown}, nil
	}

	if input == "" || input == "-" {
		if isTerminal(ctx.Stdin) {
			return nil, ErrNoInput
		}

		data, err := io.ReadAll(ctx.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}

		return &source{Name: "<stdin>", Text: string(data), Markdown: markdown}, nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return &source{Name: input, Text: string(data), Markdown: markdown || isMarkdownFile(input)}, nil
}

// isMarkdownFile checks if the file is a Markdown file
func isMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".md" || ext == ".markdown"
}

// isTerminal reports whether v is an interactive terminal
func isTerminal(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// loadConfig loads the configuration the global flags point at
func loadConfig(ctx *Context) (*pandasteps.Config, error) {
	path := pandasteps.ConfigPath(ctx.Config)

	config, err := pandasteps.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if ctx.Verbose {
		status(ctx, color.FgCyan, "Using configuration: %s", path)
	}

	return config, nil
}

// status prints a colored progress line on stderr unless --quiet is set
func status(ctx *Context, attribute color.Attribute, format string, args ...any) {
	if ctx.Quiet {
		return
	}

	c := color.New(attribute)
	if ctx.NoColor {
		c.DisableColor()
	}

	c.Fprintf(ctx.Stderr, format+"\n", args...)
}
