package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/shibukawa/pandasteps"
	"github.com/shibukawa/pandasteps/formatter"
)

// ExplainCmd represents the explain command
type ExplainCmd struct {
	Input    string `arg:"" optional:"" help:"Source file or Markdown document (default: stdin, also -)"`
	Expr     string `short:"e" help:"Explain this source text instead of reading a file"`
	Format   string `short:"f" help:"Output format: text, json, yaml, csv, markdown, html or xml (default: from config)"`
	Output   string `short:"o" help:"Output file (default: stdout)"`
	Markdown bool   `short:"m" help:"Treat the input as Markdown and explain its code blocks"`
}

// Run executes the explain command
func (cmd *ExplainCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	outputFormat := config.Output.Format
	if cmd.Format != "" {
		outputFormat = strings.ToLower(cmd.Format)
	}

	if !formatter.IsValidOutputFormat(outputFormat) {
		return fmt.Errorf("%w: %s", pandasteps.ErrInvalidOutputFormat, outputFormat)
	}

	src, err := readSource(ctx, cmd.Input, cmd.Expr, cmd.Markdown)
	if err != nil {
		return err
	}

	explainer, err := pandasteps.NewExplainer(config)
	if err != nil {
		return err
	}

	started := time.Now()

	var explanation *pandasteps.Explanation
	if src.Markdown {
		explanation, err = explainer.ExplainMarkdown(context.Background(), []byte(src.Text))
	} else {
		explanation, err = explainer.Explain(context.Background(), src.Text)
	}

	if err != nil {
		return fmt.Errorf("failed to explain %s: %w", src.Name, err)
	}

	if ctx.Verbose {
		status(ctx, color.FgBlue, "Explained %d statement(s), %d step(s) from %s in %s",
			len(explanation.Statements), len(explanation.Steps()), src.Name, time.Since(started).Round(time.Microsecond))
	}

	var (
		writer io.Writer = ctx.Stdout
		file   *os.File
	)

	if cmd.Output != "" {
		file, err = os.Create(cmd.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()

		writer = file
	}

	f := formatter.NewFormatter(formatter.OutputFormat(outputFormat))
	f.Numbered = config.Output.IsNumbered()
	f.Color = useColor(ctx, config, file == nil)

	if err := f.Format(explanation, writer); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if cmd.Output != "" {
		status(ctx, color.FgGreen, "Generated: %s", cmd.Output)
	}

	return nil
}

// useColor decides whether text output is colored: --no-color wins, then
// output.color, then whether stdout is a terminal
func useColor(ctx *Context, config *pandasteps.Config, toStdout bool) bool {
	switch {
	case ctx.NoColor || !toStdout:
		return false
	case config.Output.Color != nil:
		return *config.Output.Color
	default:
		return isTerminal(ctx.Stdout)
	}
}
