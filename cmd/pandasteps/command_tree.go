package main

import (
	"bytes"
	"fmt"

	"github.com/shibukawa/pandasteps"
	"github.com/shibukawa/pandasteps/markdownparser"
	"github.com/shibukawa/pandasteps/parser"
	"github.com/shibukawa/pandasteps/tcr"
)

// TreeCmd represents the tree command
type TreeCmd struct {
	Input    string `arg:"" optional:"" help:"Source file or Markdown document (default: stdin, also -)"`
	Expr     string `short:"e" help:"Show the tree of this source text instead of reading a file"`
	Markdown bool   `short:"m" help:"Treat the input as Markdown and show its code blocks"`
	Syntax   bool   `short:"s" help:"Print the syntax tree instead of the tagged tree"`
}

// Run executes the tree command
func (cmd *TreeCmd) Run(ctx *Context) error {
	src, err := readSource(ctx, cmd.Input, cmd.Expr, cmd.Markdown)
	if err != nil {
		return err
	}

	if !src.Markdown {
		return cmd.printTree(ctx, src.Text, 0)
	}

	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	blocks, err := markdownparser.ExtractCodeBlocks([]byte(src.Text), config.Markdown.Languages)
	if err != nil {
		return err
	}

	if len(blocks) == 0 {
		return pandasteps.ErrNoCodeBlock
	}

	for _, block := range blocks {
		if err := cmd.printTree(ctx, block.Code, block.Line-1); err != nil {
			return fmt.Errorf("code block at line %d: %w", block.Line, err)
		}
	}

	return nil
}

func (cmd *TreeCmd) printTree(ctx *Context, text string, lineOffset int) error {
	module, err := parser.Parse(text)
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	for _, stmt := range module.Body {
		tree := tcr.Build(stmt).String()
		if cmd.Syntax {
			tree = parser.Dump(stmt)
		}

		fmt.Fprintf(&buf, "%d: %s\n", stmt.Pos().Line+lineOffset, tree)
	}

	_, err = buf.WriteTo(ctx.Stdout)

	return err
}
