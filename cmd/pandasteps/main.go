package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
)

const version = "v0.1.0"

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
	NoColor bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// CLI represents the command-line interface
type CLI struct {
	Config  string     `help:"Configuration file path (default: PANDASTEPS_CONFIG env or pandasteps.yaml)"`
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Quiet   bool       `help:"Suppress status output" short:"q"`
	NoColor bool       `help:"Disable colored output" name:"no-color"`
	Explain ExplainCmd `cmd:"" default:"withargs" help:"Explain pandas code as ordered steps (stops at the first statement that cannot be rendered)"`
	Tree    TreeCmd    `cmd:"" help:"Show the tagged tree of every statement"`
	Init    InitCmd    `cmd:"" help:"Write a default configuration file"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintf(ctx.Stdout, "pandasteps %s\n", version)
	return err
}

func newContext(cli *CLI) *Context {
	if cli.NoColor {
		color.NoColor = true
	}

	return &Context{
		Config:  cli.Config,
		Verbose: cli.Verbose,
		Quiet:   cli.Quiet,
		NoColor: cli.NoColor,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

func main() {
	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("pandasteps"),
		kong.Description("Explain pandas one-liners as plain-language steps."),
		kong.UsageOnError(),
	)

	err := ctx.Run(newContext(&cli))
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
