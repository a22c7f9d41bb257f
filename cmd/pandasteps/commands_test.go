package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/kong"

	"github.com/shibukawa/pandasteps"
)

type testIO struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// newTestContext points the commands at a config file inside a temp dir
func newTestContext(t *testing.T, stdin string) (*Context, *testIO) {
	t.Helper()

	streams := &testIO{}

	return &Context{
		Config:  filepath.Join(t.TempDir(), pandasteps.DefaultConfigFile),
		NoColor: true,
		Stdin:   strings.NewReader(stdin),
		Stdout:  &streams.stdout,
		Stderr:  &streams.stderr,
	}, streams
}

func TestExplainCmd(t *testing.T) {
	tests := []struct {
		name     string
		cmd      ExplainCmd
		stdin    string
		expected string
	}{
		{
			name: "expression",
			cmd:  ExplainCmd{Expr: "df[df['Winner'] == 'New Orleans Saints'].shape[0]"},
			expected: "(1) select rows where select column “Winner” is “New Orleans Saints”\n" +
				"(2) return number of rows\n",
		},
		{
			name:  "stdin",
			stdin: "df['Average Mission Time'] = df['Space Flight (hr)'] / df['Missions'].str.count('(')\n",
			expected: "(1) create column “Average Mission Time”\n" +
				"(2)  column “Space Flight (hr)” divided by count “(” from  column “Missions”\n",
		},
		{
			name:     "dash reads stdin",
			cmd:      ExplainCmd{Input: "-", Format: "CSV"},
			stdin:    "df['a']",
			expected: "index,line,step\n1,1,select column “a”\n",
		},
		{
			name:     "markdown from stdin",
			cmd:      ExplainCmd{Markdown: true},
			stdin:    "# Notes\n\n```python\ndf['a'].str.len()\n```\n",
			expected: "(1) select column “a”\n(2) get length\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, streams := newTestContext(t, tt.stdin)

			err := tt.cmd.Run(ctx)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, streams.stdout.String())
		})
	}
}

func TestExplainCmd_Files(t *testing.T) {
	dir := t.TempDir()

	input := filepath.Join(dir, "notes.md")
	err := os.WriteFile(input, []byte("```py\ndf['a']\n```\n"), 0o644)
	assert.NoError(t, err)

	output := filepath.Join(dir, "steps.json")

	ctx, streams := newTestContext(t, "")
	ctx.Verbose = true

	cmd := ExplainCmd{Input: input, Output: output, Format: "json"}
	assert.NoError(t, cmd.Run(ctx))
	assert.Equal(t, "", streams.stdout.String())
	assert.Contains(t, streams.stderr.String(), "Explained 1 statement(s), 1 step(s)")
	assert.Contains(t, streams.stderr.String(), "Generated: "+output)

	data, err := os.ReadFile(output)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"select column “a”"`)
}

func TestExplainCmd_Errors(t *testing.T) {
	tests := []struct {
		name     string
		cmd      ExplainCmd
		stdin    string
		expected error
	}{
		{"invalid format", ExplainCmd{Expr: "df['a']", Format: "pdf"}, "", pandasteps.ErrInvalidOutputFormat},
		{"expr with file", ExplainCmd{Expr: "df['a']", Input: "x.py"}, "", ErrInputConflict},
		{"empty stdin", ExplainCmd{}, "   ", pandasteps.ErrEmptyContent},
		{"markdown without code", ExplainCmd{Markdown: true}, "# Title\n", pandasteps.ErrNoCodeBlock},
		{"missing file", ExplainCmd{Input: "does-not-exist.py"}, "", os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := newTestContext(t, tt.stdin)

			err := tt.cmd.Run(ctx)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
		})
	}
}

func TestExplainCmd_ConfigFile(t *testing.T) {
	ctx, streams := newTestContext(t, "df['Price'].mean()")

	err := os.WriteFile(ctx.Config, []byte(`
output:
  numbered: false
methods:
  mean:
    - step: "calculate the average"
`), 0o644)
	assert.NoError(t, err)

	assert.NoError(t, (&ExplainCmd{}).Run(ctx))
	assert.Equal(t, "select column “Price”\ncalculate the average\n", streams.stdout.String())
}

func TestTreeCmd(t *testing.T) {
	tests := []struct {
		name     string
		cmd      TreeCmd
		stdin    string
		expected string
	}{
		{
			name:     "tagged tree",
			cmd:      TreeCmd{Expr: "df['a'] = df['b'] / 2\ndf.shape[0]"},
			expected: "1: assign(column_access(variable(df), string(\"a\")), arithmetic_op(\"divided by\", column_access(variable(df), string(\"b\")), number(2)))\n2: shape(shape(variable(df)), number(0))\n",
		},
		{
			name:     "syntax tree",
			cmd:      TreeCmd{Expr: "df['a']", Syntax: true},
			expected: "1: Expr(Subscript(Name(df), Constant('a')))\n",
		},
		{
			name:     "markdown",
			cmd:      TreeCmd{Markdown: true},
			stdin:    "text\n\n```python\nx\n```\n",
			expected: "4: variable(x)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, streams := newTestContext(t, tt.stdin)

			assert.NoError(t, tt.cmd.Run(ctx))
			assert.Equal(t, tt.expected, streams.stdout.String())
		})
	}
}

func TestInitCmd(t *testing.T) {
	ctx, streams := newTestContext(t, "")

	assert.NoError(t, (&InitCmd{}).Run(ctx))
	assert.Contains(t, streams.stderr.String(), "Created configuration file")

	config, err := pandasteps.LoadConfig(ctx.Config)
	assert.NoError(t, err)
	assert.Equal(t, "text", config.Output.Format)

	err = (&InitCmd{}).Run(ctx)
	assert.IsError(t, err, ErrConfigFileExists)

	assert.NoError(t, (&InitCmd{Force: true}).Run(ctx))
}

func TestVersionCmd(t *testing.T) {
	ctx, streams := newTestContext(t, "")

	assert.NoError(t, (&VersionCmd{}).Run(ctx))
	assert.Equal(t, "pandasteps "+version+"\n", streams.stdout.String())
}

func TestCLIParsing(t *testing.T) {
	tests := []struct {
		args    []string
		command string
	}{
		{[]string{"explain", "-e", "df['a']", "--format", "json"}, "explain"},
		{[]string{"notebook.md"}, "explain <input>"},
		{[]string{"tree", "--syntax", "-"}, "tree <input>"},
		{[]string{"--no-color", "init", "--force"}, "init"},
		{[]string{"version"}, "version"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			var cli CLI

			app, err := kong.New(&cli, kong.Name("pandasteps"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
			assert.NoError(t, err)

			ctx, err := app.Parse(tt.args)
			assert.NoError(t, err)
			assert.Equal(t, tt.command, ctx.Command())
		})
	}
}
