package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/shibukawa/pandasteps"
)

const configHeader = `# pandasteps configuration
#
# methods adds step templates for pandas methods, for example:
#
# methods:
#   mean:
#     - step: "calculate the average"
#   round:
#     - when: "argc > 0"
#       step: "round to {arg} decimal places"
#     - step: "round to whole numbers"

`

// InitCmd represents the init command
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

// Run executes the init command
func (cmd *InitCmd) Run(ctx *Context) error {
	path := pandasteps.ConfigPath(ctx.Config)

	if _, err := os.Stat(path); err == nil && !cmd.Force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigFileExists, path)
	}

	data, err := pandasteps.MarshalConfig(pandasteps.DefaultConfig())
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	status(ctx, color.FgGreen, "Created configuration file: %s", path)

	return nil
}
