// Package testdata embeds the end-to-end scenario corpus shared by tests.
package testdata

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"
)

//go:embed scenarios/*.yaml
var scenarioFS embed.FS

// Scenario is one source text with the steps it must produce
type Scenario struct {
	Name   string   `yaml:"name"`
	Source string   `yaml:"source"`
	Kinds  []string `yaml:"kinds,omitempty"`
	Steps  []string `yaml:"steps"`
	// Error is part of the message expected instead of steps
	Error string `yaml:"error,omitempty"`
	// File is the corpus file the scenario came from
	File string `yaml:"-"`
}

// GetFS returns the embedded filesystem
func GetFS() embed.FS {
	return scenarioFS
}

// LoadScenarios reads every scenario file in file name order.
func LoadScenarios() ([]Scenario, error) {
	files, err := fs.Glob(scenarioFS, "scenarios/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	var scenarios []Scenario

	for _, file := range files {
		data, err := scenarioFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		var loaded []Scenario
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}

		for i := range loaded {
			loaded[i].File = path.Base(file)
		}

		scenarios = append(scenarios, loaded...)
	}

	return scenarios, nil
}
