package pandasteps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/goccy/go-yaml"

	"github.com/shibukawa/pandasteps/methodrule"
)

func TestLoadConfig_DefaultValues(t *testing.T) {
	// Test loading config with non-existent file (should return defaults)
	config, err := LoadConfig("non-existent-file.yaml")
	assert.NoError(t, err)
	assert.True(t, config != nil)

	assert.Equal(t, "text", config.Output.Format)
	assert.True(t, config.Output.IsNumbered())
	assert.Zero(t, config.Output.Color)
	assert.False(t, config.Explain.KeepUnknown)
	assert.Equal(t, 0, config.Explain.Concurrency)
	assert.Equal(t, []string{"python", "py", "pandas"}, config.Markdown.Languages)
	assert.Equal(t, 0, len(config.Methods))
}

func TestLoadConfig_File(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, DefaultConfigFile)

	configContent := `
output:
  format: JSON
  numbered: false
explain:
  keep_unknown: true
  concurrency: 2
markdown:
  languages: [Python, " ipython ", python]
methods:
  mean:
    - step: "calculate the average"
  round:
    - when: "argc > 0"
      step: "round to {arg} decimal places"
    - step: "round to whole numbers"
`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)

	assert.Equal(t, "json", config.Output.Format)
	assert.False(t, config.Output.IsNumbered())
	assert.True(t, config.Explain.KeepUnknown)
	assert.Equal(t, 2, config.Explain.Concurrency)
	assert.Equal(t, []string{"python", "ipython"}, config.Markdown.Languages)
	assert.Equal(t, []methodrule.Rule{
		{When: "argc > 0", Step: "round to {arg} decimal places"},
		{Step: "round to whole numbers"},
	}, config.Methods["round"])
}

func TestParseConfig_EmptyDocument(t *testing.T) {
	config, err := ParseConfig([]byte(""))
	assert.NoError(t, err)
	assert.Equal(t, DefaultConfig().Output.Format, config.Output.Format)
	assert.Equal(t, DefaultConfig().Markdown.Languages, config.Markdown.Languages)
}

func TestParseConfig_EnvExpansion(t *testing.T) {
	t.Setenv("PANDASTEPS_TEST_FORMAT", "yaml")
	t.Setenv("PANDASTEPS_TEST_LANG", "pandas")

	config, err := ParseConfig([]byte(`
output:
  format: ${PANDASTEPS_TEST_FORMAT}
markdown:
  languages: [$PANDASTEPS_TEST_LANG]
`))
	assert.NoError(t, err)
	assert.Equal(t, "yaml", config.Output.Format)
	assert.Equal(t, []string{"pandas"}, config.Markdown.Languages)
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvFormat, "Markdown")
	t.Setenv(EnvConcurrency, "3")

	config, err := ParseConfig([]byte("output:\n  format: csv\n"))
	assert.NoError(t, err)
	assert.Equal(t, "markdown", config.Output.Format)
	assert.Equal(t, 3, config.Explain.Concurrency)
}

func TestLoadConfig_EnvFileOverrides(t *testing.T) {
	for _, name := range []string{EnvConfig, EnvFormat, EnvConcurrency} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	t.Chdir(t.TempDir())

	err := os.WriteFile(".env", []byte("PANDASTEPS_FORMAT=json\nPANDASTEPS_CONCURRENCY=2\n"), 0o644)
	assert.NoError(t, err)

	err = os.WriteFile(DefaultConfigFile, []byte("output:\n  format: csv\n"), 0o644)
	assert.NoError(t, err)

	// the path lookup reads the environment before .env is loaded
	path := ConfigPath("")
	assert.Equal(t, DefaultConfigFile, path)

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "json", config.Output.Format)
	assert.Equal(t, 2, config.Explain.Concurrency)
}

func TestParseConfig_StepTemplatesAreNotExpanded(t *testing.T) {
	t.Setenv("arg", "oops")

	config, err := ParseConfig([]byte(`
methods:
  head:
    - step: "take the first {arg} rows ($arg)"
`))
	assert.NoError(t, err)
	assert.Equal(t, "take the first {arg} rows ($arg)", config.Methods["head"][0].Step)
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "explicit.yaml", ConfigPath("explicit.yaml"))

	t.Setenv(EnvConfig, "")
	os.Unsetenv(EnvConfig)
	assert.Equal(t, DefaultConfigFile, ConfigPath(""))

	t.Setenv(EnvConfig, "from-env.yaml")
	assert.Equal(t, "from-env.yaml", ConfigPath(""))
}

func TestOutputConfig_IsNumbered(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name     string
		numbered *bool
		expected bool
	}{
		{"unset", nil, true},
		{"true", &yes, true},
		{"false", &no, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OutputConfig{Numbered: tt.numbered}.IsNumbered())
		})
	}
}

func TestMarshalConfig_RoundTrip(t *testing.T) {
	data, err := MarshalConfig(DefaultConfig())
	assert.NoError(t, err)

	var decoded Config

	err = yaml.UnmarshalWithOptions(data, &decoded, yaml.Strict())
	assert.NoError(t, err)
	assert.Equal(t, "text", decoded.Output.Format)
	assert.Equal(t, []string{"python", "py", "pandas"}, decoded.Markdown.Languages)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("PANDASTEPS_TEST_A", "alpha")

	tests := []struct {
		input    string
		expected string
	}{
		{"${PANDASTEPS_TEST_A}", "alpha"},
		{"$PANDASTEPS_TEST_A-x", "alpha-x"},
		{"plain", "plain"},
		{"${PANDASTEPS_TEST_MISSING}", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}
