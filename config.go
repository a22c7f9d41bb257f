package pandasteps

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/xyproto/env/v2"

	"github.com/shibukawa/pandasteps/methodrule"
)

// DefaultConfigFile is the configuration file looked up when none is given
const DefaultConfigFile = "pandasteps.yaml"

// Environment variables that override configuration
const (
	EnvConfig      = "PANDASTEPS_CONFIG"
	EnvFormat      = "PANDASTEPS_FORMAT"
	EnvConcurrency = "PANDASTEPS_CONCURRENCY"
)

// OutputFormats lists the accepted values of output.format
var OutputFormats = []string{"text", "json", "yaml", "csv", "markdown", "html", "xml"}

// Config represents the pandasteps configuration
type Config struct {
	Output   OutputConfig                 `yaml:"output"`
	Explain  ExplainConfig                `yaml:"explain"`
	Markdown MarkdownConfig               `yaml:"markdown"`
	Methods  map[string][]methodrule.Rule `yaml:"methods,omitempty"`
}

// OutputConfig represents how steps are printed
type OutputConfig struct {
	Format   string `yaml:"format"`
	Color    *bool  `yaml:"color,omitempty"`    // nil means "when the terminal supports it"
	Numbered *bool  `yaml:"numbered,omitempty"` // Pointer to distinguish between unset and false
}

// IsNumbered reports whether text output prefixes steps with (1), (2), ...
func (o OutputConfig) IsNumbered() bool {
	return o.Numbered == nil || *o.Numbered
}

// ExplainConfig represents statement translation settings
type ExplainConfig struct {
	// KeepUnknown lists statements that produced no steps in structured outputs
	KeepUnknown bool `yaml:"keep_unknown"`
	// Concurrency bounds how many statements are translated at once; 0 means GOMAXPROCS
	Concurrency int `yaml:"concurrency"`
}

// MarkdownConfig represents Markdown input settings
type MarkdownConfig struct {
	// Languages are the fenced code block info strings treated as source
	Languages []string `yaml:"languages"`
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Check if config file exists
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		// Return default configuration if file doesn't exist
		config := getDefaultConfig()
		applyEnvOverrides(config)

		if err := validateConfig(config); err != nil {
			return nil, err
		}

		return config, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}

	return config, nil
}

// ParseConfig parses YAML configuration data, applying defaults and
// environment overrides.
func ParseConfig(data []byte) (*Config, error) {
	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Expand environment variables
	expandConfigEnvVars(&config)

	// Apply defaults for missing values
	applyDefaults(&config)
	applyEnvOverrides(&config)

	// Validate the configuration
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if !slices.Contains(OutputFormats, config.Output.Format) {
		return fmt.Errorf("%w: output.format '%s' is invalid: must be one of %s", ErrConfigValidation, config.Output.Format, strings.Join(OutputFormats, ", "))
	}

	if config.Explain.Concurrency < 0 {
		return fmt.Errorf("%w: explain.concurrency must be non-negative, got %d", ErrConfigValidation, config.Explain.Concurrency)
	}

	for _, language := range config.Markdown.Languages {
		if strings.TrimSpace(language) == "" || strings.ContainsAny(language, " \t") {
			return fmt.Errorf("%w: markdown.languages: invalid language '%s'", ErrConfigValidation, language)
		}
	}

	for name, rules := range config.Methods {
		if _, err := methodrule.Compile(name, rules); err != nil {
			return fmt.Errorf("%w: methods.%s: %w", ErrConfigValidation, name, err)
		}
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: "text",
		},
		Explain: ExplainConfig{
			KeepUnknown: false,
		},
		Markdown: MarkdownConfig{
			Languages: []string{"python", "py", "pandas"},
		},
		Methods: map[string][]methodrule.Rule{},
	}
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return getDefaultConfig()
}

// applyDefaults applies default values for missing configuration
func applyDefaults(config *Config) {
	defaults := getDefaultConfig()

	if config.Output.Format == "" {
		config.Output.Format = defaults.Output.Format
	}

	config.Output.Format = strings.ToLower(config.Output.Format)

	if len(config.Markdown.Languages) == 0 {
		config.Markdown.Languages = defaults.Markdown.Languages
	}

	config.Markdown.Languages = lo.Uniq(lo.Map(config.Markdown.Languages, func(language string, _ int) string {
		return strings.ToLower(strings.TrimSpace(language))
	}))

	if config.Methods == nil {
		config.Methods = map[string][]methodrule.Rule{}
	}
}

// applyEnvOverrides lets the environment win over the file. env/v2 caches
// the environment on first use, so it is reloaded to see .env values and
// variables set after that.
func applyEnvOverrides(config *Config) {
	env.Load()

	config.Output.Format = strings.ToLower(env.Str(EnvFormat, config.Output.Format))
	config.Explain.Concurrency = env.Int(EnvConcurrency, config.Explain.Concurrency)
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	// Try to load .env file from current directory
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvPattern = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvPattern  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return plainEnvPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in string settings.
// Method step templates are left alone: their braces are placeholders.
func expandConfigEnvVars(config *Config) {
	config.Output.Format = expandEnvVars(config.Output.Format)

	for i, language := range config.Markdown.Languages {
		config.Markdown.Languages[i] = expandEnvVars(language)
	}
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// ConfigPath resolves the configuration file: the explicit path, then
// PANDASTEPS_CONFIG, then DefaultConfigFile.
func ConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	env.Load()

	return env.Str(EnvConfig, DefaultConfigFile)
}

// MarshalConfig renders the configuration as YAML, used by `init`
func MarshalConfig(config *Config) ([]byte, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	return data, nil
}
