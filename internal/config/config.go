// ABOUTME: Configuration loading and parsing for gemini-mcp
// ABOUTME: Supports YAML files with environment variable expansion and credential resolution

package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvAPIKey is the environment variable consulted when the config file
// provides no credential.
const EnvAPIKey = "GEMINI_API_KEY"

// Config represents the complete gemini-mcp configuration
type Config struct {
	Gemini  GeminiConfig  `yaml:"gemini"`
	Logging LoggingConfig `yaml:"logging"`
}

// GeminiConfig holds backend credential configuration
type GeminiConfig struct {
	APIKey     string `yaml:"api_key"`      // literal key or ${GEMINI_API_KEY}
	APIKeyFile string `yaml:"api_key_file"` // path to a file holding the key
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"` // when set, logs go here instead of stderr
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Unknown keys are ignored so newer config files keep working with older binaries.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyDefaults fills fields an explicit config file may have left empty
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// Validate checks that all configuration fields hold permitted values.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be one of text, json (got %q)", c.Logging.Format)
	}

	return nil
}

// ResolveAPIKey returns the Gemini API key from the first configured source:
// the api_key field, the api_key_file contents, then the GEMINI_API_KEY
// environment variable. The key is required; an empty result from every
// source is an error so the server fails at startup rather than on the
// first tool call. The resolved value is never logged.
func (c *Config) ResolveAPIKey() (string, error) {
	if key := strings.TrimSpace(c.Gemini.APIKey); key != "" {
		return key, nil
	}

	if c.Gemini.APIKeyFile != "" {
		data, err := os.ReadFile(c.Gemini.APIKeyFile)
		if err != nil {
			return "", fmt.Errorf("reading api key file: %w", err)
		}
		key := strings.TrimSpace(string(data))
		if key == "" {
			return "", fmt.Errorf("api key file %s is empty", c.Gemini.APIKeyFile)
		}
		return key, nil
	}

	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key, nil
	}

	return "", fmt.Errorf("gemini api key not configured: set %s, gemini.api_key, or gemini.api_key_file", EnvAPIKey)
}
