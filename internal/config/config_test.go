// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, validation, and credential resolution

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
gemini:
  api_key: "test-key-literal"
  api_key_file: ""

logging:
  level: "debug"
  format: "json"
  file: "/tmp/gemini-mcp.log"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify gemini config
	if cfg.Gemini.APIKey != "test-key-literal" {
		t.Errorf("Gemini.APIKey = %q, want %q", cfg.Gemini.APIKey, "test-key-literal")
	}
	if cfg.Gemini.APIKeyFile != "" {
		t.Errorf("Gemini.APIKeyFile = %q, want empty", cfg.Gemini.APIKeyFile)
	}

	// Verify logging config
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
	if cfg.Logging.File != "/tmp/gemini-mcp.log" {
		t.Errorf("Logging.File = %q, want %q", cfg.Logging.File, "/tmp/gemini-mcp.log")
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "key-from-env")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
gemini:
  api_key: "${TEST_GEMINI_KEY}"

logging:
  level: "info"
  format: "text"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Gemini.APIKey != "key-from-env" {
		t.Errorf("Gemini.APIKey = %q, want %q", cfg.Gemini.APIKey, "key-from-env")
	}
}

func TestLoad_EnvVarExpansion_UnsetVar(t *testing.T) {
	// Ensure the env var is NOT set
	os.Unsetenv("UNSET_VAR_FOR_TEST")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
gemini:
  api_key: "${UNSET_VAR_FOR_TEST}"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Unset env vars should expand to empty string
	if cfg.Gemini.APIKey != "" {
		t.Errorf("Gemini.APIKey = %q, want empty string for unset env var", cfg.Gemini.APIKey)
	}
}

func TestLoad_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// No logging section at all
	configContent := `
gemini:
  api_key: "k"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want default %q", cfg.Logging.Format, "text")
	}
}

func TestLoad_UnknownKeysIgnored(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
gemini:
  api_key: "k"
  future_option: true

experimental:
  something: "else"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v for config with unknown keys", err)
	}
	if cfg.Gemini.APIKey != "k" {
		t.Errorf("Gemini.APIKey = %q, want %q", cfg.Gemini.APIKey, "k")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}

	// Callers fall back to Default() on this specific condition
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want fs.ErrNotExist in chain", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Invalid YAML content
	configContent := `
gemini:
  api_key: "k"
  api_key_file "missing colon"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err = Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
		wantErrSubstr string
	}{
		{
			name: "bad logging level",
			configContent: `
logging:
  level: "verbose"
`,
			wantErrSubstr: "logging.level must be one of",
		},
		{
			name: "bad logging format",
			configContent: `
logging:
  format: "xml"
`,
			wantErrSubstr: "logging.format must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.yaml")

			err := os.WriteFile(configPath, []byte(tt.configContent), 0644)
			if err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			_, err = Load(configPath)
			if err == nil {
				t.Errorf("Load() expected error containing %q, got nil", tt.wantErrSubstr)
				return
			}

			if !strings.Contains(err.Error(), tt.wantErrSubstr) {
				t.Errorf("Load() error = %q, want error containing %q", err.Error(), tt.wantErrSubstr)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "text")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on default config: %v", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FOO", "bar")
	t.Setenv("BAZ", "qux")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single env var",
			input:    "${FOO}",
			expected: "bar",
		},
		{
			name:     "env var with surrounding text",
			input:    "prefix-${FOO}-suffix",
			expected: "prefix-bar-suffix",
		},
		{
			name:     "multiple env vars",
			input:    "${FOO}/${BAZ}",
			expected: "bar/qux",
		},
		{
			name:     "no env vars",
			input:    "no-vars-here",
			expected: "no-vars-here",
		},
		{
			name:     "unset env var",
			input:    "${UNSET_VAR}",
			expected: "",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandEnvVars(tt.input)
			if result != tt.expected {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestResolveAPIKey(t *testing.T) {
	t.Run("from api_key field", func(t *testing.T) {
		cfg := Default()
		cfg.Gemini.APIKey = "direct-key"

		key, err := cfg.ResolveAPIKey()
		if err != nil {
			t.Fatalf("ResolveAPIKey() error = %v", err)
		}
		if key != "direct-key" {
			t.Errorf("ResolveAPIKey() = %q, want %q", key, "direct-key")
		}
	})

	t.Run("trims whitespace", func(t *testing.T) {
		cfg := Default()
		cfg.Gemini.APIKey = "  padded-key\n"

		key, err := cfg.ResolveAPIKey()
		if err != nil {
			t.Fatalf("ResolveAPIKey() error = %v", err)
		}
		if key != "padded-key" {
			t.Errorf("ResolveAPIKey() = %q, want %q", key, "padded-key")
		}
	})

	t.Run("from key file", func(t *testing.T) {
		tmpDir := t.TempDir()
		keyPath := filepath.Join(tmpDir, "api_key")
		if err := os.WriteFile(keyPath, []byte("file-key\n"), 0600); err != nil {
			t.Fatalf("failed to write key file: %v", err)
		}

		cfg := Default()
		cfg.Gemini.APIKeyFile = keyPath

		key, err := cfg.ResolveAPIKey()
		if err != nil {
			t.Fatalf("ResolveAPIKey() error = %v", err)
		}
		if key != "file-key" {
			t.Errorf("ResolveAPIKey() = %q, want %q", key, "file-key")
		}
	})

	t.Run("api_key field wins over key file", func(t *testing.T) {
		tmpDir := t.TempDir()
		keyPath := filepath.Join(tmpDir, "api_key")
		if err := os.WriteFile(keyPath, []byte("file-key"), 0600); err != nil {
			t.Fatalf("failed to write key file: %v", err)
		}

		cfg := Default()
		cfg.Gemini.APIKey = "direct-key"
		cfg.Gemini.APIKeyFile = keyPath

		key, err := cfg.ResolveAPIKey()
		if err != nil {
			t.Fatalf("ResolveAPIKey() error = %v", err)
		}
		if key != "direct-key" {
			t.Errorf("ResolveAPIKey() = %q, want api_key field to win", key)
		}
	})

	t.Run("from environment", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "env-key")

		cfg := Default()

		key, err := cfg.ResolveAPIKey()
		if err != nil {
			t.Fatalf("ResolveAPIKey() error = %v", err)
		}
		if key != "env-key" {
			t.Errorf("ResolveAPIKey() = %q, want %q", key, "env-key")
		}
	})

	t.Run("empty key file is an error", func(t *testing.T) {
		tmpDir := t.TempDir()
		keyPath := filepath.Join(tmpDir, "api_key")
		if err := os.WriteFile(keyPath, []byte("  \n"), 0600); err != nil {
			t.Fatalf("failed to write key file: %v", err)
		}

		cfg := Default()
		cfg.Gemini.APIKeyFile = keyPath

		_, err := cfg.ResolveAPIKey()
		if err == nil {
			t.Fatal("ResolveAPIKey() expected error for empty key file, got nil")
		}
		if !strings.Contains(err.Error(), "is empty") {
			t.Errorf("ResolveAPIKey() error = %q, want error naming the empty file", err.Error())
		}
	})

	t.Run("missing key file is an error", func(t *testing.T) {
		cfg := Default()
		cfg.Gemini.APIKeyFile = "/nonexistent/api_key"

		_, err := cfg.ResolveAPIKey()
		if err == nil {
			t.Fatal("ResolveAPIKey() expected error for missing key file, got nil")
		}
	})

	t.Run("nothing configured is an error", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "")

		cfg := Default()

		_, err := cfg.ResolveAPIKey()
		if err == nil {
			t.Fatal("ResolveAPIKey() expected error with no key configured, got nil")
		}
		if !strings.Contains(err.Error(), EnvAPIKey) {
			t.Errorf("ResolveAPIKey() error = %q, want error naming %s", err.Error(), EnvAPIKey)
		}
	})
}
