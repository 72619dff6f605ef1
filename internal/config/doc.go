// Package config handles configuration loading for gemini-mcp.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation, sensible defaults, and credential
// resolution. The config file is optional: when it does not exist the server
// runs on defaults and takes its credential from the environment.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from GEMINI_MCP_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/gemini-mcp/config.yaml
//  3. ~/.config/gemini-mcp/config.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	gemini:
//	  api_key: "${GEMINI_API_KEY}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Backend credential (pick one source):
//
//	gemini:
//	  api_key: "${GEMINI_API_KEY}"       # literal key or env reference
//	  api_key_file: "~/.config/gemini-mcp/api_key"
//
// The key file should be readable only by the owning user (mode 0600).
// When neither field is set, the GEMINI_API_KEY environment variable is
// consulted directly.
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//	  file: ""        # optional log file; stderr when empty
//
// stdout carries the MCP protocol stream, so logs never go there.
//
// # Credential Resolution
//
// ResolveAPIKey() checks sources in order (api_key, api_key_file,
// environment) and fails when all are empty. The server resolves the key
// once at startup and exits non-zero if it is missing, rather than failing
// on the first tool call.
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load(path)
//	if errors.Is(err, fs.ErrNotExist) {
//	    cfg = config.Default()
//	} else if err != nil {
//	    log.Fatal(err)
//	}
//
//	key, err := cfg.ResolveAPIKey()
package config
