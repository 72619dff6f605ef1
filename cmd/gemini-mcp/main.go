// ABOUTME: Entry point for the gemini-mcp stdio server
// ABOUTME: Exposes Gemini tools to MCP clients over stdin/stdout

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"

	"github.com/houseworthe/gemini-mcp-server/internal/config"
	"github.com/houseworthe/gemini-mcp-server/internal/gemini"
	"github.com/houseworthe/gemini-mcp-server/internal/mcp"
	"github.com/houseworthe/gemini-mcp-server/internal/tools"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                         _         _
  __ _   ___  _ __ ___  (_) _ __  (_)         _ __ ___    ___  _ __
 / _' | / _ \| '_ ' _ \ | || '_ \ | | ______ | '_ ' _ \  / __|| '_ \
| (_| ||  __/| | | | | || || | | || ||______|| | | | | || (__ | |_) |
 \__, | \___||_| |_| |_||_||_| |_||_|        |_| |_| |_| \___|| .__/
 |___/                                                        |_|
`

// getConfigPath returns the path to the gemini-mcp config file.
// Priority: GEMINI_MCP_CONFIG env var > XDG_CONFIG_HOME/gemini-mcp/config.yaml > ~/.config/gemini-mcp/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("GEMINI_MCP_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "gemini-mcp", "config.yaml")
}

func main() {
	// MCP clients launch the binary bare, so no subcommand means serve
	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch command {
	case "serve":
		err = runServe(ctx)
	case "tools":
		err = runTools()
	case "version":
		fmt.Printf("gemini-mcp %s\n", version)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gemini-mcp [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Start the MCP server on stdio (default)")
	fmt.Fprintln(w, "  tools      List the tools the server exposes")
	fmt.Fprintln(w, "  version    Print the version")
	fmt.Fprintln(w, "  help       Show this help")
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	// Everything human-facing goes to stderr; stdout carries the protocol
	cyan := color.New(color.FgCyan)
	cyan.Fprint(color.Error, banner)

	gray := color.New(color.FgHiBlack)
	gray.Fprintf(color.Error, "    version: %s\n\n", version)

	// Load configuration; a missing file means defaults plus environment
	configSource := configPath
	cfg, err := config.Load(configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = config.Default()
		configSource = "(defaults)"
	}

	logger, logCloser, err := setupLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	// Resolve the credential up front so a missing key fails at startup
	// instead of on the first tool call
	apiKey, err := cfg.ResolveAPIKey()
	if err != nil {
		return err
	}

	client, err := gemini.NewClient(gemini.Config{
		APIKey: apiKey,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("creating gemini client: %w", err)
	}

	registry := tools.NewRegistry(logger)
	if err := registry.RegisterPack(tools.GeminiPack(client)); err != nil {
		return fmt.Errorf("registering gemini tools: %w", err)
	}

	// Startup info
	green := color.New(color.FgGreen)

	green.Fprint(color.Error, "    ▶ ")
	fmt.Fprintf(os.Stderr, "Config: %s\n", configSource)
	green.Fprint(color.Error, "    ▶ ")
	fmt.Fprintf(os.Stderr, "Tools:  %d registered\n", len(registry.List()))
	green.Fprint(color.Error, "    ▶ ")
	fmt.Fprintf(os.Stderr, "Models: %s, %s\n", gemini.DefaultModel, gemini.LargeContextModel)

	fmt.Fprintln(os.Stderr)

	logger.Info("starting gemini-mcp",
		"config", configSource,
		"tools", len(registry.List()),
	)

	server, err := mcp.NewServer(mcp.Config{
		Registry: registry,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run(ctx)
}

// runTools prints the tool catalog without starting a server or
// requiring a credential.
func runTools() error {
	cyan := color.New(color.FgCyan)

	pack := tools.GeminiPack(nil)
	for _, tool := range pack.Tools {
		cyan.Println(tool.Definition.Name)
		fmt.Printf("    %s\n\n", tool.Definition.Description)
	}
	return nil
}

func setupLogger(cfg config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// A log file keeps stderr quiet for clients that surface it to users
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		var handler slog.Handler
		if cfg.Format == "json" {
			handler = slog.NewJSONHandler(f, opts)
		} else {
			handler = slog.NewTextHandler(f, opts)
		}
		return slog.New(handler), f, nil
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler), nil, nil
}

// colorHandler provides colorized log output on stderr with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	// Format timestamp
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	// Colorize level
	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	// Print message
	buf.WriteString(r.Message)

	// Print handler-level attrs first (from WithAttrs)
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	// Print record attrs
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Fprint(color.Error, buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}
