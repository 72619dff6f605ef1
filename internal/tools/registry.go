// ABOUTME: Thread-safe registry for in-process tool packs.
// ABOUTME: Manages pack registration, name collision detection, and ordered listing.

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrToolCollision indicates a tool name already exists from another pack.
var ErrToolCollision = errors.New("tool name collision")

// Handler is a function that executes a tool in-process.
// It receives the call arguments as JSON and returns the result text.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Definition describes a tool to protocol clients.
type Definition struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// Tool pairs a definition with the handler that executes it.
type Tool struct {
	Definition Definition
	Handler    Handler
}

// Pack is a named collection of tools registered together.
type Pack struct {
	ID    string
	Tools []*Tool
}

// registeredTool stores a tool with its pack ID for registry lookup.
type registeredTool struct {
	tool   *Tool
	packID string
}

// Registry maintains the set of registered tools.
// Listing preserves registration order so clients see a stable tool list.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]*registeredTool
	order  []string
	logger *slog.Logger
}

// NewRegistry creates a new Registry instance.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tools:  make(map[string]*registeredTool),
		logger: logger,
	}
}

// RegisterPack validates and stores a pack and its tools.
// Returns ErrToolCollision if any tool name already exists from another pack.
func (r *Registry) RegisterPack(pack *Pack) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for tool name collisions before registering
	for _, tool := range pack.Tools {
		if existing, exists := r.tools[tool.Definition.Name]; exists {
			return fmt.Errorf("%w: tool '%s' already registered by pack '%s'",
				ErrToolCollision, tool.Definition.Name, existing.packID)
		}
	}

	// Register all tools
	for _, tool := range pack.Tools {
		r.tools[tool.Definition.Name] = &registeredTool{
			tool:   tool,
			packID: pack.ID,
		}
		r.order = append(r.order, tool.Definition.Name)
	}

	r.logger.Info("=== PACK REGISTERED ===",
		"pack_id", pack.ID,
		"tool_count", len(pack.Tools),
		"total_tools", len(r.tools),
	)

	return nil
}

// Get returns a tool by name, or nil if not found.
func (r *Registry) Get(name string) *Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, ok := r.tools[name]; ok {
		return entry.tool
	}
	return nil
}

// List returns all registered tools in registration order.
func (r *Registry) List() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].tool)
	}
	return tools
}
