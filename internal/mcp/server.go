// ABOUTME: MCP server speaking newline-delimited JSON-RPC 2.0 over stdio.
// ABOUTME: Dispatches initialize, tools/list, and tools/call against the tool registry.

package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/houseworthe/gemini-mcp-server/internal/gemini"
	"github.com/houseworthe/gemini-mcp-server/internal/tools"
)

// Protocol handshake values advertised in initialize responses.
const (
	protocolVersion = "2024-11-05"
	serverName      = "gemini-collab"
	serverVersion   = "1.0.0"
)

// DefaultTimeout is the per-call deadline applied to tool dispatch.
const DefaultTimeout = 30 * time.Second

// JSON-RPC 2.0 types

// JSONRPCRequest represents a JSON-RPC 2.0 request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response.
// ID has no omitempty so a parse-error response carries an explicit null id.
type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC 2.0 error object.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Standard JSON-RPC error codes
const (
	JSONRPCParseError     = -32700
	JSONRPCInvalidRequest = -32600
	JSONRPCMethodNotFound = -32601
	JSONRPCInvalidParams  = -32602
	JSONRPCInternalError  = -32603
)

// MCP-specific types

// MCPToolInfo represents an MCP tool definition.
type MCPToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// MCPListToolsResult is the result for tools/list.
type MCPListToolsResult struct {
	Tools []MCPToolInfo `json:"tools"`
}

// MCPCallToolParams are the params for tools/call.
type MCPCallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// MCPCallToolResult is the result for tools/call.
type MCPCallToolResult struct {
	Content []MCPContent `json:"content"`
	IsError bool         `json:"isError,omitempty"`
}

// MCPContent represents content in a tool result.
type MCPContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Config holds configuration for the MCP server.
type Config struct {
	Registry *tools.Registry
	Logger   *slog.Logger
	Input    io.Reader     // defaults to os.Stdin
	Output   io.Writer     // defaults to os.Stdout
	Timeout  time.Duration // per-call deadline, defaults to DefaultTimeout
}

// Server reads one JSON-RPC message per line from Input and writes one
// response per line to Output. Requests are processed strictly in order.
type Server struct {
	registry *tools.Registry
	logger   *slog.Logger
	in       io.Reader
	out      io.Writer
	timeout  time.Duration
}

// NewServer creates a new MCP server with the given configuration.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	in := cfg.Input
	if in == nil {
		in = os.Stdin
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Server{
		registry: cfg.Registry,
		logger:   logger,
		in:       in,
		out:      out,
		timeout:  timeout,
	}, nil
}

// Run processes messages until the input closes or ctx is cancelled.
// Both are clean shutdowns and return nil; only a transport read failure
// returns an error.
func (s *Server) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		// bufio.Reader rather than Scanner: lines carry whole documents in
		// tool arguments and must not be capped at a token size.
		reader := bufio.NewReader(s.in)
		for {
			line, err := reader.ReadString('\n')
			if len(line) > 0 {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down", "reason", "context cancelled")
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return fmt.Errorf("reading input: %w", err)
				default:
				}
				s.logger.Info("shutting down", "reason", "input closed")
				return nil
			}
			s.processLine(ctx, line)
		}
	}
}

// processLine handles a single input line to completion.
func (s *Server) processLine(ctx context.Context, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	var req JSONRPCRequest
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		s.logger.Warn("discarding malformed input line", "error", err)
		s.writeError(nil, JSONRPCParseError, "Parse error: invalid JSON")
		return
	}

	if req.JSONRPC != "2.0" {
		s.writeError(req.ID, JSONRPCInvalidRequest, "Invalid Request: unsupported JSON-RPC version")
		return
	}
	if req.Method == "" {
		s.writeError(req.ID, JSONRPCInvalidRequest, "Invalid Request: missing method")
		return
	}

	// Notifications (no id, or null id) get no response
	if len(req.ID) == 0 || string(req.ID) == "null" {
		if strings.HasPrefix(req.Method, "notifications/") {
			s.logger.Debug("accepted notification", "method", req.Method)
		} else {
			s.logger.Warn("received notification for non-notification method", "method", req.Method)
		}
		return
	}

	s.logger.Debug("request received", "method", req.Method, "id", string(req.ID))

	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "tools/list":
		s.handleToolsList(req)
	case "tools/call":
		s.handleToolsCall(ctx, req)
	default:
		s.writeError(req.ID, JSONRPCMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

// handleInitialize handles the MCP initialize handshake.
func (s *Server) handleInitialize(req JSONRPCRequest) {
	result := map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    serverName,
			"version": serverVersion,
		},
	}
	s.writeResult(req.ID, result)
}

// handleToolsList handles tools/list requests.
func (s *Server) handleToolsList(req JSONRPCRequest) {
	registered := s.registry.List()

	result := MCPListToolsResult{
		Tools: make([]MCPToolInfo, len(registered)),
	}
	for i, tool := range registered {
		result.Tools[i] = MCPToolInfo{
			Name:        tool.Definition.Name,
			Description: tool.Definition.Description,
			InputSchema: tool.Definition.InputSchema,
		}
	}

	s.logger.Debug("tools/list", "count", len(registered))
	s.writeResult(req.ID, result)
}

// handleToolsCall validates a tool call and dispatches it to its handler.
// The backend is never contacted for unknown tools or invalid arguments.
func (s *Server) handleToolsCall(ctx context.Context, req JSONRPCRequest) {
	var params MCPCallToolParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.writeError(req.ID, JSONRPCInvalidParams, "Invalid params: malformed params object")
			return
		}
	}

	if params.Name == "" {
		s.writeError(req.ID, JSONRPCInvalidParams, "Invalid params: missing tool name")
		return
	}

	tool := s.registry.Get(params.Name)
	if tool == nil {
		s.writeError(req.ID, JSONRPCInvalidParams, fmt.Sprintf("Unknown tool: %s", params.Name))
		return
	}

	args := params.Arguments
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage("{}")
	}

	if err := tools.ValidateArguments(tool.Definition.InputSchema, args); err != nil {
		s.writeError(req.ID, JSONRPCInvalidParams, "Invalid params: "+err.Error())
		return
	}

	// Generate request ID for correlation
	requestID := uuid.New().String()

	s.logger.Debug("tools/call",
		"tool_name", params.Name,
		"request_id", requestID,
	)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := tool.Handler(callCtx, args)
	if err != nil {
		s.writeToolError(req.ID, params.Name, requestID, err)
		return
	}

	s.logger.Debug("tools/call complete",
		"tool_name", params.Name,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	s.writeResult(req.ID, MCPCallToolResult{
		Content: []MCPContent{{Type: "text", Text: text}},
	})
}

// writeToolError maps a handler failure to an internal error response.
func (s *Server) writeToolError(id json.RawMessage, toolName, requestID string, err error) {
	s.logger.Warn("tool call failed",
		"tool_name", toolName,
		"request_id", requestID,
		"error", err,
	)

	var statusErr *gemini.StatusError
	var message string
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		message = fmt.Sprintf("request timed out after %d seconds", int(s.timeout.Seconds()))
	case errors.Is(err, context.Canceled):
		message = "request cancelled"
	case errors.As(err, &statusErr):
		message = statusErr.Error()
	default:
		message = err.Error()
	}

	s.writeError(id, JSONRPCInternalError, "Error calling Gemini: "+message)
}

// writeResult sends a successful JSON-RPC response.
func (s *Server) writeResult(id json.RawMessage, result any) {
	s.writeResponse(JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

// writeError sends a JSON-RPC error response.
func (s *Server) writeError(id json.RawMessage, code int, message string) {
	s.writeResponse(JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
		},
	})
}

// writeResponse writes one response as a single newline-terminated line.
func (s *Server) writeResponse(resp JSONRPCResponse) {
	if err := json.NewEncoder(s.out).Encode(resp); err != nil {
		s.logger.Warn("failed to encode JSON-RPC response", "error", err)
	}
}
