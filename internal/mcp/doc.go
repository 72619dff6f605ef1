// Package mcp implements the Model Context Protocol server over stdio.
//
// # Overview
//
// MCP (Model Context Protocol) is a standard for AI tool integration. This
// package provides the stdio transport used by host applications that spawn
// tool servers as child processes (like Claude Desktop): one JSON-RPC 2.0
// message per line on stdin, one response per line on stdout. Logs go to
// stderr or a file; stdout carries nothing but protocol.
//
// # Protocol
//
// Three methods are served:
//
//   - initialize - protocol handshake (version 2024-11-05)
//   - tools/list - registered tool definitions with JSON Schemas
//   - tools/call - validate arguments and dispatch to a tool handler
//
// Messages without an id (or with a null id) are notifications and receive
// no response. Unknown methods get a -32601 error, malformed lines a -32700
// error with a null id. A bad line never stops the loop.
//
// # Tool Execution
//
// Clients call tools/call to execute a tool:
//
//	{
//	  "jsonrpc": "2.0",
//	  "method": "tools/call",
//	  "params": {
//	    "name": "ask_gemini",
//	    "arguments": {"question": "What is 2+2?"}
//	  },
//	  "id": 2
//	}
//
// Arguments are validated against the tool's schema before dispatch; the
// backend is never contacted for unknown tools or invalid arguments. Each
// dispatch runs under a 30-second deadline and is logged with a correlation
// id. Handler failures map to -32603 errors prefixed "Error calling Gemini:"
// with a cause-specific message (timeout, HTTP status, unreachable,
// malformed response).
//
// # Sequencing
//
// Requests are processed strictly in order: one line is handled to
// completion before the next is read. There is no concurrency in the
// request path and no state carried between requests.
//
// # Shutdown
//
// Run returns nil on stdin EOF and on context cancellation (the binary wires
// SIGINT/SIGTERM to the context); both are clean shutdowns. Only a transport
// read failure returns an error.
//
// # Usage
//
//	server, err := mcp.NewServer(mcp.Config{
//		Registry: registry,
//		Logger:   logger,
//	})
//	if err != nil {
//		return err
//	}
//	return server.Run(ctx)
package mcp
