// Package tools provides the tool registry, argument validation, and the
// Gemini tool pack.
//
// # Overview
//
// A tool is a named operation a protocol client can call: a definition
// (name, description, JSON Schema for its arguments) paired with an
// in-process handler. Tools are grouped into packs and registered into a
// Registry, which the protocol server consults for listing and dispatch.
//
// # The Gemini Pack
//
// GeminiPack builds the four tools this server exposes:
//
//	ask_gemini            - Ask Gemini a question
//	gemini_code_review    - Structured code review
//	gemini_brainstorm     - Structured brainstorming
//	gemini_analyze_large  - Large-document analysis (large-context model)
//
// Handlers compose a prompt from the arguments, pick the model, and call a
// TextGenerator. The first three use the fast default model;
// gemini_analyze_large always uses the large-context model and caps embedded
// content at 30000 bytes, marking the cut with a truncation notice.
//
// # Argument Validation
//
// ValidateArguments checks call arguments against a tool's schema before the
// handler runs. Required string parameters carry minLength 1, so an explicit
// empty string fails validation the same way a missing parameter does, and
// neither reaches the backend. Properties the schema does not name are
// accepted and ignored.
//
// # Usage
//
//	registry := tools.NewRegistry(logger)
//	if err := registry.RegisterPack(tools.GeminiPack(client)); err != nil {
//		return err
//	}
//	tool := registry.Get("ask_gemini")
package tools
