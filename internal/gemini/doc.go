// Package gemini implements an HTTP client for the Google Gemini
// generateContent API.
//
// # Overview
//
// The client sends a prompt to a named Gemini model and returns the text of
// the first candidate in the response. It deliberately exposes a single
// operation, Generate, because every tool in this server reduces to "compose
// a prompt, get text back". Streaming, chat history, and multimodal input
// are out of scope.
//
// # Models
//
// Two model names are exported:
//
//   - DefaultModel (gemini-1.5-flash): fast, used for interactive tools
//   - LargeContextModel (gemini-1.5-pro): larger context window, used for
//     document analysis
//
// Callers pick the model per request; the client holds no model state.
//
// # Error Classification
//
// Generate classifies failures so callers can map them to protocol errors
// without matching on message strings:
//
//   - context.DeadlineExceeded / context.Canceled: the request context
//     expired or was canceled mid-flight
//   - ErrUnreachable: the API endpoint could not be reached at all
//   - *StatusError: the API answered with a non-200 status; carries the
//     status code and a truncated response body
//   - ErrMalformedResponse: the API answered 200 but the body was not the
//     expected shape
//
// Check with the errors package:
//
//	text, err := client.Generate(ctx, gemini.DefaultModel, prompt)
//	var statusErr *gemini.StatusError
//	switch {
//	case errors.Is(err, context.DeadlineExceeded):
//		// timed out
//	case errors.As(err, &statusErr):
//		// API error, statusErr.StatusCode
//	case errors.Is(err, gemini.ErrUnreachable):
//		// network failure
//	}
//
// # Credential Handling
//
// The API key travels in the x-goog-api-key request header, never in the
// URL, so it cannot surface in url.Error strings. Error text and log output
// never include the key or prompt content; logs carry sizes and durations
// only.
//
// # Usage
//
//	client, err := gemini.NewClient(gemini.Config{APIKey: key, Logger: logger})
//	if err != nil {
//		return err
//	}
//	text, err := client.Generate(ctx, gemini.DefaultModel, "What is 2+2?")
package gemini
