// ABOUTME: HTTP client for the Google Gemini generateContent API
// ABOUTME: Classifies failures so the dispatcher can map them without string matching

package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Model identifiers for the two variants the tools choose between.
const (
	// DefaultModel handles questions, code review, and brainstorming.
	DefaultModel = "gemini-1.5-flash"

	// LargeContextModel handles large-document analysis.
	LargeContextModel = "gemini-1.5-pro"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// maxErrorBody caps the response-body excerpt carried in a StatusError.
const maxErrorBody = 512

// ErrUnreachable wraps network-level failures: connection refused, DNS
// errors, interrupted body reads.
var ErrUnreachable = errors.New("gemini api unreachable")

// ErrMalformedResponse wraps structurally invalid backend responses: bodies
// that are not JSON or that carry no text content.
var ErrMalformedResponse = errors.New("malformed gemini response")

// StatusError reports a non-200 response from the backend. Body holds a
// truncated excerpt of the response body.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("gemini api returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("gemini api returned HTTP %d: %s", e.StatusCode, e.Body)
}

// Config holds the settings for a Client.
type Config struct {
	// APIKey authenticates requests. Required. It is sent only in the
	// x-goog-api-key header and never appears in errors or logs.
	APIKey string

	// BaseURL overrides the public endpoint, primarily for tests.
	BaseURL string

	// HTTPClient overrides the default http.Client.
	HTTPClient *http.Client

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client calls the Gemini generateContent endpoint. It performs exactly one
// HTTP request per Generate call: no retries, no caching. Timeouts are the
// caller's responsibility via context.
type Client struct {
	apiKey string
	base   string
	http   *http.Client
	logger *slog.Logger
}

// NewClient validates cfg and returns a ready Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("api key is required")
	}

	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		apiKey: cfg.APIKey,
		base:   strings.TrimRight(base, "/"),
		http:   httpClient,
		logger: logger,
	}, nil
}

// Request and response shapes for the generateContent endpoint.
type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []generateCandidate `json:"candidates"`
}

type generateCandidate struct {
	Content generateContent `json:"content"`
}

// Generate sends prompt to the named model and returns the generated text
// verbatim. Errors carry one of the package's classifications:
// context.DeadlineExceeded, context.Canceled, ErrUnreachable, *StatusError,
// or ErrMalformedResponse.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	payload := generateRequest{
		Contents: []generateContent{
			{Parts: []generatePart{{Text: prompt}}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent", c.base, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	c.logger.Debug("calling gemini api", "model", model, "prompt_chars", len(prompt))
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return "", fmt.Errorf("gemini request: %w", context.DeadlineExceeded)
		case errors.Is(err, context.Canceled):
			return "", fmt.Errorf("gemini request: %w", context.Canceled)
		default:
			return "", fmt.Errorf("%w: %v", ErrUnreachable, rootCause(err))
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response body: %v", ErrUnreachable, rootCause(err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: truncateBody(data)}
	}

	var parsed generateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("%w: response body is not JSON", ErrMalformedResponse)
	}

	text, err := extractText(parsed)
	if err != nil {
		return "", err
	}

	c.logger.Debug("gemini api responded",
		"model", model,
		"duration", time.Since(start),
		"response_chars", len(text))

	return text, nil
}

// extractText pulls candidates[0].content.parts[0].text out of a response.
func extractText(resp generateResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates in response", ErrMalformedResponse)
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: candidate has no content parts", ErrMalformedResponse)
	}
	return parts[0].Text, nil
}

// rootCause strips the *url.Error wrapper so error text stays compact and
// never carries a request URL.
func rootCause(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
