// ABOUTME: Gemini pack exposing the four Gemini-backed tools.
// ABOUTME: Handlers compose prompts, pick the model, and relay the generated text.

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/houseworthe/gemini-mcp-server/internal/gemini"
)

// TextGenerator produces text from a prompt using a named model.
// Satisfied by *gemini.Client.
type TextGenerator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// GeminiPack creates the pack of Gemini-backed tools.
func GeminiPack(client TextGenerator) *Pack {
	g := &geminiHandlers{client: client}
	return &Pack{
		ID: "gemini",
		Tools: []*Tool{
			{
				Definition: Definition{
					Name:        "ask_gemini",
					Description: "Ask Gemini a question",
					InputSchema: json.RawMessage(`{"type":"object","properties":{"question":{"type":"string","description":"Question to ask","minLength":1}},"required":["question"]}`),
				},
				Handler: g.Ask,
			},
			{
				Definition: Definition{
					Name:        "gemini_code_review",
					Description: "Get code review from Gemini (supports large codebases)",
					InputSchema: json.RawMessage(`{"type":"object","properties":{"code":{"type":"string","description":"Code to review (can be very large)","minLength":1},"context":{"type":"string","description":"Additional context","default":""},"focus_areas":{"type":"string","description":"Specific areas to focus on","default":""}},"required":["code"]}`),
				},
				Handler: g.CodeReview,
			},
			{
				Definition: Definition{
					Name:        "gemini_brainstorm",
					Description: "Brainstorm ideas with Gemini",
					InputSchema: json.RawMessage(`{"type":"object","properties":{"topic":{"type":"string","description":"Topic to brainstorm","minLength":1},"constraints":{"type":"string","description":"Any constraints","default":""}},"required":["topic"]}`),
				},
				Handler: g.Brainstorm,
			},
			{
				Definition: Definition{
					Name:        "gemini_analyze_large",
					Description: "Analyze large documents or codebases with Gemini (optimized for 1M+ token contexts)",
					InputSchema: json.RawMessage(`{"type":"object","properties":{"content":{"type":"string","description":"Large content to analyze (documents, logs, codebases)","minLength":1},"analysis_type":{"type":"string","description":"Type of analysis needed","default":"general"},"questions":{"type":"string","description":"Specific questions to answer","default":""}},"required":["content"]}`),
				},
				Handler: g.AnalyzeLarge,
			},
		},
	}
}

type geminiHandlers struct {
	client TextGenerator
}

type askInput struct {
	Question string `json:"question"`
}

func (g *geminiHandlers) Ask(ctx context.Context, args json.RawMessage) (string, error) {
	var in askInput
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("invalid input: %w", err)
	}

	return g.client.Generate(ctx, gemini.DefaultModel, in.Question)
}

type codeReviewInput struct {
	Code       string `json:"code"`
	Context    string `json:"context"`
	FocusAreas string `json:"focus_areas"`
}

func (g *geminiHandlers) CodeReview(ctx context.Context, args json.RawMessage) (string, error) {
	var in codeReviewInput
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("invalid input: %w", err)
	}

	prompt := composeCodeReviewPrompt(in.Code, in.Context, in.FocusAreas)
	return g.client.Generate(ctx, gemini.DefaultModel, prompt)
}

type brainstormInput struct {
	Topic       string `json:"topic"`
	Constraints string `json:"constraints"`
}

func (g *geminiHandlers) Brainstorm(ctx context.Context, args json.RawMessage) (string, error) {
	var in brainstormInput
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("invalid input: %w", err)
	}

	prompt := composeBrainstormPrompt(in.Topic, in.Constraints)
	return g.client.Generate(ctx, gemini.DefaultModel, prompt)
}

type analyzeInput struct {
	Content      string `json:"content"`
	AnalysisType string `json:"analysis_type"`
	Questions    string `json:"questions"`
}

func (g *geminiHandlers) AnalyzeLarge(ctx context.Context, args json.RawMessage) (string, error) {
	var in analyzeInput
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("invalid input: %w", err)
	}
	if in.AnalysisType == "" {
		in.AnalysisType = "general"
	}

	// Truncate before composing so the fence and trailing sections stay intact.
	content := truncateContent(in.Content)
	prompt := composeAnalyzePrompt(content, in.AnalysisType, in.Questions)

	// Large content is the whole point of this tool: the large-context
	// model serves every call, regardless of content size.
	return g.client.Generate(ctx, gemini.LargeContextModel, prompt)
}
