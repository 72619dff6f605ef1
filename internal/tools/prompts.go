// ABOUTME: Prompt composition for the Gemini tools.
// ABOUTME: Builds the review, brainstorm, and analysis prompts and caps oversized content.

package tools

import (
	"strings"
	"unicode/utf8"
)

const (
	// maxAnalyzeContentLen bounds the content embedded in an analysis prompt.
	// Content past the cap is cut and marked with truncationNotice.
	maxAnalyzeContentLen = 30000
	truncationNotice     = "\n\n[Content truncated due to size...]"
)

func composeCodeReviewPrompt(code, reviewContext, focusAreas string) string {
	var b strings.Builder
	b.WriteString("Please review the following code and provide feedback on:\n")
	b.WriteString("1. Code quality and best practices\n")
	b.WriteString("2. Potential bugs or issues\n")
	b.WriteString("3. Performance considerations\n")
	b.WriteString("4. Security concerns\n")
	b.WriteString("5. Suggestions for improvement\n")
	b.WriteString("\n")
	writeOptionalLine(&b, "Context: ", reviewContext)
	writeOptionalLine(&b, "Focus areas: ", focusAreas)
	b.WriteString("\nCode:\n```\n")
	b.WriteString(code)
	b.WriteString("\n```\n")
	return b.String()
}

func composeBrainstormPrompt(topic, constraints string) string {
	var b strings.Builder
	b.WriteString("Let's brainstorm ideas about: ")
	b.WriteString(topic)
	b.WriteString("\n\n")
	writeOptionalLine(&b, "Constraints/Requirements: ", constraints)
	b.WriteString("\nPlease provide:\n")
	b.WriteString("1. Creative ideas and approaches\n")
	b.WriteString("2. Potential challenges to consider\n")
	b.WriteString("3. Resources or tools that might help\n")
	b.WriteString("4. Next steps to explore these ideas\n")
	return b.String()
}

func composeAnalyzePrompt(content, analysisType, questions string) string {
	var b strings.Builder
	b.WriteString("Please analyze the following content.\n")
	b.WriteString("\n")
	b.WriteString("Analysis type: ")
	b.WriteString(analysisType)
	b.WriteString("\n")
	writeOptionalLine(&b, "Specific questions to answer: ", questions)
	b.WriteString("\nContent:\n```\n")
	b.WriteString(content)
	b.WriteString("\n```\n")
	b.WriteString("\nProvide a comprehensive analysis covering:\n")
	b.WriteString("1. Key insights and patterns\n")
	b.WriteString("2. Important findings\n")
	b.WriteString("3. Potential issues or concerns\n")
	b.WriteString("4. Recommendations\n")
	return b.String()
}

// writeOptionalLine writes "prefix value" when value is non-empty.
// The line's newline is written either way, so absent optional parameters
// leave an empty line in the prompt rather than shifting the layout.
func writeOptionalLine(b *strings.Builder, prefix, value string) {
	if value != "" {
		b.WriteString(prefix)
		b.WriteString(value)
	}
	b.WriteString("\n")
}

// truncateContent caps content at maxAnalyzeContentLen bytes, backing off to
// a rune boundary so a multi-byte character is never split.
func truncateContent(content string) string {
	if len(content) <= maxAnalyzeContentLen {
		return content
	}
	cut := maxAnalyzeContentLen
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + truncationNotice
}
