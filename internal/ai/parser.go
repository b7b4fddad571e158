package ai

import (
	"regexp"
	"strings"
)

var thinkTagRegex = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripThinkTags removes reasoning-model <think> blocks from the response.
func StripThinkTags(text string) string {
	return strings.TrimSpace(thinkTagRegex.ReplaceAllString(text, ""))
}

// CleanResponse strips reasoning tags and a wrapping markdown code fence.
func CleanResponse(text string) string {
	cleaned := StripThinkTags(text)

	if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") && len(cleaned) >= 6 {
		cleaned = strings.TrimSuffix(cleaned, "```")
		// drop the opening fence together with its language tag
		if i := strings.IndexByte(cleaned, '\n'); i >= 0 {
			cleaned = cleaned[i+1:]
		} else {
			cleaned = strings.TrimPrefix(cleaned, "```")
		}
	}

	return strings.TrimSpace(cleaned)
}
