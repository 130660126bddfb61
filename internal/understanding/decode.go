package understanding

import (
	"encoding/json"
	"fmt"
	"strings"

	"noteflow/internal/port"
)

// DecodeSessions parses a provider's raw JSON text into an UnderstandOutput.
// Providers call this after unwrapping their API response envelope.
func DecodeSessions(text, model string) (*port.UnderstandOutput, error) {
	text = stripCodeFence(text)

	var out port.UnderstandOutput
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("parsing LLM JSON output: %w (raw: %s)", err, truncate(text, 500))
	}
	out.ModelUsed = model
	return &out, nil
}

// stripCodeFence removes a surrounding markdown code fence when a provider
// ignores the no-fences instruction.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return text
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
