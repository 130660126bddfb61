package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"noteflow/internal/config"
	"noteflow/internal/port"
	"noteflow/internal/understanding"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

// Understander implements port.SessionUnderstander using the Anthropic
// Messages API.
type Understander struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewUnderstander creates a Claude-based session understander from a provider config.
func NewUnderstander(cfg *config.UnderstandingProviderConfig) *Understander {
	return newUnderstander(cfg, apiURL)
}

// NewUnderstanderWithEndpoint creates an understander pointing at a custom API
// endpoint (for testing).
func NewUnderstanderWithEndpoint(cfg *config.UnderstandingProviderConfig, endpoint string) *Understander {
	return newUnderstander(cfg, endpoint)
}

func newUnderstander(cfg *config.UnderstandingProviderConfig, endpoint string) *Understander {
	model := cfg.DefaultModel
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Understander{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (u *Understander) ExtractSessions(ctx context.Context, input port.UnderstandInput) (*port.UnderstandOutput, error) {
	prompt := understanding.BuildSessionPrompt(input)

	reqBody := map[string]interface{}{
		"model":      u.model,
		"max_tokens": 16384,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", u.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := understanding.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, understanding.NewRateLimitError("claude", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody, u.model)
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte, model string) (*port.UnderstandOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	if resp.StopReason == "max_tokens" {
		return nil, fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}

	return understanding.DecodeSessions(resp.Content[0].Text, model)
}
