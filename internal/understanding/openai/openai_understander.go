package openai

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
	apiURL = "https://api.openai.com/v1/chat/completions"
)

// Understander implements port.SessionUnderstander using the OpenAI Chat
// Completions API.
type Understander struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewUnderstander creates an OpenAI-based session understander from a provider config.
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
		model = "gpt-4o"
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
		"model":                 u.model,
		"max_completion_tokens": 16384,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"response_format": map[string]interface{}{
			"type": "json_object",
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
	req.Header.Set("Authorization", "Bearer "+u.apiKey)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := understanding.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, understanding.NewRateLimitError("openai", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody, u.model)
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte, model string) (*port.UnderstandOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}

	if resp.Choices[0].FinishReason == "length" {
		return nil, fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}

	return understanding.DecodeSessions(resp.Choices[0].Message.Content, model)
}
