package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Client asks an OpenAI-compatible chat completions endpoint for persona
// replies. It is decoration only: every failure degrades to an inline error
// string so a provider outage can never abort a settlement.
type Client struct {
	httpClient *http.Client
	host       string
	apiKey     string
	model      string
	logger     *zap.Logger
}

func NewClient(httpClient *http.Client, host, apiKey, model string, logger *zap.Logger) *Client {
	if host == "" {
		host = "https://api.openai.com/v1"
	}
	host = strings.TrimRight(host, "/")
	if model == "" {
		model = "gpt-4"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		host:       host,
		apiKey:     apiKey,
		model:      model,
		logger:     logger,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Explain returns the persona's reply, or an inline "error: ..." placeholder.
// It never returns a Go error.
func (c *Client) Explain(ctx context.Context, agentID, question string) string {
	answer, err := c.complete(ctx, promptFor(agentID), question)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("narrative provider failed",
				zap.String("agent", agentID),
				zap.Error(err),
			)
		}
		return fmt.Sprintf("error: %v", err)
	}
	return answer
}

func (c *Client) complete(ctx context.Context, system, question string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: question},
		},
		Temperature: 0.8,
		MaxTokens:   500,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("provider returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
