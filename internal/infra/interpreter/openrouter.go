package interpreter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const systemPrompt = `You convert a user's reminder request into a single UTC timestamp.
The current time is given as an RFC 3339 timestamp. Answer with exactly one
RFC 3339 UTC timestamp for when the reminder should fire, or the word NONE
if the text contains no temporal expression. No other output.`

type OpenRouterConfig struct {
	APIKey      string
	URL         string
	Model       string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

// OpenRouterClient interprets temporal expressions through the OpenRouter
// chat-completions API. Every call carries a bounded timeout so a slow model
// can never stall the submit path.
type OpenRouterClient struct {
	cfg    OpenRouterConfig
	client *http.Client
}

func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	if cfg.URL == "" {
		cfg.URL = "https://openrouter.ai/api/v1/chat/completions"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 100
	}

	return &OpenRouterClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenRouterClient) Interpret(ctx context.Context, text string, reference time.Time) (time.Time, error) {
	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Current time: %s\nRequest: %s",
				reference.UTC().Format(time.RFC3339), text)},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("interpretation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		slog.Warn("interpreter returned non-OK status",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)

		return time.Time{}, fmt.Errorf("interpretation request failed: status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return time.Time{}, ErrNoInterpretation
	}

	answer := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if answer == "" || strings.EqualFold(answer, "NONE") {
		return time.Time{}, ErrNoInterpretation
	}

	instant, err := time.Parse(time.RFC3339, answer)
	if err != nil {
		slog.Warn("interpreter returned unparseable answer",
			slog.String("answer", answer),
		)

		return time.Time{}, ErrNoInterpretation
	}

	return instant.UTC(), nil
}
