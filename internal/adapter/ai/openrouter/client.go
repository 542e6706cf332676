// Package openrouter implements the reasoning-service client backed by
// the OpenRouter chat completions API.
package openrouter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/config"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/observability"
)

// Client implements domain.AIClient. Every call is attempted exactly
// once with a bounded timeout; callers own the fallback behavior, so no
// retry layer sits in front of the request.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a client with the configured request timeout.
func New(cfg config.Config) *Client {
	return &Client{
		cfg: cfg,
		hc:  &http.Client{Timeout: cfg.AIRequestTimeout},
	}
}

// ChatJSON calls the chat completions endpoint and returns the raw
// message content. A 402 (quota exceeded) is surfaced as
// domain.ErrQuotaExceeded so call sites can log it distinctly; every
// other failure maps to domain.ErrServiceUnavailable.
func (c *Client) ChatJSON(ctx domain.Context, model, systemPrompt, userPrompt string) (string, error) {
	if c.cfg.OpenRouterAPIKey == "" {
		slog.Error("OpenRouter API key missing", slog.String("provider", "openrouter"))
		return "", fmt.Errorf("%w: OPENROUTER_API_KEY missing", domain.ErrInvalidArgument)
	}

	messages := make([]map[string]string, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, map[string]string{"role": "system", "content": systemPrompt})
	}
	messages = append(messages, map[string]string{"role": "user", "content": userPrompt})
	body := map[string]any{
		"model":       model,
		"temperature": 0,
		"messages":    messages,
	}
	b, _ := json.Marshal(body)

	start := time.Now()
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenRouterBaseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("op=openrouter.chat: %w", err)
	}
	r.Header.Set("Authorization", "Bearer "+c.cfg.OpenRouterAPIKey)
	r.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(r)
	observability.AIRequestsTotal.WithLabelValues("openrouter", "chat").Inc()
	observability.AIRequestDuration.WithLabelValues("openrouter", "chat").Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Error("ai provider request failed", slog.String("provider", "openrouter"), slog.String("model", model), slog.Any("error", err))
		return "", fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("failed to read response body", slog.String("provider", "openrouter"), slog.Any("error", err))
		return "", fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}

	if resp.StatusCode == http.StatusPaymentRequired {
		slog.Warn("ai provider quota exceeded", slog.String("provider", "openrouter"), slog.String("model", model), slog.Int("status", resp.StatusCode), slog.String("x_request_id", resp.Header.Get("X-Request-Id")))
		return "", fmt.Errorf("%w: status 402", domain.ErrQuotaExceeded)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodySnippet := string(bodyBytes)
		if len(bodySnippet) > 512 {
			bodySnippet = bodySnippet[:512]
		}
		slog.Error("ai provider non-2xx", slog.String("provider", "openrouter"), slog.Int("status", resp.StatusCode), slog.String("model", model), slog.String("x_request_id", resp.Header.Get("X-Request-Id")), slog.String("body", bodySnippet))
		return "", fmt.Errorf("%w: chat status %d", domain.ErrServiceUnavailable, resp.StatusCode)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(bodyBytes, &out); err != nil {
		slog.Error("ai provider decode error", slog.String("provider", "openrouter"), slog.String("model", model), slog.Any("error", err))
		return "", fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	if len(out.Choices) == 0 {
		slog.Error("ai provider returned empty choices", slog.String("provider", "openrouter"), slog.String("model", model))
		return "", fmt.Errorf("%w: empty choices", domain.ErrServiceUnavailable)
	}

	slog.Debug("ai provider call successful", slog.String("provider", "openrouter"), slog.String("model", model), slog.Int("content_length", len(out.Choices[0].Message.Content)))
	return out.Choices[0].Message.Content, nil
}
