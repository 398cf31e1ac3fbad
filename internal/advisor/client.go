// Package advisor talks to the LLM-based suggestion service. The engine
// sends it column metadata and small row samples only — never full datasets —
// and receives either free-text explanation or a structured suggestion list.
// Suggestion content is validated for shape only; applying a suggestion is
// the caller's responsibility.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Config is threaded explicitly into every call site. There is no ambient
// process-wide provider state.
type Config struct {
	APIKey           string
	BaseURL          string
	Model            string
	Temperature      float64
	MaxTokens        int
	HTTPTimeout      time.Duration
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
	RetryMaxDelay    time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 60 * time.Second
	}
	if c.RetryMaxAttempts <= 0 {
		c.RetryMaxAttempts = 3
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = 500 * time.Millisecond
	}
	if c.RetryMaxDelay <= 0 {
		c.RetryMaxDelay = 4 * time.Second
	}
	return c
}

// Client is a provider-agnostic chat-completions client with retry/backoff.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient builds a client from an explicit configuration value.
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{cfg: cfg, httpClient: &http.Client{Timeout: cfg.HTTPTimeout}}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// complete sends one chat request, retrying 429 and 5xx responses with
// exponential backoff and jitter, honoring Retry-After when present.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", errors.New("advisory api key is missing")
	}
	payload, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []message{{Role: "system", Content: system}, {Role: "user", Content: user}},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	backoff := c.cfg.RetryBaseDelay
	var lastErr error
	for attempt := 1; attempt <= c.cfg.RetryMaxAttempts; attempt++ {
		out, retryable, err := c.attempt(ctx, payload)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !retryable || attempt == c.cfg.RetryMaxAttempts {
			break
		}
		var rl *RateLimitError
		sleep := withJitter(backoff)
		if errors.As(err, &rl) && rl.RetryAfter > 0 {
			sleep = rl.RetryAfter
		}
		if sleep > c.cfg.RetryMaxDelay {
			sleep = c.cfg.RetryMaxDelay
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(sleep):
		}
		backoff *= 2
	}
	return "", lastErr
}

func (c *Client) attempt(ctx context.Context, payload []byte) (out string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isRetryableNetErr(err) {
			return "", true, &UnreachableError{Host: c.cfg.BaseURL, Err: err}
		}
		return "", false, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var raw map[string]any
		_ = json.Unmarshal(body, &raw)
		if v, ok := raw["error"].(map[string]any); ok {
			if msg, ok := v["message"].(string); ok {
				apiErr.Message = msg
			}
			if code, ok := v["code"].(string); ok {
				apiErr.Code = code
			}
		}
		classified := classifyAPIError(apiErr, resp)
		if resp.StatusCode == http.StatusTooManyRequests {
			if secs, err := parseRetryAfterSeconds(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
				classified = &RateLimitError{APIError: apiErr, RetryAfter: time.Duration(secs) * time.Second}
			}
			return "", true, classified
		}
		return "", resp.StatusCode >= 500, classified
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", false, fmt.Errorf("decode response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", false, errors.New("empty response from provider")
	}
	return cr.Choices[0].Message.Content, false, nil
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

func parseRetryAfterSeconds(v string) (int, error) {
	if v == "" {
		return 0, errors.New("empty")
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return secs, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d > 0 {
			return int(d.Seconds()), nil
		}
	}
	return 0, errors.New("unparseable Retry-After")
}

func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	// up to 25% jitter
	j := time.Duration(rand.Int63n(int64(d) / 4))
	return d + j
}
