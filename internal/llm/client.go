// Package llm is a minimal client for OpenAI-compatible chat completion APIs.
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/internal/metrics"
	gobreaker "github.com/sony/gobreaker/v2"
)

const maxResponseSize = 4 << 20

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Index   int     `json:"index"`
		Message Message `json:"message"`
	} `json:"choices"`
}

type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	HTTPClient  *http.Client
}

type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
	cb          *gobreaker.CircuitBreaker[string]
	log         *slog.Logger
}

func NewClient(opts Options, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	c := &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		client:      client,
		log:         log.With(slog.String("component", "llm")),
	}

	c.cb = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "llm-chat",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return c
}

// Complete sends one system instruction and one user message and returns the
// text of the first choice.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	const op = "llm.complete"

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	target := c.baseURL + "/chat/completions"

	content, err := c.cb.Execute(func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return "", &domain.NetworkError{Op: op, URL: target, Err: err}
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return "", &domain.NetworkError{Op: op, URL: target, Err: err}
		}
		if resp.StatusCode != http.StatusOK {
			c.log.Debug("model api error",
				slog.Int("status", resp.StatusCode),
				slog.String("body", truncate(string(body), 512)),
			)
			return "", &domain.NetworkError{Op: op, URL: target, StatusCode: resp.StatusCode}
		}

		var parsed chatResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", &domain.InvalidModelResponseError{Reason: "malformed completion envelope", Raw: truncate(string(body), 512), Err: err}
		}
		if len(parsed.Choices) == 0 {
			return "", &domain.InvalidModelResponseError{Reason: "no choices returned"}
		}
		return parsed.Choices[0].Message.Content, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = &domain.NetworkError{Op: op, URL: target, Err: err}
		}
		var invalid *domain.InvalidModelResponseError
		if errors.As(err, &invalid) {
			metrics.ModelRequests.WithLabelValues("invalid").Inc()
		} else {
			metrics.ModelRequests.WithLabelValues("network").Inc()
		}
		return "", err
	}

	metrics.ModelRequests.WithLabelValues("ok").Inc()
	return content, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
