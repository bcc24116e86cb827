// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Answerer produces a reply for a sanitized query.
type Answerer interface {
	Answer(ctx context.Context, query string) (string, error)
}

// AnswerFunc adapts a function to Answerer.
type AnswerFunc func(ctx context.Context, query string) (string, error)

// Answer implements Answerer.
func (f AnswerFunc) Answer(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}

// ============================================================================
// FALLBACK
// ============================================================================

// FallbackAnswer is returned when no upstream model is configured.
const FallbackAnswer = "Sorry, I couldn't find relevant information. Please try rephrasing your question."

// Fallback answers every query with FallbackAnswer.
type Fallback struct{}

// Answer implements Answerer.
func (Fallback) Answer(context.Context, string) (string, error) {
	return FallbackAnswer, nil
}

// ============================================================================
// OPENROUTER
// ============================================================================

// OpenRouter defaults.
const (
	DefaultOpenRouterURL   = "https://openrouter.ai/api/v1"
	DefaultModel           = "cohere/command-r-plus"
	DefaultMaxTokens       = 100
	DefaultTemperature     = 0.7
	DefaultUpstreamTimeout = 60 * time.Second

	// MaxUpstreamResponseSize bounds the completion body.
	MaxUpstreamResponseSize = 10 * 1024 * 1024
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("openrouter API key not configured")

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenRouter answers through the OpenRouter chat completions API.
type OpenRouter struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// NewOpenRouter creates an answerer with the default model settings.
func NewOpenRouter(apiKey string) *OpenRouter {
	return &OpenRouter{
		apiKey:      strings.TrimSpace(apiKey),
		baseURL:     DefaultOpenRouterURL,
		model:       DefaultModel,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		httpClient:  &http.Client{Timeout: DefaultUpstreamTimeout},
	}
}

// WithBaseURL overrides the API base URL.
func (o *OpenRouter) WithBaseURL(url string) *OpenRouter {
	o.baseURL = strings.TrimRight(url, "/")
	return o
}

// WithModel sets the model and sampling parameters. Zero values keep the
// defaults.
func (o *OpenRouter) WithModel(model string, maxTokens int, temperature float64) *OpenRouter {
	if model != "" {
		o.model = model
	}
	if maxTokens > 0 {
		o.maxTokens = maxTokens
	}
	if temperature > 0 {
		o.temperature = temperature
	}
	return o
}

// WithHTTPClient replaces the HTTP client.
func (o *OpenRouter) WithHTTPClient(c *http.Client) *OpenRouter {
	o.httpClient = c
	return o
}

// Model returns the configured model.
func (o *OpenRouter) Model() string {
	return o.model
}

// IsConfigured reports whether an API key is set.
func (o *OpenRouter) IsConfigured() bool {
	return o.apiKey != ""
}

// Answer implements Answerer. A non-200 upstream status is returned as an
// answer of the form "Error: <status> - <body>" rather than as an error.
func (o *OpenRouter) Answer(ctx context.Context, query string) (string, error) {
	if !o.IsConfigured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model:       o.model,
		Messages:    []chatMessage{{Role: "user", Content: "User: " + query + "\nAssistant:"}},
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	req.Header.Del("Authorization")
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxUpstreamResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Error: %d - %s", resp.StatusCode, string(raw)), nil
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
