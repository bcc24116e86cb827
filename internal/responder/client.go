// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package responder is the HTTP client for the chat endpoint.
//
// The endpoint is an opaque request/reply collaborator:
//
//	POST /chat  {"query": "..."}  ->  {"response": "..."}
//
// Any non-2xx status is a failure described as "HTTP error! status: <code>".
package responder

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

	"github.com/yassine-work/Chatbot-v2/internal/logging"
)

// Configuration constants for the responder endpoint.
const (
	// DefaultEndpoint is where the original backend listens.
	DefaultEndpoint = "http://localhost:8000/chat"

	// DefaultTimeout bounds a whole request, including reading the body.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum accepted response body size.
	MaxResponseSize = 1 * 1024 * 1024
)

// UnknownErrorText describes a failure that carries no description.
const UnknownErrorText = "Unknown error occurred"

var (
	// ErrEmptyQuery is returned when Ask is called with blank text.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrResponseTooLarge is returned when the body exceeds MaxResponseSize.
	ErrResponseTooLarge = errors.New("response too large")
)

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Status int
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

// Request is the JSON body sent to the endpoint.
type Request struct {
	Query string `json:"query"`
}

// Response is the JSON body returned by the endpoint.
type Response struct {
	Response string `json:"response"`
}

// Responder produces a reply for a query.
type Responder interface {
	Ask(ctx context.Context, query string) (string, error)
}

// =============================================================================
// CLIENT
// =============================================================================

// Client posts queries to a responder endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a client for the given endpoint. An empty endpoint
// selects DefaultEndpoint.
func NewClient(endpoint string) *Client {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logging.Nop(),
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// WithLogger sets the logger used for request tracing.
func (c *Client) WithLogger(logger *logging.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Ask sends query to the endpoint and returns the reply text.
// The request is aborted when ctx is cancelled.
func (c *Client) Ask(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	body, err := json.Marshal(Request{Query: query})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("responder request failed", "endpoint", c.endpoint, "error", err)
		return "", err
	}
	defer resp.Body.Close()

	c.logger.Debug("responder replied",
		"endpoint", c.endpoint,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseSize))
		return "", &HTTPError{Status: resp.StatusCode}
	}

	data, err := readResponse(resp.Body)
	if err != nil {
		return "", err
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return out.Response, nil
}

// readResponse reads at most MaxResponseSize bytes.
func readResponse(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(data) > MaxResponseSize {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrResponseTooLarge, MaxResponseSize)
	}
	return data, nil
}

// =============================================================================
// ERROR DESCRIPTION
// =============================================================================

// Describe turns a failure into the text shown in the chat bubble.
func Describe(err error) string {
	if err == nil {
		return UnknownErrorText
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return UnknownErrorText
	}
	return msg
}

// Func adapts a function to the Responder interface.
type Func func(ctx context.Context, query string) (string, error)

// Ask calls f.
func (f Func) Ask(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}
