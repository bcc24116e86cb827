// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yassine-work/Chatbot-v2/internal/config"
	"github.com/yassine-work/Chatbot-v2/internal/responder"
)

func newTestServer(t *testing.T, a Answerer, mutate func(*config.ServerConfig)) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.Default().Server
	cfg.RatePerSec = 1000
	cfg.Burst = 1000
	if mutate != nil {
		mutate(&cfg)
	}
	srv, err := New(Options{Config: cfg, Answerer: a})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func postChat(t *testing.T, url, body string) (*http.Response, map[string]string) {
	t.Helper()
	resp, err := http.Post(url+"/chat", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]string{}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func TestServer_Chat(t *testing.T) {
	var got string
	_, ts := newTestServer(t, AnswerFunc(func(_ context.Context, q string) (string, error) {
		got = q
		return "Carbon Jar is a climate company.", nil
	}), nil)

	resp, body := postChat(t, ts.URL, `{"query":"<b>What is Carbon Jar?</b>"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "Carbon Jar is a climate company.", body["response"])
	assert.Equal(t, "What is Carbon Jar", got)
}

func TestServer_ChatErrors(t *testing.T) {
	_, ts := newTestServer(t, AnswerFunc(func(context.Context, string) (string, error) {
		return "", errors.New("upstream down")
	}), nil)

	resp, body := postChat(t, ts.URL, `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])

	resp, body = postChat(t, ts.URL, `{"query":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "upstream down", body["error"])
}

func TestServer_CachesAnswers(t *testing.T) {
	var calls atomic.Int32
	srv, ts := newTestServer(t, AnswerFunc(func(context.Context, string) (string, error) {
		calls.Add(1)
		return "cached answer", nil
	}), nil)

	for i := 0; i < 3; i++ {
		_, body := postChat(t, ts.URL, `{"query":"same question?"}`)
		assert.Equal(t, "cached answer", body["response"])
	}
	assert.Equal(t, int32(1), calls.Load())

	answer, ok, err := srv.cache.Get(context.Background(), "query:same question")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cached answer", answer)
}

func TestServer_SkipsStoreWhenFull(t *testing.T) {
	var calls atomic.Int32
	srv, _ := newTestServer(t, AnswerFunc(func(_ context.Context, q string) (string, error) {
		calls.Add(1)
		return "a:" + q, nil
	}), func(c *config.ServerConfig) { c.CacheMaxEntries = 1 })

	ctx := context.Background()
	_, err := srv.Answer(ctx, "one")
	require.NoError(t, err)
	_, err = srv.Answer(ctx, "two")
	require.NoError(t, err)
	_, err = srv.Answer(ctx, "two")
	require.NoError(t, err)

	n, _ := srv.cache.Len(ctx)
	assert.Equal(t, 1, n)
	assert.Equal(t, int32(3), calls.Load())
}

func TestServer_Options(t *testing.T) {
	_, ts := newTestServer(t, Fallback{}, nil)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestServer_HealthAndMetrics(t *testing.T) {
	_, ts := newTestServer(t, Fallback{}, nil)
	postChat(t, ts.URL, `{"query":"hello"}`)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "fallback", health.Answerer)
	assert.Equal(t, "memory", health.Cache)
	assert.Equal(t, 1, health.CacheEntries)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(raw), "chatbot_cache_misses_total 1")
	assert.Contains(t, string(raw), "chatbot_http_requests_total")
}

func TestServer_RateLimited(t *testing.T) {
	_, ts := newTestServer(t, Fallback{}, func(c *config.ServerConfig) {
		c.RatePerSec = 0.001
		c.Burst = 1
	})

	resp, _ := postChat(t, ts.URL, `{"query":"a"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body := postChat(t, ts.URL, `{"query":"a"}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "rate limit exceeded", body["error"])
}

func TestServer_DefaultAnswerer(t *testing.T) {
	srv, err := New(Options{Config: config.ServerConfig{}})
	require.NoError(t, err)
	assert.IsType(t, Fallback{}, srv.answerer)
	assert.Equal(t, DefaultAddr, srv.Addr())

	srv, err = New(Options{Config: config.ServerConfig{OpenRouterKey: "sk-x"}})
	require.NoError(t, err)
	require.IsType(t, &OpenRouter{}, srv.answerer)
	assert.Equal(t, DefaultModel, srv.answerer.(*OpenRouter).Model())
}

// The client package speaks the same contract as this server.
func TestServer_WithResponderClient(t *testing.T) {
	_, ts := newTestServer(t, AnswerFunc(func(_ context.Context, q string) (string, error) {
		return "echo " + q, nil
	}), nil)

	client := responder.NewClient(ts.URL + "/chat").WithTimeout(5 * time.Second)
	got, err := client.Ask(context.Background(), "hello there")
	require.NoError(t, err)
	assert.Equal(t, "echo hello there", got)
}

func TestServer_ListenAndServeStops(t *testing.T) {
	srv, err := New(Options{Config: config.ServerConfig{Addr: "127.0.0.1:0"}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
