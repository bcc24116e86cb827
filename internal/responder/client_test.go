// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package responder

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_AskSuccess(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(Response{Response: "Carbon Jar is a climate company."})
	}))
	defer srv.Close()

	reply, err := NewClient(srv.URL).Ask(context.Background(), "What is Carbon Jar?")
	require.NoError(t, err)
	assert.Equal(t, "Carbon Jar is a climate company.", reply)
	assert.Equal(t, "What is Carbon Jar?", got.Query)
}

func TestClient_AskNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Ask(context.Background(), "hi")
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 500, httpErr.Status)
	assert.Equal(t, "HTTP error! status: 500", Describe(err))
}

func TestClient_AskMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Ask(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestClient_AskMissingResponseField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"other":"x"}`))
	}))
	defer srv.Close()

	reply, err := NewClient(srv.URL).Ask(context.Background(), "hi")
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestClient_AskEmptyQuery(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1/chat").Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestClient_AskCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := NewClient(srv.URL).Ask(ctx, "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_ResponseTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":"` + strings.Repeat("a", MaxResponseSize) + `"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Ask(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrResponseTooLarge)
}

func TestNewClient_DefaultEndpoint(t *testing.T) {
	assert.Equal(t, DefaultEndpoint, NewClient("").Endpoint())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, UnknownErrorText, Describe(nil))
	assert.Equal(t, UnknownErrorText, Describe(errors.New("  ")))
	assert.Equal(t, "dial failed", Describe(errors.New("dial failed")))
}
