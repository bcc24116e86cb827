// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallback(t *testing.T) {
	got, err := Fallback{}.Answer(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, FallbackAnswer, got)
}

func TestOpenRouter_Success(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"We are in Paris."}}]}`))
	}))
	defer srv.Close()

	o := NewOpenRouter("sk-test").WithBaseURL(srv.URL)
	answer, err := o.Answer(context.Background(), "where are you")
	require.NoError(t, err)
	assert.Equal(t, "We are in Paris.", answer)

	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.InDelta(t, DefaultTemperature, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 1)
	assert.Contains(t, got.Messages[0].Content, "where are you")
}

func TestOpenRouter_UpstreamErrorBecomesAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte("no credits"))
	}))
	defer srv.Close()

	answer, err := NewOpenRouter("sk-test").WithBaseURL(srv.URL).Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "Error: 402 - no credits", answer)
}

func TestOpenRouter_Errors(t *testing.T) {
	_, err := NewOpenRouter("").Answer(context.Background(), "q")
	assert.ErrorIs(t, err, ErrNotConfigured)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()
	_, err = NewOpenRouter("k").WithBaseURL(srv.URL).Answer(context.Background(), "q")
	assert.Error(t, err)
}

func TestOpenRouter_WithModel(t *testing.T) {
	o := NewOpenRouter("k").WithModel("", 0, 0)
	assert.Equal(t, DefaultModel, o.Model())
	o.WithModel("other/model", 50, 0.2)
	assert.Equal(t, "other/model", o.Model())
	assert.True(t, o.IsConfigured())
}
