// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package submit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yassine-work/Chatbot-v2/internal/model"
	"github.com/yassine-work/Chatbot-v2/internal/responder"
)

type warnings struct {
	mu   sync.Mutex
	msgs []string
}

func (w *warnings) Warn(message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, message)
}

func (w *warnings) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.msgs)
}

func fixed(reply string, err error) (responder.Responder, *int32) {
	var calls int32
	return responder.Func(func(ctx context.Context, query string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return reply, err
	}), &calls
}

func TestSubmit_OneUserOneAssistant(t *testing.T) {
	r, calls := fixed("Hello there", nil)
	f := New(Options{Responder: r})

	msg, ok := f.Submit(context.Background(), "hi")
	require.True(t, ok)

	msgs := f.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Hello there", msgs[1].Content)
	assert.Equal(t, msgs[0].ID, msgs[1].ID)
	assert.Equal(t, msgs[0].ID, msgs[1].ReplyTo)
	assert.Equal(t, msg, msgs[1])
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
	assert.False(t, f.InFlight())
}

func TestSubmit_EmptyIsNoop(t *testing.T) {
	r, calls := fixed("x", nil)
	f := New(Options{Responder: r})

	_, ok := f.Submit(context.Background(), "")
	assert.False(t, ok)
	_, ok = f.Submit(context.Background(), "   \n")
	assert.False(t, ok)

	assert.Empty(t, f.Messages())
	assert.EqualValues(t, 0, atomic.LoadInt32(calls))
}

func TestSubmit_UsesPendingInput(t *testing.T) {
	r, _ := fixed("ok", nil)
	f := New(Options{Responder: r})
	f.SetPending("  from the box ")

	_, ok := f.Submit(context.Background(), "")
	require.True(t, ok)
	assert.Equal(t, "  from the box ", f.Messages()[0].Content)
	assert.Empty(t, f.Pending())
}

func TestSubmit_LiteralOverridesPending(t *testing.T) {
	r, _ := fixed("ok", nil)
	f := New(Options{Responder: r})
	f.SetPending("typed")

	_, ok := f.Submit(context.Background(), "What is Carbon Jar?")
	require.True(t, ok)
	assert.Equal(t, "What is Carbon Jar?", f.Messages()[0].Content)
	assert.Empty(t, f.Pending())
}

func TestAttempt_WhileInFlightWarnsOnce(t *testing.T) {
	r, _ := fixed("ok", nil)
	w := &warnings{}
	f := New(Options{Responder: r, Notifier: w})

	req, ok := f.Attempt("first")
	require.True(t, ok)
	require.True(t, f.InFlight())
	before := len(f.Messages())

	f.SetPending("second")
	_, ok = f.Attempt("")
	assert.False(t, ok)

	assert.Equal(t, before, len(f.Messages()))
	assert.Equal(t, 1, w.count())
	assert.Equal(t, BusyWarning, w.msgs[0])
	assert.Equal(t, "second", f.Pending())

	_, ok = f.Complete(f.Send(context.Background(), req))
	require.True(t, ok)
	assert.False(t, f.InFlight())
}

func TestBegin_WhileInFlightIsSilent(t *testing.T) {
	w := &warnings{}
	f := New(Options{Notifier: w})

	_, ok := f.Begin("one")
	require.True(t, ok)
	_, ok = f.Begin("two")
	assert.False(t, ok)
	assert.Len(t, f.Messages(), 1)
	assert.Equal(t, 0, w.count())
}

func TestSubmit_HTTP500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := New(Options{Responder: responder.NewClient(srv.URL)})
	msg, ok := f.Submit(context.Background(), "hi")
	require.True(t, ok)
	assert.Equal(t, "Error: HTTP error! status: 500", msg.Content)
	assert.False(t, f.InFlight())
}

func TestSubmit_EndToEndHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req responder.Request
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(responder.Response{Response: "echo: " + req.Query})
	}))
	defer srv.Close()

	f := New(Options{Responder: responder.NewClient(srv.URL)})
	msg, ok := f.Submit(context.Background(), "ping")
	require.True(t, ok)
	assert.Equal(t, "echo: ping", msg.Content)
}

func TestSubmit_Failures(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  string
	}{
		{"empty reply", "", nil, "Error: No response"},
		{"transport error", "", errors.New("connection refused"), "Error: connection refused"},
		{"blank error", "", errors.New(""), "Error: Unknown error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := fixed(tt.reply, tt.err)
			f := New(Options{Responder: r})

			msg, ok := f.Submit(context.Background(), "q")
			require.True(t, ok)
			assert.Equal(t, tt.want, msg.Content)
			assert.False(t, f.InFlight())
		})
	}
}

func TestSubmit_NoResponder(t *testing.T) {
	f := New(Options{})
	msg, ok := f.Submit(context.Background(), "q")
	require.True(t, ok)
	assert.Equal(t, "Error: no responder configured", msg.Content)
}

func TestOnChange_CalledPerAppend(t *testing.T) {
	r, _ := fixed("reply", nil)
	f := New(Options{Responder: r})

	var lens []int
	f.OnChange(func(msgs []model.Message) {
		lens = append(lens, len(msgs))
	})

	_, ok := f.Submit(context.Background(), "hi")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, lens)
}

func TestDispose_CancelsInFlightAndDropsResult(t *testing.T) {
	started := make(chan struct{})
	r := responder.Func(func(ctx context.Context, query string) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	})
	f := New(Options{Responder: r})

	req, ok := f.Begin("hi")
	require.True(t, ok)

	results := make(chan Result, 1)
	go func() { results <- f.Send(context.Background(), req) }()

	<-started
	f.Dispose()

	select {
	case res := <-results:
		assert.ErrorIs(t, res.Err, context.Canceled)
		_, ok := f.Complete(res)
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("request was not cancelled by Dispose")
	}

	assert.Len(t, f.Messages(), 1)
	_, ok = f.Begin("again")
	assert.False(t, ok)
}

func TestComplete_StaleResultDropped(t *testing.T) {
	f := New(Options{})
	_, ok := f.Complete(Result{ID: model.NewCorrelationID(), Reply: "x"})
	assert.False(t, ok)
	assert.Empty(t, f.Messages())
}
