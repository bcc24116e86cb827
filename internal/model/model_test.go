// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewCorrelationID_Unique(t *testing.T) {
	seen := make(map[CorrelationID]bool)
	for i := 0; i < 100; i++ {
		id := NewCorrelationID()
		require.False(t, id.IsZero())
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNewAssistantMessage_RepliesToID(t *testing.T) {
	id := NewCorrelationID()
	msg := NewAssistantMessage(id, "hello")

	assert.Equal(t, id, msg.ID)
	assert.Equal(t, id, msg.ReplyTo)
	assert.True(t, msg.IsAssistant())
	assert.False(t, msg.IsUser())
}

func TestRole_DisplayName(t *testing.T) {
	assert.Equal(t, "You", RoleUser.DisplayName())
	assert.Equal(t, "Assistant", RoleAssistant.DisplayName())
	assert.Equal(t, "tool", Role("tool").DisplayName())
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_AppendKeepsOrder(t *testing.T) {
	tr := NewTranscript()
	require.True(t, tr.IsEmpty())

	a, b := NewCorrelationID(), NewCorrelationID()
	tr.Append(NewUserMessage(a, "first"))
	tr.Append(NewAssistantMessage(a, "reply one"))
	tr.Append(NewUserMessage(b, "second"))

	msgs := tr.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "reply one", msgs[1].Content)
	assert.Equal(t, "second", msgs[2].Content)

	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, b, last.ID)
}

func TestTranscript_MessagesReturnsCopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage(NewCorrelationID(), "original"))

	snapshot := tr.Messages()
	snapshot[0].Content = "mutated"

	assert.Equal(t, "original", tr.Messages()[0].Content)
}

func TestTranscript_LastAssistant(t *testing.T) {
	tr := NewTranscript()
	_, ok := tr.LastAssistant()
	assert.False(t, ok)

	a, b := NewCorrelationID(), NewCorrelationID()
	tr.Append(NewUserMessage(a, "q1"))
	tr.Append(NewAssistantMessage(a, "r1"))
	tr.Append(NewUserMessage(b, "q2"))

	last, ok := tr.LastAssistant()
	require.True(t, ok)
	assert.Equal(t, "r1", last.Content)
}

func TestTranscript_Pair(t *testing.T) {
	tr := NewTranscript()
	a, b := NewCorrelationID(), NewCorrelationID()
	tr.Append(NewUserMessage(a, "q1"))
	tr.Append(NewUserMessage(b, "q2"))
	tr.Append(NewAssistantMessage(a, "r1"))

	user, reply, ok := tr.Pair(a)
	require.True(t, ok)
	assert.Equal(t, "q1", user.Content)
	assert.Equal(t, "r1", reply.Content)

	user, _, ok = tr.Pair(b)
	assert.False(t, ok)
	assert.Equal(t, "q2", user.Content)
}

func TestTranscript_ConcurrentAppend(t *testing.T) {
	tr := NewTranscript()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tr.Append(NewUserMessage(NewCorrelationID(), "x"))
		}()
		go func() {
			defer wg.Done()
			_ = tr.Messages()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, tr.Len())
}
