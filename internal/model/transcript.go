// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "sync"

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is the append-only, ordered list of messages for one session.
// It is safe for concurrent use; readers always receive a copy.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{
		messages: make([]Message, 0),
	}
}

// Append adds a message to the end of the transcript and returns the new length.
func (t *Transcript) Append(msg Message) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msg)
	return len(t.messages)
}

// Messages returns a snapshot of all messages in order.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// IsEmpty returns true if there are no messages.
func (t *Transcript) IsEmpty() bool {
	return t.Len() == 0
}

// Last returns the most recent message.
func (t *Transcript) Last() (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// LastAssistant returns the most recent assistant message.
func (t *Transcript) LastAssistant() (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return LastAssistant(t.messages)
}

// Pair returns the user message with the given id and, when it has arrived,
// the assistant reply to it.
func (t *Transcript) Pair(id CorrelationID) (user Message, reply Message, hasReply bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, msg := range t.messages {
		switch {
		case msg.IsUser() && msg.ID == id:
			user = msg
		case msg.IsAssistant() && msg.ReplyTo == id:
			reply = msg
			hasReply = true
		}
	}
	return user, reply, hasReply
}

// LastAssistant returns the last assistant message in messages.
func LastAssistant(messages []Message) (Message, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].IsAssistant() {
			return messages[i], true
		}
	}
	return Message{}, false
}
