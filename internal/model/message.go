// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CORRELATION ID
// =============================================================================

// CorrelationID links a user message to the assistant reply it produced.
// It is generated on the client and never sent to the responder.
type CorrelationID string

// NewCorrelationID returns a fresh random correlation id.
func NewCorrelationID() CorrelationID {
	return CorrelationID(uuid.NewString())
}

// String returns the id as a plain string.
func (id CorrelationID) String() string {
	return string(id)
}

// IsZero reports whether the id is unset.
func (id CorrelationID) IsZero() bool {
	return id == ""
}

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single chat record. Messages are values: once appended to a
// Transcript they are never modified or removed.
type Message struct {
	ID        CorrelationID `json:"id"`
	Role      Role          `json:"role"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`

	// ReplyTo is set on assistant messages and names the user message that
	// triggered them. It always equals ID for replies produced by the
	// submission flow.
	ReplyTo CorrelationID `json:"reply_to,omitempty"`
}

// NewUserMessage creates a user message carrying the given id.
func NewUserMessage(id CorrelationID, content string) Message {
	return Message{
		ID:        id,
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage creates the reply to the user message with the given id.
func NewAssistantMessage(id CorrelationID, content string) Message {
	return Message{
		ID:        id,
		Role:      RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
		ReplyTo:   id,
	}
}

// IsUser returns true if the message was written by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// IsAssistant returns true if the message came from the responder.
func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}
