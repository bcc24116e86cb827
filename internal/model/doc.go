// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat messages.
//
// # Key Types
//
//   - Message: one immutable chat record (user text or assistant reply)
//   - CorrelationID: token shared by a user message and its reply
//   - Transcript: append-only ordered list of messages for a session
//   - Role: sender enumeration (user, assistant)
//
// # Usage
//
//	t := model.NewTranscript()
//	id := model.NewCorrelationID()
//	t.Append(model.NewUserMessage(id, "What is Carbon Jar?"))
//	t.Append(model.NewAssistantMessage(id, "Carbon Jar is ..."))
//	user, reply, ok := t.Pair(id)
package model
