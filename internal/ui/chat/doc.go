// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea model for the chat screen.
//
// The model owns a submission flow, a reveal scheduler and the suggestion
// picker. Replies are fetched in a tea.Cmd; reveal timers fire on their own
// goroutines and reach the event loop through a Bridge wrapping
// Program.Send:
//
//	Enter -> flow.Attempt -> sendCmd -> ResponseMsg -> flow.Complete
//	      -> scheduler.OnMessagesChanged -> RevealMsg per word -> View
package chat
