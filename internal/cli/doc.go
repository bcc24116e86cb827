// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the chatbot command line.
//
// Commands:
//
//	chatbot                 Start the TUI (line mode when not on a terminal)
//	chatbot tui             Start the TUI
//	chatbot chat            Line-mode chat with history
//	chatbot ask "question"  Ask a single question
//	chatbot serve           Run the development responder
//	chatbot config ...      Show, get and set configuration
//	chatbot version         Print version information
package cli
