// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual pieces of the chat screen.

  - Header (header.go): title, endpoint and busy state.
  - Overview (overview.go): shown before the first message.
  - MessageBubble, MessageList (message.go): transcript rendering. Assistant
    replies are rendered as markdown through MarkdownRenderer (glamour).
  - SuggestionGrid (suggestions.go): numbered suggested prompts.
  - ThinkingIndicator (thinking.go): spinner while a reply is awaited.
  - ToastManager (toast.go): transient warnings such as a rejected
    submission. It satisfies the submission flow's Notifier.
  - Footer (footer.go): key hints.

All components take a *styles.Theme:

	theme := styles.NewTheme(styles.ModeAuto)
	grid := components.NewSuggestionGrid(theme, suggest.Defaults())
	grid.Width = 80
	view := grid.View()
*/
package components
