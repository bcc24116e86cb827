// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the chatbot TUI.
//
// All colors use Lip Gloss AdaptiveColor so they follow the terminal's
// light or dark background. NewTheme takes a Mode from configuration:
// "auto" asks the terminal through termenv, "dark" and "light" force a
// scheme (and the matching glamour style for assistant markdown).
package styles
