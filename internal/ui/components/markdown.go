// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// MarkdownRenderer renders assistant replies with glamour. The underlying
// renderer is rebuilt only when the width or style changes.
type MarkdownRenderer struct {
	mu       sync.Mutex
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer for a glamour standard style
// ("dark" or "light").
func NewMarkdownRenderer(style string) *MarkdownRenderer {
	return &MarkdownRenderer{style: style}
}

// SetStyle switches the glamour style.
func (r *MarkdownRenderer) SetStyle(style string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if style != r.style {
		r.style = style
		r.renderer = nil
	}
}

// Render renders md wrapped at width. On renderer failure the text is
// wrapped plainly so a reply is never lost.
func (r *MarkdownRenderer) Render(md string, width int) string {
	if width < 10 {
		width = 10
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.renderer == nil || r.width != width {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return plainWrap(md, width)
		}
		r.renderer = renderer
		r.width = width
	}

	out, err := r.renderer.Render(md)
	if err != nil {
		return plainWrap(md, width)
	}
	return strings.Trim(out, "\n")
}

func plainWrap(text string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(text)
}
