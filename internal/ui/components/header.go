// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/yassine-work/Chatbot-v2/internal/ui/styles"
	"github.com/yassine-work/Chatbot-v2/internal/util"
)

// Header is the one-line title bar showing the app name and endpoint.
type Header struct {
	Title    string
	Endpoint string
	Busy     bool
	Width    int

	theme *styles.Theme
}

// NewHeader creates a header.
func NewHeader(theme *styles.Theme, endpoint string) *Header {
	return &Header{
		Title:    "Chatbot",
		Endpoint: endpoint,
		Width:    80,
		theme:    theme,
	}
}

// View renders the header.
func (h *Header) View() string {
	title := h.theme.HeaderTitle.Render(h.Title)

	status := "ready"
	if h.Busy {
		status = "waiting for reply"
	}
	right := h.theme.HeaderSubtitle.Render(status)

	available := h.Width - lipgloss.Width(title) - lipgloss.Width(right) - 6
	middle := ""
	if available > 10 && h.Endpoint != "" {
		middle = h.theme.Timestamp.Render(util.TruncateWidth(h.Endpoint, available))
	}

	gap := h.Width - lipgloss.Width(title) - lipgloss.Width(middle) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", middle)
	line := left + lipgloss.NewStyle().Width(gap).Render("") + right
	return h.theme.Header.Width(h.Width).Render(line)
}
