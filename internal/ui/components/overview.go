// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/yassine-work/Chatbot-v2/internal/ui/styles"
)

// Overview is shown in place of the transcript before the first message.
type Overview struct {
	Width int
	theme *styles.Theme
}

// NewOverview creates an overview panel.
func NewOverview(theme *styles.Theme) *Overview {
	return &Overview{Width: 80, theme: theme}
}

// View renders the overview.
func (o *Overview) View() string {
	title := o.theme.OverviewTitle.Render("Carbon Jar assistant")
	body := "Ask anything about Carbon Jar, or pick a suggestion below.\n" +
		"Replies appear word by word as they arrive."
	block := lipgloss.JoinVertical(lipgloss.Center, title, "", body)
	return o.theme.Overview.Width(o.Width).Render(block)
}
