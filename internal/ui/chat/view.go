// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yassine-work/Chatbot-v2/internal/ui/components"
)

// layout sizes every component for the current window and refreshes the
// transcript.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		m.refresh()
		return
	}

	m.theme.SetSize(m.width, m.height)
	m.header.Width = m.width
	m.footer.Width = m.width
	m.footer.Hints = m.keys.Hints(m.picker.Visible())
	m.overview.Width = m.width
	m.grid.Width = m.width
	m.list.Width = m.width
	m.input.SetWidth(m.width - 4)

	used := lipgloss.Height(m.header.View()) +
		lipgloss.Height(m.footer.View()) +
		inputHeight + 2
	for _, block := range m.statusBlocks() {
		used += lipgloss.Height(block)
	}

	height := m.height - used
	if height < 3 {
		height = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = height
	m.refresh()
}

// refresh re-renders the transcript into the viewport, following the
// bottom when the user has not scrolled away.
func (m *Model) refresh() {
	atBottom := m.viewport.AtBottom()

	m.list.Messages = m.flow.Messages()
	var content string
	if len(m.list.Messages) == 0 {
		content = m.overview.View()
	} else {
		content = m.list.View()
	}
	m.viewport.SetContent(content)

	if atBottom {
		m.viewport.GotoBottom()
	}
}

// statusBlocks returns the optional rows between transcript and input.
func (m *Model) statusBlocks() []string {
	var blocks []string
	if m.thinking.IsActive() {
		blocks = append(blocks, m.thinking.View())
	}
	if toasts := m.toasts.Toasts(); len(toasts) > 0 {
		blocks = append(blocks, components.RenderToastStack(toasts, m.theme, m.width))
	}
	if m.picker.Visible() {
		m.grid.Items = m.picker.Items()
		blocks = append(blocks, m.grid.View())
	}
	return blocks
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	inputStyle := m.theme.InputContainer
	if m.flow.InFlight() {
		inputStyle = m.theme.InputBusy
	}

	parts := []string{m.header.View(), m.viewport.View()}
	parts = append(parts, m.statusBlocks()...)
	parts = append(parts, inputStyle.Width(m.width-2).Render(m.input.View()), m.footer.View())
	return strings.Join(parts, "\n")
}
