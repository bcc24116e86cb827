// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/yassine-work/Chatbot-v2/internal/suggest"
	"github.com/yassine-work/Chatbot-v2/internal/ui/styles"
	"github.com/yassine-work/Chatbot-v2/internal/util"
)

// SuggestionGrid renders the suggested prompts as numbered cards laid out
// in one or two columns. Selected is -1 until the user moves the highlight.
type SuggestionGrid struct {
	Items    []suggest.Suggestion
	Selected int
	Width    int

	theme *styles.Theme
}

// NewSuggestionGrid creates a grid.
func NewSuggestionGrid(theme *styles.Theme, items []suggest.Suggestion) *SuggestionGrid {
	return &SuggestionGrid{Items: items, Selected: -1, Width: 80, theme: theme}
}

// MoveSelection moves the highlighted card by delta, wrapping around. The
// first move forward lands on the first card, the first move back on the last.
func (g *SuggestionGrid) MoveSelection(delta int) {
	n := len(g.Items)
	if n == 0 {
		return
	}
	if g.Selected < 0 {
		if delta > 0 {
			delta--
		}
		g.Selected = 0
	}
	g.Selected = ((g.Selected+delta)%n + n) % n
}

// HasSelection reports whether a card is highlighted.
func (g *SuggestionGrid) HasSelection() bool {
	return g.Selected >= 0 && g.Selected < len(g.Items)
}

// View renders the grid. An empty grid renders nothing.
func (g *SuggestionGrid) View() string {
	if len(g.Items) == 0 {
		return ""
	}

	columns := g.theme.SuggestionColumns()
	cardWidth := g.Width/columns - 2
	if cardWidth < 16 {
		cardWidth = 16
	}

	cards := make([]string, len(g.Items))
	for i, item := range g.Items {
		cards[i] = g.renderCard(i, item, cardWidth)
	}

	var rows []string
	for i := 0; i < len(cards); i += columns {
		end := i + columns
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (g *SuggestionGrid) renderCard(i int, item suggest.Suggestion, width int) string {
	style := g.theme.SuggestionCard
	if i == g.Selected {
		style = g.theme.SuggestionSelected
	}
	inner := width - 4

	title := g.theme.SuggestionTitle.Render(util.TruncateWidth(strconv.Itoa(i+1)+". "+item.Title, inner))
	label := g.theme.SuggestionLabel.Render(util.TruncateWidth(item.Label, inner))
	return style.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, title, label))
}
