// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yassine-work/Chatbot-v2/internal/ui/styles"
)

// ThinkingIndicator is shown while a reply is awaited.
type ThinkingIndicator struct {
	spinner   spinner.Model
	startTime time.Time
	active    bool
	theme     *styles.Theme
}

// NewThinkingIndicator creates an inactive indicator with an ASCII spinner.
func NewThinkingIndicator(theme *styles.Theme) ThinkingIndicator {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = theme.Thinking
	return ThinkingIndicator{spinner: s, theme: theme}
}

// Start activates the indicator and returns the first spinner tick.
func (t *ThinkingIndicator) Start() tea.Cmd {
	t.active = true
	t.startTime = time.Now()
	return t.spinner.Tick
}

// Stop deactivates the indicator.
func (t *ThinkingIndicator) Stop() {
	t.active = false
}

// IsActive reports whether the indicator is running.
func (t *ThinkingIndicator) IsActive() bool {
	return t.active
}

// Update advances the spinner. Ticks are dropped while inactive so the
// tick loop ends.
func (t ThinkingIndicator) Update(msg tea.Msg) (ThinkingIndicator, tea.Cmd) {
	if !t.active {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders the indicator, or nothing while inactive.
func (t ThinkingIndicator) View() string {
	if !t.active {
		return ""
	}
	elapsed := time.Since(t.startTime)
	return t.spinner.View() + " " +
		t.theme.Thinking.Render("Thinking...") + " " +
		t.theme.Timestamp.Render(formatElapsed(elapsed))
}

// formatElapsed formats a duration as "4s" or "1m 5s".
func formatElapsed(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
