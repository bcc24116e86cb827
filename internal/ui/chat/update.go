// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yassine-work/Chatbot-v2/internal/config"
	"github.com/yassine-work/Chatbot-v2/internal/responder"
	"github.com/yassine-work/Chatbot-v2/internal/submit"
	"github.com/yassine-work/Chatbot-v2/internal/ui/components"
	"github.com/yassine-work/Chatbot-v2/internal/ui/styles"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ResponseMsg:
		return m.handleResponse(msg)

	case RevealMsg:
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.thinking, cmd = m.thinking.Update(msg)
		return m, cmd

	case components.ToastTickMsg:
		if len(m.toasts.Tick()) == 0 {
			m.toastTicker = false
			m.layout()
			return m, nil
		}
		return m, components.ToastTickCmd()

	case ConfigReloadMsg:
		m.applyConfig(msg.Config)
		return m, nil

	case ConfigErrorMsg:
		m.toasts.Error("config reload failed: " + msg.Err.Error())
		return m, m.startToastTicker()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// KEYS
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keys.NextSuggestion) && m.picker.Visible():
		m.grid.MoveSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevSuggestion) && m.picker.Visible():
		m.grid.MoveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.PickSuggestion) && m.pickIndex(msg) >= 0:
		return m.selectSuggestion(m.pickIndex(msg))

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.flow.SetPending(m.input.Value())
	return m, cmd
}

// handleSubmit handles Enter. With an empty input, Enter picks the
// suggestion the user highlighted with tab; with nothing highlighted it only
// hides the suggestions.
func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	m.flow.SetPending(m.input.Value())

	if m.input.Value() == "" && m.picker.Visible() && !m.flow.InFlight() {
		if m.grid.HasSelection() {
			return m.selectSuggestion(m.grid.Selected)
		}
		m.picker.Hide()
		m.layout()
		return m, nil
	}

	req, ok := m.flow.Attempt("")
	if !ok {
		if m.flow.InFlight() {
			// Rejected while busy: the warning toast is up, input is kept.
			return m, m.startToastTicker()
		}
		return m, nil
	}

	m.picker.Hide()
	m.input.Reset()
	return m, m.startRequest(req)
}

// pickIndex maps a digit key to a suggestion index. Digits only pick while
// the input is empty and the card exists; otherwise they are text (-1).
func (m *Model) pickIndex(msg tea.KeyMsg) int {
	if !m.picker.Visible() || m.input.Value() != "" || len(msg.Runes) != 1 {
		return -1
	}
	i := int(msg.Runes[0] - '1')
	if i < 0 || i >= m.picker.Len() {
		return -1
	}
	return i
}

// selectSuggestion submits suggestion i and hides the list for good.
func (m *Model) selectSuggestion(i int) (tea.Model, tea.Cmd) {
	action, ok := m.picker.Select(i)
	if !ok {
		return m, nil
	}
	req, ok := m.flow.Begin(action)
	if !ok {
		m.layout()
		return m, nil
	}
	return m, m.startRequest(req)
}

// startRequest refreshes the screen for a new submission and issues the
// responder call off the event loop.
func (m *Model) startRequest(req submit.Request) tea.Cmd {
	m.header.Busy = true
	spin := m.thinking.Start()
	m.layout()
	m.viewport.GotoBottom()
	return tea.Batch(m.sendCmd(req), spin)
}

func (m *Model) sendCmd(req submit.Request) tea.Cmd {
	flow, ctx := m.flow, m.ctx
	return func() tea.Msg {
		return ResponseMsg{Result: flow.Send(ctx, req)}
	}
}

// =============================================================================
// RESPONSES
// =============================================================================

func (m *Model) handleResponse(msg ResponseMsg) (tea.Model, tea.Cmd) {
	if _, ok := m.flow.Complete(msg.Result); !ok {
		return m, nil
	}
	if msg.Result.Err != nil {
		m.logger.Warn("reply failed", "id", msg.Result.ID.String(), "error", msg.Result.Err)
	}
	m.header.Busy = false
	m.thinking.Stop()
	m.layout()
	m.viewport.GotoBottom()
	return m, nil
}

func (m *Model) startToastTicker() tea.Cmd {
	m.layout()
	if m.toastTicker {
		return nil
	}
	m.toastTicker = true
	return components.ToastTickCmd()
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

// applyConfig adopts the reloadable settings: endpoint, reveal speed and
// theme.
func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}

	if cfg.Responder.Endpoint != m.cfg.Responder.Endpoint {
		client := responder.NewClient(cfg.Responder.Endpoint).
			WithTimeout(time.Duration(cfg.Responder.TimeoutSecs) * time.Second).
			WithLogger(m.logger)
		m.flow.SetResponder(client)
		m.header.Endpoint = cfg.Responder.Endpoint
	}

	m.scheduler.SetInterval(time.Duration(cfg.Reveal.IntervalMs) * time.Millisecond)

	if cfg.UI.Theme != m.cfg.UI.Theme {
		theme := styles.NewTheme(styles.ParseMode(cfg.UI.Theme))
		theme.SetSize(m.width, m.height)
		m.rebuildComponents(theme)
	}

	m.cfg = cfg
	m.toasts.Info("configuration reloaded")
	m.logger.Info("configuration reloaded", "endpoint", cfg.Responder.Endpoint)
	m.layout()
}

func (m *Model) rebuildComponents(theme *styles.Theme) {
	busy, endpoint := m.header.Busy, m.header.Endpoint
	selected := m.grid.Selected

	m.theme = theme
	m.markdown.SetStyle(theme.GlamourStyle())
	m.header = components.NewHeader(theme, endpoint)
	m.header.Busy = busy
	m.footer = components.NewFooter(theme, m.keys.Hints(m.picker.Visible()))
	m.overview = components.NewOverview(theme)
	m.grid = components.NewSuggestionGrid(theme, m.picker.Items())
	m.grid.Selected = selected
	m.list = components.NewMessageList(theme, m.markdown)
	m.list.Display = m.displayText

	wasActive := m.thinking.IsActive()
	m.thinking = components.NewThinkingIndicator(theme)
	if wasActive {
		m.thinking.Start()
	}
}
