// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yassine-work/Chatbot-v2/internal/config"
	"github.com/yassine-work/Chatbot-v2/internal/logging"
	"github.com/yassine-work/Chatbot-v2/internal/model"
	"github.com/yassine-work/Chatbot-v2/internal/responder"
	"github.com/yassine-work/Chatbot-v2/internal/reveal"
	"github.com/yassine-work/Chatbot-v2/internal/submit"
	"github.com/yassine-work/Chatbot-v2/internal/suggest"
	"github.com/yassine-work/Chatbot-v2/internal/ui/components"
	"github.com/yassine-work/Chatbot-v2/internal/ui/styles"
)

// inputHeight is the number of text rows in the input box.
const inputHeight = 3

// Options configures the chat model.
type Options struct {
	Config    *config.Config
	Responder responder.Responder
	Logger    *logging.Logger
	Bridge    *Bridge

	// Clock drives the reveal animation. Nil selects the wall clock.
	Clock reveal.Clock
	// Theme overrides the theme built from Config.UI.Theme.
	Theme *styles.Theme
}

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	cfg    *config.Config
	logger *logging.Logger
	bridge *Bridge
	keys   KeyMap

	// Lifetime of the screen; cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc

	// Behavior
	flow      *submit.Flow
	scheduler *reveal.Scheduler
	picker    *suggest.Picker
	toasts    *components.ToastManager

	// Presentation
	theme    *styles.Theme
	markdown *components.MarkdownRenderer
	header   *components.Header
	footer   *components.Footer
	overview *components.Overview
	grid     *components.SuggestionGrid
	list     *components.MessageList
	thinking components.ThinkingIndicator
	viewport viewport.Model
	input    textarea.Model

	width       int
	height      int
	ready       bool
	toastTicker bool
	quitting    bool
}

// New creates the chat model.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	bridge := opts.Bridge
	if bridge == nil {
		bridge = NewBridge()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ParseMode(cfg.UI.Theme))
	}

	ctx, cancel := context.WithCancel(context.Background())

	toasts := components.NewToastManager()
	flow := submit.New(submit.Options{
		Responder: opts.Responder,
		Notifier:  toasts,
		Logger:    logger,
	})
	scheduler := reveal.New(reveal.Options{
		Interval: time.Duration(cfg.Reveal.IntervalMs) * time.Millisecond,
		Clock:    opts.Clock,
		Logger:   logger,
		Publish: func(id model.CorrelationID, prefix string) {
			bridge.Send(RevealMsg{ID: id, Prefix: prefix})
		},
	})
	flow.OnChange(func(messages []model.Message) {
		scheduler.OnMessagesChanged(messages)
	})

	picker := suggest.NewPicker(cfg.Suggestions)
	if !cfg.UI.ShowSuggestions {
		picker.Hide()
	}

	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 4096
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	markdown := components.NewMarkdownRenderer(theme.GlamourStyle())
	keys := DefaultKeyMap()

	m := &Model{
		cfg:       cfg,
		logger:    logger,
		bridge:    bridge,
		keys:      keys,
		ctx:       ctx,
		cancel:    cancel,
		flow:      flow,
		scheduler: scheduler,
		picker:    picker,
		toasts:    toasts,
		theme:     theme,
		markdown:  markdown,
		header:    components.NewHeader(theme, cfg.Responder.Endpoint),
		footer:    components.NewFooter(theme, keys.Hints(picker.Visible())),
		overview:  components.NewOverview(theme),
		grid:      components.NewSuggestionGrid(theme, picker.Items()),
		list:      components.NewMessageList(theme, markdown),
		thinking:  components.NewThinkingIndicator(theme),
		viewport:  viewport.New(80, 20),
		input:     ta,
	}
	m.list.Display = m.displayText
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Close cancels in-flight work and pending reveal timers.
func (m *Model) Close() {
	m.cancel()
	m.flow.Dispose()
	m.scheduler.Dispose()
	m.bridge.Detach()
}

// Messages returns a snapshot of the transcript.
func (m *Model) Messages() []model.Message {
	return m.flow.Messages()
}

// InFlight reports whether a reply is awaited.
func (m *Model) InFlight() bool {
	return m.flow.InFlight()
}

// SuggestionsVisible reports whether the suggested prompts are shown.
func (m *Model) SuggestionsVisible() bool {
	return m.picker.Visible()
}

// InputValue returns the current input text.
func (m *Model) InputValue() string {
	return m.input.Value()
}

// Toasts returns the active notifications.
func (m *Model) Toasts() []components.Toast {
	return m.toasts.Toasts()
}

// displayText returns what the transcript shows for msg. Replies being
// revealed show their published prefix; replies never claimed by the
// scheduler show their full content.
func (m *Model) displayText(msg model.Message) string {
	if !msg.IsAssistant() {
		return msg.Content
	}
	if prefix, ok := m.scheduler.Revealed(msg.ID); ok {
		return prefix
	}
	return msg.Content
}
