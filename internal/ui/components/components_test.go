// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yassine-work/Chatbot-v2/internal/model"
	"github.com/yassine-work/Chatbot-v2/internal/suggest"
	"github.com/yassine-work/Chatbot-v2/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme(styles.ModeDark)
}

// =============================================================================
// TOASTS
// =============================================================================

func TestToastManager_WarnAndExpire(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewToastManager()
	m.SetClock(func() time.Time { return now })

	m.Warn("Please wait for the model to finish its response!")
	require.Equal(t, 1, m.Len())
	assert.Equal(t, ToastKindWarning, m.Toasts()[0].Kind)

	now = now.Add(WarningToastDuration - time.Millisecond)
	assert.Len(t, m.Tick(), 1)

	now = now.Add(time.Millisecond)
	assert.Empty(t, m.Tick())
}

func TestToastManager_NewestFirstAndCapped(t *testing.T) {
	m := NewToastManager()
	for _, msg := range []string{"one", "two", "three", "four"} {
		m.Info(msg)
	}
	toasts := m.Toasts()
	require.Len(t, toasts, 3)
	assert.Equal(t, "four", toasts[0].Message)
	assert.Equal(t, "two", toasts[2].Message)
}

func TestToastManager_Dismiss(t *testing.T) {
	m := NewToastManager()
	id := m.Add(ToastKindError, "boom")
	m.Info("other")
	m.Dismiss(id)
	require.Len(t, m.Toasts(), 1)
	assert.Equal(t, "other", m.Toasts()[0].Message)

	m.Clear()
	assert.Equal(t, 0, m.Len())
}

func TestRenderToastStack(t *testing.T) {
	theme := testTheme()
	assert.Empty(t, RenderToastStack(nil, theme, 80))

	m := NewToastManager()
	m.Warn("slow down")
	out := RenderToastStack(m.Toasts(), theme, 80)
	assert.Contains(t, out, "slow down")
	assert.Contains(t, out, styles.StatusIndicators.Warning)
}

// =============================================================================
// MESSAGES
// =============================================================================

func TestMessageBubble_User(t *testing.T) {
	id := model.NewCorrelationID()
	b := NewMessageBubble(model.NewUserMessage(id, "Where are you based?"), testTheme(), nil)
	b.Width = 80

	out := b.View()
	assert.Contains(t, out, "Where are you based?")
	assert.Contains(t, out, "You")
}

func TestMessageBubble_ErrorReply(t *testing.T) {
	id := model.NewCorrelationID()
	b := NewMessageBubble(model.NewAssistantMessage(id, "Error: HTTP error! status: 500"), testTheme(), NewMarkdownRenderer("dark"))
	b.Width = 80

	require.True(t, b.IsError())
	out := b.View()
	assert.Contains(t, out, "HTTP error! status: 500")
	assert.Contains(t, out, styles.StatusIndicators.Error)
}

func TestMessageBubble_MarkdownReply(t *testing.T) {
	id := model.NewCorrelationID()
	b := NewMessageBubble(model.NewAssistantMessage(id, "**Carbon** Jar"), testTheme(), NewMarkdownRenderer("dark"))
	b.Width = 60

	assert.False(t, b.IsError())
	out := b.View()
	assert.Contains(t, out, "Carbon")
	assert.NotContains(t, out, "**")
}

func TestMessageList_UsesDisplayFunc(t *testing.T) {
	id := model.NewCorrelationID()
	list := NewMessageList(testTheme(), nil)
	list.Messages = []model.Message{
		model.NewUserMessage(id, "hi"),
		model.NewAssistantMessage(id, "alpha beta gamma"),
	}
	list.Display = func(msg model.Message) string {
		if msg.IsAssistant() {
			return "alpha"
		}
		return msg.Content
	}

	out := list.View()
	assert.Contains(t, out, "alpha")
	assert.NotContains(t, out, "gamma")
}

func TestMessageList_SkipsUnrevealedReply(t *testing.T) {
	id := model.NewCorrelationID()
	list := NewMessageList(testTheme(), nil)
	list.Messages = []model.Message{
		model.NewUserMessage(id, "hi"),
		model.NewAssistantMessage(id, "pending words"),
	}
	list.Display = func(msg model.Message) string {
		if msg.IsAssistant() {
			return ""
		}
		return msg.Content
	}

	out := list.View()
	assert.NotContains(t, out, "Assistant")
	assert.Empty(t, NewMessageList(testTheme(), nil).View())
}

// =============================================================================
// SUGGESTIONS, HEADER, FOOTER
// =============================================================================

func TestSuggestionGrid_View(t *testing.T) {
	theme := testTheme()
	theme.SetSize(100, 30)
	g := NewSuggestionGrid(theme, suggest.Defaults())
	g.Width = 100

	out := g.View()
	assert.Contains(t, out, "1. What is Carbon Jar?")
	assert.Contains(t, out, "company location")

	assert.Empty(t, NewSuggestionGrid(theme, nil).View())
}

func TestSuggestionGrid_MoveSelectionWraps(t *testing.T) {
	g := NewSuggestionGrid(testTheme(), suggest.Defaults())
	assert.False(t, g.HasSelection())
	g.MoveSelection(-1)
	assert.True(t, g.HasSelection())
	assert.Equal(t, 3, g.Selected)
	g.MoveSelection(2)
	assert.Equal(t, 1, g.Selected)
}

func TestSuggestionGrid_FirstMoveForwardSelectsFirst(t *testing.T) {
	g := NewSuggestionGrid(testTheme(), suggest.Defaults())
	g.MoveSelection(1)
	assert.Equal(t, 0, g.Selected)
	g.MoveSelection(1)
	assert.Equal(t, 1, g.Selected)
}

func TestHeader_View(t *testing.T) {
	h := NewHeader(testTheme(), "http://localhost:8000/chat")
	h.Width = 100
	assert.Contains(t, h.View(), "ready")

	h.Busy = true
	assert.Contains(t, h.View(), "waiting for reply")
}

func TestFooter_DropsHintsThatDoNotFit(t *testing.T) {
	f := NewFooter(testTheme(), []KeyHint{
		{Key: "enter", Desc: "send"},
		{Key: "ctrl+c", Desc: "quit"},
	})
	f.Width = 80
	out := f.View()
	assert.Contains(t, out, "send")
	assert.Contains(t, out, "quit")

	f.Width = 20
	out = f.View()
	assert.Contains(t, out, "send")
	assert.NotContains(t, out, "quit")
}

func TestThinkingIndicator(t *testing.T) {
	ti := NewThinkingIndicator(testTheme())
	assert.Empty(t, ti.View())

	cmd := ti.Start()
	assert.NotNil(t, cmd)
	assert.True(t, ti.IsActive())
	assert.Contains(t, ti.View(), "Thinking...")

	ti.Stop()
	assert.Empty(t, ti.View())
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "4s", formatElapsed(4*time.Second))
	assert.Equal(t, "1m 5s", formatElapsed(65*time.Second))
}

func TestOverview_View(t *testing.T) {
	o := NewOverview(testTheme())
	assert.True(t, strings.Contains(o.View(), "Carbon Jar"))
}
