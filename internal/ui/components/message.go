// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/yassine-work/Chatbot-v2/internal/model"
	"github.com/yassine-work/Chatbot-v2/internal/ui/styles"
)

// errorPrefix marks assistant messages produced from a failed request.
const errorPrefix = "Error: "

// =============================================================================
// MESSAGE BUBBLE
// =============================================================================

// MessageBubble renders one transcript entry. Content is the text to show,
// which for an animating reply is the revealed prefix rather than the full
// message.
type MessageBubble struct {
	Message       model.Message
	Content       string
	Width         int
	ShowTimestamp bool

	theme    *styles.Theme
	markdown *MarkdownRenderer
}

// NewMessageBubble creates a bubble showing the message's full content.
func NewMessageBubble(msg model.Message, theme *styles.Theme, md *MarkdownRenderer) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Content:       msg.Content,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
		markdown:      md,
	}
}

// IsError reports whether the message carries a request failure.
func (b *MessageBubble) IsError() bool {
	return b.Message.IsAssistant() && strings.HasPrefix(b.Message.Content, errorPrefix)
}

// View renders the bubble.
func (b *MessageBubble) View() string {
	if b.Message.IsUser() {
		return b.renderUser()
	}
	return b.renderAssistant()
}

func (b *MessageBubble) renderUser() string {
	maxContent := b.Width * 3 / 4
	if maxContent < 20 {
		maxContent = 20
	}

	content := b.Content
	if lipgloss.Width(content) > maxContent-4 {
		content = lipgloss.NewStyle().Width(maxContent - 4).Render(content)
	}

	bubble := b.theme.UserBubble.Render(content)
	header := b.header()

	block := lipgloss.JoinVertical(lipgloss.Right, header, bubble)
	return lipgloss.PlaceHorizontal(b.Width, lipgloss.Right, block)
}

func (b *MessageBubble) renderAssistant() string {
	inner := b.Width - 6
	if inner < 10 {
		inner = 10
	}

	var bubble string
	switch {
	case b.IsError():
		wrapped := lipgloss.NewStyle().Width(inner).Render(b.Content)
		bubble = b.theme.ErrorBubble.Render(styles.StatusIndicators.Error + " " + wrapped)
	case b.markdown != nil && b.Content != "":
		bubble = b.theme.AssistantBubble.Render(b.markdown.Render(b.Content, inner))
	default:
		bubble = b.theme.AssistantBubble.Render(lipgloss.NewStyle().Width(inner).Render(b.Content))
	}

	return lipgloss.JoinVertical(lipgloss.Left, b.header(), bubble)
}

func (b *MessageBubble) header() string {
	label := b.theme.RoleLabel.Render(b.Message.Role.DisplayName())
	if !b.ShowTimestamp || b.Message.CreatedAt.IsZero() {
		return label
	}
	return label + " " + b.theme.Timestamp.Render(formatTime(b.Message.CreatedAt))
}

// formatTime renders a timestamp as clock time, with the date when it is
// not from today.
func formatTime(t time.Time) string {
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("Jan 2 15:04")
}

// =============================================================================
// MESSAGE LIST
// =============================================================================

// DisplayFunc returns the text to show for a message.
type DisplayFunc func(msg model.Message) string

// MessageList renders the whole transcript.
type MessageList struct {
	Messages []model.Message
	Width    int
	Display  DisplayFunc

	theme    *styles.Theme
	markdown *MarkdownRenderer
}

// NewMessageList creates an empty list.
func NewMessageList(theme *styles.Theme, md *MarkdownRenderer) *MessageList {
	return &MessageList{Width: 80, theme: theme, markdown: md}
}

// View renders every message separated by a blank line.
func (l *MessageList) View() string {
	if len(l.Messages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(l.Messages))
	for _, msg := range l.Messages {
		bubble := NewMessageBubble(msg, l.theme, l.markdown)
		bubble.Width = l.Width
		if l.Display != nil {
			bubble.Content = l.Display(msg)
		}
		if msg.IsAssistant() && bubble.Content == "" {
			// Claimed but nothing revealed yet.
			continue
		}
		parts = append(parts, bubble.View())
	}
	return strings.Join(parts, "\n\n")
}
