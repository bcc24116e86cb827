// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yassine-work/Chatbot-v2/internal/ui/styles"
	"github.com/yassine-work/Chatbot-v2/internal/util"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindInfo is an informational toast.
	ToastKindInfo ToastKind = iota
	// ToastKindWarning is a warning toast, e.g. a rejected submission.
	ToastKindWarning
	// ToastKindError is an error toast.
	ToastKindError
)

// Toast durations by kind.
const (
	InfoToastDuration    = 3 * time.Second
	WarningToastDuration = 4 * time.Second
	ErrorToastDuration   = 6 * time.Second
)

// ToastTickInterval is how often expired toasts are pruned.
const ToastTickInterval = 100 * time.Millisecond

// Toast is a transient, non-blocking notification.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// ExpiresAt returns when the toast disappears.
func (t Toast) ExpiresAt() time.Time {
	return t.CreatedAt.Add(t.Duration)
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager keeps the active toasts, newest first. It is safe for use
// from timer goroutines and implements the submission flow's Notifier.
type ToastManager struct {
	mu        sync.Mutex
	toasts    []Toast
	nextID    int
	maxToasts int
	now       func() time.Time
}

// NewToastManager creates a new toast manager.
func NewToastManager() *ToastManager {
	return &ToastManager{
		nextID:    1,
		maxToasts: 3,
		now:       time.Now,
	}
}

// SetClock replaces the time source.
func (m *ToastManager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Add adds a toast and returns its id.
func (m *ToastManager) Add(kind ToastKind, message string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	toast := Toast{
		ID:        m.nextID,
		Message:   message,
		Kind:      kind,
		CreatedAt: m.now(),
		Duration:  durationFor(kind),
	}
	m.nextID++

	m.toasts = append([]Toast{toast}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
	return toast.ID
}

// Warn adds a warning toast.
func (m *ToastManager) Warn(message string) {
	m.Add(ToastKindWarning, message)
}

// Error adds an error toast.
func (m *ToastManager) Error(message string) {
	m.Add(ToastKindError, message)
}

// Info adds an informational toast.
func (m *ToastManager) Info(message string) {
	m.Add(ToastKindInfo, message)
}

// Dismiss removes a toast by id.
func (m *ToastManager) Dismiss(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, toast := range m.toasts {
		if toast.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// Tick drops expired toasts and returns the remaining ones.
func (m *ToastManager) Tick() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	active := m.toasts[:0]
	for _, toast := range m.toasts {
		if now.Before(toast.ExpiresAt()) {
			active = append(active, toast)
		}
	}
	m.toasts = active
	return append([]Toast(nil), m.toasts...)
}

// Toasts returns a copy of the active toasts.
func (m *ToastManager) Toasts() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Toast(nil), m.toasts...)
}

// Len returns the number of active toasts.
func (m *ToastManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts)
}

// Clear removes all toasts.
func (m *ToastManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = nil
}

func durationFor(kind ToastKind) time.Duration {
	switch kind {
	case ToastKindWarning:
		return WarningToastDuration
	case ToastKindError:
		return ErrorToastDuration
	default:
		return InfoToastDuration
	}
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg is sent periodically to prune expired toasts.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd schedules the next toast tick.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(ToastTickInterval, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderToast renders a single toast on one line.
func RenderToast(toast Toast, theme *styles.Theme, width int) string {
	var style lipgloss.Style
	var icon string
	switch toast.Kind {
	case ToastKindWarning:
		style, icon = theme.ToastWarning, styles.StatusIndicators.Warning
	case ToastKindError:
		style, icon = theme.ToastError, styles.StatusIndicators.Error
	default:
		style, icon = theme.ToastInfo, styles.StatusIndicators.Info
	}

	text := icon + " " + toast.Message
	if width > 4 {
		text = util.TruncateWidth(text, width-4)
	}
	return style.Render(text)
}

// RenderToastStack renders toasts right-aligned, newest on top.
func RenderToastStack(toasts []Toast, theme *styles.Theme, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(toasts))
	for _, toast := range toasts {
		lines = append(lines, RenderToast(toast, theme, width))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, lines...)
	if width > 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
	}
	return stack
}

