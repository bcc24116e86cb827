// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/yassine-work/Chatbot-v2/internal/ui/styles"
	"github.com/yassine-work/Chatbot-v2/internal/util"
)

// KeyHint is one shortcut shown in the footer.
type KeyHint struct {
	Key  string
	Desc string
}

// Footer renders key hints along the bottom edge.
type Footer struct {
	Hints []KeyHint
	Width int

	theme *styles.Theme
}

// NewFooter creates a footer.
func NewFooter(theme *styles.Theme, hints []KeyHint) *Footer {
	return &Footer{Hints: hints, Width: 80, theme: theme}
}

// View renders the hints, dropping the ones that do not fit.
func (f *Footer) View() string {
	parts := make([]string, 0, len(f.Hints))
	used := 0
	for _, h := range f.Hints {
		plain := h.Key + " " + h.Desc
		w := util.StringWidth(plain) + 3
		if f.Width > 0 && used+w > f.Width-2 {
			break
		}
		used += w
		parts = append(parts, f.theme.FooterKey.Render(h.Key)+" "+h.Desc)
	}
	return f.theme.Footer.Render(strings.Join(parts, "   "))
}
