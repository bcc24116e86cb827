// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "What is Carbon Jar", "What is Carbon Jar"},
		{"punctuation dropped", "What is Carbon Jar?", "What is Carbon Jar"},
		{"apostrophe kept", "what's new", "what's new"},
		{"tags stripped", "<b>hello</b> <script>x</script>", "hello x"},
		{"fullwidth folded", "ＡＢＣ１２３", "ABC123"},
		{"accents dropped", "café", "caf"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestSanitize_Caps(t *testing.T) {
	got := Sanitize(strings.Repeat("a", 250))
	assert.Len(t, got, MaxQueryRunes)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "query:hello", CacheKey("hello"))
}
