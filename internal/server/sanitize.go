// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"regexp"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxQueryRunes caps a sanitized query.
const MaxQueryRunes = 100

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// allowedRune keeps ASCII letters and digits, whitespace and apostrophes.
func allowedRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '\'':
		return true
	default:
		return unicode.IsSpace(r)
	}
}

// Sanitize strips markup from a query, folds compatibility characters
// (fullwidth letters and the like) to their plain forms, drops everything
// but letters, digits, whitespace and apostrophes, and caps the result at
// MaxQueryRunes.
func Sanitize(text string) string {
	text = tagPattern.ReplaceAllString(text, "")

	t := transform.Chain(norm.NFKC, runes.Remove(runes.Predicate(func(r rune) bool {
		return !allowedRune(r)
	})))
	out, _, err := transform.String(t, text)
	if err != nil {
		return ""
	}

	rs := []rune(out)
	if len(rs) > MaxQueryRunes {
		rs = rs[:MaxQueryRunes]
	}
	return string(rs)
}

// CacheKey returns the cache key for a sanitized query.
func CacheKey(sanitized string) string {
	return "query:" + sanitized
}
