// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package suggest holds the suggested prompts shown above the input box.
package suggest

import "sync"

// Suggestion is one clickable prompt. Title and Label are displayed; Action
// is the text that gets submitted.
type Suggestion struct {
	Title  string `toml:"title" json:"title"`
	Label  string `toml:"label" json:"label"`
	Action string `toml:"action" json:"action"`
}

// Defaults returns the built-in prompts.
func Defaults() []Suggestion {
	return []Suggestion{
		{Title: "What is Carbon Jar?", Label: "learn about us", Action: "What is Carbon Jar?"},
		{Title: "Where are you based?", Label: "company location", Action: "Where is Carbon Jar located?"},
		{Title: "What do you offer?", Label: "services & features", Action: "What services does Carbon Jar offer?"},
		{Title: "Do you have courses?", Label: "learn more", Action: "Are there any courses or educational resources available?"},
	}
}

// Picker tracks whether the suggestions are still visible. Once hidden they
// stay hidden for the rest of the session.
type Picker struct {
	mu     sync.Mutex
	items  []Suggestion
	hidden bool
}

// NewPicker creates a picker. An empty list selects Defaults.
func NewPicker(items []Suggestion) *Picker {
	if len(items) == 0 {
		items = Defaults()
	}
	return &Picker{items: append([]Suggestion(nil), items...)}
}

// Items returns the suggestions, or nil once hidden.
func (p *Picker) Items() []Suggestion {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hidden {
		return nil
	}
	return append([]Suggestion(nil), p.items...)
}

// Len returns the number of suggestions, hidden or not.
func (p *Picker) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// Visible reports whether the suggestions are still shown.
func (p *Picker) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.hidden && len(p.items) > 0
}

// Select hides the list and returns the action of suggestion i. It reports
// false when the list is already hidden or i is out of range.
func (p *Picker) Select(i int) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hidden || i < 0 || i >= len(p.items) {
		return "", false
	}
	p.hidden = true
	return p.items[i].Action, true
}

// Hide hides the list permanently.
func (p *Picker) Hide() {
	p.mu.Lock()
	p.hidden = true
	p.mu.Unlock()
}
