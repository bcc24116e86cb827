// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal animates assistant replies word by word.
//
// A Scheduler watches the transcript. Whenever it changes, the newest
// assistant message is claimed (once, ever) and its words are published as
// progressively longer prefixes, one word per Interval, starting with the
// first word immediately:
//
//	"a b c"  ->  t=0 "a", t=100ms "a b", t=200ms "a b c"
//
// Every claimed message owns its own timers. A later reply never cancels an
// earlier animation; Dispose cancels whatever is still pending.
package reveal

import (
	"strings"
	"sync"
	"time"

	"github.com/yassine-work/Chatbot-v2/internal/logging"
	"github.com/yassine-work/Chatbot-v2/internal/model"
)

// DefaultInterval is the delay between two revealed words.
const DefaultInterval = 100 * time.Millisecond

// State is the animation state of one message.
type State int

const (
	// Unseen means the scheduler has never claimed the message.
	Unseen State = iota
	// Animating means some words are still pending.
	Animating
	// Done means the whole content has been published.
	Done
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Unseen:
		return "unseen"
	case Animating:
		return "animating"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// PublishFunc receives each new prefix. It is called from timer goroutines,
// never while the scheduler's lock is held.
type PublishFunc func(id model.CorrelationID, prefix string)

// Options configures a Scheduler.
type Options struct {
	Interval time.Duration
	Clock    Clock
	Publish  PublishFunc
	Logger   *logging.Logger
}

// animation is the per-message reveal state.
type animation struct {
	words    []string
	shown    int
	prefix   string
	timers   []Timer
	finished bool
}

// Scheduler owns the processed set and the revealed prefixes.
type Scheduler struct {
	mu       sync.Mutex
	interval time.Duration
	clock    Clock
	publish  PublishFunc
	logger   *logging.Logger

	anims    map[model.CorrelationID]*animation
	disposed bool
}

// New creates a scheduler. Zero-valued options fall back to defaults.
func New(opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	return &Scheduler{
		interval: opts.Interval,
		clock:    opts.Clock,
		publish:  opts.Publish,
		logger:   opts.Logger,
		anims:    make(map[model.CorrelationID]*animation),
	}
}

// Interval returns the delay between words.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// SetInterval changes the delay used by animations started from now on.
// Running animations keep their schedule. Non-positive values are ignored.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()
}

// OnMessagesChanged inspects the newest assistant message and starts its
// reveal if it has not been claimed yet. It returns true when a new
// animation was started.
func (s *Scheduler) OnMessagesChanged(messages []model.Message) bool {
	last, ok := model.LastAssistant(messages)
	if !ok {
		return false
	}

	words := strings.Fields(last.Content)
	if len(words) == 0 {
		// Not claimed: a later trigger may still see content.
		return false
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return false
	}
	if _, claimed := s.anims[last.ID]; claimed {
		s.mu.Unlock()
		return false
	}

	anim := &animation{words: words}
	s.anims[last.ID] = anim

	id := last.ID
	anim.timers = make([]Timer, len(words))
	for k := range words {
		k := k
		anim.timers[k] = s.clock.AfterFunc(time.Duration(k)*s.interval, func() {
			s.fire(id, k)
		})
	}
	s.mu.Unlock()

	s.logger.Debug("reveal started", "id", id.String(), "words", len(words))
	return true
}

// fire reveals words[0..k] of id and publishes the prefix.
func (s *Scheduler) fire(id model.CorrelationID, k int) {
	s.mu.Lock()
	anim, ok := s.anims[id]
	if !ok || s.disposed {
		s.mu.Unlock()
		return
	}

	// Prefixes only grow, even if two timers race.
	if k < anim.shown {
		s.mu.Unlock()
		return
	}
	anim.shown = k + 1
	anim.prefix = strings.Join(anim.words[:anim.shown], " ")
	if anim.shown == len(anim.words) {
		anim.finished = true
		anim.timers = nil
	}
	prefix := anim.prefix
	finished := anim.finished
	publish := s.publish
	s.mu.Unlock()

	if publish != nil {
		publish(id, prefix)
	}
	if finished {
		s.logger.Debug("reveal finished", "id", id.String())
	}
}

// Revealed returns the prefix published so far for id. The boolean is false
// when the message was never claimed.
func (s *Scheduler) Revealed(id model.CorrelationID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	anim, ok := s.anims[id]
	if !ok {
		return "", false
	}
	return anim.prefix, true
}

// State reports the animation state of id.
func (s *Scheduler) State(id model.CorrelationID) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	anim, ok := s.anims[id]
	switch {
	case !ok:
		return Unseen
	case anim.finished:
		return Done
	default:
		return Animating
	}
}

// Processed reports whether id has been claimed.
func (s *Scheduler) Processed(id model.CorrelationID) bool {
	return s.State(id) != Unseen
}

// Active returns the number of animations still in progress.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, anim := range s.anims {
		if !anim.finished {
			n++
		}
	}
	return n
}

// Dispose cancels every pending timer. Words already published stay
// published; no further callbacks fire. Dispose is idempotent.
func (s *Scheduler) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}
	s.disposed = true
	for _, anim := range s.anims {
		for _, t := range anim.timers {
			if t != nil {
				t.Stop()
			}
		}
		anim.timers = nil
	}
}
