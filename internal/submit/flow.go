// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package submit implements the single-flight submission flow.
//
// A submission appends the user message right away, sends the text to the
// responder and appends exactly one assistant message carrying the same
// correlation id, whether the call succeeds or fails:
//
//	Begin    -> user message appended, input cleared, in-flight set
//	Send     -> blocking responder call (run off the UI thread)
//	Complete -> assistant message appended, in-flight cleared
//
// Only one submission may be in flight at a time.
package submit

import (
	"context"
	"strings"
	"sync"

	"github.com/yassine-work/Chatbot-v2/internal/logging"
	"github.com/yassine-work/Chatbot-v2/internal/model"
	"github.com/yassine-work/Chatbot-v2/internal/responder"
)

// User-visible texts produced by the flow.
const (
	BusyWarning = "Please wait for the model to finish its response!"
	NoResponse  = "No response"
	ErrorPrefix = "Error: "
)

// Notifier shows transient warnings to the user.
type Notifier interface {
	Warn(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

// Warn calls f.
func (f NotifierFunc) Warn(message string) { f(message) }

// Request is a submission that has been accepted by Begin.
type Request struct {
	ID   model.CorrelationID
	Text string
}

// Result is the settled outcome of a Request.
type Result struct {
	ID    model.CorrelationID
	Reply string
	Err   error
}

// Content returns the assistant message text for the result.
func (r Result) Content() string {
	if r.Err != nil {
		return ErrorPrefix + responder.Describe(r.Err)
	}
	if r.Reply == "" {
		return ErrorPrefix + NoResponse
	}
	return r.Reply
}

// Options configures a Flow.
type Options struct {
	Responder  responder.Responder
	Notifier   Notifier
	Logger     *logging.Logger
	Transcript *model.Transcript
}

// Flow owns the transcript, the pending input and the in-flight guard.
type Flow struct {
	mu         sync.Mutex
	transcript *model.Transcript
	responder  responder.Responder
	notifier   Notifier
	logger     *logging.Logger

	pending  string
	inFlight bool
	current  model.CorrelationID
	disposed bool

	observers []func([]model.Message)

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a flow. A nil Transcript starts an empty one.
func New(opts Options) *Flow {
	if opts.Transcript == nil {
		opts.Transcript = model.NewTranscript()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(string) {})
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Flow{
		transcript: opts.Transcript,
		responder:  opts.Responder,
		notifier:   opts.Notifier,
		logger:     opts.Logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Transcript returns the underlying transcript.
func (f *Flow) Transcript() *model.Transcript {
	return f.transcript
}

// SetResponder replaces the responder used by later submissions.
func (f *Flow) SetResponder(r responder.Responder) {
	f.mu.Lock()
	f.responder = r
	f.mu.Unlock()
}

// Messages returns a snapshot of the transcript.
func (f *Flow) Messages() []model.Message {
	return f.transcript.Messages()
}

// SetPending records the current input value.
func (f *Flow) SetPending(text string) {
	f.mu.Lock()
	f.pending = text
	f.mu.Unlock()
}

// Pending returns the current input value.
func (f *Flow) Pending() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// InFlight reports whether a submission is awaiting its reply.
func (f *Flow) InFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// OnChange registers fn to be called with a transcript snapshot after every
// append.
func (f *Flow) OnChange(fn func([]model.Message)) {
	if fn == nil {
		return
	}
	f.mu.Lock()
	f.observers = append(f.observers, fn)
	f.mu.Unlock()
}

// =============================================================================
// SUBMISSION
// =============================================================================

// Begin accepts a submission. text overrides the pending input when it is
// non-empty. Begin returns false, with no side effects, when the text is
// blank or another submission is in flight.
func (f *Flow) Begin(text string) (Request, bool) {
	f.mu.Lock()
	if f.disposed || f.inFlight {
		f.mu.Unlock()
		return Request{}, false
	}
	if text == "" {
		text = f.pending
	}
	if strings.TrimSpace(text) == "" {
		f.mu.Unlock()
		return Request{}, false
	}

	req := Request{ID: model.NewCorrelationID(), Text: text}
	f.inFlight = true
	f.current = req.ID
	f.pending = ""
	f.transcript.Append(model.NewUserMessage(req.ID, text))
	f.mu.Unlock()

	f.logger.Debug("submission started", "id", req.ID.String(), "length", len(text))
	f.notify()
	return req, true
}

// Attempt is Begin as triggered by the send-on-enter affordance: when a
// submission is already in flight the user is warned and the input is kept.
func (f *Flow) Attempt(text string) (Request, bool) {
	if f.InFlight() {
		f.notifier.Warn(BusyWarning)
		return Request{}, false
	}
	return f.Begin(text)
}

// Send performs the blocking responder call for req. The call is aborted
// when ctx or the flow's lifetime is cancelled.
func (f *Flow) Send(ctx context.Context, req Request) Result {
	f.mu.Lock()
	r := f.responder
	f.mu.Unlock()
	if r == nil {
		return Result{ID: req.ID, Err: errNoResponder}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(f.ctx, cancel)
	defer stop()

	reply, err := r.Ask(ctx, req.Text)
	if err != nil {
		f.logger.Warn("submission failed", "id", req.ID.String(), "error", err)
	}
	return Result{ID: req.ID, Reply: reply, Err: err}
}

// Complete appends the assistant message for res and clears the in-flight
// guard. Results arriving after Dispose, or for a request that is not the
// current one, are dropped.
func (f *Flow) Complete(res Result) (model.Message, bool) {
	f.mu.Lock()
	if f.disposed || !f.inFlight || res.ID != f.current {
		f.mu.Unlock()
		return model.Message{}, false
	}
	msg := model.NewAssistantMessage(res.ID, res.Content())
	f.transcript.Append(msg)
	f.inFlight = false
	f.current = ""
	f.mu.Unlock()

	f.logger.Debug("submission completed", "id", res.ID.String(), "failed", res.Err != nil)
	f.notify()
	return msg, true
}

// Submit runs a whole submission synchronously and returns the assistant
// message. It reports false when the submission was not accepted or was
// dropped by Dispose.
func (f *Flow) Submit(ctx context.Context, text string) (model.Message, bool) {
	req, ok := f.Begin(text)
	if !ok {
		return model.Message{}, false
	}
	return f.Complete(f.Send(ctx, req))
}

// Dispose cancels the in-flight request and stops all further state
// updates. It is idempotent.
func (f *Flow) Dispose() {
	f.mu.Lock()
	f.disposed = true
	f.observers = nil
	f.mu.Unlock()
	f.cancel()
}

func (f *Flow) notify() {
	f.mu.Lock()
	observers := append([]func([]model.Message){}, f.observers...)
	f.mu.Unlock()

	if len(observers) == 0 {
		return
	}
	snapshot := f.transcript.Messages()
	for _, fn := range observers {
		fn(snapshot)
	}
}
