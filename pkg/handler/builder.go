package handler

import (
	"fmt"
	"time"

	"github.com/zfq308/fixd/pkg/session"
)

// Builder is the fluent API behind handle(method, resource[, contentType]).
// It wraps a single Handler and mutates it in place — the spec's own data
// model calls a Handler "a mutable builder; frozen after first use is not
// required" — so the pointer a caller gets back from Build is the exact
// object later chained calls (and the dispatcher's handler map) observe.
type Builder struct {
	h *Handler
}

// NewBuilder starts a handler under construction with no status code set
// and the default (Once) timing mode.
func NewBuilder() *Builder {
	return &Builder{h: New()}
}

// FromHandler wraps an existing Handler so it can keep being extended
// through the fluent API — used by callers (like the dispatcher's route
// registration) that need the Handler to exist, addressable, before any
// With*/After/Every/Upon call has run.
func FromHandler(h *Handler) *Builder {
	return &Builder{h: h}
}

// With sets the handler to respond with a literal scripted body: status,
// content-type, and a body expanded by the interpolator on send.
func (b *Builder) With(status int, contentType string, body string) *Builder {
	b.h.StatusCode = status
	b.h.ContentType = contentType
	b.h.Body = InterpretedString(body)
	return b
}

// WithRaw is like With but the body is written verbatim, with no
// interpolation.
func (b *Builder) WithRaw(status int, contentType string, body []byte) *Builder {
	b.h.StatusCode = status
	b.h.ContentType = contentType
	b.h.Body = LiteralBytes(body)
	return b
}

// WithCustom delegates response computation to fn. The interpolator is
// applied to fn's returned body if and only if fn built it with
// InterpretedString.
//
// A custom handler cannot be combined with After or Every: the deferred
// write path re-renders a handler's body at timer-fire time from its
// static Body variant, and a CustomHandler has no such variant to
// re-render from.
func (b *Builder) WithCustom(fn CustomHandler) *Builder {
	if b.h.Timing.IsAfterDelay() || b.h.Timing.IsEveryInterval() {
		panic(fmt.Errorf("handler: a custom handler cannot be combined with After or Every timing"))
	}
	b.h.Custom = fn
	return b
}

// WithHeader appends a response header. Duplicates are allowed; headers
// are emitted in the order they were added.
func (b *Builder) WithHeader(name, value string) *Builder {
	b.h.Headers = append(b.h.Headers, HeaderPair{Name: name, Value: value})
	return b
}

// WithSessionHandler attaches hook, run on every request that resolves to
// this handler.
func (b *Builder) WithSessionHandler(hook session.Hook) *Builder {
	b.h.SessionHook = hook
	return b
}

// After switches the handler to AfterDelay timing: the body is withheld
// until d elapses after dispatch. Panics if the handler has a custom body
// (see WithCustom).
func (b *Builder) After(d time.Duration) *Builder {
	b.requireNoCustom("After")
	b.h.Timing = AfterDelay(d)
	return b
}

// Every switches the handler to EveryInterval timing: one body segment is
// written every period. count == 0 means the stream runs until the client
// disconnects. Panics if the handler has a custom body (see WithCustom).
func (b *Builder) Every(period time.Duration, count int) *Builder {
	b.requireNoCustom("Every")
	b.h.Timing = EveryInterval(period, count)
	return b
}

func (b *Builder) requireNoCustom(method string) {
	if b.h.Custom != nil {
		panic(fmt.Errorf("handler: %s cannot be combined with a custom handler", method))
	}
}

// Upon subscribes this handler to the trigger key (method, resource,
// contentType). contentType may be "" for a trigger with no content-type
// discriminator.
func (b *Builder) Upon(method, resource, contentType string) *Builder {
	key := NewKey(method, resource, contentType)
	b.h.UponTrigger = &key
	return b
}

// WithTimeout sets the subscription deadline for an upon-bound handler.
func (b *Builder) WithTimeout(d time.Duration) *Builder {
	b.h.UponTimeout = d
	b.h.HasUponTimeout = true
	return b
}

// ID returns the registration ID of the handler under construction.
func (b *Builder) ID() string {
	return b.h.ID
}

// Build returns the Handler this builder has been mutating. It is not a
// copy: further chained calls on this Builder, or on a Builder later
// re-wrapping the same Handler via FromHandler, continue to mutate the
// object callers already hold a reference to.
func (b *Builder) Build() *Handler {
	return b.h
}
