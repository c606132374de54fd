package server

import (
	"time"

	"github.com/zfq308/fixd/pkg/handler"
	"github.com/zfq308/fixd/pkg/session"
)

// HandlerBuilder is the fluent value handle() returns. It delegates every
// setter to the underlying handler.Builder, and additionally tells the
// Dispatcher about upon-trigger bindings as soon as Upon is called, since
// the trigger route must become addressable (via a synthetic handler)
// immediately — there is no separate "finish building" call in the
// external API for the dispatcher to hook into otherwise.
type HandlerBuilder struct {
	d  *Dispatcher
	hb *handler.Builder
}

// ID returns the registration ID of the handler this builder is
// configuring, stable for the handler's lifetime.
func (b *HandlerBuilder) ID() string {
	return b.hb.ID()
}

// With sets the handler to respond with a literal scripted body.
func (b *HandlerBuilder) With(status int, contentType, body string) *HandlerBuilder {
	b.hb.With(status, contentType, body)
	return b
}

// WithRaw sets the handler to respond with a literal, non-interpolated
// byte body.
func (b *HandlerBuilder) WithRaw(status int, contentType string, body []byte) *HandlerBuilder {
	b.hb.WithRaw(status, contentType, body)
	return b
}

// WithCustom delegates response computation to fn.
func (b *HandlerBuilder) WithCustom(fn handler.CustomHandler) *HandlerBuilder {
	b.hb.WithCustom(fn)
	return b
}

// WithHeader appends a response header.
func (b *HandlerBuilder) WithHeader(name, value string) *HandlerBuilder {
	b.hb.WithHeader(name, value)
	return b
}

// WithSessionHandler attaches a session hook.
func (b *HandlerBuilder) WithSessionHandler(hook session.Hook) *HandlerBuilder {
	b.hb.WithSessionHandler(hook)
	return b
}

// After switches the handler to AfterDelay timing.
func (b *HandlerBuilder) After(d time.Duration) *HandlerBuilder {
	b.hb.After(d)
	return b
}

// Every switches the handler to EveryInterval timing.
func (b *HandlerBuilder) Every(period time.Duration, count int) *HandlerBuilder {
	b.hb.Every(period, count)
	return b
}

// Upon subscribes the handler to the trigger (method, resource,
// contentType) and registers a synthetic 200/text/plain/empty handler at
// that route if one is not already registered, so the trigger URL itself
// is always a valid request target.
func (b *HandlerBuilder) Upon(method, resource, contentType string) *HandlerBuilder {
	b.hb.Upon(method, resource, contentType)
	b.d.registerTrigger(handler.NewKey(method, resource, contentType))
	return b
}

// WithTimeout sets the subscription deadline for an upon-bound handler.
func (b *HandlerBuilder) WithTimeout(d time.Duration) *HandlerBuilder {
	b.hb.WithTimeout(d)
	return b
}
