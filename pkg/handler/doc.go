// Package handler defines the declarative response script attached to a
// route/method/content-type combination: status, headers, body, timing
// mode, optional upon-trigger binding, session hook, and timeout.
//
// A Handler is built with HandlerBuilder's fluent setters and is read-only
// once construction is done — the dispatcher and AsyncEngine only ever read
// from it concurrently.
package handler
