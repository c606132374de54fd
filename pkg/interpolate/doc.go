// Package interpolate implements the single-pass token scanner that
// expands scripted response bodies against the current request and
// session.
//
// This is deliberately not a general template engine: the token grammar is
// fixed (route parameters, a handful of request accessors, request
// parameters, request headers, and session attributes) and expansion is a
// single left-to-right pass with no re-scanning of replacement text.
// Unknown or unavailable tokens expand to the empty string, with one
// documented exception for session-attribute tokens.
package interpolate
