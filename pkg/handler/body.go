package handler

import "io"

// bodyKind tags which field of a Body is populated. Dispatch on Body is by
// this tag, never by type assertion or inheritance.
type bodyKind int

const (
	bodyNone bodyKind = iota
	bodyLiteralBytes
	bodyLiteralString
	bodyInterpretedString
	bodyStream
)

// Body is a tagged variant over every shape a handler's response body can
// take: nothing, raw bytes, a raw string, a string that the interpolator
// expands at send time, or a stream read once at send time.
type Body struct {
	kind    bodyKind
	bytes   []byte
	str     string
	reader  io.Reader
}

// NoBody is an empty response body.
func NoBody() Body {
	return Body{kind: bodyNone}
}

// LiteralBytes wraps raw bytes written to the response verbatim, with no
// interpolation.
func LiteralBytes(b []byte) Body {
	return Body{kind: bodyLiteralBytes, bytes: b}
}

// LiteralString wraps a string written to the response verbatim, with no
// interpolation.
func LiteralString(s string) Body {
	return Body{kind: bodyLiteralString, str: s}
}

// InterpretedString wraps a string that the interpolator expands against
// the request (and session, if attached) immediately before it is written.
// This is the body kind `with(status, contentType, body)` produces, and the
// only body kind a custom handler gets expanded for it if it explicitly
// opts in.
func InterpretedString(s string) Body {
	return Body{kind: bodyInterpretedString, str: s}
}

// Stream wraps an io.Reader consumed once, at send time, with no
// interpolation.
func Stream(r io.Reader) Body {
	return Body{kind: bodyStream, reader: r}
}

// IsNone reports whether the body carries no content.
func (b Body) IsNone() bool {
	return b.kind == bodyNone
}

// Interpolated reports whether b should be run through the interpolator
// before being written.
func (b Body) Interpolated() bool {
	return b.kind == bodyInterpretedString
}

// Raw returns the body's raw bytes for the literalBytes, literalString, and
// interpretedString (pre-expansion) variants. For bodyStream it reads the
// stream to completion; for bodyNone it returns nil.
func (b Body) Raw() ([]byte, error) {
	switch b.kind {
	case bodyNone:
		return nil, nil
	case bodyLiteralBytes:
		return b.bytes, nil
	case bodyLiteralString, bodyInterpretedString:
		return []byte(b.str), nil
	case bodyStream:
		return io.ReadAll(b.reader)
	default:
		return nil, nil
	}
}

// String returns the body's text for the string-shaped variants
// (literalString, interpretedString); it is the input the interpolator
// expands. For other variants it returns "".
func (b Body) String() string {
	switch b.kind {
	case bodyLiteralString, bodyInterpretedString:
		return b.str
	default:
		return ""
	}
}
