// Package httputil provides the response-sink abstraction the dispatcher
// writes through, plus small helpers for the handful of fixed-shape
// responses (404, 405, 500) the core emits itself.
package httputil

import (
	"net/http"
	"sync"
)

// WriteEmptyStatus writes a bare status code with an empty text/plain body.
// This is the shape of every error response the core emits on its own
// behalf (route not found, method/content-type mismatch, handler
// misconfiguration, internal error) — see spec §7.
func WriteEmptyStatus(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
}

// StreamWriter wraps an http.ResponseWriter with the serialization and
// disconnect-detection behavior the async engine needs: writes to one
// response are always ordered (single mutex per response, per spec §4.8's
// "writes to any single response are serialized"), and any write error is
// treated as an unrecoverable client disconnect rather than retried.
type StreamWriter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	closed  bool
}

// NewStreamWriter wraps w for serialized, disconnect-aware writes.
// w need not implement http.Flusher; when it doesn't, Write degrades to
// unflushed writes (the net/http server still flushes at response end).
func NewStreamWriter(w http.ResponseWriter) *StreamWriter {
	flusher, _ := w.(http.Flusher)
	return &StreamWriter{w: w, flusher: flusher}
}

// WriteHeader commits the status code. Must be called at most once, before
// any Write, matching net/http.ResponseWriter semantics.
func (s *StreamWriter) WriteHeader(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.WriteHeader(status)
	s.flush()
}

// Header returns the underlying response header map so callers can set
// headers before the first WriteHeader/Write.
func (s *StreamWriter) Header() http.Header {
	return s.w.Header()
}

// Write sends one body segment and flushes it immediately so streamed
// responses (every/upon) are visible to the client without buffering.
// A non-nil error means the client disconnected; callers must stop writing
// and deregister whatever kept this stream open.
func (s *StreamWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, http.ErrBodyNotAllowed
	}

	n, err := s.w.Write(p)
	if err != nil {
		return n, err
	}
	s.flush()
	return n, nil
}

// Close marks the stream as done. Subsequent Write calls fail fast instead
// of writing to a response the dispatcher has already finished with.
func (s *StreamWriter) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *StreamWriter) flush() {
	if s.flusher != nil {
		s.flusher.Flush()
	}
}
