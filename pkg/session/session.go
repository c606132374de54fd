package session

import "sync"

// Session is server-side state keyed by an opaque cookie value. Attribute
// reads and writes and Invalidate are all safe for concurrent use since
// user-supplied handlers may reach a Session from more than one in-flight
// request.
type Session struct {
	mu    sync.RWMutex
	id    string
	valid bool
	attrs map[string]string
}

// newSession creates a valid, empty session under id.
func newSession(id string) *Session {
	return &Session{id: id, valid: true, attrs: make(map[string]string)}
}

// ID returns the session's opaque identifier — the value carried in the
// Fixd-Session cookie.
func (s *Session) ID() string {
	return s.id
}

// Valid reports whether the session has not been invalidated.
func (s *Session) Valid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.valid
}

// Invalidate atomically flips the session to invalid. Once invalidated, no
// subsequent request carrying this session's cookie observes its
// attributes — the dispatcher evicts it from the Store on next sight.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valid = false
}

// Get returns the attribute named name and whether it is set. Get on an
// invalidated session always returns ("", false).
func (s *Session) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.valid {
		return "", false
	}
	v, ok := s.attrs[name]
	return v, ok
}

// Set assigns the attribute named name to value.
func (s *Session) Set(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs[name] = value
}

// SetAll copies every key/value pair of attrs into the session, overwriting
// any existing attributes of the same name. It is the primitive both
// provided hooks (PathParamHook, RequestParamHook) use to populate a
// freshly-allocated session.
func (s *Session) SetAll(attrs map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range attrs {
		s.attrs[k] = v
	}
}

// Len reports the number of attributes currently set. Used by the
// dispatcher after a hook runs to decide whether the session was actually
// populated and should be persisted.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.attrs)
}
