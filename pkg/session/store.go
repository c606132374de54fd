package session

import (
	"sync"

	"github.com/zfq308/fixd/internal/id"
)

// Store is the concurrent session registry owned by the Dispatcher for the
// server's lifetime. New reads and writes are guarded by a RWMutex; the
// registry only ever holds *Session pointers, so mutating a session's
// attributes never requires holding the Store's lock.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// New allocates a fresh session, registers it under a new opaque ID, and
// returns it.
func (st *Store) New() *Session {
	s := newSession(id.SessionID())

	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()

	return s
}

// Get looks up the session registered under sessionID. If the session is
// present but no longer valid, it is evicted from the store as a side
// effect and Get reports not found — this is the "lazy eviction" the
// dispatcher relies on: invalidated sessions disappear on the next request
// that observes them, not proactively.
func (st *Store) Get(sessionID string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[sessionID]
	st.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !s.Valid() {
		st.mu.Lock()
		delete(st.sessions, sessionID)
		st.mu.Unlock()
		return nil, false
	}
	return s, true
}

// Discard unconditionally removes sessionID from the store, regardless of
// validity. Used when a session hook ran but left the session with no
// attributes set — there is nothing worth keeping it around for.
func (st *Store) Discard(sessionID string) {
	st.mu.Lock()
	delete(st.sessions, sessionID)
	st.mu.Unlock()
}

// Len reports the number of sessions currently registered, including any
// that have been invalidated but not yet evicted by a Get.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
