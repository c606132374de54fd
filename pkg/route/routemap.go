package route

import "sync"

// Map keeps routes in insertion order and resolves a path to the first
// route whose pattern matches it. Literal routes do not automatically
// outrank parameterized ones — ties are broken purely by registration
// order, so callers that want a literal route to win over
// "/users/:id" must register the literal route first.
//
// Map is safe for concurrent use: Add is expected to run during test
// setup, GetRoute runs concurrently on every dispatched request, and a
// short RWMutex keeps the two safe to interleave (handlers may be added
// to a running server in long-lived fixture processes).
type Map struct {
	mu     sync.RWMutex
	routes []*Route
}

// NewMap creates an empty route table.
func NewMap() *Map {
	return &Map{}
}

// Add appends route to the table. Adding the same pattern twice keeps both
// entries; the earlier one still wins ties in GetRoute.
func (m *Map) Add(r *Route) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = append(m.routes, r)
}

// GetRoute returns the first route (in insertion order) whose pattern
// matches path, along with the path-parameter bindings it produced.
func (m *Map) GetRoute(path string) (*Route, map[string]string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.routes {
		if bindings, ok := r.Match(path); ok {
			return r, bindings, true
		}
	}
	return nil, nil, false
}

// Routes returns a snapshot of the registered routes in insertion order.
func (m *Map) Routes() []*Route {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Route, len(m.routes))
	copy(out, m.routes)
	return out
}
