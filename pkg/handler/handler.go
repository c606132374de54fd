package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/zfq308/fixd/pkg/session"
)

// UnsetStatus is the sentinel for a handler whose status code was never
// set. A handler must not reach dispatch with this status still in place.
const UnsetStatus = -1

// HeaderPair is one entry of a handler's ordered header list. Duplicates
// are allowed — a handler may emit the same header name more than once.
type HeaderPair struct {
	Name  string
	Value string
}

// Request is the read-only view of the incoming request a CustomHandler is
// given. It mirrors the accessors the interpolator exposes as tokens.
type Request struct {
	Method        string
	Path          string
	Query         string
	ContentType   string
	Body          []byte
	Major, Minor  int
	PathParams    map[string]string
	RequestParams map[string]string
	Headers       map[string][]string
	Session       *session.Session
}

// Response is what a CustomHandler returns: a status code, an optional
// content-type override, and a body. The interpolator only expands the
// body if the handler built it with InterpretedString.
type Response struct {
	StatusCode  int
	ContentType string
	Body        Body
}

// CustomHandler is user-supplied code that computes a Response from the
// incoming request, in place of a literal scripted body.
type CustomHandler func(req *Request) (*Response, error)

// Handler is the declarative response script bound to a (method, route,
// content-type) key. It is built once via HandlerBuilder and treated as
// read-only thereafter: the dispatcher and AsyncEngine only read from it
// concurrently, never mutate it.
type Handler struct {
	// ID is a per-registration UUID, stable for the handler's lifetime.
	// It has no bearing on dispatch (Key is what resolution keys off of)
	// — it exists so test code and logs have a stable value to reference
	// a specific registration by, even across two handlers that share a
	// Key's method/pattern/content-type (e.g. before and after a handler
	// is replaced at the same route).
	ID string

	StatusCode  int
	ContentType string
	Body        Body
	Custom      CustomHandler
	Headers     []HeaderPair

	SessionHook session.Hook

	Timing Timing

	// UponTrigger, when set, is the trigger key this handler subscribes
	// to — it becomes a subscription-receiver rather than a directly
	// dispatched handler.
	UponTrigger    *Key
	UponTimeout    time.Duration
	HasUponTimeout bool
}

// New creates a Handler with no status code set, the default (Once) timing
// mode, and a fresh registration ID.
func New() *Handler {
	return &Handler{ID: uuid.NewString(), StatusCode: UnsetStatus, Timing: Once()}
}

// Async reports whether this handler requires AsyncEngine involvement:
// any timing mode other than Once, or a bound upon-trigger.
func (h *Handler) Async() bool {
	return !h.Timing.IsOnce() || h.UponTrigger != nil
}
