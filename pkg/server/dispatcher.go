package server

import (
	"bytes"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/zfq308/fixd/pkg/async"
	"github.com/zfq308/fixd/pkg/capture"
	"github.com/zfq308/fixd/pkg/handler"
	"github.com/zfq308/fixd/pkg/httputil"
	"github.com/zfq308/fixd/pkg/interpolate"
	"github.com/zfq308/fixd/pkg/route"
	"github.com/zfq308/fixd/pkg/session"
	"github.com/zfq308/fixd/pkg/util"
)

// SessionCookieName is the cookie the dispatcher uses to carry the opaque
// session ID to and from the client.
const SessionCookieName = "Fixd-Session"

// Dispatcher is the top-level per-request pipeline: capture, resolve,
// session, body, write. It owns the RouteMap, handler registry, session
// store, capture ring, and async engine for the server's lifetime.
// Handlers are shared read-only once registered; the handlersMu RWMutex
// exists because handle() may still be called against a server that is
// already serving traffic in long-lived fixture processes.
type Dispatcher struct {
	routes *route.Map

	handlersMu sync.RWMutex
	handlers   map[handler.Key]*handler.Handler
	triggers   map[handler.Key]bool

	sessions *session.Store
	ring     *capture.Ring
	engine   *async.Engine
	log      *slog.Logger
}

// NewDispatcher creates a Dispatcher from cfg.
func NewDispatcher(cfg *Config) *Dispatcher {
	engine := async.New(cfg.Workers)
	engine.SetLogger(cfg.Logger)

	return &Dispatcher{
		routes:   route.NewMap(),
		handlers: make(map[handler.Key]*handler.Handler),
		triggers: make(map[handler.Key]bool),
		sessions: session.NewStore(),
		ring:     capture.NewRing(cfg.MaxCaptured),
		engine:   engine,
		log:      cfg.Logger,
	}
}

// Handle registers a new handler at (method, resource[, contentType]) and
// returns the builder used to script its response. contentType is
// optional; omitting it registers a handler with no content-type
// discriminator.
func (d *Dispatcher) Handle(method, resource string, contentType ...string) *HandlerBuilder {
	ct := ""
	if len(contentType) > 0 {
		ct = contentType[0]
	}

	key := handler.NewKey(method, resource, ct)
	h := handler.New()

	d.handlersMu.Lock()
	d.handlers[key] = h
	d.ensureRouteLocked(resource)
	d.handlersMu.Unlock()

	return &HandlerBuilder{d: d, hb: handler.FromHandler(h)}
}

// registerTrigger records key as a trigger and ensures it resolves to a
// handler — a freshly synthesized 200/text/plain/empty one if nothing was
// registered there yet — so the trigger URL is always addressable.
func (d *Dispatcher) registerTrigger(key handler.Key) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()

	d.triggers[key] = true
	if _, exists := d.handlers[key]; !exists {
		synthetic := handler.New()
		synthetic.StatusCode = http.StatusOK
		synthetic.Body = handler.LiteralString("")
		d.handlers[key] = synthetic
		d.ensureRouteLocked(key.Pattern)
	}
}

// ensureRouteLocked registers pattern in the route table if it is not
// there already. Callers must hold handlersMu.
func (d *Dispatcher) ensureRouteLocked(pattern string) {
	for _, r := range d.routes.Routes() {
		if r.Pattern == pattern {
			return
		}
	}
	d.routes.Add(route.MustCompile(pattern))
}

// CapturedRequests returns a snapshot of every request observed so far, in
// arrival order.
func (d *Dispatcher) CapturedRequests() []*capture.Request {
	return d.ring.Snapshot()
}

// Request dequeues and returns the oldest captured request still in the
// ring, or nil if the ring is empty.
func (d *Dispatcher) Request() *capture.Request {
	return d.ring.Next()
}

// SetMaxCapturedRequests changes the capture ring's capacity.
func (d *Dispatcher) SetMaxCapturedRequests(n int) {
	d.ring.SetMax(n)
}

// Stop releases the async engine's resources, cancelling every live
// subscription.
func (d *Dispatcher) Stop() {
	d.engine.Stop()
}

// ServeHTTP implements the seven-step dispatch pipeline: capture, resolve,
// trigger broadcast, session, body, assemble, write (sync or async). Any
// unhandled error yields 500 with an empty text/plain body.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	bodyBytes, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	major, minor := r.ProtoMajor, r.ProtoMinor
	snapshot := capture.New(r.Method, r.URL.Path, r.URL.RawQuery, major, minor, r.Header, bodyBytes, time.Now())
	d.ring.Push(snapshot)

	rt, pathParams, ok := d.routes.GetRoute(r.URL.Path)
	if !ok {
		httputil.WriteEmptyStatus(w, http.StatusNotFound)
		return
	}

	contentType := mediaType(r.Header.Get("Content-Type"))
	key := handler.NewKey(r.Method, rt.Pattern, contentType)

	d.handlersMu.RLock()
	h, ok := d.handlers[key]
	isTrigger := d.triggers[key]
	d.handlersMu.RUnlock()

	if !ok {
		httputil.WriteEmptyStatus(w, http.StatusMethodNotAllowed)
		return
	}

	r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	_ = r.ParseForm()
	requestParams := make(map[string]string, len(r.Form))
	for name, values := range r.Form {
		if len(values) > 0 {
			requestParams[name] = values[0]
		}
	}

	if isTrigger {
		d.broadcast(key, r, pathParams, requestParams, bodyBytes)
	}

	// An upon handler's status is committed from h.StatusCode at broadcast
	// time too, so this guard must run before the upon branch below — an
	// unset status there would otherwise reach StreamWriter.WriteHeader
	// with an invalid code from inside an async worker goroutine.
	if h.StatusCode == handler.UnsetStatus {
		httputil.WriteEmptyStatus(w, http.StatusInternalServerError)
		return
	}

	sess := d.resolveSession(w, r, h, pathParams, requestParams)

	interpCtx := &interpolate.Context{
		PathParams:    pathParams,
		RequestParams: requestParams,
		Headers:       r.Header,
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Body:          string(bodyBytes),
		Major:         major,
		Minor:         minor,
		NowMillis:     time.Now().UnixMilli(),
	}
	if sess != nil {
		interpCtx.Session = sess
	}

	if h.UponTrigger != nil {
		d.serveSubscription(w, r, h)
		return
	}

	// For an async handler, body is recomputed at timer-fire time in
	// serveDeferred and this one is discarded — harmless only because
	// handler.Builder rejects combining WithCustom with After/Every, so an
	// async handler's body always comes from the static h.Body variant,
	// which re-renders identically against the same ctx every time.
	status, respContentType, body, err := renderResponse(h, r, pathParams, requestParams, sess, interpCtx)
	if err != nil {
		d.log.Error("handler error", "method", r.Method, "path", r.URL.Path,
			"body", util.TruncateBody(string(bodyBytes), 0), "error", err)
		httputil.WriteEmptyStatus(w, http.StatusInternalServerError)
		return
	}

	for _, hp := range h.Headers {
		w.Header().Add(hp.Name, hp.Value)
	}
	if respContentType != "" {
		w.Header().Set("Content-Type", respContentType)
	}

	if !h.Async() {
		w.WriteHeader(status)
		if len(body) > 0 {
			_, _ = w.Write(body)
		}
		return
	}

	d.serveDeferred(w, r, h, status, respContentType, interpCtx)
}

// resolveSession looks up any session attached via the request's cookie,
// then — if the handler declares a session hook — runs it, possibly
// allocating a fresh session and setting the response cookie.
func (d *Dispatcher) resolveSession(w http.ResponseWriter, r *http.Request, h *handler.Handler, pathParams, requestParams map[string]string) *session.Session {
	var sess *session.Session
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if s, ok := d.sessions.Get(c.Value); ok {
			sess = s
		}
	}

	if h.SessionHook == nil {
		return sess
	}

	fresh := d.sessions.New()
	h.SessionHook(&session.HookContext{PathParams: pathParams, RequestParams: requestParams}, fresh)

	if fresh.Len() == 0 {
		d.sessions.Discard(fresh.ID())
		return sess
	}

	http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: fresh.ID(), Path: "/"})
	return fresh
}

// mediaType strips any parameters (e.g. "; charset=utf-8") from a
// Content-Type header value.
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	t, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	}
	return t
}
