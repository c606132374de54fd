package server

import (
	"net/http"

	"github.com/zfq308/fixd/pkg/handler"
	"github.com/zfq308/fixd/pkg/httputil"
	"github.com/zfq308/fixd/pkg/interpolate"
	"github.com/zfq308/fixd/pkg/session"
)

// renderResponse computes the status, content-type, and body bytes for a
// synchronous or deferred-body dispatch. It does not write anything; the
// caller decides how and when to put the result on the wire.
func renderResponse(h *handler.Handler, r *http.Request, pathParams, requestParams map[string]string, sess *session.Session, ctx *interpolate.Context) (int, string, []byte, error) {
	if h.Custom != nil {
		req := &handler.Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			ContentType:   mediaType(r.Header.Get("Content-Type")),
			Body:          []byte(ctx.Body),
			Major:         ctx.Major,
			Minor:         ctx.Minor,
			PathParams:    pathParams,
			RequestParams: requestParams,
			Headers:       r.Header,
			Session:       sess,
		}

		resp, err := h.Custom(req)
		if err != nil {
			return 0, "", nil, err
		}

		body, err := bodyBytes(resp.Body, ctx)
		if err != nil {
			return 0, "", nil, err
		}
		return resp.StatusCode, resp.ContentType, body, nil
	}

	body, err := bodyBytes(h.Body, ctx)
	if err != nil {
		return 0, "", nil, err
	}
	return h.StatusCode, h.ContentType, body, nil
}

// bodyBytes resolves a Body to its final bytes, expanding it against ctx
// first if it is an interpolated string.
func bodyBytes(b handler.Body, ctx *interpolate.Context) ([]byte, error) {
	if b.Interpolated() {
		return []byte(interpolate.Expand(b.String(), ctx)), nil
	}
	return b.Raw()
}

// serveDeferred handles the AfterDelay and EveryInterval timing modes: it
// commits status and headers immediately, then blocks the request
// goroutine — so net/http's implicit-200-on-return never fires — until the
// async engine finishes (or the client disconnects).
func (d *Dispatcher) serveDeferred(w http.ResponseWriter, r *http.Request, h *handler.Handler, status int, contentType string, ctx *interpolate.Context) {
	sw := httputil.NewStreamWriter(w)
	sw.WriteHeader(status)

	finished := make(chan struct{})

	switch {
	case h.Timing.IsAfterDelay():
		cancel := d.engine.After(h.Timing.Delay(), func() {
			defer close(finished)
			body, err := bodyBytes(h.Body, ctx)
			if err != nil {
				return
			}
			_, _ = sw.Write(body)
		})
		defer cancel()

	case h.Timing.IsEveryInterval():
		tick := func(n int) bool {
			body, err := bodyBytes(h.Body, ctx)
			if err != nil {
				return false
			}
			_, werr := sw.Write(body)
			return werr == nil
		}
		cancel := d.engine.Every(h.Timing.Period(), h.Timing.Count(), tick, func() { close(finished) })
		defer cancel()
	}

	select {
	case <-finished:
	case <-r.Context().Done():
	}
}

// serveSubscription handles a request landing on a handler that itself
// subscribes to a trigger (upon). It registers the subscription and blocks
// the request goroutine until the subscription is torn down (its deadline
// expires, a write fails, or the engine stops) or the client disconnects.
// Broadcasts write to the open response without ending it.
func (d *Dispatcher) serveSubscription(w http.ResponseWriter, r *http.Request, h *handler.Handler) {
	sw := httputil.NewStreamWriter(w)
	for _, hp := range h.Headers {
		sw.Header().Add(hp.Name, hp.Value)
	}
	if h.ContentType != "" {
		sw.Header().Set("Content-Type", h.ContentType)
	}

	sub := d.engine.Subscribe(*h.UponTrigger, h, sw, h.UponTimeout, h.HasUponTimeout)

	select {
	case <-sub.Done():
	case <-r.Context().Done():
		d.engine.Deregister(sub)
	}
}

// broadcast delivers the triggering request's context to every live
// subscriber of key, rendering each subscriber's own handler body against
// it.
func (d *Dispatcher) broadcast(key handler.Key, r *http.Request, pathParams, requestParams map[string]string, body []byte) {
	ctx := &interpolate.Context{
		PathParams:    pathParams,
		RequestParams: requestParams,
		Headers:       r.Header,
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Body:          string(body),
		Major:         r.ProtoMajor,
		Minor:         r.ProtoMinor,
	}

	d.engine.Broadcast(key, func(h *handler.Handler) ([]byte, error) {
		if h.Custom != nil {
			req := &handler.Request{
				Method:        r.Method,
				Path:          r.URL.Path,
				Query:         r.URL.RawQuery,
				ContentType:   mediaType(r.Header.Get("Content-Type")),
				Body:          body,
				Major:         r.ProtoMajor,
				Minor:         r.ProtoMinor,
				PathParams:    pathParams,
				RequestParams: requestParams,
				Headers:       r.Header,
			}
			resp, err := h.Custom(req)
			if err != nil {
				return nil, err
			}
			return bodyBytes(resp.Body, ctx)
		}
		return bodyBytes(h.Body, ctx)
	})
}
