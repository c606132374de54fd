package capture

import (
	"fmt"
	"net/http"
	"time"
)

// Request is an immutable snapshot of an observed request, taken before
// route resolution so it reflects exactly what arrived on the wire.
type Request struct {
	Line      string // "METHOD TARGET HTTP/maj.min"; TARGET is the path plus "?query" if any
	Method    string
	Path      string
	Query     string
	Headers   http.Header
	Body      []byte
	Timestamp time.Time
}

// New builds a Request snapshot. headers is cloned so later mutation of the
// caller's header map cannot reach back into the snapshot.
func New(method, path, query string, major, minor int, headers http.Header, body []byte, at time.Time) *Request {
	target := path
	if query != "" {
		target += "?" + query
	}

	return &Request{
		Line:      fmt.Sprintf("%s %s HTTP/%d.%d", method, target, major, minor),
		Method:    method,
		Path:      path,
		Query:     query,
		Headers:   headers.Clone(),
		Body:      append([]byte(nil), body...),
		Timestamp: at,
	}
}
