package interpolate

import "net/http"

// Session is the subset of session behavior the interpolator needs to
// expand {name} tokens. *session.Session satisfies this interface without
// either package importing the other.
type Session interface {
	Valid() bool
	Get(name string) (string, bool)
}

// Context carries everything a scripted body may be expanded against: the
// route-parameter bindings produced by matching, the request itself, and
// (if one is attached) the current session.
type Context struct {
	PathParams    map[string]string
	RequestParams map[string]string
	Headers       http.Header

	Method string
	Path   string
	Query  string
	Body   string
	Major  int
	Minor  int

	// NowMillis is the epoch-millisecond timestamp substituted for
	// [request.time]. Callers supply it explicitly (rather than the
	// interpolator calling time.Now itself) so expansion stays a pure
	// function of its inputs.
	NowMillis int64

	Session Session
}

// Target returns the request-target: path, plus "?query" if a query string
// was present.
func (c *Context) Target() string {
	if c.Query == "" {
		return c.Path
	}
	return c.Path + "?" + c.Query
}
