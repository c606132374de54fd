package interpolate

import (
	"net/http"
	"testing"
)

type fakeSession struct {
	valid bool
	attrs map[string]string
}

func (f *fakeSession) Valid() bool { return f.valid }
func (f *fakeSession) Get(name string) (string, bool) {
	v, ok := f.attrs[name]
	return v, ok
}

func TestExpand_RouteParam(t *testing.T) {
	ctx := &Context{PathParams: map[string]string{"name": "Tim"}}
	got := Expand("hello :name", ctx)
	if got != "hello Tim" {
		t.Fatalf("got %q", got)
	}
}

func TestExpand_UnboundRouteParamIsEmpty(t *testing.T) {
	ctx := &Context{PathParams: map[string]string{}}
	got := Expand("hello :missing", ctx)
	if got != "hello " {
		t.Fatalf("got %q", got)
	}
}

func TestExpand_RequestAttributes(t *testing.T) {
	ctx := &Context{
		Method:    "POST",
		Path:      "/widgets",
		Query:     "color=red",
		Body:      "payload",
		Major:     1,
		Minor:     1,
		NowMillis: 1700000000000,
	}

	cases := map[string]string{
		"[request.method]": "POST",
		"[request.path]":   "/widgets",
		"[request.query]":  "color=red",
		"[request.body]":   "payload",
		"[request.major]":  "1",
		"[request.minor]":  "1",
		"[request.time]":   "1700000000000",
		"[request.target]": "/widgets?color=red",
	}
	for token, want := range cases {
		if got := Expand(token, ctx); got != want {
			t.Fatalf("%s: got %q, want %q", token, got, want)
		}
	}
}

func TestExpand_TargetWithoutQuery(t *testing.T) {
	ctx := &Context{Path: "/widgets"}
	if got := Expand("[request.target]", ctx); got != "/widgets" {
		t.Fatalf("got %q", got)
	}
}

func TestExpand_RequestParam(t *testing.T) {
	ctx := &Context{RequestParams: map[string]string{"color": "red"}}
	if got := Expand("[request?color]", ctx); got != "red" {
		t.Fatalf("got %q", got)
	}
	if got := Expand("[request?missing]", ctx); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestExpand_RequestHeaderIsCaseInsensitive(t *testing.T) {
	h := http.Header{}
	h.Set("X-Request-Id", "abc123")
	ctx := &Context{Headers: h}

	if got := Expand("[request$x-request-id]", ctx); got != "abc123" {
		t.Fatalf("got %q", got)
	}
}

func TestExpand_SessionAttributeWhenValid(t *testing.T) {
	ctx := &Context{Session: &fakeSession{valid: true, attrs: map[string]string{"user": "tim"}}}
	if got := Expand("{user}", ctx); got != "tim" {
		t.Fatalf("got %q", got)
	}
}

func TestExpand_SessionAttributeMissingIsEmpty(t *testing.T) {
	ctx := &Context{Session: &fakeSession{valid: true, attrs: map[string]string{}}}
	if got := Expand("{missing}", ctx); got != "" {
		t.Fatalf("got %q, want empty string", got)
	}
}

func TestExpand_SessionTokenWithNoSessionPreservesLiteral(t *testing.T) {
	ctx := &Context{}
	if got := Expand("{name}", ctx); got != "{name}" {
		t.Fatalf("got %q, want literal {name} preserved", got)
	}
}

func TestExpand_SessionTokenWithInvalidSessionPreservesLiteral(t *testing.T) {
	ctx := &Context{Session: &fakeSession{valid: false}}
	if got := Expand("{name}", ctx); got != "{name}" {
		t.Fatalf("got %q, want literal {name} preserved", got)
	}
}

func TestExpand_SinglePassNoCascading(t *testing.T) {
	// The expansion of :a is the literal text ":b" — it must not itself be
	// re-scanned as a token.
	ctx := &Context{PathParams: map[string]string{"a": ":b", "b": "should-not-appear"}}
	got := Expand(":a", ctx)
	if got != ":b" {
		t.Fatalf("got %q, want :b (unscanned)", got)
	}
}

func TestExpand_MultipleTokensInOnePass(t *testing.T) {
	ctx := &Context{
		PathParams: map[string]string{"id": "42"},
		Method:     "GET",
		Session:    &fakeSession{valid: true, attrs: map[string]string{"user": "tim"}},
	}
	got := Expand("id=:id method=[request.method] user={user}", ctx)
	if got != "id=42 method=GET user=tim" {
		t.Fatalf("got %q", got)
	}
}
