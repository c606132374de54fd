package route

import (
	"testing"
)

func TestCompile_RejectsNonSlashPrefix(t *testing.T) {
	if _, err := Compile("name/:id"); err == nil {
		t.Fatal("expected error for pattern not starting with /")
	}
}

func TestCompile_RejectsSplat(t *testing.T) {
	if _, err := Compile("/users/*"); err == nil {
		t.Fatal("expected error for splat segment")
	}
}

func TestCompile_RejectsInvalidRegex(t *testing.T) {
	if _, err := Compile("/users/:id<[>"); err == nil {
		t.Fatal("expected error for invalid regex")
	}
}

func TestMatch_Literal(t *testing.T) {
	r := MustCompile("/")
	if _, ok := r.Match("/"); !ok {
		t.Fatal("expected / to match /")
	}
	if _, ok := r.Match("/x"); ok {
		t.Fatal("did not expect /x to match /")
	}
}

func TestMatch_NamedParam(t *testing.T) {
	r := MustCompile("/name/:name")
	bindings, ok := r.Match("/name/Tim")
	if !ok {
		t.Fatal("expected match")
	}
	if bindings["name"] != "Tim" {
		t.Fatalf("got %q, want Tim", bindings["name"])
	}
}

func TestMatch_NamedRegex(t *testing.T) {
	r := MustCompile("/name/:name<[A-Za-z]+>")

	if _, ok := r.Match("/name/Tim"); !ok {
		t.Fatal("expected /name/Tim to match")
	}
	if _, ok := r.Match("/name/123"); ok {
		t.Fatal("did not expect /name/123 to match")
	}
}

func TestMatch_SegmentCountMustBeEqual(t *testing.T) {
	r := MustCompile("/a/:b")
	if _, ok := r.Match("/a/b/c"); ok {
		t.Fatal("did not expect extra segment to match")
	}
	if _, ok := r.Match("/a"); ok {
		t.Fatal("did not expect missing segment to match")
	}
}

func TestMatch_Idempotent(t *testing.T) {
	r := MustCompile("/users/:id")
	b1, ok1 := r.Match("/users/42")
	b2, ok2 := r.Match("/users/42")
	if !ok1 || !ok2 {
		t.Fatal("expected both matches to succeed")
	}
	if b1["id"] != b2["id"] {
		t.Fatalf("expected idempotent bindings, got %v and %v", b1, b2)
	}
}

func TestMatch_OneBindingPerNamedParameter(t *testing.T) {
	r := MustCompile("/a/:x/b/:y")
	bindings, ok := r.Match("/a/1/b/2")
	if !ok {
		t.Fatal("expected match")
	}
	if len(bindings) != 2 || bindings["x"] != "1" || bindings["y"] != "2" {
		t.Fatalf("unexpected bindings: %v", bindings)
	}
}

func TestEqual_ByPattern(t *testing.T) {
	a := MustCompile("/users/:id")
	b := MustCompile("/users/:id")
	c := MustCompile("/users/:name")

	if !a.Equal(b) {
		t.Fatal("expected routes with identical patterns to be equal")
	}
	if a.Equal(c) {
		t.Fatal("did not expect routes with different patterns to be equal")
	}
}

func TestMap_ResolvesInInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Add(MustCompile("/users/:id"))
	m.Add(MustCompile("/users/active"))

	r, _, ok := m.GetRoute("/users/active")
	if !ok {
		t.Fatal("expected a match")
	}
	// The parameterized route was registered first, so it wins the tie —
	// literal routes do not automatically outrank parameterized ones.
	if r.Pattern != "/users/:id" {
		t.Fatalf("expected first-registered route to win, got %q", r.Pattern)
	}
}

func TestMap_NoMatch(t *testing.T) {
	m := NewMap()
	m.Add(MustCompile("/users/:id"))

	if _, _, ok := m.GetRoute("/orders/1"); ok {
		t.Fatal("did not expect a match")
	}
}

func TestMap_RoutesSnapshot(t *testing.T) {
	m := NewMap()
	m.Add(MustCompile("/a"))
	m.Add(MustCompile("/b"))

	routes := m.Routes()
	if len(routes) != 2 {
		t.Fatalf("got %d routes, want 2", len(routes))
	}
	routes[0] = nil
	if m.Routes()[0] == nil {
		t.Fatal("Routes() should return a snapshot copy, not the live slice")
	}
}
