package handler

import (
	"strings"
	"testing"
)

func TestBody_NoBodyIsEmpty(t *testing.T) {
	b := NoBody()
	if !b.IsNone() {
		t.Fatal("expected NoBody to report IsNone")
	}
	raw, err := b.Raw()
	if err != nil || raw != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", raw, err)
	}
}

func TestBody_LiteralBytesRoundTrip(t *testing.T) {
	b := LiteralBytes([]byte("hello"))
	raw, err := b.Raw()
	if err != nil || string(raw) != "hello" {
		t.Fatalf("got (%q, %v)", raw, err)
	}
	if b.Interpolated() {
		t.Fatal("literal bytes must not be interpolated")
	}
}

func TestBody_LiteralStringRoundTrip(t *testing.T) {
	b := LiteralString("hello")
	if b.String() != "hello" {
		t.Fatalf("got %q", b.String())
	}
	if b.Interpolated() {
		t.Fatal("literal string must not be interpolated")
	}
}

func TestBody_InterpretedStringIsMarkedInterpolated(t *testing.T) {
	b := InterpretedString(":name")
	if !b.Interpolated() {
		t.Fatal("expected InterpretedString to be interpolated")
	}
	if b.String() != ":name" {
		t.Fatalf("got %q", b.String())
	}
}

func TestBody_StreamReadsToCompletion(t *testing.T) {
	b := Stream(strings.NewReader("streamed"))
	raw, err := b.Raw()
	if err != nil || string(raw) != "streamed" {
		t.Fatalf("got (%q, %v)", raw, err)
	}
}
