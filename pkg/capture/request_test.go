package capture

import (
	"net/http"
	"testing"
	"time"
)

func TestNew_RequestLineFormat(t *testing.T) {
	req := New("GET", "/widgets/1", "color=red", 1, 1, http.Header{}, nil, time.Now())
	if req.Line != "GET /widgets/1?color=red HTTP/1.1" {
		t.Fatalf("got %q", req.Line)
	}
}

func TestNew_RequestLineWithoutQuery(t *testing.T) {
	req := New("POST", "/widgets", "", 2, 0, http.Header{}, nil, time.Now())
	if req.Line != "POST /widgets HTTP/2.0" {
		t.Fatalf("got %q", req.Line)
	}
}

func TestNew_ClonesHeadersAndBody(t *testing.T) {
	headers := http.Header{"X-Test": []string{"a"}}
	body := []byte("hello")

	req := New("GET", "/x", "", 1, 1, headers, body, time.Now())

	headers.Set("X-Test", "mutated")
	body[0] = 'H'

	if req.Headers.Get("X-Test") != "a" {
		t.Fatal("expected snapshot header to be independent of source map")
	}
	if string(req.Body) != "hello" {
		t.Fatal("expected snapshot body to be independent of source slice")
	}
}
