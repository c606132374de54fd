package async

import (
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zfq308/fixd/pkg/handler"
	"github.com/zfq308/fixd/pkg/httputil"
)

func newTestSubscription(e *Engine, key handler.Key, status int) (*Subscription, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	w := httputil.NewStreamWriter(rec)
	h := handler.NewBuilder().With(status, "text/plain", "x").Build()
	sub := e.Subscribe(key, h, w, 0, false)
	return sub, rec
}

func TestEngine_SubscribeRegistersInOrder(t *testing.T) {
	e := New(4)
	key := handler.NewKey("POST", "/trigger", "")

	newTestSubscription(e, key, 200)
	newTestSubscription(e, key, 200)

	if e.SubscriberCount(key) != 2 {
		t.Fatalf("got %d subscribers, want 2", e.SubscriberCount(key))
	}
}

func TestEngine_BroadcastWritesToEverySubscriber(t *testing.T) {
	e := New(4)
	key := handler.NewKey("POST", "/trigger", "")

	_, rec1 := newTestSubscription(e, key, 200)
	_, rec2 := newTestSubscription(e, key, 200)

	render := func(h *handler.Handler) ([]byte, error) { return []byte("hi"), nil }
	e.Broadcast(key, render)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if rec1.Body.String() == "hi" && rec2.Body.String() == "hi" {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if rec1.Body.String() != "hi" {
		t.Fatalf("subscriber 1 got %q", rec1.Body.String())
	}
	if rec2.Body.String() != "hi" {
		t.Fatalf("subscriber 2 got %q", rec2.Body.String())
	}
}

func TestEngine_AfterRunsOnceAfterDelay(t *testing.T) {
	e := New(4)
	var ran atomic.Bool
	e.After(30*time.Millisecond, func() { ran.Store(true) })

	time.Sleep(10 * time.Millisecond)
	if ran.Load() {
		t.Fatal("fired too early")
	}

	time.Sleep(60 * time.Millisecond)
	if !ran.Load() {
		t.Fatal("expected After to have fired by now")
	}
}

func TestEngine_AfterCancel(t *testing.T) {
	e := New(4)
	var ran atomic.Bool
	cancel := e.After(30*time.Millisecond, func() { ran.Store(true) })
	cancel()

	time.Sleep(60 * time.Millisecond)
	if ran.Load() {
		t.Fatal("expected cancelled After to never fire")
	}
}

func TestEngine_EveryTicksExactCount(t *testing.T) {
	e := New(4)
	var ticks atomic.Int32
	doneCh := make(chan struct{})

	e.Every(10*time.Millisecond, 3, func(n int) bool {
		ticks.Add(1)
		return true
	}, func() { close(doneCh) })

	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Every to finish its ticks")
	}

	if got := ticks.Load(); got != 3 {
		t.Fatalf("got %d ticks, want 3", got)
	}
}

func TestEngine_EveryStopsOnTickFalse(t *testing.T) {
	e := New(4)
	var ticks atomic.Int32
	doneCh := make(chan struct{})

	e.Every(10*time.Millisecond, 0, func(n int) bool {
		ticks.Add(1)
		return n < 2
	}, func() { close(doneCh) })

	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}

	if got := ticks.Load(); got != 2 {
		t.Fatalf("got %d ticks, want 2", got)
	}
}

func TestEngine_DeadlineExpiryCommits408(t *testing.T) {
	e := New(4)
	key := handler.NewKey("POST", "/trigger", "")

	rec := httptest.NewRecorder()
	w := httputil.NewStreamWriter(rec)
	h := handler.NewBuilder().With(200, "text/plain", "x").Build()
	e.Subscribe(key, h, w, 20*time.Millisecond, true)

	time.Sleep(100 * time.Millisecond)

	if rec.Code != 408 {
		t.Fatalf("got status %d, want 408", rec.Code)
	}
	if e.SubscriberCount(key) != 0 {
		t.Fatal("expected expired subscription to be deregistered")
	}
}

func TestEngine_BroadcastBeforeDeadlineWins(t *testing.T) {
	e := New(4)
	key := handler.NewKey("POST", "/trigger", "")

	rec := httptest.NewRecorder()
	w := httputil.NewStreamWriter(rec)
	h := handler.NewBuilder().With(201, "text/plain", "x").Build()
	e.Subscribe(key, h, w, 200*time.Millisecond, true)

	render := func(h *handler.Handler) ([]byte, error) { return []byte("body"), nil }
	e.Broadcast(key, render)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if rec.Body.Len() > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if rec.Code != 201 {
		t.Fatalf("got status %d, want 201 (committed by the broadcast, not the deadline)", rec.Code)
	}
}

func TestEngine_StopClosesAllSubscriptions(t *testing.T) {
	e := New(4)
	key := handler.NewKey("POST", "/trigger", "")

	_, rec := newTestSubscription(e, key, 200)
	e.Stop()

	if e.SubscriberCount(key) != 0 {
		t.Fatal("expected Stop to clear the registry")
	}
	_ = rec
}
