package async

import (
	"net/http/httptest"
	"testing"

	"github.com/zfq308/fixd/pkg/handler"
	"github.com/zfq308/fixd/pkg/httputil"
)

func TestSubscription_RunsTasksInEnqueueOrder(t *testing.T) {
	rec := httptest.NewRecorder()
	w := httputil.NewStreamWriter(rec)
	h := handler.NewBuilder().With(200, "text/plain", "x").Build()
	sub := newSubscription(handler.NewKey("GET", "/trigger", ""), h, w)
	go sub.runQueue()
	defer sub.close()

	var order []int
	done := make(chan struct{})
	for i := 1; i <= 5; i++ {
		i := i
		sub.enqueue(func() {
			order = append(order, i)
			if i == 5 {
				close(done)
			}
		})
	}
	<-done

	for i, v := range order {
		if v != i+1 {
			t.Fatalf("got order %v, want 1..5 in order", order)
		}
	}
}

func TestSubscription_CommitStatusOnlyOnce(t *testing.T) {
	rec := httptest.NewRecorder()
	w := httputil.NewStreamWriter(rec)
	h := handler.NewBuilder().With(200, "text/plain", "x").Build()
	sub := newSubscription(handler.NewKey("GET", "/trigger", ""), h, w)

	sub.commitStatus(201)
	sub.commitStatus(408)

	if rec.Code != 201 {
		t.Fatalf("got %d, want 201 (first commit wins)", rec.Code)
	}
}

func TestSubscription_CloseIsIdempotent(t *testing.T) {
	rec := httptest.NewRecorder()
	w := httputil.NewStreamWriter(rec)
	h := handler.NewBuilder().With(200, "text/plain", "x").Build()
	sub := newSubscription(handler.NewKey("GET", "/trigger", ""), h, w)

	sub.close()
	sub.close()

	if !sub.closed() {
		t.Fatal("expected subscription to report closed")
	}
}

func TestSubscription_EnqueueAfterCloseIsNoop(t *testing.T) {
	rec := httptest.NewRecorder()
	w := httputil.NewStreamWriter(rec)
	h := handler.NewBuilder().With(200, "text/plain", "x").Build()
	sub := newSubscription(handler.NewKey("GET", "/trigger", ""), h, w)
	sub.close()

	ran := false
	sub.enqueue(func() { ran = true })

	if ran {
		t.Fatal("expected task enqueued after close to never run")
	}
}
