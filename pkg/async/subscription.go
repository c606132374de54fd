package async

import (
	"net/http"
	"sync"
	"time"

	"github.com/zfq308/fixd/internal/id"
	"github.com/zfq308/fixd/pkg/handler"
	"github.com/zfq308/fixd/pkg/httputil"
)

// Subscription is a single upon-trigger receiver: a handler bound to a
// trigger key, with the response writer its broadcasts are written to.
// Each Subscription owns a single-writer task queue so writes triggered by
// independent broadcasts are applied strictly in the order they were
// enqueued, regardless of which goroutine enqueued them or how the engine's
// shared worker pool happens to schedule the underlying write.
type Subscription struct {
	ID        string
	Key       handler.Key
	Handler   *handler.Handler
	Writer    *httputil.StreamWriter
	CreatedAt time.Time

	tasks chan func()
	done  chan struct{}

	statusOnce sync.Once
	closeOnce  sync.Once

	deadlineTimer *time.Timer
}

func newSubscription(key handler.Key, h *handler.Handler, w *httputil.StreamWriter) *Subscription {
	return &Subscription{
		ID:        id.Short(),
		Key:       key,
		Handler:   h,
		Writer:    w,
		CreatedAt: time.Now(),
		tasks:     make(chan func(), 64),
		done:      make(chan struct{}),
	}
}

// runQueue drains tasks in FIFO order until the subscription is closed.
// Each task runs on the calling (dedicated) goroutine, so per-subscription
// ordering holds independent of the engine's worker pool scheduling.
func (s *Subscription) runQueue() {
	for {
		select {
		case fn, ok := <-s.tasks:
			if !ok {
				return
			}
			fn()
		case <-s.done:
			return
		}
	}
}

// enqueue schedules fn to run on this subscription's queue. It is a no-op
// once the subscription is closed.
func (s *Subscription) enqueue(fn func()) {
	if s.closed() {
		return
	}
	select {
	case s.tasks <- fn:
	case <-s.done:
	}
}

// commitStatus writes status exactly once — the first of a broadcast write
// or a deadline expiry to reach a Subscription decides its final status
// code, since net/http disallows changing a status after it commits.
func (s *Subscription) commitStatus(status int) {
	s.statusOnce.Do(func() {
		s.Writer.WriteHeader(status)
	})
}

// Done returns a channel closed when the subscription is torn down —
// expiry, a failed write, or engine shutdown — so a caller holding the
// request goroutine open for an upon handler can block on it.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// closed reports whether the subscription has already been torn down.
func (s *Subscription) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// close tears the subscription down: stops its deadline timer, closes its
// done channel (which stops its task queue), and closes its writer. Safe to
// call more than once.
func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		if s.deadlineTimer != nil {
			s.deadlineTimer.Stop()
		}
		close(s.done)
		s.Writer.Close()
	})
}

// expire is invoked by the deadline timer: commits HTTP 408 if no broadcast
// has written a status yet, then closes the subscription.
func (s *Subscription) expire() {
	s.commitStatus(http.StatusRequestTimeout)
	s.close()
}
