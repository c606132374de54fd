package async

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zfq308/fixd/pkg/handler"
	"github.com/zfq308/fixd/pkg/httputil"
	"github.com/zfq308/fixd/pkg/logging"
)

// DefaultWorkers is the worker pool size used when a Server is not given an
// explicit size.
const DefaultWorkers = 10

// Renderer computes the bytes a subscription writes for one broadcast,
// given the subscriber's own handler. The dispatcher supplies this so the
// engine never needs to know about interpolation.
type Renderer func(h *handler.Handler) ([]byte, error)

// Engine owns the bounded worker pool, the timer scheduler, and the
// trigger-key -> subscriber registry that together implement after, every,
// and upon timing modes.
type Engine struct {
	sem chan struct{}
	wg  sync.WaitGroup

	mu   sync.RWMutex
	subs map[handler.Key][]*Subscription

	log *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New creates an engine with the given worker pool size. workers <= 0
// falls back to DefaultWorkers.
func New(workers int) *Engine {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Engine{
		sem:    make(chan struct{}, workers),
		subs:   make(map[handler.Key][]*Subscription),
		log:    logging.Nop(),
		stopCh: make(chan struct{}),
	}
}

// SetLogger replaces the engine's operational logger. Broadcasts logged
// after this call carry the new logger; nil is ignored.
func (e *Engine) SetLogger(log *slog.Logger) {
	if log != nil {
		e.log = log
	}
}

// runBounded runs fn on the calling goroutine after acquiring a worker
// slot, blocking until one is free. Acquiring the slot around the write
// itself (rather than around task scheduling) is what keeps the total
// number of concurrently in-flight body writes bounded by the pool size.
func (e *Engine) runBounded(fn func()) {
	select {
	case e.sem <- struct{}{}:
	case <-e.stopCh:
		return
	}
	e.wg.Add(1)
	defer func() {
		<-e.sem
		e.wg.Done()
	}()
	fn()
}

// Subscribe registers a new upon subscription under key and returns it.
// If timeout is set, a deadline timer is armed immediately: on expiry the
// subscription commits HTTP 408 (unless a broadcast already committed a
// status) and deregisters itself.
func (e *Engine) Subscribe(key handler.Key, h *handler.Handler, w *httputil.StreamWriter, timeout time.Duration, hasTimeout bool) *Subscription {
	sub := newSubscription(key, h, w)

	e.mu.Lock()
	e.subs[key] = append(e.subs[key], sub)
	e.mu.Unlock()

	go sub.runQueue()

	if hasTimeout {
		sub.deadlineTimer = time.AfterFunc(timeout, func() {
			sub.expire()
			e.deregister(sub)
		})
	}

	return sub
}

// Deregister removes sub from the registry and tears it down. Safe to call
// from a disconnect detection path as well as from expiry/shutdown.
func (e *Engine) Deregister(sub *Subscription) {
	sub.close()
	e.deregister(sub)
}

func (e *Engine) deregister(sub *Subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()

	list := e.subs[sub.Key]
	for i, s := range list {
		if s == sub {
			e.subs[sub.Key] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(e.subs[sub.Key]) == 0 {
		delete(e.subs, sub.Key)
	}
}

// Broadcast walks every live subscriber of key, in the order they
// subscribed, and enqueues one write per subscription using render to
// compute that subscription's body against the triggering request. A
// write error (client disconnect) deregisters the subscription.
func (e *Engine) Broadcast(key handler.Key, render Renderer) {
	e.mu.RLock()
	subs := append([]*Subscription(nil), e.subs[key]...)
	e.mu.RUnlock()

	broadcastID := uuid.NewString()
	e.log.Debug("broadcasting trigger", "broadcast_id", broadcastID, "method", key.Method, "pattern", key.Pattern, "subscribers", len(subs))

	for _, sub := range subs {
		sub := sub
		sub.enqueue(func() {
			e.runBounded(func() {
				body, err := render(sub.Handler)
				if err != nil {
					e.log.Error("broadcast render failed", "broadcast_id", broadcastID, "subscription_id", sub.ID, "error", err)
					e.Deregister(sub)
					return
				}
				sub.commitStatus(sub.Handler.StatusCode)
				if _, werr := sub.Writer.Write(body); werr != nil {
					e.Deregister(sub)
				}
			})
		})
	}
}

// After schedules fn to run once after d, on the worker pool. It returns a
// cancel function that stops the timer if it has not fired yet.
func (e *Engine) After(d time.Duration, fn func()) (cancel func()) {
	timer := time.AfterFunc(d, func() {
		e.runBounded(fn)
	})
	return func() { timer.Stop() }
}

// Every runs tick on the worker pool once per period, starting after the
// first period elapses. tick receives the 1-based tick number and reports
// whether ticking should continue (false typically means a write failed —
// the client disconnected). If count > 0, ticking stops on its own after
// count ticks and done is called; done is also called if tick returns
// false. Every does not drift-correct: each tick is scheduled at a fixed
// period from the previous one, not from start-of-dispatch compensated for
// write latency.
func (e *Engine) Every(period time.Duration, count int, tick func(n int) bool, done func()) (cancel func()) {
	stopCh := make(chan struct{})
	var stopOnce sync.Once
	stop := func() { stopOnce.Do(func() { close(stopCh) }) }

	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		n := 0
		for {
			select {
			case <-stopCh:
				return
			case <-e.stopCh:
				return
			case <-ticker.C:
				n++
				cont := true
				e.runBounded(func() {
					cont = tick(n)
				})
				if !cont || (count > 0 && n >= count) {
					done()
					return
				}
			}
		}
	}()

	return stop
}

// Stop cancels every live subscription and stops accepting new bounded
// work, then waits for in-flight writes to finish.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stopCh)
	})

	e.mu.Lock()
	all := make([]*Subscription, 0)
	for _, list := range e.subs {
		all = append(all, list...)
	}
	e.subs = make(map[handler.Key][]*Subscription)
	e.mu.Unlock()

	for _, sub := range all {
		sub.close()
	}

	e.wg.Wait()
}

// SubscriberCount reports the number of live subscribers under key, for
// tests and diagnostics.
func (e *Engine) SubscriberCount(key handler.Key) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subs[key])
}
