package handler

import (
	"testing"
	"time"
)

func TestTiming_OnceIsDefaultSynchronous(t *testing.T) {
	tm := Once()
	if !tm.IsOnce() || tm.IsAfterDelay() || tm.IsEveryInterval() {
		t.Fatal("expected Once to be exclusively the once mode")
	}
}

func TestTiming_AfterDelay(t *testing.T) {
	tm := AfterDelay(5 * time.Second)
	if !tm.IsAfterDelay() {
		t.Fatal("expected AfterDelay mode")
	}
	if tm.Delay() != 5*time.Second {
		t.Fatalf("got %v", tm.Delay())
	}
}

func TestTiming_EveryIntervalBounded(t *testing.T) {
	tm := EveryInterval(time.Second, 3)
	if !tm.IsEveryInterval() {
		t.Fatal("expected EveryInterval mode")
	}
	if tm.Period() != time.Second || tm.Count() != 3 {
		t.Fatalf("got period=%v count=%d", tm.Period(), tm.Count())
	}
}

func TestTiming_EveryIntervalUnbounded(t *testing.T) {
	tm := EveryInterval(time.Second, 0)
	if tm.Count() != 0 {
		t.Fatalf("got %d, want 0 (unbounded)", tm.Count())
	}
}
