// Package server wires the route table, handler registry, session store,
// capture ring, and async engine into the Dispatcher — the top-level
// per-request pipeline — and exposes the programmatic Server surface test
// code drives: handle(), start(), stop(), capturedRequests().
package server
