package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/zfq308/fixd/pkg/capture"
	"github.com/zfq308/fixd/pkg/session"
)

// Server is the embeddable HTTP fixture: a Dispatcher bound to a listening
// *http.Server. Stop is idempotent and safe to call from test cleanup
// functions; Start returns an error if the server is already running.
type Server struct {
	cfg        *Config
	dispatcher *Dispatcher
	httpServer *http.Server

	mu       sync.Mutex
	running  bool
	listener net.Listener
}

// New builds a Server from the given options, applied over DefaultConfig.
// It does not start listening; call Start for that.
func New(opts ...Option) *Server {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Server{
		cfg:        cfg,
		dispatcher: NewDispatcher(cfg),
	}
}

// Handle registers a handler at (method, resource[, contentType]) and
// returns the builder used to script its response. Safe to call before or
// after Start.
func (s *Server) Handle(method, resource string, contentType ...string) *HandlerBuilder {
	return s.dispatcher.Handle(method, resource, contentType...)
}

// CapturedRequests returns every request observed so far, in arrival
// order.
func (s *Server) CapturedRequests() []*capture.Request {
	return s.dispatcher.CapturedRequests()
}

// Request dequeues and returns the oldest captured request still held in
// the ring, or nil if it is empty.
func (s *Server) Request() *capture.Request {
	return s.dispatcher.Request()
}

// SetMaxCapturedRequests changes the capture ring's capacity. -1 disables
// eviction.
func (s *Server) SetMaxCapturedRequests(n int) {
	s.dispatcher.SetMaxCapturedRequests(n)
}

// Sessions exposes the underlying session store, mostly for test
// assertions against session lifetime.
func (s *Server) Sessions() *session.Store {
	return s.dispatcher.sessions
}

// Start binds a listener and begins serving in the background. If
// Config.Port is 0, the OS assigns a free port; call Addr or Port
// afterwards to find out which one.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server: already running")
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	s.listener = lis

	s.httpServer = &http.Server{
		Handler:      s.dispatcher,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	s.cfg.Logger.Info("starting server", "addr", lis.Addr().String())
	go func() {
		if err := s.httpServer.Serve(lis); err != nil && err != http.ErrServerClosed {
			s.cfg.Logger.Error("server error", "error", err)
		}
	}()

	s.running = true
	return nil
}

// Stop gracefully shuts down the HTTP server and tears down every live
// async subscription, waiting up to Config.ShutdownTimeout.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.dispatcher.Stop()

	err := s.httpServer.Shutdown(ctx)
	s.running = false
	return err
}

// Addr returns the address the server is listening on, or "" if it has not
// been started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Port returns the TCP port the server is listening on, or 0 if it has not
// been started.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return 0
	}
	if tcpAddr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return tcpAddr.Port
	}
	return 0
}

// WaitFor blocks until at least one captured request matches pred, or
// timeout elapses. Useful in tests driving an every/upon stream from
// another goroutine.
func (s *Server) WaitFor(timeout time.Duration, pred func(*capture.Request) bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, r := range s.dispatcher.CapturedRequests() {
			if pred(r) {
				return true
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
