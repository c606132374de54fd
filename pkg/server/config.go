package server

import (
	"log/slog"
	"time"

	"github.com/zfq308/fixd/pkg/async"
	"github.com/zfq308/fixd/pkg/capture"
	"github.com/zfq308/fixd/pkg/logging"
)

// Config holds the construction-time parameters for a Server. Use
// DefaultConfig and the With* options rather than constructing Config
// directly, so new fields always have a sane default.
type Config struct {
	Port            int
	Workers         int
	MaxCaptured     int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// DefaultConfig returns the configuration a Server uses when no options
// override it: an OS-assigned port, the default worker pool size, an
// unbounded capture ring, generous request timeouts, and a no-op logger.
func DefaultConfig() *Config {
	return &Config{
		Port:            0,
		Workers:         async.DefaultWorkers,
		MaxCaptured:     capture.Unbounded,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		Logger:          logging.Nop(),
	}
}

// Option configures a Server at construction time.
type Option func(*Config)

// WithPort binds the server to a specific TCP port. Port 0 (the default)
// asks the OS to assign a free one.
func WithPort(port int) Option {
	return func(c *Config) { c.Port = port }
}

// WithWorkers sets the async engine's worker pool size.
func WithWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Workers = n
		}
	}
}

// WithMaxCaptured sets the capture ring's capacity. capture.Unbounded
// disables eviction.
func WithMaxCaptured(n int) Option {
	return func(c *Config) { c.MaxCaptured = n }
}

// WithLogger sets the operational logger used for server lifecycle and
// dispatch-error logging.
func WithLogger(log *slog.Logger) Option {
	return func(c *Config) {
		if log != nil {
			c.Logger = log
		}
	}
}

// WithReadTimeout overrides the underlying http.Server's read timeout.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Config) { c.ReadTimeout = d }
}

// WithWriteTimeout overrides the underlying http.Server's write timeout.
// Servers using every/after/upon handlers that legitimately hold a
// connection open longer than this should raise it accordingly.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) { c.WriteTimeout = d }
}

// WithShutdownTimeout bounds how long Stop waits for in-flight requests
// (including open async subscriptions) to finish before giving up.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *Config) { c.ShutdownTimeout = d }
}
