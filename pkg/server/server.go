package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/toolbar/pkg/metric"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = 9876

	// DefaultReadTimeout bounds reading the entire request, body included.
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout bounds writing the response. Toolbar renders query the
	// mailbox store, so it has to cover those lookups.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is how long keep-alive connections wait for the next request.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout is the grace period given to in-flight requests on shutdown.
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultMaxHeaderBytes limits the size of request headers.
	DefaultMaxHeaderBytes = 1 << 20 // 1 MB
)

// Server is the HTTP server of the toolbar service.
type Server interface {
	// Serve starts the server and blocks until ctx is canceled.
	// Returns nil on graceful shutdown.
	Serve(ctx context.Context) error

	// IsRunning reports whether the socket is bound and accepting connections.
	IsRunning() bool
}

// ReadinessChecker reports whether a dependency (e.g. the mailbox store) can serve requests.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// ReadinessFunc adapts a function to the ReadinessChecker interface.
type ReadinessFunc func(ctx context.Context) error

// Ready calls f(ctx).
func (f ReadinessFunc) Ready(ctx context.Context) error {
	return f(ctx)
}

// server is the internal implementation of the Server interface.
// It wraps http.Server with option handling and running state.
type server struct {
	mux             *http.ServeMux       // routes of the pages, health and metrics
	port            int                  // port to listen on, 0 picks a free one
	readTimeout     time.Duration        // limit for reading a whole request
	writeTimeout    time.Duration        // limit for writing a response
	idleTimeout     time.Duration        // keep-alive wait for the next request
	shutdownTimeout time.Duration        // grace period for in-flight requests
	maxHeaderBytes  int                  // request header size limit
	errLog          *log.Logger          // http.Server internal error log
	tlsConfig       *TLSConfig           // optional certificate and key
	registry        *prometheus.Registry // collectors exposed at /metrics
	metrics         bool                 // whether /metrics is registered

	mu      sync.RWMutex // protects running
	running bool
}

// TLSConfig contains the certificate and key file paths for HTTPS.
type TLSConfig struct {
	CertFile string // path to the PEM certificate
	KeyFile  string // path to the PEM private key
}

// Option is a functional option for configuring the Server.
// Options are applied in order; later options win.
type Option func(*server)

// WithPort sets the listening port. Port 0 picks a free port.
// If not specified, DefaultPort (9876) is used.
func WithPort(port int) Option {
	return func(s *server) { s.port = port }
}

// WithReadTimeout sets the limit for reading the entire request, headers and body.
// If not specified, DefaultReadTimeout (10s) is used.
func WithReadTimeout(d time.Duration) Option {
	return func(s *server) { s.readTimeout = d }
}

// WithWriteTimeout sets the limit for writing the response. It has to cover the
// store lookups of a toolbar render. If not specified, DefaultWriteTimeout (10s) is used.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *server) { s.writeTimeout = d }
}

// WithIdleTimeout sets how long a keep-alive connection waits for the next request.
// If not specified, DefaultIdleTimeout (60s) is used.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *server) { s.idleTimeout = d }
}

// WithShutdownTimeout sets the grace period given to in-flight requests once the
// serve context is canceled. If not specified, DefaultShutdownTimeout (5s) is used.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *server) { s.shutdownTimeout = d }
}

// WithMaxHeaderBytes limits the size of request headers, request line included.
// If not specified, DefaultMaxHeaderBytes (1 MB) is used.
func WithMaxHeaderBytes(n int) Option {
	return func(s *server) { s.maxHeaderBytes = n }
}

// WithHandler registers handler for pattern. It can be given several times.
//
// Example:
//
//	srv := server.New(
//	    server.WithHandler("GET /{$}", pages.Home()),
//	    server.WithHandler("GET /menu.json", pages.Menu()),
//	)
func WithHandler(pattern string, handler http.Handler) Option {
	return func(s *server) {
		s.mux.Handle(pattern, handler)
	}
}

// WithRegistry sets the Prometheus registry exposed by WithPrometheusMetrics.
// Application collectors should be registered with the same registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *server) { s.registry = reg }
}

// WithPrometheusMetrics exposes the registry at /metrics. The handler is registered
// after all options are applied, so it serves the registry given by WithRegistry
// regardless of option order.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	renders := metric.NewRendersCounter(reg)
//	srv := server.New(server.WithRegistry(reg), server.WithPrometheusMetrics())
func WithPrometheusMetrics() Option {
	return func(s *server) { s.metrics = true }
}

// WithErrorLog sets the logger of the http.Server internal errors.
func WithErrorLog(l *log.Logger) Option {
	return func(s *server) { s.errLog = l }
}

// WithSimpleHealth adds a liveness endpoint at /healthz that always returns 200 "ok".
// It checks nothing but the process itself; use WithReadinessCheck for dependencies.
//
// The endpoint returns:
//   - 200 OK with body "ok"
func WithSimpleHealth() Option {
	return func(s *server) {
		s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
	}
}

// WithReadinessCheck adds a readiness endpoint at /readyz.
//
// The endpoint returns:
//   - 200 OK with body "ok" when checker is ready
//   - 503 Service Unavailable with the error message otherwise
//
// Example:
//
//	srv := server.New(server.WithReadinessCheck(server.ReadinessFunc(store.Ping)))
func WithReadinessCheck(checker ReadinessChecker) Option {
	return func(s *server) {
		s.mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")

			if err := checker.Ready(r.Context()); err != nil {
				slog.Warn("readiness check failed", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(err.Error()))
				return
			}

			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
	}
}

// WithTLS serves HTTPS with the given certificate and key files. The pair is loaded
// when Serve starts; a missing or invalid file makes Serve return an error.
//
// Example:
//
//	srv := server.New(
//	    server.WithPort(8443),
//	    server.WithTLS(server.TLSConfig{
//	        CertFile: "/etc/toolbard/cert.pem",
//	        KeyFile:  "/etc/toolbard/key.pem",
//	    }),
//	)
func WithTLS(cfg TLSConfig) Option {
	return func(s *server) {
		s.tlsConfig = &cfg
	}
}

// New creates a server with the provided options on top of the Default* settings.
// Nothing listens until Serve is called.
//
// Example:
//
//	srv := server.New(
//	    server.WithPort(8080),
//	    server.WithSimpleHealth(),
//	    server.WithHandler("GET /{$}", home),
//	)
//	if err := srv.Serve(ctx); err != nil {
//	    slog.Error("server error", "error", err)
//	}
func New(opts ...Option) Server {
	return newServer(opts...)
}

func newServer(opts ...Option) *server {
	s := &server{
		port:            DefaultPort,
		readTimeout:     DefaultReadTimeout,
		writeTimeout:    DefaultWriteTimeout,
		idleTimeout:     DefaultIdleTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
		maxHeaderBytes:  DefaultMaxHeaderBytes,
		mux:             http.NewServeMux(),
		// a registry per instance avoids duplicate registrations in tests
		registry: prometheus.NewRegistry(),
		errLog:   log.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.metrics {
		s.mux.Handle("/metrics", metric.GetHandlerForRegistry(s.registry))
	}

	slog.Info("server initialized",
		"port", s.port,
		"read_timeout", s.readTimeout,
		"write_timeout", s.writeTimeout,
		"metrics", s.metrics,
		"tls", s.tlsConfig != nil)

	return s
}

// IsRunning implements Server.
func (s *server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.running
}

func (s *server) setRunning(v bool) {
	s.mu.Lock()
	s.running = v
	s.mu.Unlock()
}

func (s *server) listen(addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create listener: %w", err)
	}

	if s.tlsConfig == nil {
		return listener, nil
	}

	cert, err := tls.LoadX509KeyPair(s.tlsConfig.CertFile, s.tlsConfig.KeyFile)
	if err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	return tls.NewListener(listener, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}), nil
}

// Serve implements Server. The server and the shutdown watcher run in an errgroup;
// canceling ctx shuts the server down within the shutdown timeout.
func (s *server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", s.port),
		Handler:        s.mux,
		ReadTimeout:    s.readTimeout,
		WriteTimeout:   s.writeTimeout,
		IdleTimeout:    s.idleTimeout,
		MaxHeaderBytes: s.maxHeaderBytes,
		ErrorLog:       s.errLog,
	}

	listener, err := s.listen(srv.Addr)
	if err != nil {
		return err
	}

	slog.Info("starting server", "addr", listener.Addr().String(), "tls", s.tlsConfig != nil)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.setRunning(true)
		defer s.setRunning(false)

		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		slog.Info("shutting down server", "grace_period", s.shutdownTimeout)

		start := time.Now()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}

		slog.Info("server shutdown complete", "duration", time.Since(start))

		return nil
	})

	return g.Wait()
}
