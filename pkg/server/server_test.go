package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/toolbar/pkg/metric"
)

func get(t *testing.T, s *server, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestDefaults(t *testing.T) {
	s := newServer()

	assert.Equal(t, DefaultPort, s.port)
	assert.Equal(t, DefaultReadTimeout, s.readTimeout)
	assert.Equal(t, DefaultShutdownTimeout, s.shutdownTimeout)
	assert.False(t, s.IsRunning())
	assert.Equal(t, http.StatusNotFound, get(t, s, "/metrics").Code)
}

func TestHealthAndReadiness(t *testing.T) {
	ready := errors.New("store unreachable")
	s := newServer(
		WithSimpleHealth(),
		WithReadinessCheck(ReadinessFunc(func(context.Context) error { return ready })),
	)

	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = get(t, s, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "store unreachable", rec.Body.String())

	ready = nil
	rec = get(t, s, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metric.NewRendersCounter(reg).Increment("home", "script")

	// order of options does not matter
	s := newServer(WithPrometheusMetrics(), WithRegistry(reg))

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "toolbar_renders_total")
}

func TestHandler(t *testing.T) {
	s := newServer(WithHandler("GET /hello", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hi"))
	})))

	assert.Equal(t, "hi", get(t, s, "/hello").Body.String())
}

func TestServeShutdown(t *testing.T) {
	s := newServer(WithPort(0), WithShutdownTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	require.Eventually(t, s.IsRunning, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, s.IsRunning())
}

func TestServeBadTLS(t *testing.T) {
	s := newServer(WithPort(0), WithTLS(TLSConfig{CertFile: "missing.pem", KeyFile: "missing.key"}))

	err := s.Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TLS certificate")
}
