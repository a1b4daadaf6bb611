package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cricket-score-service/internal/config"
	"cricket-score-service/internal/logging"
	"cricket-score-service/internal/metrics"
)

type stubHTTPServer struct {
	addr          string
	handler       http.Handler
	listenCalls   int
	shutdownCalls int
	listenErr     error
	shutdownErr   error
}

func (s *stubHTTPServer) ListenAndServe() error {
	s.listenCalls++
	return s.listenErr
}

func (s *stubHTTPServer) Shutdown(ctx context.Context) error {
	_ = ctx
	s.shutdownCalls++
	return s.shutdownErr
}

func (s *stubHTTPServer) Addr() string {
	return s.addr
}

func (s *stubHTTPServer) Handler() http.Handler {
	return s.handler
}

func testConfig() config.Config {
	return config.Config{
		Server:  config.ServerConfig{Address: ":0"},
		Scoring: config.ScoringConfig{Strategy: "standard"},
	}
}

func TestNewWiresFullStack(t *testing.T) {
	srv, err := New(testConfig(), logging.NewLogger(logging.Config{Level: "error"}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if srv.store == nil || srv.service == nil || srv.broadcaster == nil {
		t.Fatalf("core components missing: %+v", srv)
	}
	// Commentary logger and websocket hub are always registered.
	if got := srv.broadcaster.Len(); got != 2 {
		t.Fatalf("observer count = %d, want 2", got)
	}
	if srv.metricsServer != nil {
		t.Fatalf("metrics server should be off by default")
	}
}

func TestNewRejectsUnknownStrategy(t *testing.T) {
	cfg := testConfig()
	cfg.Scoring.Strategy = "quantum"
	if _, err := New(cfg, nil); err == nil {
		t.Fatalf("expected an error for an unknown strategy")
	}
}

func TestHandlerServesHealth(t *testing.T) {
	srv, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("health returned %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %+v", body)
	}
}

func TestRunShutsDownOnContextCancel(t *testing.T) {
	stub := &stubHTTPServer{addr: ":0"}
	srv := newServerWithDeps(testConfig(), nil, nil, stub)

	prev := shutdownTimeout
	shutdownTimeout = 100 * time.Millisecond
	defer func() { shutdownTimeout = prev }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancellation")
	}

	if stub.shutdownCalls != 1 {
		t.Fatalf("shutdown calls = %d, want 1", stub.shutdownCalls)
	}
}

func TestBuildMetricsDisabled(t *testing.T) {
	rec, metricsSrv, shutdown := buildMetrics(testConfig(), nil, nil)
	if rec == nil {
		t.Fatalf("expected a recorder")
	}
	if metricsSrv != nil {
		t.Fatalf("expected no metrics server when disabled")
	}
	if shutdown == nil {
		t.Fatalf("expected a shutdown function")
	}
}

func TestBuildMetricsReusesInjectedRecorder(t *testing.T) {
	injected := metrics.NewRecorder()
	rec, metricsSrv, shutdown := buildMetrics(testConfig(), nil, injected)
	if rec != injected {
		t.Fatalf("expected the injected recorder back")
	}
	if metricsSrv != nil || shutdown != nil {
		t.Fatalf("injected recorder should not spawn exporters")
	}
}

func TestBuildMetricsEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = "0"

	rec, metricsSrv, shutdown := buildMetrics(cfg, nil, nil)
	if rec == nil || metricsSrv == nil {
		t.Fatalf("expected recorder and metrics server")
	}
	if shutdown == nil {
		t.Fatalf("expected a shutdown function")
	}
	_ = shutdown(context.Background())
}
