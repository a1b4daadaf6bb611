package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"cricket-score-service/internal/broadcast"
	"cricket-score-service/internal/config"
	httpapi "cricket-score-service/internal/http"
	"cricket-score-service/internal/logging"
	"cricket-score-service/internal/metrics"
	"cricket-score-service/internal/observers"
	"cricket-score-service/internal/score"
	"cricket-score-service/internal/scoring"
	"cricket-score-service/internal/store"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         *store.MemoryStore
	broadcaster   *broadcast.Broadcaster
	service       *score.Service
	wsHub         *observers.WSHub
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
	closers       []io.Closer
}

// New constructs a server with the full observer wiring derived from cfg.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(cfg, logger, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	strategy, err := scoring.ForName(cfg.Scoring.Strategy)
	if err != nil {
		return nil, err
	}

	broadcaster := broadcast.New(logger, recorder)
	wsHub, closers, err := registerObservers(cfg, logger, broadcaster)
	if err != nil {
		return nil, err
	}

	memoryStore := store.NewMemoryStore()
	svc := score.NewService(strategy, broadcaster, logger, recorder)
	httpSrv := buildHTTPServer(cfg, memoryStore, svc, wsHub, logger, recorder)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         memoryStore,
		broadcaster:   broadcaster,
		service:       svc,
		wsHub:         wsHub,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
		closers:       closers,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, svc *score.Service, httpSrv httpServer) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		service:    svc,
		httpServer: httpSrv,
	}
}

// registerObservers wires the score sinks selected by configuration onto
// the broadcaster. The commentary logger and websocket hub are always on;
// Redis and Postgres sinks join only when enabled.
func registerObservers(cfg config.Config, logger *slog.Logger, b *broadcast.Broadcaster) (*observers.WSHub, []io.Closer, error) {
	var closers []io.Closer

	b.Register(observers.NewCommentaryLogger(logger))

	wsHub := observers.NewWSHub(logger)
	b.Register(wsHub)
	closers = append(closers, wsHub)

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.Register(observers.NewRedisPublisher(client))
		closers = append(closers, client)
	}

	if cfg.Postgres.Enabled {
		mirror, err := observers.NewPostgresMirror(cfg.Postgres.DSN)
		if err != nil {
			closeAll(closers, logger)
			return nil, nil, err
		}
		b.Register(mirror)
		closers = append(closers, mirror)
	}

	return wsHub, closers, nil
}

func buildHTTPServer(cfg config.Config, memoryStore *store.MemoryStore, svc *score.Service, wsHub *observers.WSHub, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	handler := httpapi.NewHandler(memoryStore, svc, logger)

	var ws http.Handler
	if wsHub != nil {
		ws = wsHub
	}
	router := httpapi.NewRouter(handler, ws)
	wrapped := httpapi.LoggingMiddleware(logger, recorder, router)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

// Run starts the HTTP and metrics servers, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	closeAll(s.closers, s.logger)

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func closeAll(closers []io.Closer, logger *slog.Logger) {
	for _, c := range closers {
		if err := c.Close(); err != nil && logger != nil {
			logger.Warn("observer close failed", "error", err)
		}
	}
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
