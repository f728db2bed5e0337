// Package http provides the HTTP server and route registration.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/a11ylens/api/internal/config"
	"github.com/a11ylens/api/internal/infra/http/handler"
	"github.com/a11ylens/api/internal/infra/http/middleware"
	"github.com/a11ylens/api/pkg/logger"
)

// Handlers holds all HTTP handlers for route registration.
type Handlers struct {
	Health  *handler.HealthHandler
	Scan    *handler.ScanHandler
	Monitor *handler.MonitorHandler
}

// Server represents the HTTP server.
type Server struct {
	httpServer   *http.Server
	router       chi.Router
	config       *config.Config
	logger       *logger.Logger
	cleanupFuncs []func()
}

// NewServer creates the HTTP server with global middleware applied
// and all routes registered.
func NewServer(cfg *config.Config, handlers Handlers, log *logger.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: log,
	}

	rateLimiter := middleware.NewRateLimiter(cfg.Server.RequestsPerMinute, log)
	s.cleanupFuncs = append(s.cleanupFuncs, rateLimiter.Stop)

	// Order matters: recover first, request ID before logging.
	s.router.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.BodyLimit(cfg.Server.MaxBodySize),
		rateLimiter.Middleware(),
		middleware.Metrics(),
		middleware.Logger(log),
	)

	s.registerRoutes(handlers)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  time.Minute,
	}
	return s
}

func (s *Server) registerRoutes(h Handlers) {
	s.router.Get("/health", h.Health.Health)
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/scans", func(r chi.Router) {
			r.Post("/", h.Scan.Create)
			r.Get("/", h.Scan.List)
			r.Get("/{id}", h.Scan.Get)
		})

		r.Get("/trend", h.Scan.Trend)

		r.Route("/monitors", func(r chi.Router) {
			r.Post("/", h.Monitor.Register)
			r.Get("/", h.Monitor.List)
			r.Get("/{id}", h.Monitor.Get)
			r.Delete("/{id}", h.Monitor.Deactivate)
		})
	})
}

// Router returns the underlying router, for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	for _, cleanup := range s.cleanupFuncs {
		cleanup()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}
