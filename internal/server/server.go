package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/lumbrjx/hlsgate/internal/api"
	"github.com/lumbrjx/hlsgate/internal/config"
	"github.com/lumbrjx/hlsgate/internal/metrics"
	"github.com/lumbrjx/hlsgate/internal/middlewares"
)

type Server struct {
	router  *chi.Mux
	cfg     *config.Config
	api     *api.API
	rdb     *redis.Client
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewServer wires the router around an already-constructed API. All
// collaborators (storage, metadata, redis, kafka) are injected; the server
// owns only the HTTP lifecycle.
func NewServer(cfg *config.Config, a *api.API, rdb *redis.Client, m *metrics.Metrics, log *slog.Logger) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		cfg:     cfg,
		api:     a,
		rdb:     rdb,
		metrics: m,
		log:     log,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures Chi middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middlewares.RequestIDMiddleware)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(metrics.RequestMiddleware(s.metrics))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.api.HealthCheck)
	s.router.Get("/metrics", s.metrics.Handler().ServeHTTP)

	// Delivery routes: auth first, so the enrollment gate always has a user
	// ID, then per-IP rate limiting.
	s.router.Group(func(r chi.Router) {
		r.Use(middlewares.AuthMiddleware([]byte(s.cfg.JWTSecret)))
		if s.rdb != nil {
			r.Use(middlewares.RateLimitMiddleware(s.rdb, s.cfg.RateLimit, s.cfg.RateWindow, s.log))
		}

		r.Get("/master/{content_id}", s.api.GetMasterPlaylist)
		r.Get("/playlist/{content_id}/{quality}/playlist.m3u8", s.api.GetVariantPlaylist)

		// In direct mode playlists carry presigned storage URLs and clients
		// fetch segments from storage themselves, so the proxy route only
		// exists in mediated mode.
		if s.cfg.DeliveryMode == config.ModeMediated {
			r.Get("/segment/{content_id}/{quality}/{segment}", s.api.StreamSegment)
		}
	})
}

// Start starts the HTTP server and blocks until a shutdown signal arrives.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:        ":" + s.cfg.Port,
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: segment proxying holds the response open for as
		// long as the client keeps reading.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		s.log.Info("server starting", "port", s.cfg.Port, "delivery_mode", s.cfg.DeliveryMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("server failed to start", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.log.Info("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.log.Error("server forced to shutdown", "error", err.Error())
		return err
	}

	s.log.Info("server stopped")
	return nil
}
