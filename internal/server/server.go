// Package server exposes the simulation engine over HTTP.
//
// The server holds no per-user state. Clients keep the seed and send it back;
// resample draws a fresh seed and returns it with the result.
package server

import (
	"context"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/YuminosukeSato/olsfit/internal/config"
	"github.com/YuminosukeSato/olsfit/simulation"
)

// Server wires the handlers to a gin engine.
type Server struct {
	cfg    *config.Config
	router *gin.Engine

	seedMu sync.Mutex
	seeds  simulation.SeedSource
}

// Option configures a Server.
type Option func(*Server)

// WithSeedSource replaces the entropy source used by the resample endpoint.
func WithSeedSource(src simulation.SeedSource) Option {
	return func(s *Server) {
		s.seeds = src
	}
}

// New creates a server for cfg.
func New(cfg *config.Config, opts ...Option) *Server {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	s := &Server{
		cfg:   cfg,
		seeds: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), requestLogger())
	s.setupRoutes(router)
	s.router = router
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes(router *gin.Engine) {
	router.GET("/health", s.health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/sliders", s.sliders)
		v1.GET("/simulate", s.simulate)
		v1.GET("/simulate/plot", s.plot)
		v1.POST("/resample", s.resample)
	}
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) drawSeed() (uint64, error) {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	return simulation.DrawSeed(s.seeds, s.cfg.Simulation.SeedBound)
}
