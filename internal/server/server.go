// Package server exposes the planner over HTTP.
//
// Endpoints:
//
//	POST /v1/plans           analysis document (JSON or YAML) -> CleanupPlan
//	POST /v1/plans/validate  CleanupPlan JSON -> ValidationResult
//	GET  /healthz            liveness
//	GET  /metrics            Prometheus metrics
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Iron-Ham/remedy/internal/cleanup"
	"github.com/Iron-Ham/remedy/internal/ingest"
	"github.com/Iron-Ham/remedy/internal/logging"
	"github.com/Iron-Ham/remedy/internal/metrics"
)

// DefaultMaxBodyBytes caps posted documents when Options.MaxBodyBytes is unset.
const DefaultMaxBodyBytes = 8 << 20

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Addr         string
	MaxBodyBytes int64
	Planner      *cleanup.Planner
	Ingest       ingest.Options
	Logger       *logging.Logger
	Metrics      *metrics.Collector
	Version      string
}

// Server serves plans over HTTP. One Planner is shared by all requests.
type Server struct {
	opts    Options
	engine  *gin.Engine
	logger  *logging.Logger
	metrics *metrics.Collector
}

// New builds a Server and its routes.
func New(opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Planner == nil {
		opts.Planner = cleanup.NewPlanner()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewCollector()
	}

	s := &Server{
		opts:    opts,
		engine:  gin.New(),
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	s.engine.Use(gin.Recovery(), s.requestMiddleware())
	registerRoutes(s.engine, s)
	return s
}

func registerRoutes(r *gin.Engine, s *Server) {
	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := r.Group("/v1")
	v1.POST("/plans", s.handleCreatePlan)
	v1.POST("/plans/validate", s.handleValidatePlan)
}

// Handler returns the server's http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
