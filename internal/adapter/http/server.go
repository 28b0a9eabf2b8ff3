// Package http exposes the burn data service's REST API: dataset uploads,
// filtered queries, statistics, background job status, and the operational
// health and metrics routes.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/firewatch/burn-data-service/internal/pipeline"
	"github.com/firewatch/burn-data-service/internal/store"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server bundles the router and its collaborators.
type Server struct {
	store    store.Store
	ingestor *pipeline.Ingestor
	runner   *pipeline.Runner
	ready    ReadinessChecker
	logger   *slog.Logger
	engine   *gin.Engine
	addr     string
}

// NewServer constructs the API server with routes and middleware.
func NewServer(addr string, st store.Store, ingestor *pipeline.Ingestor, runner *pipeline.Runner, ready ReadinessChecker, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	s := &Server{
		store:    st,
		ingestor: ingestor,
		runner:   runner,
		ready:    ready,
		logger:   logger,
		engine:   engine,
		addr:     addr,
	}
	s.registerRoutes()
	return s
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until the context is cancelled, then
// drains connections within the shutdown timeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	s.engine.GET("/readyz", s.handleReady)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine.GET("/fires", s.handleListFires)
	s.engine.GET("/escapes", s.handleListEscapes)

	s.engine.POST("/load/file", s.handleLoadFiresFile)
	s.engine.POST("/load/escapes/file", s.handleLoadEscapesFile)
	s.engine.POST("/load", s.handleLoadFiresBody)
	s.engine.POST("/load/escapes", s.handleLoadEscapesBody)

	s.engine.GET("/query", s.handleQueryFires)
	s.engine.GET("/query/escapes", s.handleQueryEscapes)
	s.engine.GET("/statistics", s.handleStatistics)

	s.engine.GET("/jobs", s.handleListJobs)
	s.engine.GET("/jobs/:id", s.handleGetJob)
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready.CheckReadiness(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
