package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vistatrade/firesync/internal/api"
	"github.com/vistatrade/firesync/internal/config"
	"github.com/vistatrade/firesync/internal/database"
	"github.com/vistatrade/firesync/pkg/connectors/firestore"
	"github.com/vistatrade/firesync/pkg/logger"
	"github.com/vistatrade/firesync/pkg/sync"
)

// Server is the HTTP surface over the sync engine
type Server struct {
	config     *config.ServerConfig
	db         *database.Connection
	client     *firestore.Client
	log        *logger.Logger
	httpServer *http.Server
}

// New creates the HTTP server and wires its routes
func New(cfg *config.ServerConfig, db *database.Connection, client *firestore.Client, orchestrator *sync.Orchestrator, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		config: cfg,
		db:     db,
		client: client,
		log:    log,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	router.GET("/health", s.health)
	router.GET("/ready", s.ready)

	v1 := router.Group("/api/v1")
	api.NewSyncController(orchestrator, client).RegisterRoutes(v1)

	s.httpServer = &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Start serves until the context is cancelled or an interrupt arrives,
// then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("address", s.config.Address()).Info("http server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-quit:
		s.log.Info("interrupt received, shutting down")
	case <-ctx.Done():
		s.log.Info("context cancelled, shutting down")
	}

	return s.Shutdown()
}

// Shutdown drains in-flight requests within the shutdown timeout
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server shutdown complete")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		s.log.WithFields(map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(started).String(),
		}).Info("request handled")
	}
}

// health reports liveness only
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// ready reports whether the database answers and whether the remote
// side initialized. A degraded remote still reports ready: the engine
// is designed to keep serving with empty sync results.
func (s *Server) ready(c *gin.Context) {
	if err := s.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unavailable",
			"database": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":              "ready",
		"firestore_available": s.client.Available(),
	})
}
