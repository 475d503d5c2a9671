// Package server exposes a running session over HTTP: a JSON remote control
// API, a server-sent event stream of frames and a small canvas viewer.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alkime/breathe/internal/conductor"
	"github.com/alkime/breathe/internal/config"
	"github.com/alkime/breathe/internal/store"
	"github.com/alkime/breathe/pkg/channels"
	"github.com/gin-gonic/gin"
)

// ShutdownTimeout bounds how long Run waits for open requests on exit.
const ShutdownTimeout = 5 * time.Second

// Session runs commands against the conductor on its own goroutine.
type Session interface {
	Do(ctx context.Context, fn func(*conductor.Conductor)) error
	Snapshot(ctx context.Context) (conductor.Snapshot, error)
}

// Presets lists and looks up stored presets.
type Presets interface {
	Load() ([]store.Preset, error)
	Get(name string) (store.Preset, error)
}

// Server represents the HTTP server
type Server struct {
	config  *config.Config
	logger  *slog.Logger
	router  *gin.Engine
	session Session
	presets Presets
	frames  *channels.Broadcaster[conductor.Snapshot]
}

// New creates a new Server instance. frames may be nil, in which case the
// frame stream is not offered.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	session Session,
	presets Presets,
	frames *channels.Broadcaster[conductor.Snapshot],
) *Server {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	server := &Server{
		config:  cfg,
		logger:  logger,
		router:  router,
		session: session,
		presets: presets,
		frames:  frames,
	}

	setupMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Router returns the underlying gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	//nolint:exhaustruct // defaults for the remaining server fields
	srv := &http.Server{
		Addr:              ":" + s.config.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "port", s.config.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	s.logger.Info("Server stopped")

	return nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api/v1")
	{
		api.GET("/session", s.handleSession)
		api.POST("/session/toggle", s.handleToggle)
		api.POST("/session/duration", s.handleDuration)
		api.GET("/presets", s.handlePresets)
		api.POST("/presets/:name/apply", s.handleApplyPreset)

		if s.frames != nil {
			api.GET("/frames", s.handleFrames)
		}
	}
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "breathe",
	})
}
