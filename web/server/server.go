package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/df07/go-raycaster/pkg/scene"
)

// Config contains the service settings
type Config struct {
	Port       int    // Port to listen on
	ScenesDir  string // Directory of scene files offered by name
	MaxWorkers int    // Upper bound on tiles in flight per render (0 = CPU count)
	MaxPixels  int    // Largest width*height accepted for a render
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Port:       8080,
		ScenesDir:  "scenes",
		MaxWorkers: 0,
		MaxPixels:  4096 * 4096,
	}
}

// Server handles web requests for the ray caster
type Server struct {
	config Config
	logger *slog.Logger
	echo   *echo.Echo
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewServer creates a new web server and registers its routes
func NewServer(config Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{config: config, logger: logger, echo: e}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			s.logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency))
			return nil
		},
	}))

	api := e.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/scenes", s.handleScenes)
	api.POST("/render", s.handleRender)
	api.GET("/inspect", s.handleInspect)

	return s
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.logger.Warn("starting web server", "addr", "http://localhost"+addr, "scenes", s.config.ScenesDir)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files, grouped for display
func (s *Server) handleScenes(c echo.Context) error {
	scenes, err := scene.ListScenes(s.config.ScenesDir)
	if err != nil {
		return s.jsonError(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, scene.GroupScenes(scenes))
}

func (s *Server) jsonError(c echo.Context, status int, err error) error {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "uri", c.Request().RequestURI, "error", err)
	}
	return c.JSON(status, ErrorResponse{Error: err.Error()})
}
