// Package server exposes the cleaning pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"

	"github.com/jmylchreest/attrstrip/internal/logger"
	"github.com/jmylchreest/attrstrip/pkg/cleaner/attrstrip"
)

// Config holds server settings.
type Config struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`

	// Pipeline is the configuration used when a request names no preset.
	Pipeline *attrstrip.Config `mapstructure:"-"`
	Version  string            `mapstructure:"-"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            "127.0.0.1:8080",
		MaxBodyBytes:    5 << 20,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		Pipeline:        attrstrip.DefaultConfig(),
		Version:         "dev",
	}
}

// Server serves the cleaning API.
type Server struct {
	config   Config
	validate *validator.Validate
	handler  http.Handler
}

// New creates a server. A nil Pipeline means attrstrip.DefaultConfig().
func New(cfg Config) (*Server, error) {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	if cfg.Pipeline == nil {
		cfg.Pipeline = attrstrip.DefaultConfig()
	}
	if err := cfg.Pipeline.Validate(); err != nil {
		return nil, err
	}

	s := &Server{config: cfg, validate: v}

	router := httprouter.New()
	s.registerRoutes(router)
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	var h http.Handler = router
	h = recovery(h)
	h = requestLogging(h)
	h = requestID(h)
	s.handler = h

	return s, nil
}

func (s *Server) registerRoutes(router *httprouter.Router) {
	router.GET("/healthz", s.health)
	router.GET("/v1/attributes", s.attributes)
	router.GET("/v1/classify/:name", s.classify)
	router.POST("/v1/clean", s.clean)
}

// Handler returns the root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		ErrorLog:     logger.StdLogger(slog.LevelWarn),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", ln.Addr().String(), "version", s.config.Version)
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	}
}
