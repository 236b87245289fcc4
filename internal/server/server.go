package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/ems/internal/config"
)

// Server is an http.Server that stops gracefully when its context is cancelled.
type Server struct {
	name            string
	httpServer      *http.Server
	shutdownTimeout time.Duration
	log             *slog.Logger
}

// New creates a Server listening on cfg.Address() with the timeouts from cfg.
func New(name string, cfg config.HTTPConfig, handler http.Handler, log *slog.Logger) *Server {
	return &Server{
		name: name,
		httpServer: &http.Server{
			Addr:         cfg.Address(),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             log.With(slog.String("server", name)),
	}
}

// Run serves until ctx is done or the listener fails. On cancellation in-flight requests get
// the shutdown timeout to complete.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.InfoContext(ctx, "Starting HTTP server", "address", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve %s: %w", s.name, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.InfoContext(ctx, "Shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down %s: %w", s.name, err)
	}

	s.log.InfoContext(ctx, "HTTP server stopped")

	return nil
}
