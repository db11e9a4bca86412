package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Start runs the HTTP server until ctx is cancelled or an interrupt or
// terminate signal arrives, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", s.Cfg.GetAppAddr())
		if err := s.E.Start(s.Cfg.GetAppAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			_ = s.Shutdown(context.Background())
			return err
		}
	case <-ctx.Done():
		slog.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops the HTTP server, unmounts every form, and releases the
// services built by the injector.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.E.Shutdown(ctx)
	s.cancel()

	if cerr := s.bus.Close(); cerr != nil {
		slog.Error("Failed to close message bus", "error", cerr)
	}
	if s.db != nil {
		if cerr := s.db.Close(ctx); cerr != nil {
			slog.Error("Failed to close database", "error", cerr)
		}
	}
	if report := s.injector.ShutdownWithContext(ctx); report != nil && !report.Succeed {
		slog.Error("Service shutdown reported errors", "error", report.Error())
	}
	return err
}
