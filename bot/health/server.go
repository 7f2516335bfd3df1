// Package health exposes a minimal liveness endpoint for container probes.
package health

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/m3rciful/transitbot/core/logger"
	"log/slog"
)

// Server serves GET /health on its own listener.
type Server struct {
	srv *http.Server
}

// NewServer builds the health server for the given listen address.
func NewServer(listen string) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return &Server{
		srv: &http.Server{
			Addr:              listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		logger.L.With("component", "health").Info("health server listening",
			slog.String("event", "listen"),
			slog.String("addr", s.srv.Addr),
		)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.With("component", "health").Error("health server failed",
				slog.String("event", "serve"),
				slog.String("err", err.Error()),
			)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
