// Package httpserver exposes the sharing API over JSON/HTTP: account
// registration and the token lifecycle, snapshot publishing for
// authenticated users, and public snapshot resolution by share code.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"territorykeeper/internal/logging"
	"territorykeeper/internal/server/services"
)

type HTTPServer struct {
	address   string
	logger    logging.Logger
	users     *services.UserService
	snapshots *services.SnapshotService
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, ss *services.SnapshotService) (*HTTPServer, error) {
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		snapshots: ss,
	}, nil
}

// Router builds the chi router with all API routes registered. Snapshot
// publishing requires a valid access token; resolution is public so a
// share link works without an account.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", s.handlePing)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
		})

		r.Route("/snapshots", func(r chi.Router) {
			r.With(s.requireAuth).Post("/", s.handlePublish)
			r.With(s.requireAuth).Get("/", s.handleListShares)
			r.Get("/{shareID}", s.handleResolve)
			r.Get("/{shareID}/export", s.handleExport)
		})
	})

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
