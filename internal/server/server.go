package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ecollinet/chasse-backend/internal/auth"
	"github.com/ecollinet/chasse-backend/internal/config"
	"github.com/ecollinet/chasse-backend/internal/http/handlers"
	"github.com/ecollinet/chasse-backend/internal/hunt"
	"github.com/ecollinet/chasse-backend/internal/media"
	"github.com/ecollinet/chasse-backend/internal/middleware"
	"github.com/ecollinet/chasse-backend/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires the domain components, handlers, and middleware into a ready
// server.
func New(cfg config.Config, store storage.Store, log *slog.Logger) *Server {
	mux := NewMux(cfg, store, log)

	handler := middleware.RequestID(
		middleware.Logging(log,
			middleware.CORS(cfg.CORSOrigins, mux)))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// NewMux builds the route table without the outer middleware. Split out so
// tests can drive the API through httptest.
func NewMux(cfg config.Config, store storage.Store, log *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	guard := func(next http.Handler) http.Handler {
		return middleware.RequireAdmin(cfg.AdminToken, tokens, next)
	}

	mediaStore := media.NewStore(cfg.MediaDir)
	catalog := hunt.NewCatalog(store, mediaStore, log)
	hasher := auth.BcryptHasher{Cost: cfg.BcryptCost}
	progression := hunt.NewProgression(store, store, hasher, cfg.ProximityMeters, cfg.LocationCheck, log)

	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewTokenHandler(tokens, log).Register(mux, guard)
	handlers.NewStepsHandler(catalog, mediaStore, log).Register(mux, guard)
	handlers.NewUsersHandler(store, hasher, progression, log).Register(mux, guard)

	return mux
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
