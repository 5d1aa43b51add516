// Package server wires the HTTP surface: the versioned API, the WebSocket
// endpoint, and the global middleware stack.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/corkboardhq/corkboard/internal/auth"
	"github.com/corkboardhq/corkboard/internal/config"
	"github.com/corkboardhq/corkboard/internal/mutate"
	"github.com/corkboardhq/corkboard/internal/realtime"
	"github.com/corkboardhq/corkboard/internal/server/middleware"
	"github.com/corkboardhq/corkboard/internal/store/postgres"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	hub        *realtime.Hub
	mutator    *mutate.Service
	cfg        *config.Config
}

// New creates a Server with all routes wired.
func New(cfg *config.Config, store *postgres.Store, hub *realtime.Hub, mutator *mutate.Service, verifier *auth.Verifier) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	s := &Server{
		router:  router,
		store:   store,
		hub:     hub,
		mutator: mutator,
		cfg:     cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Authenticated API routes on /api/v1. Token issuance lives in a
	// separate identity service, so there is no unauthenticated group.
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(verifier))
		r.Use(middleware.RateLimit(context.Background(), cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst))

		apiConfig := huma.DefaultConfig("Corkboard API", "1.0.0")
		apiConfig.Servers = []*huma.Server{
			{URL: "/api/v1"},
		}
		api := humachi.New(r, apiConfig)
		registerAPIRoutes(api, store, mutator)
	})

	// WebSocket endpoint. The hub verifies the token itself so browser
	// clients can pass it as a query parameter; the handshake runs before
	// auth, so it gets the per-IP limit.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(context.Background(), cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst))
		registerWSRoutes(r, hub)
	})

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
