// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Capability guards are attached here, per route group, so every domain handler
    runs with an already resolved caller.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/access"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/article"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/dashboard"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/media"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/moderation"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/config"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/constants"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/middleware"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler, always 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when Postgres and Redis answer.
	Readiness http.HandlerFunc

	// Metrics serves the Prometheus exposition format.
	Metrics http.Handler

	// Auth handles sign-up, sign-in, sign-out, refresh and session events.
	Auth *auth.Handler

	// Dashboard renders the landing view of any signed-in principal.
	Dashboard *dashboard.Handler

	// Articles handles authoring and the public listing.
	Articles *article.Handler

	// Media grants cover image uploads.
	Media *media.Handler

	// Moderation exposes the admin roster and transitions.
	Moderation *moderation.Handler
}

// Security groups what the authentication and guard middleware need.
type Security struct {
	Verifier middleware.TokenVerifier
	Sessions middleware.SessionChecker
	Guard    middleware.Guard
}

// # Server Initialization

/*
NewServer constructs the chi router with the full middleware chain and registers
all route groups.

	/api/v1/auth/*            public (session events require a token)
	/api/v1/public/articles   public
	/api/v1/dashboard         ViewerAuthenticated
	/api/v1/articles/*        AuthorOrAdmin
	/api/v1/media/*           AuthorOrAdmin
	/api/v1/admin/users/*     AdminOnly
*/
func NewServer(cfg *config.Config, log *slog.Logger, security Security, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.Authenticate(security.Verifier, security.Sessions))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Handle("/metrics", h.Metrics)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/public/articles", h.Articles.PublicRoutes())

		api.With(middleware.RequireCapability(security.Guard, access.ViewerAuthenticated)).
			Handle("/dashboard", h.Dashboard)

		api.Group(func(authoring chi.Router) {
			authoring.Use(middleware.RequireCapability(security.Guard, access.AuthorOrAdmin))
			authoring.Mount("/articles", h.Articles.Routes())
			authoring.Mount("/media", h.Media.Routes())
		})

		api.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireCapability(security.Guard, access.AdminOnly))
			admin.Mount("/admin/users", h.Moderation.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler returns the root handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
