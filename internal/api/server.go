// Package api provides the HTTP API server and handlers for the FounderShelf
// application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/foundershelf/foundershelf-server/internal/config"
	"github.com/foundershelf/foundershelf-server/internal/http/response"
	"github.com/foundershelf/foundershelf-server/internal/ratelimit"
	"github.com/foundershelf/foundershelf-server/internal/reclog"
	"github.com/foundershelf/foundershelf-server/internal/service"
	"github.com/foundershelf/foundershelf-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	catalog   *service.CatalogService
	profiles  *service.ProfileService
	signals   *service.SignalService
	recommend *service.RecommendationService
	runLog    *reclog.Store

	validator *validation.Validator
	limiter   *ratelimit.KeyedRateLimiter
	router    *chi.Mux
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured. runLog may
// be nil; the admin log endpoint then reports unavailable.
func NewServer(
	cfg *config.Config,
	catalog *service.CatalogService,
	profiles *service.ProfileService,
	signals *service.SignalService,
	recommend *service.RecommendationService,
	runLog *reclog.Store,
	logger *slog.Logger,
) *Server {
	s := &Server{
		catalog:   catalog,
		profiles:  profiles,
		signals:   signals,
		recommend: recommend,
		runLog:    runLog,
		validator: validation.New(),
		limiter:   ratelimit.PerMinute(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst),
		router:    chi.NewRouter(),
		logger:    logger,
	}

	s.setupMiddleware(cfg.Server.CORSOrigins)
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(corsOrigins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	if len(corsOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-User-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Liveness.
	s.router.Get("/healthz", s.handleHealth)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Catalog surface. Reads are anonymous; the upsert identifies
		// nobody either, the catalog is shared.
		r.Route("/books", func(r chi.Router) {
			r.Get("/", s.handleListBooks)
			r.Post("/", s.handleUpsertBook)
			r.Get("/{bookID}", s.handleGetBook)

			// Signal capture is per user.
			r.Group(func(r chi.Router) {
				r.Use(s.requireUser)
				r.Put("/{bookID}/interaction", s.handleSetInteraction)
				r.Put("/{bookID}/status", s.handleSetStatus)
			})
		})

		r.Get("/search", s.handleSearch)

		// Ranking endpoints: per-user rate limited, preview also open to
		// anonymous callers.
		r.Route("/recommendations", func(r chi.Router) {
			r.Use(s.rateLimitByUser)
			r.With(s.requireUser).Get("/", s.handleRecommendations)
			r.Post("/preview", s.handlePreview)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(s.requireUser)
			r.Get("/", s.handleGetProfile)
			r.Put("/", s.handleUpdateProfile)
			r.Delete("/", s.handleDeleteProfile)
		})

		r.Route("/history", func(r chi.Router) {
			r.Use(s.requireUser)
			r.Get("/", s.handleListHistory)
			r.Post("/import", s.handleImportHistory)
			r.Delete("/", s.handleClearHistory)
		})

		r.With(s.requireUser).Get("/stats/signals", s.handleSignalStats)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireUser)
			r.Get("/recommendation-log", s.handleRecommendationLog)
		})
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
