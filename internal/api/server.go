package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/thamesford/slopitch-standings/internal/api/handler"
	"github.com/thamesford/slopitch-standings/internal/cache"
	"github.com/thamesford/slopitch-standings/internal/config"
	"github.com/thamesford/slopitch-standings/internal/metrics"
	"github.com/thamesford/slopitch-standings/internal/store"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
// metricsHandler is the Prometheus scrape endpoint; pass nil to leave /metrics
// unmounted.
func NewRouter(st store.Reader, appCache *cache.Cache, cfg *config.Config, logger *slog.Logger, recorder *metrics.Recorder, metricsHandler http.Handler) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(LoggingMiddleware(logger, recorder))
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "Link", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(st, appCache, cfg, logger, recorder)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Prometheus scrape endpoint
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Seasons
		r.Get("/seasons", h.GetSeasons)

		// Standings
		r.Get("/standings", h.GetStandings)

		// Teams
		r.Get("/teams", h.GetTeams)
		r.Get("/teams/{teamID}", h.GetTeamDetail)

		// Games
		r.Get("/schedule", h.GetSchedule)
		r.Get("/scoreboard", h.GetScoreboard)
	})

	return r
}
