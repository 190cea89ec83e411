// Package handler provides HTTP handlers for all API endpoints.
// Handlers read through the store interface, compute standings with the
// league package, and cache marshaled responses with ETag support.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/thamesford/slopitch-standings/internal/api/respond"
	"github.com/thamesford/slopitch-standings/internal/cache"
	"github.com/thamesford/slopitch-standings/internal/config"
	"github.com/thamesford/slopitch-standings/internal/metrics"
	"github.com/thamesford/slopitch-standings/internal/store"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	store   store.Reader
	cache   *cache.Cache
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Recorder

	// now is swapped out in tests to pin "today".
	now func() time.Time
}

// New creates a Handler with shared dependencies.
func New(st store.Reader, c *cache.Cache, cfg *config.Config, logger *slog.Logger, m *metrics.Recorder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:   st,
		cache:   c,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and available optimizations.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Slo-Pitch Standings API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"optimizations": []string{
			"pgxpool_connection_pooling",
			"prepared_statements",
			"gzip_compression",
			"in_memory_cache",
			"etag_support",
		},
	})
}

// timestamp reports the handler clock in the format every health
// payload carries.
func (h *Handler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339)
}

// HealthCheck reports liveness.
// @Summary Health check
// @Description Reports that the process is up, with a timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": h.timestamp(),
	})
}

// HealthCheckDB verifies the backing store is reachable.
// @Summary Database health check
// @Description Pings the backing store and reports the result.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Error("store ping failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "store unreachable",
			"timestamp": h.timestamp(),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": h.timestamp(),
	})
}

// HealthCheckCache reports cache occupancy.
// @Summary Cache health check
// @Description Reports in-memory cache statistics (active and expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": h.timestamp(),
	})
}
