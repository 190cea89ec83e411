package handler

import (
	"encoding/json"
	"net/http"

	"github.com/thamesford/slopitch-standings/internal/api/respond"
	"github.com/thamesford/slopitch-standings/internal/cache"
)

// scoreboardLimit bounds both lists on the scoreboard.
const scoreboardLimit = 4

type scoreboardResponse struct {
	Upcoming []gameJSON `json:"upcoming"`
	Latest   []gameJSON `json:"latest"`
}

// GetScoreboard returns the next scheduled games and the latest final scores.
// @Summary Get scoreboard
// @Description Returns the next few upcoming games and the most recent final scores across all seasons.
// @Tags games
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /scoreboard [get]
func (h *Handler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	cacheKey := "scoreboard"
	ttl := cache.TTLScoreboard

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	now := h.now()
	upcoming, err := h.store.UpcomingGames(r.Context(), now, scoreboardLimit)
	if err != nil {
		h.logger.Error("upcoming games load failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load upcoming games")
		return
	}
	latest, err := h.store.LatestScores(r.Context(), now, scoreboardLimit)
	if err != nil {
		h.logger.Error("latest scores load failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load latest scores")
		return
	}

	teams, locations, err := h.nameMaps(r.Context())
	if err != nil {
		h.logger.Error("name lookup failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load teams")
		return
	}

	resp := scoreboardResponse{
		Upcoming: make([]gameJSON, 0, len(upcoming)),
		Latest:   make([]gameJSON, 0, len(latest)),
	}
	for i := range upcoming {
		resp.Upcoming = append(resp.Upcoming, newGameJSON(&upcoming[i], teams, locations))
	}
	for i := range latest {
		resp.Latest = append(resp.Latest, newGameJSON(&latest[i], teams, locations))
	}

	data, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("scoreboard marshal failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to encode scoreboard")
		return
	}

	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}
