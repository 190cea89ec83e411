package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/thamesford/slopitch-standings/internal/api/respond"
	"github.com/thamesford/slopitch-standings/internal/cache"
	"github.com/thamesford/slopitch-standings/internal/store"
)

type seasonJSON struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Starts string `json:"starts"`
}

func newSeasonJSON(s store.Season) seasonJSON {
	return seasonJSON{ID: s.ID, Title: s.Title, Starts: s.Starts.Format("2006-01-02")}
}

type seasonListItem struct {
	seasonJSON
	Current bool `json:"current"`
}

type seasonsResponse struct {
	Seasons []seasonListItem `json:"seasons"`
}

// GetSeasons returns all seasons, newest first.
// @Summary List seasons
// @Description Returns every season newest first, flagging the current one.
// @Tags seasons
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /seasons [get]
func (h *Handler) GetSeasons(w http.ResponseWriter, r *http.Request) {
	cacheKey := "seasons"
	ttl := cache.TTLSeasons

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	seasons, err := h.store.ListSeasons(r.Context())
	if err != nil {
		h.logger.Error("season list failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load seasons")
		return
	}

	currentID := 0
	current, err := h.store.CurrentSeason(r.Context(), h.now())
	if err == nil {
		currentID = current.ID
	} else if !errors.Is(err, store.ErrNotFound) {
		h.logger.Error("current season lookup failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to resolve current season")
		return
	}

	resp := seasonsResponse{Seasons: make([]seasonListItem, 0, len(seasons))}
	for _, s := range seasons {
		resp.Seasons = append(resp.Seasons, seasonListItem{
			seasonJSON: newSeasonJSON(s),
			Current:    s.ID == currentID,
		})
	}

	data, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("seasons marshal failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to encode seasons")
		return
	}

	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}
