package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/thamesford/slopitch-standings/internal/api/respond"
	"github.com/thamesford/slopitch-standings/internal/cache"
	"github.com/thamesford/slopitch-standings/internal/league"
)

type sideJSON struct {
	TeamID int    `json:"team_id"`
	Name   string `json:"name"`
	Score  *int   `json:"score"`
}

type gameJSON struct {
	ID           int      `json:"id"`
	SeasonID     int      `json:"season_id"`
	StartsAt     string   `json:"starts_at"`
	Location     string   `json:"location,omitempty"`
	Home         sideJSON `json:"home"`
	Away         sideJSON `json:"away"`
	Status       string   `json:"status"`
	Winner       string   `json:"winner,omitempty"`
	Cancellation string   `json:"cancellation,omitempty"`
}

// newGameJSON shapes one game for responses. A cancelled game that still
// carries a score (a forfeit) reads as final with the cancellation label
// attached; only a scoreless cancellation reads as cancelled.
func newGameJSON(g *league.Game, teams map[int]string, locations map[int]string) gameJSON {
	status := "scheduled"
	switch {
	case g.Completed():
		status = "final"
	case g.Cancellation != nil:
		status = "cancelled"
	}
	return gameJSON{
		ID:           g.ID,
		SeasonID:     g.SeasonID,
		StartsAt:     g.StartsAt.UTC().Format(time.RFC3339),
		Location:     locations[g.LocationID],
		Home:         sideJSON{TeamID: g.HomeTeamID, Name: teams[g.HomeTeamID], Score: g.HomeScore},
		Away:         sideJSON{TeamID: g.AwayTeamID, Name: teams[g.AwayTeamID], Score: g.AwayScore},
		Status:       status,
		Winner:       g.Winner(),
		Cancellation: league.CancellationLabel(g.Cancellation),
	}
}

type scheduleResponse struct {
	Season seasonJSON `json:"season"`
	Games  []gameJSON `json:"games"`
	Count  int        `json:"count"`
}

// GetSchedule returns a season's full schedule, most recent first.
// @Summary Get schedule
// @Description Returns every game of a season with scores where played, newest first. Defaults to the current season.
// @Tags games
// @Produce json
// @Param season query int false "Season ID (defaults to current)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /schedule [get]
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	season, ok := h.resolveSeason(w, r, false)
	if !ok {
		return
	}

	cacheKey := fmt.Sprintf("schedule:%d", season.ID)
	ttl := cache.TTLSchedule

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	games, err := h.store.SeasonGames(r.Context(), season.ID)
	if err != nil {
		h.logger.Error("schedule load failed", "season", season.ID, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load schedule")
		return
	}

	teams, locations, err := h.nameMaps(r.Context())
	if err != nil {
		h.logger.Error("name lookup failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load teams")
		return
	}

	resp := scheduleResponse{
		Season: newSeasonJSON(season),
		Games:  make([]gameJSON, 0, len(games)),
		Count:  len(games),
	}
	for i := range games {
		resp.Games = append(resp.Games, newGameJSON(&games[i], teams, locations))
	}

	data, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("schedule marshal failed", "season", season.ID, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to encode schedule")
		return
	}

	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func (h *Handler) nameMaps(ctx context.Context) (teams, locations map[int]string, err error) {
	teams, err = h.teamNames(ctx)
	if err != nil {
		return nil, nil, err
	}
	locs, err := h.store.ListLocations(ctx)
	if err != nil {
		return nil, nil, err
	}
	locations = make(map[int]string, len(locs))
	for _, l := range locs {
		locations[l.ID] = l.Name
	}
	return teams, locations, nil
}
