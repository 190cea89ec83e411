package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/thamesford/slopitch-standings/internal/api/respond"
	"github.com/thamesford/slopitch-standings/internal/cache"
	"github.com/thamesford/slopitch-standings/internal/league"
	"github.com/thamesford/slopitch-standings/internal/store"
)

type recordJSON struct {
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	GamesPlayed   int     `json:"games_played"`
	Points        int     `json:"points"`
	Percentage    float64 `json:"percentage"`
	RunsScored    int     `json:"runs_scored"`
	RunsAgainst   int     `json:"runs_against"`
	RunDiff       int     `json:"run_diff"`
	CappedRunDiff int     `json:"capped_run_diff"`
}

func newRecordJSON(rec *league.TeamRecord) recordJSON {
	return recordJSON{
		Wins:          rec.Wins,
		Losses:        rec.Losses,
		Ties:          rec.Ties,
		GamesPlayed:   rec.GamesPlayed(),
		Points:        rec.Points(),
		Percentage:    rec.Percentage(),
		RunsScored:    rec.RunsScored,
		RunsAgainst:   rec.RunsAgainst,
		RunDiff:       rec.RunDifferential(),
		CappedRunDiff: rec.CappedRunDiff,
	}
}

type standingRow struct {
	Rank int     `json:"rank"`
	Team teamRef `json:"team"`
	recordJSON
	Streak    string `json:"streak"`
	TieReason string `json:"tie_reason,omitempty"`
	TieSymbol string `json:"tie_symbol,omitempty"`
}

type standingsResponse struct {
	Season          *seasonJSON       `json:"season"`
	Standings       []standingRow     `json:"standings"`
	TieExplanations map[string]string `json:"tie_explanations"`
}

// GetStandings returns the ranked standings table for a season.
// @Summary Get standings
// @Description Returns the ranked standings with Slo-Pitch Ontario tie-break annotations and a footnote legend. Defaults to the current season; season=0 ranks all-time records.
// @Tags standings
// @Produce json
// @Param season query int false "Season ID (defaults to current; 0 = all-time)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /standings [get]
func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	season, ok := h.resolveSeason(w, r, true)
	if !ok {
		return
	}

	cacheKey := fmt.Sprintf("standings:%d", season.ID)
	ttl := cache.TTLStandings

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	games, err := h.store.CompletedSeasonGames(r.Context(), season.ID)
	if err != nil {
		h.metrics.RecordStandingsCompute(season.ID, 0, 0, err)
		h.logger.Error("standings load failed", "season", season.ID, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load season games")
		return
	}

	start := time.Now()
	rows := league.StandingsFromGames(season.ID, games)
	h.metrics.RecordStandingsCompute(season.ID, len(rows), time.Since(start), nil)
	for i := range rows {
		h.metrics.RecordTieBreak(rows[i].Symbol)
	}

	names, err := h.teamNames(r.Context())
	if err != nil {
		h.logger.Error("team list failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load teams")
		return
	}

	resp := standingsResponse{
		Standings:       make([]standingRow, 0, len(rows)),
		TieExplanations: league.TieExplanations(rows),
	}
	if season.ID != 0 {
		sj := newSeasonJSON(season)
		resp.Season = &sj
	}
	for i := range rows {
		row := &rows[i]
		resp.Standings = append(resp.Standings, standingRow{
			Rank:       row.Rank,
			Team:       teamRef{ID: row.TeamID, Name: names[row.TeamID]},
			recordJSON: newRecordJSON(&row.TeamRecord),
			Streak:     league.Streak(games, row.TeamID),
			TieReason:  row.Reason,
			TieSymbol:  row.Symbol,
		})
	}

	data, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("standings marshal failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to encode standings")
		return
	}

	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// resolveSeason picks the season for a request: the explicit season query
// value when present, otherwise the latest season that has started. A zero
// ID selects the all-time table and is only accepted where allTime is true.
// On failure the error response has already been written.
func (h *Handler) resolveSeason(w http.ResponseWriter, r *http.Request, allTime bool) (store.Season, bool) {
	q := r.URL.Query().Get("season")
	if q == "" {
		season, err := h.store.CurrentSeason(r.Context(), h.now())
		if errors.Is(err, store.ErrNotFound) {
			respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No season has started yet")
			return store.Season{}, false
		}
		if err != nil {
			h.logger.Error("current season lookup failed", "error", err)
			respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to resolve current season")
			return store.Season{}, false
		}
		return season, true
	}

	id, err := strconv.Atoi(q)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_SEASON", "season must be an integer")
		return store.Season{}, false
	}
	if id == 0 {
		if !allTime {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_SEASON", "season 0 is only valid for standings")
			return store.Season{}, false
		}
		return store.Season{}, true
	}

	season, err := h.store.GetSeason(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("Season %d not found", id))
		return store.Season{}, false
	}
	if err != nil {
		h.logger.Error("season lookup failed", "season", id, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load season")
		return store.Season{}, false
	}
	return season, true
}
