package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/thamesford/slopitch-standings/internal/api/respond"
	"github.com/thamesford/slopitch-standings/internal/cache"
	"github.com/thamesford/slopitch-standings/internal/league"
	"github.com/thamesford/slopitch-standings/internal/store"
)

type teamRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type teamsResponse struct {
	Teams []teamRef `json:"teams"`
}

type teamSeasonJSON struct {
	Season seasonJSON `json:"season"`
	Record recordJSON `json:"record"`
	Streak string     `json:"streak"`
}

type teamDetailResponse struct {
	Team    teamRef          `json:"team"`
	Career  recordJSON       `json:"career"`
	Streak  string           `json:"streak"`
	Season  *teamSeasonJSON  `json:"season,omitempty"`
	Current *teamSeasonJSON  `json:"current"`
	Seasons []teamSeasonJSON `json:"seasons"`
}

// GetTeams returns all teams ordered by name.
// @Summary List teams
// @Description Returns every team in the league ordered by name.
// @Tags teams
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /teams [get]
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	cacheKey := "teams"
	ttl := cache.TTLTeams

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	teams, err := h.store.ListTeams(r.Context())
	if err != nil {
		h.logger.Error("team list failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load teams")
		return
	}

	resp := teamsResponse{Teams: make([]teamRef, 0, len(teams))}
	for _, t := range teams {
		resp.Teams = append(resp.Teams, teamRef{ID: t.ID, Name: t.Name})
	}

	data, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("teams marshal failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to encode teams")
		return
	}

	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}

// GetTeamDetail returns one team with career totals and per-season records.
// @Summary Get team detail
// @Description Returns a team with its career record, current streak, and a record per season played, newest season first. An explicit season parameter adds that season's record as a spotlight block.
// @Tags teams
// @Produce json
// @Param teamID path int true "Team ID"
// @Param season query int false "Season ID to spotlight"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /teams/{teamID} [get]
func (h *Handler) GetTeamDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "teamID"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "teamID must be an integer")
		return
	}

	// The career record is always in the payload, so season 0 has no
	// meaning here.
	spotlightID := 0
	if raw := r.URL.Query().Get("season"); raw != "" {
		spotlightID, err = strconv.Atoi(raw)
		if err != nil || spotlightID <= 0 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_SEASON", "season must be a positive integer")
			return
		}
	}

	cacheKey := fmt.Sprintf("team:%d", id)
	if spotlightID != 0 {
		cacheKey = fmt.Sprintf("team:%d:season:%d", id, spotlightID)
	}
	ttl := cache.TTLTeamDetail

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	team, err := h.store.GetTeam(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("Team %d not found", id))
		return
	}
	if err != nil {
		h.logger.Error("team lookup failed", "team", id, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load team")
		return
	}

	games, err := h.store.CompletedTeamGames(r.Context(), id, 0)
	if err != nil {
		h.logger.Error("team games load failed", "team", id, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load team games")
		return
	}

	seasons, err := h.store.TeamSeasons(r.Context(), id)
	if err != nil {
		h.logger.Error("team seasons load failed", "team", id, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load team seasons")
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

	career := league.RecordFromGames(id, 0, games)
	resp := teamDetailResponse{
		Team:    teamRef{ID: team.ID, Name: team.Name},
		Career:  newRecordJSON(&career),
		Streak:  league.Streak(games, id),
		Seasons: make([]teamSeasonJSON, 0, len(seasons)),
	}
	for _, s := range seasons {
		rec := league.RecordFromGames(id, s.ID, games)
		entry := teamSeasonJSON{
			Season: newSeasonJSON(s),
			Record: newRecordJSON(&rec),
			Streak: league.Streak(gamesInSeason(games, s.ID), id),
		}
		resp.Seasons = append(resp.Seasons, entry)
		if s.ID == currentID {
			cur := entry
			resp.Current = &cur
		}
	}

	if spotlightID != 0 {
		season, err := h.store.GetSeason(r.Context(), spotlightID)
		if errors.Is(err, store.ErrNotFound) {
			respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("Season %d not found", spotlightID))
			return
		}
		if err != nil {
			h.logger.Error("season lookup failed", "season", spotlightID, "error", err)
			respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load season")
			return
		}
		rec := league.RecordFromGames(id, season.ID, games)
		resp.Season = &teamSeasonJSON{
			Season: newSeasonJSON(season),
			Record: newRecordJSON(&rec),
			Streak: league.Streak(gamesInSeason(games, season.ID), id),
		}
	}

	data, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("team detail marshal failed", "team", id, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to encode team detail")
		return
	}

	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func (h *Handler) teamNames(ctx context.Context) (map[int]string, error) {
	teams, err := h.store.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names, nil
}

func gamesInSeason(games []league.Game, seasonID int) []league.Game {
	out := make([]league.Game, 0, len(games))
	for i := range games {
		if games[i].SeasonID == seasonID {
			out = append(out, games[i])
		}
	}
	return out
}
