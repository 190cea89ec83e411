package handler

import (
	"net/http"
	"testing"

	"github.com/thamesford/slopitch-standings/internal/store"
)

func TestGetSeasons(t *testing.T) {
	h := newTestHandler(t, seedLeague(t))

	rr := doGet(t, h.GetSeasons, "/api/v1/seasons", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp seasonsResponse
	decodeJSON(t, rr, &resp)

	if len(resp.Seasons) != 2 {
		t.Fatalf("seasons = %d, want 2", len(resp.Seasons))
	}

	// Newest first: the fall season has not started, so it is not current.
	fall := resp.Seasons[0]
	if fall.Title != "Fall 2026" || fall.Starts != "2026-09-01" || fall.Current {
		t.Errorf("first season = %+v, want Fall 2026, not current", fall)
	}
	summer := resp.Seasons[1]
	if summer.ID != 1 || !summer.Current {
		t.Errorf("second season = %+v, want Summer 2026 as current", summer)
	}
}

func TestGetSchedule(t *testing.T) {
	h := newTestHandler(t, seedLeague(t))

	rr := doGet(t, h.GetSchedule, "/api/v1/schedule", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rr.Code, rr.Body.String())
	}

	var resp scheduleResponse
	decodeJSON(t, rr, &resp)

	if resp.Season.ID != 1 {
		t.Errorf("season = %d, want 1", resp.Season.ID)
	}
	if resp.Count != 7 || len(resp.Games) != 7 {
		t.Fatalf("games = %d (count %d), want 7", len(resp.Games), resp.Count)
	}

	// Most recent start first: the rainout, then the scheduled game, then
	// the finals in reverse date order.
	rainout := resp.Games[0]
	if rainout.ID != 7 || rainout.Status != "cancelled" || rainout.Cancellation != "Weather" {
		t.Errorf("games[0] = %+v, want cancelled rainout", rainout)
	}
	if rainout.Home.Score != nil {
		t.Errorf("rainout home score = %v, want null", *rainout.Home.Score)
	}

	scheduled := resp.Games[1]
	if scheduled.ID != 6 || scheduled.Status != "scheduled" || scheduled.Winner != "" {
		t.Errorf("games[1] = %+v, want scheduled game 6", scheduled)
	}

	opener := resp.Games[6]
	if opener.ID != 1 || opener.Status != "final" || opener.Winner != "H" {
		t.Errorf("games[6] = %+v, want final game 1 won at home", opener)
	}
	if opener.Home.Score == nil || *opener.Home.Score != 7 {
		t.Errorf("opener home score = %v, want 7", opener.Home.Score)
	}
	if opener.Location != "Riverside Park" {
		t.Errorf("opener location = %q, want Riverside Park", opener.Location)
	}
	if opener.Home.Name != "Bandits" || opener.Away.Name != "Comets" {
		t.Errorf("opener sides = %q vs %q", opener.Home.Name, opener.Away.Name)
	}
}

func TestGetScheduleRejectsAllTime(t *testing.T) {
	h := newTestHandler(t, seedLeague(t))

	rr := doGet(t, h.GetSchedule, "/api/v1/schedule?season=0", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if code := errorCode(t, rr); code != "INVALID_SEASON" {
		t.Errorf("error code = %q, want INVALID_SEASON", code)
	}
}

func TestGetScoreboard(t *testing.T) {
	h := newTestHandler(t, seedLeague(t))

	rr := doGet(t, h.GetScoreboard, "/api/v1/scoreboard", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rr.Code, rr.Body.String())
	}

	var resp scoreboardResponse
	decodeJSON(t, rr, &resp)

	if len(resp.Upcoming) != 2 {
		t.Fatalf("upcoming = %d, want 2", len(resp.Upcoming))
	}
	if resp.Upcoming[0].ID != 6 {
		t.Errorf("next game = %d, want 6", resp.Upcoming[0].ID)
	}

	if len(resp.Latest) != 4 {
		t.Fatalf("latest = %d, want 4", len(resp.Latest))
	}
	newest := resp.Latest[0]
	if newest.ID != 5 || newest.Status != "final" {
		t.Errorf("latest[0] = %+v, want final game 5", newest)
	}
	if newest.Home.Score == nil || *newest.Home.Score != 9 {
		t.Errorf("latest[0] home score = %v, want 9", newest.Home.Score)
	}
}

func TestGetScoreboardEmptyLeague(t *testing.T) {
	h := newTestHandler(t, store.NewMemory())

	rr := doGet(t, h.GetScoreboard, "/api/v1/scoreboard", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp scoreboardResponse
	decodeJSON(t, rr, &resp)
	if len(resp.Upcoming) != 0 || len(resp.Latest) != 0 {
		t.Errorf("scoreboard = %d upcoming / %d latest, want empty", len(resp.Upcoming), len(resp.Latest))
	}
}
