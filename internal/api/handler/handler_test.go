package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/thamesford/slopitch-standings/internal/api/respond"
	"github.com/thamesford/slopitch-standings/internal/cache"
	"github.com/thamesford/slopitch-standings/internal/config"
	"github.com/thamesford/slopitch-standings/internal/league"
	"github.com/thamesford/slopitch-standings/internal/metrics"
	"github.com/thamesford/slopitch-standings/internal/store"
)

// Team IDs as allocated by seedLeague's insert order.
const (
	bandits   = 1
	comets    = 2
	drifters  = 3
	islanders = 4
)

// apiClock is "now" for every handler test: mid-July, well into the
// summer season and before the fall one.
var apiClock = time.Date(2026, 7, 20, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func newTestHandler(t *testing.T, mem *store.Memory) *Handler {
	t.Helper()
	c := cache.New(true)
	t.Cleanup(c.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(mem, c, &config.Config{CacheEnabled: true}, logger, metrics.NewRecorder())
	h.now = func() time.Time { return apiClock }
	return h
}

func addGame(t *testing.T, mem *store.Memory, g league.Game) {
	t.Helper()
	if err := mem.UpsertGame(context.Background(), g); err != nil {
		t.Fatalf("seed game %d: %v", g.ID, err)
	}
}

func finalGame(id, home, away, homeScore, awayScore, daysAgo int) league.Game {
	return league.Game{
		ID:         id,
		SeasonID:   1,
		LocationID: 1,
		HomeTeamID: home,
		AwayTeamID: away,
		StartsAt:   apiClock.AddDate(0, 0, -daysAgo),
		HomeScore:  intPtr(homeScore),
		AwayScore:  intPtr(awayScore),
	}
}

func futureGame(id, home, away, daysAhead int) league.Game {
	return league.Game{
		ID:         id,
		SeasonID:   1,
		LocationID: 1,
		HomeTeamID: home,
		AwayTeamID: away,
		StartsAt:   apiClock.AddDate(0, 0, daysAhead),
	}
}

func seedTeamsAndSeasons(t *testing.T, mem *store.Memory) {
	t.Helper()
	ctx := context.Background()
	for _, name := range []string{"Bandits", "Comets", "Drifters", "Islanders"} {
		if _, err := mem.InsertTeam(ctx, name); err != nil {
			t.Fatalf("seed team %s: %v", name, err)
		}
	}
	if _, err := mem.InsertLocation(ctx, "Riverside Park"); err != nil {
		t.Fatalf("seed location: %v", err)
	}
	if _, err := mem.InsertSeason(ctx, "Summer 2026", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("seed season: %v", err)
	}
	if _, err := mem.InsertSeason(ctx, "Fall 2026", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("seed season: %v", err)
	}
}

// seedLeague builds a mid-season league: five finals, one scheduled game,
// and one rained-out game. Every team ends on a distinct record, so the
// standings carry no tie annotations.
func seedLeague(t *testing.T) *store.Memory {
	t.Helper()
	mem := store.NewMemory()
	seedTeamsAndSeasons(t, mem)

	addGame(t, mem, finalGame(1, bandits, comets, 7, 3, 10))
	addGame(t, mem, finalGame(2, drifters, bandits, 2, 5, 9))
	addGame(t, mem, finalGame(3, comets, drifters, 6, 4, 8))
	addGame(t, mem, finalGame(4, islanders, drifters, 8, 1, 7))
	addGame(t, mem, finalGame(5, comets, islanders, 9, 2, 6))
	addGame(t, mem, futureGame(6, bandits, islanders, 2))

	rainout := futureGame(7, comets, drifters, 4)
	rainout.Cancellation = intPtr(league.CancelWeather)
	addGame(t, mem, rainout)

	return mem
}

// seedTiedLeague builds a split home-and-home series so two teams end
// fully symmetric and fall through every tie-break rule.
func seedTiedLeague(t *testing.T) *store.Memory {
	t.Helper()
	mem := store.NewMemory()
	seedTeamsAndSeasons(t, mem)

	addGame(t, mem, finalGame(1, bandits, comets, 5, 3, 10))
	addGame(t, mem, finalGame(2, comets, bandits, 5, 3, 9))
	addGame(t, mem, finalGame(3, islanders, drifters, 9, 0, 8))

	return mem
}

func doGet(t *testing.T, h http.HandlerFunc, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rr.Body.String())
	}
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp respond.ErrorResponse
	decodeJSON(t, rr, &resp)
	return resp.Error.Code
}

// --------------------------------------------------------------------------
// Root and health
// --------------------------------------------------------------------------

func TestRootEndpoint(t *testing.T) {
	h := newTestHandler(t, store.NewMemory())

	rr := doGet(t, h.Root, "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp map[string]interface{}
	decodeJSON(t, rr, &resp)
	if resp["name"] != "Slo-Pitch Standings API" {
		t.Errorf("name = %v", resp["name"])
	}
	if resp["status"] != "running" {
		t.Errorf("status = %v", resp["status"])
	}
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestHandler(t, store.NewMemory())

	for _, tt := range []struct {
		name string
		fn   http.HandlerFunc
	}{
		{"base", h.HealthCheck},
		{"db", h.HealthCheckDB},
		{"cache", h.HealthCheckCache},
	} {
		t.Run(tt.name, func(t *testing.T) {
			rr := doGet(t, tt.fn, "/health", nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}
			var resp map[string]interface{}
			decodeJSON(t, rr, &resp)
			if resp["status"] != "healthy" {
				t.Errorf("status = %v, want healthy", resp["status"])
			}
		})
	}
}
