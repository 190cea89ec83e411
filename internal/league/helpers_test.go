package league

import (
	"context"
	"testing"
	"time"
)

// Team IDs used across the tie-breaking fixtures.
const (
	thunder   = 1
	lightning = 2
	storm     = 3
	cyclones  = 4
	twisters  = 5
	hail      = 6
)

var fixtureClock = time.Date(2026, 7, 15, 19, 0, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

// playedGame builds a completed game daysAgo days before the fixture clock.
func playedGame(season, home, away, homeScore, awayScore, daysAgo int) Game {
	return Game{
		SeasonID:   season,
		LocationID: 1,
		HomeTeamID: home,
		AwayTeamID: away,
		StartsAt:   fixtureClock.AddDate(0, 0, -daysAgo),
		HomeScore:  intPtr(homeScore),
		AwayScore:  intPtr(awayScore),
	}
}

// scheduledGame builds a game with no scores entered yet.
func scheduledGame(season, home, away, daysAhead int) Game {
	return Game{
		SeasonID:   season,
		LocationID: 1,
		HomeTeamID: home,
		AwayTeamID: away,
		StartsAt:   fixtureClock.AddDate(0, 0, daysAhead),
	}
}

// stubSource serves games from a slice and counts queries so tests can
// verify the calculator's memoization.
type stubSource struct {
	games       []Game
	err         error
	teamCalls   int
	seasonCalls int
}

func (s *stubSource) CompletedTeamGames(ctx context.Context, teamID, seasonID int) ([]Game, error) {
	s.teamCalls++
	if s.err != nil {
		return nil, s.err
	}
	var out []Game
	for _, g := range s.games {
		if !g.Completed() || !g.Involves(teamID) {
			continue
		}
		if seasonID != 0 && g.SeasonID != seasonID {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (s *stubSource) CompletedSeasonGames(ctx context.Context, seasonID int) ([]Game, error) {
	s.seasonCalls++
	if s.err != nil {
		return nil, s.err
	}
	var out []Game
	for _, g := range s.games {
		if !g.Completed() {
			continue
		}
		if seasonID != 0 && g.SeasonID != seasonID {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func computeStandings(t *testing.T, games []Game, seasonID int) []Standing {
	t.Helper()
	calc := NewCalculator(&stubSource{games: games})
	standings, err := calc.Standings(context.Background(), seasonID)
	if err != nil {
		t.Fatalf("compute standings: %v", err)
	}
	return standings
}

func standingFor(t *testing.T, standings []Standing, teamID int) Standing {
	t.Helper()
	for _, s := range standings {
		if s.TeamID == teamID {
			return s
		}
	}
	t.Fatalf("team %d missing from standings", teamID)
	return Standing{}
}

// assertOrder verifies the teams appear in exactly this relative order.
func assertOrder(t *testing.T, standings []Standing, teamIDs ...int) {
	t.Helper()
	prev := 0
	for _, id := range teamIDs {
		rank := standingFor(t, standings, id).Rank
		if rank <= prev {
			t.Fatalf("team %d has rank %d, expected it below rank %d", id, rank, prev)
		}
		prev = rank
	}
}
