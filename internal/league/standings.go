package league

import (
	"context"
	"fmt"
	"sort"
)

// Standing is one row of the final table: an aggregated record plus its
// tie-break annotation. Rank is 1-based and contiguous across the table.
// Rows are built fresh on every computation, so no annotation ever
// survives from a prior run.
type Standing struct {
	TeamRecord
	Rank   int
	Reason string
	Symbol string
}

// StandingsFromGames computes the ranked table from a set of completed
// games: aggregate a record for every team with at least one completed
// game, seed-sort by wins, points, then percentage, and resolve tied
// groups with the SPO rule chain. Pure; the same games always yield the
// same table.
//
// An empty game set yields an empty table, a normal state rather than an
// error. Teams with zero games never appear; filtering beyond that is the
// caller's concern. SeasonID 0 ranks all-time records.
func StandingsFromGames(seasonID int, games []Game) []Standing {
	if len(games) == 0 {
		return nil
	}

	// Team IDs are sorted so the seed order, and with it the fallback
	// ordering of unresolvable ties, is deterministic for a given game set.
	teamIDs := teamsInGames(games)

	seeded := make([]Standing, 0, len(teamIDs))
	for _, id := range teamIDs {
		seeded = append(seeded, Standing{TeamRecord: RecordFromGames(id, seasonID, games)})
	}

	sort.SliceStable(seeded, func(i, j int) bool {
		a, b := &seeded[i], &seeded[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Points() != b.Points() {
			return a.Points() > b.Points()
		}
		return a.Percentage() > b.Percentage()
	})

	return breakTies(seeded, buildHeadToHead(games))
}

// Standings loads the season's completed games from the calculator's source
// and ranks them with StandingsFromGames. The records behind the table are
// left in the memoization cache so follow-up TeamRecord calls in the same
// session skip the store.
func (c *Calculator) Standings(ctx context.Context, seasonID int) ([]Standing, error) {
	games, err := c.src.CompletedSeasonGames(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("load season %d games: %w", seasonID, err)
	}

	standings := StandingsFromGames(seasonID, games)
	for i := range standings {
		key := recordKey{teamID: standings[i].TeamID, seasonID: seasonID}
		if _, ok := c.cache[key]; !ok {
			rec := standings[i].TeamRecord
			c.cache[key] = &rec
		}
	}
	return standings, nil
}

// teamsInGames returns the sorted IDs of every team appearing in at least
// one completed game.
func teamsInGames(games []Game) []int {
	seen := make(map[int]struct{})
	for i := range games {
		if !games[i].Completed() {
			continue
		}
		seen[games[i].HomeTeamID] = struct{}{}
		seen[games[i].AwayTeamID] = struct{}{}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// TieExplanations maps each symbol appearing in the standings to the first
// reason encountered in rank order, for rendering a footnote legend.
func TieExplanations(standings []Standing) map[string]string {
	out := make(map[string]string)
	for i := range standings {
		s := &standings[i]
		if s.Symbol == "" {
			continue
		}
		if _, ok := out[s.Symbol]; !ok {
			out[s.Symbol] = s.Reason
		}
	}
	return out
}
