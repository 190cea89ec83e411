package league

import (
	"context"
	"fmt"
)

// TeamRecord is a team's aggregated result line for one season, recomputed
// on demand from the completed game set and never mutated in place.
// SeasonID 0 means no season filter (career totals).
type TeamRecord struct {
	TeamID        int
	SeasonID      int
	Wins          int
	Losses        int
	Ties          int
	RunsScored    int
	RunsAgainst   int
	CappedRunDiff int
}

// GamesPlayed returns the number of completed games behind this record.
func (r *TeamRecord) GamesPlayed() int {
	return r.Wins + r.Losses + r.Ties
}

// Points is 2 per win plus 1 per tie.
func (r *TeamRecord) Points() int {
	return 2*r.Wins + r.Ties
}

// Percentage is the winning percentage counting a tie as half a win,
// (wins + 0.5*ties) / games played. Zero games yields 0.0, never an error.
func (r *TeamRecord) Percentage() float64 {
	gp := r.GamesPlayed()
	if gp == 0 {
		return 0.0
	}
	return (float64(r.Wins) + 0.5*float64(r.Ties)) / float64(gp)
}

// RunDifferential is the raw, uncapped runs scored minus runs against.
func (r *TeamRecord) RunDifferential() int {
	return r.RunsScored - r.RunsAgainst
}

// sameRecord reports whether two records share the exact (wins, losses,
// ties) triple. This is the grouping key for tie-breaking: equal points or
// percentage alone never forms a tied group.
func (r *TeamRecord) sameRecord(other *TeamRecord) bool {
	return r.Wins == other.Wins && r.Losses == other.Losses && r.Ties == other.Ties
}

// RecordFromGames aggregates a record from the team's perspective over the
// given games. Games missing a score, games not involving the team, and,
// when seasonID is nonzero, games from other seasons are all skipped, so
// callers may pass a broader set than the team's own.
func RecordFromGames(teamID, seasonID int, games []Game) TeamRecord {
	rec := TeamRecord{TeamID: teamID, SeasonID: seasonID}
	for i := range games {
		g := &games[i]
		if !g.Completed() || !g.Involves(teamID) {
			continue
		}
		if seasonID != 0 && g.SeasonID != seasonID {
			continue
		}
		own, opp := g.ScoreFor(teamID)
		rec.RunsScored += own
		rec.RunsAgainst += opp
		switch {
		case own > opp:
			rec.Wins++
		case own < opp:
			rec.Losses++
		default:
			rec.Ties++
		}
		rec.CappedRunDiff += clampMargin(own - opp)
	}
	return rec
}

// clampMargin limits a single game's signed differential to the SPO cap.
func clampMargin(diff int) int {
	if diff > RunCap {
		return RunCap
	}
	if diff < -RunCap {
		return -RunCap
	}
	return diff
}

// --------------------------------------------------------------------------
// GameSource and Calculator
// --------------------------------------------------------------------------

// GameSource is the read-only query capability the engine needs from the
// game record store. SeasonID 0 means no season filter.
type GameSource interface {
	// CompletedTeamGames returns all completed games the team played in the
	// season, most recent first.
	CompletedTeamGames(ctx context.Context, teamID, seasonID int) ([]Game, error)
	// CompletedSeasonGames returns all completed games in the season.
	CompletedSeasonGames(ctx context.Context, seasonID int) ([]Game, error)
}

// Calculator computes team records on demand with session-scoped
// memoization. Create one per request or per CLI run; it must not be shared
// across concurrent computations, which keeps the cache logic lock-free.
type Calculator struct {
	src   GameSource
	cache map[recordKey]*TeamRecord
}

type recordKey struct {
	teamID   int
	seasonID int
}

// NewCalculator wraps a game source in a fresh calculator with an empty
// memoization cache.
func NewCalculator(src GameSource) *Calculator {
	return &Calculator{
		src:   src,
		cache: make(map[recordKey]*TeamRecord),
	}
}

// TeamRecord returns the aggregated record for one (team, season) pair,
// computing it on first use and serving the memoized value afterwards.
func (c *Calculator) TeamRecord(ctx context.Context, teamID, seasonID int) (*TeamRecord, error) {
	key := recordKey{teamID: teamID, seasonID: seasonID}
	if rec, ok := c.cache[key]; ok {
		return rec, nil
	}

	games, err := c.src.CompletedTeamGames(ctx, teamID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("load games for team %d: %w", teamID, err)
	}

	rec := RecordFromGames(teamID, seasonID, games)
	c.cache[key] = &rec
	return &rec, nil
}
