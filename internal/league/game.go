// Package league implements the standings engine: record aggregation from
// completed games and Slo-Pitch Ontario tie-breaking across a season.
package league

import "time"

// Cancellation reasons recorded against a game. A cancelled game can still
// carry a score (a forfeit is entered 7-0) and then counts like any other
// completed game.
const (
	CancelForfeit = 1
	CancelWeather = 2
	CancelOther   = 3
)

// RunCap is the per-game margin limit used by the capped run differential:
// each game's signed differential is clamped to [-RunCap, RunCap] before
// summing. The final total is never clamped.
const RunCap = 7

// ForfeitScore is the conventional score awarded to the non-forfeiting team.
const ForfeitScore = 7

// Game is one scheduled or played game. Scores are nil until the game is
// completed; once both are set the game is an immutable fact.
type Game struct {
	ID           int
	SeasonID     int
	LocationID   int
	HomeTeamID   int
	AwayTeamID   int
	StartsAt     time.Time
	HomeScore    *int
	AwayScore    *int
	Cancellation *int
}

// Completed reports whether both scores have been entered. Cancellation
// status is irrelevant: a forfeit with a recorded score is completed, a
// rained-out game with no score is not.
func (g *Game) Completed() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// Winner returns "H", "A", or "T" for a completed game and "" otherwise.
func (g *Game) Winner() string {
	if !g.Completed() {
		return ""
	}
	switch {
	case *g.HomeScore > *g.AwayScore:
		return "H"
	case *g.HomeScore < *g.AwayScore:
		return "A"
	default:
		return "T"
	}
}

// Involves reports whether teamID played in this game.
func (g *Game) Involves(teamID int) bool {
	return g.HomeTeamID == teamID || g.AwayTeamID == teamID
}

// ScoreFor returns the game's score from teamID's perspective. The game must
// be completed and teamID must be one of the two sides.
func (g *Game) ScoreFor(teamID int) (own, opp int) {
	if g.HomeTeamID == teamID {
		return *g.HomeScore, *g.AwayScore
	}
	return *g.AwayScore, *g.HomeScore
}

// CancellationLabel returns a display string for the cancellation reason,
// or "" when the game was not cancelled.
func CancellationLabel(c *int) string {
	if c == nil {
		return ""
	}
	switch *c {
	case CancelForfeit:
		return "Forfeit"
	case CancelWeather:
		return "Weather"
	case CancelOther:
		return "Other"
	}
	return ""
}
