// Package demo fabricates a season of league data: teams with invented
// names, a double round-robin schedule, and results for every game
// already in the past, with the occasional forfeit and rainout.
package demo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/thamesford/slopitch-standings/internal/league"
	"github.com/thamesford/slopitch-standings/internal/store"
)

// DefaultTeams is the league size when Config.Teams is zero.
const DefaultTeams = 6

// Config controls the fabricated season.
type Config struct {
	// Teams is the league size. Defaults to DefaultTeams.
	Teams int
	// Seed fixes the random stream. Zero draws a fresh seed, so two
	// runs only match when a seed is given.
	Seed int64
	// Start is the first game day. When zero it is derived from Now so
	// that about two thirds of the season is already played.
	Start time.Time
	// Now separates played games from upcoming ones. Defaults to the
	// wall clock.
	Now time.Time
}

// Result reports what one demo run created.
type Result struct {
	SeasonID      int
	TeamsCreated  int
	GamesCreated  int
	GamesPlayed   int
	Forfeits      int
	Rainouts      int
	StandingsRows int
	Errors        []string
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"season=%d teams=%d games=%d played=%d forfeits=%d rainouts=%d standings=%d errors=%d",
		r.SeasonID, r.TeamsCreated, r.GamesCreated, r.GamesPlayed,
		r.Forfeits, r.Rainouts, r.StandingsRows, len(r.Errors),
	)
}

// Run seeds the store with a fabricated season and persists its
// standings snapshot.
func Run(ctx context.Context, st store.Store, cfg Config, logger *slog.Logger) (Result, error) {
	var result Result
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Teams == 0 {
		cfg.Teams = DefaultTeams
	}
	if cfg.Teams < 2 {
		return result, fmt.Errorf("league needs at least 2 teams, got %d", cfg.Teams)
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	faker := gofakeit.New(cfg.Seed)

	logger.Info("Phase 1/4: creating teams...")
	teamIDs := make([]int, 0, cfg.Teams)
	used := make(map[string]bool)
	for len(teamIDs) < cfg.Teams {
		name := teamName(faker)
		if used[name] {
			continue
		}
		used[name] = true
		team, err := st.InsertTeam(ctx, name)
		if err != nil {
			return result, fmt.Errorf("insert team: %w", err)
		}
		teamIDs = append(teamIDs, team.ID)
		result.TeamsCreated++
	}
	logger.Info("teams done", "count", result.TeamsCreated)

	logger.Info("Phase 2/4: creating season and locations...")
	rounds := doubleRoundRobin(teamIDs)
	start := cfg.Start
	if start.IsZero() {
		start = cfg.Now.AddDate(0, 0, -7*(len(rounds)*2/3))
	}

	var locations []store.Location
	for _, name := range []string{faker.LastName() + " Park", faker.LastName() + " Memorial Diamond"} {
		loc, err := st.InsertLocation(ctx, name)
		if err != nil {
			return result, fmt.Errorf("insert location: %w", err)
		}
		locations = append(locations, loc)
	}

	season, err := st.InsertSeason(ctx, seasonTitle(start), start)
	if err != nil {
		return result, fmt.Errorf("insert season: %w", err)
	}
	result.SeasonID = season.ID
	logger.Info("season created", "id", season.ID, "title", season.Title, "rounds", len(rounds))

	logger.Info("Phase 3/4: scheduling games...")
	for r, round := range rounds {
		day := start.AddDate(0, 0, 7*r)
		for i, p := range round {
			g := league.Game{
				SeasonID:   season.ID,
				LocationID: locations[(r+i)%len(locations)].ID,
				HomeTeamID: p.home,
				AwayTeamID: p.away,
				StartsAt: time.Date(day.Year(), day.Month(), day.Day(), 18, 30, 0, 0, time.Local).
					Add(time.Duration(75*i) * time.Minute),
			}
			if g.StartsAt.Before(cfg.Now) {
				playResult(faker, &g, &result)
			}
			if _, err := st.InsertGame(ctx, g); err != nil {
				result.AddErrorf("insert game round %d: %v", r+1, err)
				continue
			}
			result.GamesCreated++
		}
	}
	logger.Info("games done",
		"created", result.GamesCreated, "played", result.GamesPlayed,
		"forfeits", result.Forfeits, "rainouts", result.Rainouts)

	logger.Info("Phase 4/4: computing standings...")
	calc := league.NewCalculator(st)
	rows, err := calc.Standings(ctx, season.ID)
	if err != nil {
		return result, fmt.Errorf("compute standings: %w", err)
	}
	if err := st.SaveStandings(ctx, season.ID, rows); err != nil {
		return result, fmt.Errorf("save standings: %w", err)
	}
	result.StandingsRows = len(rows)

	logger.Info("demo season complete", "summary", result.Summary())
	return result, nil
}

// --------------------------------------------------------------------------
// Schedule generation
// --------------------------------------------------------------------------

// pairing is one scheduled matchup.
type pairing struct {
	home, away int
}

// doubleRoundRobin builds a home-and-away schedule with the circle
// method: the first team stays fixed while the rest rotate one position
// per round. Odd leagues get a placeholder that gives one team a bye
// each round. The second half repeats the first with home and away
// swapped.
func doubleRoundRobin(teamIDs []int) [][]pairing {
	ids := make([]int, len(teamIDs))
	copy(ids, teamIDs)
	if len(ids)%2 != 0 {
		ids = append(ids, 0)
	}
	n := len(ids)

	firstHalf := make([][]pairing, n-1)
	for r := 0; r < n-1; r++ {
		var round []pairing
		for j := 0; j < n/2; j++ {
			home, away := ids[j], ids[n-1-j]
			if home != 0 && away != 0 {
				round = append(round, pairing{home: home, away: away})
			}
		}
		firstHalf[r] = round

		last := ids[n-1]
		copy(ids[2:], ids[1:n-1])
		ids[1] = last
	}

	season := make([][]pairing, 0, 2*len(firstHalf))
	season = append(season, firstHalf...)
	for _, round := range firstHalf {
		swapped := make([]pairing, len(round))
		for i, p := range round {
			swapped[i] = pairing{home: p.away, away: p.home}
		}
		season = append(season, swapped)
	}
	return season
}

// --------------------------------------------------------------------------
// Fabricated data
// --------------------------------------------------------------------------

// playResult fills in a finished game. Roughly one game in twelve is
// rained out and one in fifteen is forfeited; the rest get played
// scores.
func playResult(f *gofakeit.Faker, g *league.Game, result *Result) {
	switch {
	case f.IntRange(1, 12) == 1:
		c := league.CancelWeather
		g.Cancellation = &c
		result.Rainouts++
	case f.IntRange(1, 15) == 1:
		home, away := league.ForfeitScore, 0
		if f.IntRange(0, 1) == 1 {
			home, away = away, home
		}
		c := league.CancelForfeit
		g.HomeScore, g.AwayScore = &home, &away
		g.Cancellation = &c
		result.Forfeits++
		result.GamesPlayed++
	default:
		home, away := f.IntRange(0, 15), f.IntRange(0, 15)
		g.HomeScore, g.AwayScore = &home, &away
		result.GamesPlayed++
	}
}

// teamName invents names like "Orillia Otters".
func teamName(f *gofakeit.Faker) string {
	return f.City() + " " + pluralize(capitalize(f.Animal()))
}

// seasonTitle names a season after the quarter its first game lands in.
func seasonTitle(start time.Time) string {
	var part string
	switch start.Month() {
	case time.March, time.April, time.May:
		part = "Spring"
	case time.June, time.July, time.August:
		part = "Summer"
	case time.September, time.October, time.November:
		part = "Fall"
	default:
		part = "Winter"
	}
	return fmt.Sprintf("%s %d", part, start.Year())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func pluralize(s string) string {
	switch {
	case s == "":
		return s
	case strings.HasSuffix(s, "s"), strings.HasSuffix(s, "x"),
		strings.HasSuffix(s, "ch"), strings.HasSuffix(s, "sh"):
		return s + "es"
	case len(s) > 1 && strings.HasSuffix(s, "y") && !strings.ContainsAny(s[len(s)-2:len(s)-1], "aeiou"):
		return s[:len(s)-1] + "ies"
	default:
		return s + "s"
	}
}
