// Package store defines the persistence interface for league data and
// provides Postgres and in-memory implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/thamesford/slopitch-standings/internal/league"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Team is a league team.
type Team struct {
	ID   int
	Name string
}

// Location is a diamond or park where games are played.
type Location struct {
	ID   int
	Name string
}

// Season is a playing season. Starts is the first day of play.
type Season struct {
	ID     int
	Title  string
	Starts time.Time
}

// --------------------------------------------------------------------------
// Interfaces
// --------------------------------------------------------------------------

// Reader serves all read paths of the API and the CLI.
type Reader interface {
	league.GameSource

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// ListTeams returns every team ordered by name.
	ListTeams(ctx context.Context) ([]Team, error)
	// GetTeam returns one team or ErrNotFound.
	GetTeam(ctx context.Context, id int) (Team, error)

	// ListLocations returns every location ordered by name.
	ListLocations(ctx context.Context) ([]Location, error)

	// ListSeasons returns every season, newest first.
	ListSeasons(ctx context.Context) ([]Season, error)
	// GetSeason returns one season or ErrNotFound.
	GetSeason(ctx context.Context, id int) (Season, error)
	// CurrentSeason returns the latest season that has started by now,
	// or ErrNotFound when none has.
	CurrentSeason(ctx context.Context, now time.Time) (Season, error)
	// TeamSeasons returns the seasons a team has games in, newest first.
	TeamSeasons(ctx context.Context, teamID int) ([]Season, error)

	// SeasonGames returns every game of a season, most recent first.
	SeasonGames(ctx context.Context, seasonID int) ([]league.Game, error)
	// UpcomingGames returns games starting at or after now in start order.
	UpcomingGames(ctx context.Context, now time.Time, limit int) ([]league.Game, error)
	// LatestScores returns the most recently completed games before now.
	LatestScores(ctx context.Context, now time.Time, limit int) ([]league.Game, error)

	// SavedStandings returns the persisted standings snapshot for a season
	// in rank order.
	SavedStandings(ctx context.Context, seasonID int) ([]league.Standing, error)
}

// Writer covers imports, demo seeding, and standings snapshots.
type Writer interface {
	// Upserts keep the given IDs. Used by the dump importer.
	UpsertTeam(ctx context.Context, t Team) error
	UpsertLocation(ctx context.Context, l Location) error
	UpsertSeason(ctx context.Context, s Season) error
	UpsertGame(ctx context.Context, g league.Game) error

	// Inserts allocate new IDs. Used by the demo seeder.
	InsertTeam(ctx context.Context, name string) (Team, error)
	InsertLocation(ctx context.Context, name string) (Location, error)
	InsertSeason(ctx context.Context, title string, starts time.Time) (Season, error)
	InsertGame(ctx context.Context, g league.Game) (league.Game, error)

	// SaveStandings replaces the persisted snapshot for a season.
	SaveStandings(ctx context.Context, seasonID int, rows []league.Standing) error
}

// Store combines the read and write sides.
type Store interface {
	Reader
	Writer
}
