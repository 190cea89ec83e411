package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/thamesford/slopitch-standings/internal/db"
	"github.com/thamesford/slopitch-standings/internal/league"
)

// Postgres implements Store on top of the pgx pool. All queries run
// through the prepared statements registered in the db package.
type Postgres struct {
	pool *db.Pool
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *db.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// --------------------------------------------------------------------------
// Reads
// --------------------------------------------------------------------------

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.HealthCheck(ctx)
}

func (p *Postgres) ListTeams(ctx context.Context) ([]Team, error) {
	rows, err := p.pool.Query(ctx, "list_teams")
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (p *Postgres) GetTeam(ctx context.Context, id int) (Team, error) {
	var t Team
	err := p.pool.QueryRow(ctx, "team_by_id", id).Scan(&t.ID, &t.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Team{}, ErrNotFound
	}
	if err != nil {
		return Team{}, fmt.Errorf("get team %d: %w", id, err)
	}
	return t, nil
}

func (p *Postgres) ListLocations(ctx context.Context) ([]Location, error) {
	rows, err := p.pool.Query(ctx, "list_locations")
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (p *Postgres) ListSeasons(ctx context.Context) ([]Season, error) {
	rows, err := p.pool.Query(ctx, "list_seasons")
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	return scanSeasons(rows)
}

func (p *Postgres) GetSeason(ctx context.Context, id int) (Season, error) {
	var s Season
	err := p.pool.QueryRow(ctx, "season_by_id", id).Scan(&s.ID, &s.Title, &s.Starts)
	if errors.Is(err, pgx.ErrNoRows) {
		return Season{}, ErrNotFound
	}
	if err != nil {
		return Season{}, fmt.Errorf("get season %d: %w", id, err)
	}
	return s, nil
}

func (p *Postgres) CurrentSeason(ctx context.Context, now time.Time) (Season, error) {
	var s Season
	err := p.pool.QueryRow(ctx, "current_season", now).Scan(&s.ID, &s.Title, &s.Starts)
	if errors.Is(err, pgx.ErrNoRows) {
		return Season{}, ErrNotFound
	}
	if err != nil {
		return Season{}, fmt.Errorf("current season: %w", err)
	}
	return s, nil
}

func (p *Postgres) TeamSeasons(ctx context.Context, teamID int) ([]Season, error) {
	rows, err := p.pool.Query(ctx, "team_seasons", teamID)
	if err != nil {
		return nil, fmt.Errorf("seasons for team %d: %w", teamID, err)
	}
	return scanSeasons(rows)
}

func (p *Postgres) SeasonGames(ctx context.Context, seasonID int) ([]league.Game, error) {
	rows, err := p.pool.Query(ctx, "season_games", seasonID)
	if err != nil {
		return nil, fmt.Errorf("games for season %d: %w", seasonID, err)
	}
	return scanGames(rows)
}

func (p *Postgres) UpcomingGames(ctx context.Context, now time.Time, limit int) ([]league.Game, error) {
	rows, err := p.pool.Query(ctx, "upcoming_games", now, limit)
	if err != nil {
		return nil, fmt.Errorf("upcoming games: %w", err)
	}
	return scanGames(rows)
}

func (p *Postgres) LatestScores(ctx context.Context, now time.Time, limit int) ([]league.Game, error) {
	rows, err := p.pool.Query(ctx, "latest_scores", now, limit)
	if err != nil {
		return nil, fmt.Errorf("latest scores: %w", err)
	}
	return scanGames(rows)
}

func (p *Postgres) CompletedTeamGames(ctx context.Context, teamID, seasonID int) ([]league.Game, error) {
	rows, err := p.pool.Query(ctx, "completed_team_games", teamID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("completed games for team %d: %w", teamID, err)
	}
	return scanGames(rows)
}

func (p *Postgres) CompletedSeasonGames(ctx context.Context, seasonID int) ([]league.Game, error) {
	rows, err := p.pool.Query(ctx, "completed_season_games", seasonID)
	if err != nil {
		return nil, fmt.Errorf("completed games for season %d: %w", seasonID, err)
	}
	return scanGames(rows)
}

func (p *Postgres) SavedStandings(ctx context.Context, seasonID int) ([]league.Standing, error) {
	rows, err := p.pool.Query(ctx, "saved_standings", seasonID)
	if err != nil {
		return nil, fmt.Errorf("saved standings for season %d: %w", seasonID, err)
	}
	defer rows.Close()

	var standings []league.Standing
	for rows.Next() {
		var s league.Standing
		if err := rows.Scan(
			&s.TeamID, &s.SeasonID, &s.Wins, &s.Losses, &s.Ties,
			&s.RunsScored, &s.RunsAgainst, &s.CappedRunDiff,
			&s.Rank, &s.Reason, &s.Symbol,
		); err != nil {
			return nil, fmt.Errorf("scan standings row: %w", err)
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

// --------------------------------------------------------------------------
// Writes
// --------------------------------------------------------------------------

func (p *Postgres) UpsertTeam(ctx context.Context, t Team) error {
	_, err := p.pool.Exec(ctx, "upsert_team", t.ID, t.Name)
	if err != nil {
		return fmt.Errorf("upsert team %d: %w", t.ID, err)
	}
	return nil
}

func (p *Postgres) UpsertLocation(ctx context.Context, l Location) error {
	_, err := p.pool.Exec(ctx, "upsert_location", l.ID, l.Name)
	if err != nil {
		return fmt.Errorf("upsert location %d: %w", l.ID, err)
	}
	return nil
}

func (p *Postgres) UpsertSeason(ctx context.Context, s Season) error {
	_, err := p.pool.Exec(ctx, "upsert_season", s.ID, s.Title, s.Starts)
	if err != nil {
		return fmt.Errorf("upsert season %d: %w", s.ID, err)
	}
	return nil
}

func (p *Postgres) UpsertGame(ctx context.Context, g league.Game) error {
	_, err := p.pool.Exec(ctx, "upsert_game",
		g.ID, g.SeasonID, g.LocationID, g.HomeTeamID, g.AwayTeamID,
		g.StartsAt, g.HomeScore, g.AwayScore, g.Cancellation)
	if err != nil {
		return fmt.Errorf("upsert game %d: %w", g.ID, err)
	}
	return nil
}

func (p *Postgres) InsertTeam(ctx context.Context, name string) (Team, error) {
	t := Team{Name: name}
	err := p.pool.QueryRow(ctx, "insert_team", name).Scan(&t.ID)
	if err != nil {
		return Team{}, fmt.Errorf("insert team: %w", err)
	}
	return t, nil
}

func (p *Postgres) InsertLocation(ctx context.Context, name string) (Location, error) {
	l := Location{Name: name}
	err := p.pool.QueryRow(ctx, "insert_location", name).Scan(&l.ID)
	if err != nil {
		return Location{}, fmt.Errorf("insert location: %w", err)
	}
	return l, nil
}

func (p *Postgres) InsertSeason(ctx context.Context, title string, starts time.Time) (Season, error) {
	s := Season{Title: title, Starts: starts}
	err := p.pool.QueryRow(ctx, "insert_season", title, starts).Scan(&s.ID)
	if err != nil {
		return Season{}, fmt.Errorf("insert season: %w", err)
	}
	return s, nil
}

func (p *Postgres) InsertGame(ctx context.Context, g league.Game) (league.Game, error) {
	err := p.pool.QueryRow(ctx, "insert_game",
		g.SeasonID, g.LocationID, g.HomeTeamID, g.AwayTeamID,
		g.StartsAt, g.HomeScore, g.AwayScore, g.Cancellation).Scan(&g.ID)
	if err != nil {
		return league.Game{}, fmt.Errorf("insert game: %w", err)
	}
	return g, nil
}

// SaveStandings replaces the season's snapshot in one transaction so a
// failed recompute never leaves a half-written table.
func (p *Postgres) SaveStandings(ctx context.Context, seasonID int, rows []league.Standing) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin standings save: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "clear_standings", seasonID); err != nil {
		return fmt.Errorf("clear standings for season %d: %w", seasonID, err)
	}
	for _, s := range rows {
		if _, err := tx.Exec(ctx, "upsert_team_record",
			s.TeamID, seasonID, s.Wins, s.Losses, s.Ties,
			s.RunsScored, s.RunsAgainst, s.CappedRunDiff,
			s.Rank, s.Reason, s.Symbol,
		); err != nil {
			return fmt.Errorf("save record for team %d: %w", s.TeamID, err)
		}
	}
	return tx.Commit(ctx)
}

// --------------------------------------------------------------------------
// Scan helpers
// --------------------------------------------------------------------------

func scanSeasons(rows pgx.Rows) ([]Season, error) {
	defer rows.Close()

	var seasons []Season
	for rows.Next() {
		var s Season
		if err := rows.Scan(&s.ID, &s.Title, &s.Starts); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		seasons = append(seasons, s)
	}
	return seasons, rows.Err()
}

func scanGames(rows pgx.Rows) ([]league.Game, error) {
	defer rows.Close()

	var games []league.Game
	for rows.Next() {
		var g league.Game
		if err := rows.Scan(
			&g.ID, &g.SeasonID, &g.LocationID, &g.HomeTeamID, &g.AwayTeamID,
			&g.StartsAt, &g.HomeScore, &g.AwayScore, &g.Cancellation,
		); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
