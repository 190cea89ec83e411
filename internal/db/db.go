// Package db provides a pgxpool-based connection pool with prepared statement
// registration, schema migration, and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thamesford/slopitch-standings/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	return newPool(ctx, cfg, true)
}

// NewBare creates a pool without prepared statements. Migrations use it
// because statement registration requires the schema to already exist.
func NewBare(ctx context.Context, cfg *config.Config) (*Pool, error) {
	return newPool(ctx, cfg, false)
}

func newPool(ctx context.Context, cfg *config.Config, register bool) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	if register {
		// Register prepared statements on every new connection.
		poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			return registerPreparedStatements(ctx, conn)
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

const gameColumns = "id, season_id, location_id, home_team_id, away_team_id, starts_at, home_score, away_score, cancellation"

// registerPreparedStatements registers all statements the API and ingestion
// layers use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Teams
		"list_teams": "SELECT id, name FROM teams ORDER BY name, id",
		"team_by_id": "SELECT id, name FROM teams WHERE id = $1",

		// Locations
		"list_locations": "SELECT id, name FROM locations ORDER BY name, id",

		// Seasons
		"list_seasons":   "SELECT id, title, starts FROM seasons ORDER BY starts DESC, id DESC",
		"season_by_id":   "SELECT id, title, starts FROM seasons WHERE id = $1",
		"current_season": "SELECT id, title, starts FROM seasons WHERE starts <= $1 ORDER BY starts DESC, id DESC LIMIT 1",
		"team_seasons": "SELECT DISTINCT s.id, s.title, s.starts FROM seasons s" +
			" JOIN games g ON g.season_id = s.id" +
			" WHERE g.home_team_id = $1 OR g.away_team_id = $1" +
			" ORDER BY s.starts DESC, s.id DESC",

		// Games. A zero season parameter means no season filter.
		"season_games": "SELECT " + gameColumns + " FROM games WHERE season_id = $1 ORDER BY starts_at DESC, id DESC",
		"upcoming_games": "SELECT " + gameColumns + " FROM games" +
			" WHERE starts_at >= $1 ORDER BY starts_at, id LIMIT $2",
		"latest_scores": "SELECT " + gameColumns + " FROM games" +
			" WHERE starts_at < $1 AND home_score IS NOT NULL AND away_score IS NOT NULL" +
			" ORDER BY starts_at DESC, id DESC LIMIT $2",
		"completed_team_games": "SELECT " + gameColumns + " FROM games" +
			" WHERE (home_team_id = $1 OR away_team_id = $1)" +
			" AND home_score IS NOT NULL AND away_score IS NOT NULL" +
			" AND ($2 = 0 OR season_id = $2)" +
			" ORDER BY starts_at DESC, id DESC",
		"completed_season_games": "SELECT " + gameColumns + " FROM games" +
			" WHERE home_score IS NOT NULL AND away_score IS NOT NULL" +
			" AND ($1 = 0 OR season_id = $1)" +
			" ORDER BY starts_at, id",

		// Standings snapshots
		"saved_standings": "SELECT team_id, season_id, wins, losses, ties, runs_scored, runs_against," +
			" capped_run_diff, rank, tie_reason, tie_symbol FROM team_records WHERE season_id = $1 ORDER BY rank",
		"clear_standings": "DELETE FROM team_records WHERE season_id = $1",
		"upsert_team_record": "INSERT INTO team_records (team_id, season_id, wins, losses, ties," +
			" runs_scored, runs_against, capped_run_diff, rank, tie_reason, tie_symbol, computed_at)" +
			" VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())" +
			" ON CONFLICT (team_id, season_id) DO UPDATE SET" +
			" wins = EXCLUDED.wins, losses = EXCLUDED.losses, ties = EXCLUDED.ties," +
			" runs_scored = EXCLUDED.runs_scored, runs_against = EXCLUDED.runs_against," +
			" capped_run_diff = EXCLUDED.capped_run_diff, rank = EXCLUDED.rank," +
			" tie_reason = EXCLUDED.tie_reason, tie_symbol = EXCLUDED.tie_symbol," +
			" computed_at = EXCLUDED.computed_at",

		// Dump import: rows keep their original IDs.
		"upsert_team":     "INSERT INTO teams (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name",
		"upsert_location": "INSERT INTO locations (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name",
		"upsert_season": "INSERT INTO seasons (id, title, starts) VALUES ($1, $2, $3)" +
			" ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, starts = EXCLUDED.starts",
		"upsert_game": "INSERT INTO games (" + gameColumns + ")" +
			" VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)" +
			" ON CONFLICT (id) DO UPDATE SET" +
			" season_id = EXCLUDED.season_id, location_id = EXCLUDED.location_id," +
			" home_team_id = EXCLUDED.home_team_id, away_team_id = EXCLUDED.away_team_id," +
			" starts_at = EXCLUDED.starts_at, home_score = EXCLUDED.home_score," +
			" away_score = EXCLUDED.away_score, cancellation = EXCLUDED.cancellation",

		// Demo seeding: IDs come from the identity sequences.
		"insert_team":     "INSERT INTO teams (name) VALUES ($1) RETURNING id",
		"insert_location": "INSERT INTO locations (name) VALUES ($1) RETURNING id",
		"insert_season":   "INSERT INTO seasons (title, starts) VALUES ($1, $2) RETURNING id",
		"insert_game": "INSERT INTO games (season_id, location_id, home_team_id, away_team_id," +
			" starts_at, home_score, away_score, cancellation)" +
			" VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
