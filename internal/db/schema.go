package db

import (
	"context"
	"fmt"
)

// schemaStatements creates the full schema. Statements are idempotent so
// the migration can run against an existing database.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id   INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		name TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS locations (
		id   INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		name TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS seasons (
		id     INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		title  TEXT NOT NULL,
		starts DATE NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS games (
		id           INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		season_id    INTEGER NOT NULL REFERENCES seasons(id) ON DELETE CASCADE,
		location_id  INTEGER NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
		home_team_id INTEGER NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		away_team_id INTEGER NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		starts_at    TIMESTAMPTZ NOT NULL,
		home_score   INTEGER CHECK (home_score >= 0),
		away_score   INTEGER CHECK (away_score >= 0),
		cancellation INTEGER CHECK (cancellation IN (1, 2, 3))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_games_season_starts ON games (season_id, starts_at)`,
	`CREATE INDEX IF NOT EXISTS idx_games_home_team ON games (home_team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_games_away_team ON games (away_team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_games_starts_at ON games (starts_at)`,

	`CREATE TABLE IF NOT EXISTS team_records (
		team_id         INTEGER NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		season_id       INTEGER NOT NULL REFERENCES seasons(id) ON DELETE CASCADE,
		wins            INTEGER NOT NULL DEFAULT 0,
		losses          INTEGER NOT NULL DEFAULT 0,
		ties            INTEGER NOT NULL DEFAULT 0,
		runs_scored     INTEGER NOT NULL DEFAULT 0,
		runs_against    INTEGER NOT NULL DEFAULT 0,
		capped_run_diff INTEGER NOT NULL DEFAULT 0,
		rank            INTEGER NOT NULL,
		tie_reason      TEXT NOT NULL DEFAULT '',
		tie_symbol      TEXT NOT NULL DEFAULT '',
		computed_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (team_id, season_id)
	)`,
}

// Migrate creates any missing tables and indexes. Run it on a pool built
// with NewBare.
func (p *Pool) Migrate(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := p.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	return nil
}

// SyncSequences advances each identity sequence past the highest present
// ID. A dump import writes explicit IDs, which leaves the sequences
// behind and would make later inserts collide.
func (p *Pool) SyncSequences(ctx context.Context) error {
	for _, table := range []string{"teams", "locations", "seasons", "games"} {
		stmt := fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT COALESCE(MAX(id), 0) + 1 FROM %s), false)`,
			table, table,
		)
		if _, err := p.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("sync %s sequence: %w", table, err)
		}
	}
	return nil
}
