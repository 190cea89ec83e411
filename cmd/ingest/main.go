// Command ingest is the Slo-Pitch Standings data CLI.
//
// Usage:
//
//	slopitch-ingest migrate
//	slopitch-ingest import dump.sql
//	slopitch-ingest demo --teams 6 --seed 42
//	slopitch-ingest standings --season 3
//	slopitch-ingest recompute
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/thamesford/slopitch-standings/internal/config"
	"github.com/thamesford/slopitch-standings/internal/db"
	"github.com/thamesford/slopitch-standings/internal/demo"
	"github.com/thamesford/slopitch-standings/internal/importer"
	"github.com/thamesford/slopitch-standings/internal/league"
	"github.com/thamesford/slopitch-standings/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "slopitch-ingest",
		Short: "Slo-Pitch Standings data CLI",
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(importCmd())
	root.AddCommand(demoCmd())
	root.AddCommand(standingsCmd())
	root.AddCommand(recomputeCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create any missing tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			// Prepared statements need the schema, so migration runs on
			// a bare pool.
			pool, err := db.NewBare(ctx, cfg)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			if err := pool.Migrate(ctx); err != nil {
				return err
			}
			logger.Info("Migration complete")
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// import command
// --------------------------------------------------------------------------

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dump.sql>",
		Short: "Import a PostgreSQL text dump of the legacy database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open dump: %w", err)
				}
				defer f.Close()

				start := time.Now()
				result, err := importer.Run(ctx, store.NewPostgres(pool), f, logger)
				if err != nil {
					return err
				}
				// Imported rows keep their IDs; move the sequences past them.
				if err := pool.SyncSequences(ctx); err != nil {
					return err
				}
				logger.Info("Import finished",
					"duration", time.Since(start).Round(time.Millisecond),
					"summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("import error", "error", e)
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// demo command
// --------------------------------------------------------------------------

func demoCmd() *cobra.Command {
	var teams int
	var seed int64
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Seed a fabricated demo season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				start := time.Now()
				result, err := demo.Run(ctx, store.NewPostgres(pool), demo.Config{Teams: teams, Seed: seed}, logger)
				if err != nil {
					return err
				}
				logger.Info("Demo season finished",
					"duration", time.Since(start).Round(time.Millisecond),
					"summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("demo error", "error", e)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&teams, "teams", demo.DefaultTeams, "Number of teams")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 = random)")
	return cmd
}

// --------------------------------------------------------------------------
// standings command
// --------------------------------------------------------------------------

func standingsCmd() *cobra.Command {
	var seasonID int
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Compute and print a season's standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				st := store.NewPostgres(pool)
				season, err := resolveSeason(ctx, st, seasonID)
				if err != nil {
					return err
				}
				rows, err := league.NewCalculator(st).Standings(ctx, season.ID)
				if err != nil {
					return fmt.Errorf("compute standings: %w", err)
				}
				names, err := teamNames(ctx, st)
				if err != nil {
					return err
				}
				printStandings(season.Title, rows, names)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&seasonID, "season", 0, "Season ID (0 = current)")
	return cmd
}

// printStandings writes the ranked table to stdout with the tie-break
// legend underneath.
func printStandings(title string, rows []league.Standing, names map[int]string) {
	fmt.Printf("%s\n\n", title)
	fmt.Printf("%4s  %-28s %3s %3s %3s %3s %4s %6s %4s %4s %5s\n",
		"Rank", "Team", "GP", "W", "L", "T", "Pts", "Pct", "RS", "RA", "Diff")
	for i := range rows {
		row := &rows[i]
		name := names[row.TeamID]
		if name == "" {
			name = fmt.Sprintf("Team %d", row.TeamID)
		}
		if row.Symbol != "" {
			name += " " + row.Symbol
		}
		fmt.Printf("%4d  %-28s %3d %3d %3d %3d %4d %6.3f %4d %4d %+5d\n",
			row.Rank, name,
			row.GamesPlayed(), row.Wins, row.Losses, row.Ties,
			row.Points(), row.Percentage(),
			row.RunsScored, row.RunsAgainst, row.CappedRunDiff)
	}

	legend := league.TieExplanations(rows)
	if len(legend) == 0 {
		return
	}
	fmt.Println()
	order := []string{
		league.SymbolHeadToHead, league.SymbolRunDiff,
		league.SymbolRunsAgainst, league.SymbolRunsScored,
		league.SymbolManual,
	}
	for _, symbol := range order {
		if reason, ok := legend[symbol]; ok {
			fmt.Printf("%6s  %s\n", symbol, reason)
		}
	}
}

// --------------------------------------------------------------------------
// recompute command
// --------------------------------------------------------------------------

func recomputeCmd() *cobra.Command {
	var seasonID int
	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Recompute and persist standings snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				st := store.NewPostgres(pool)

				var seasons []store.Season
				if seasonID != 0 {
					season, err := st.GetSeason(ctx, seasonID)
					if err != nil {
						return fmt.Errorf("season %d: %w", seasonID, err)
					}
					seasons = []store.Season{season}
				} else {
					var err error
					if seasons, err = st.ListSeasons(ctx); err != nil {
						return fmt.Errorf("list seasons: %w", err)
					}
				}

				calc := league.NewCalculator(st)
				start := time.Now()
				for _, season := range seasons {
					rows, err := calc.Standings(ctx, season.ID)
					if err != nil {
						return fmt.Errorf("compute season %d: %w", season.ID, err)
					}
					if err := st.SaveStandings(ctx, season.ID, rows); err != nil {
						return fmt.Errorf("save season %d: %w", season.ID, err)
					}
					logger.Info("Standings saved",
						"season", season.ID, "title", season.Title, "rows", len(rows))
				}
				logger.Info("Recompute finished",
					"seasons", len(seasons),
					"duration", time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&seasonID, "season", 0, "Season ID (0 = all seasons)")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// resolveSeason maps a --season flag onto a concrete season, defaulting
// to the latest one that has started.
func resolveSeason(ctx context.Context, st store.Reader, seasonID int) (store.Season, error) {
	if seasonID != 0 {
		season, err := st.GetSeason(ctx, seasonID)
		if err != nil {
			return store.Season{}, fmt.Errorf("season %d: %w", seasonID, err)
		}
		return season, nil
	}
	season, err := st.CurrentSeason(ctx, time.Now())
	if err != nil {
		return store.Season{}, fmt.Errorf("no season has started yet: %w", err)
	}
	return season, nil
}

func teamNames(ctx context.Context, st store.Reader) (map[int]string, error) {
	teams, err := st.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	names := make(map[int]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names, nil
}

// run handles config loading, DB connection, and context cancellation.
func run(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
