// Package importer loads a PostgreSQL text-format dump of the legacy
// league database into the store.
//
// A dump carries one COPY block per table:
//
//	COPY public.core_game (id, season_id, ...) FROM stdin;
//	41	3	1	...	\N
//	\.
//
// Rows are tab-separated, \N is NULL, and a lone \. ends the block.
// Columns are resolved by name from the COPY header, so the importer is
// indifferent to column order and to columns it does not load.
package importer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/thamesford/slopitch-standings/internal/league"
	"github.com/thamesford/slopitch-standings/internal/store"
)

// Run parses a dump and loads its league tables in foreign-key order.
// Tables outside the league schema (users, players, news) are skipped.
// Per-row problems are collected on the Result; only an unreadable dump
// returns an error.
func Run(ctx context.Context, st store.Writer, r io.Reader, logger *slog.Logger) (Result, error) {
	var result Result
	if logger == nil {
		logger = slog.Default()
	}

	sections, err := parseDump(r)
	if err != nil {
		return result, err
	}
	logger.Info("dump parsed", "tables", len(sections))

	importLocations(ctx, st, sections["core_location"], &result)
	logger.Info("locations done", "count", result.Locations)

	importSeasons(ctx, st, sections["core_season"], &result)
	logger.Info("seasons done", "count", result.Seasons)

	importTeams(ctx, st, sections["core_team"], &result)
	logger.Info("teams done", "count", result.Teams)

	importGames(ctx, st, sections["core_game"], &result)
	logger.Info("games done", "count", result.Games)

	logger.Info("import complete", "summary", result.Summary())
	return result, nil
}

// --------------------------------------------------------------------------
// Dump parsing
// --------------------------------------------------------------------------

var copyHeader = regexp.MustCompile(`^COPY (?:public\.)?"?(\w+)"? \(([^)]+)\) FROM stdin;$`)

// section is one COPY block: the table's columns in dump order and its
// rows. A nil cell was \N.
type section struct {
	table   string
	columns []string
	rows    [][]*string
}

// parseDump collects every COPY section of a dump keyed by table name.
func parseDump(r io.Reader) (map[string]section, error) {
	sections := make(map[string]section)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var cur *section
	for sc.Scan() {
		line := sc.Text()
		if cur == nil {
			m := copyHeader.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			cols := strings.Split(m[2], ",")
			for i := range cols {
				cols[i] = strings.Trim(strings.TrimSpace(cols[i]), `"`)
			}
			cur = &section{table: m[1], columns: cols}
			continue
		}
		if line == `\.` {
			sections[cur.table] = *cur
			cur = nil
			continue
		}
		cells := strings.Split(line, "\t")
		row := make([]*string, len(cells))
		for i, c := range cells {
			if c == `\N` {
				continue
			}
			v := unescape(c)
			row[i] = &v
		}
		cur.rows = append(cur.rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}
	if cur != nil {
		return nil, fmt.Errorf("unterminated COPY section for %s", cur.table)
	}
	return sections, nil
}

// unescape reverses the COPY text-format escapes. pg_dump only emits
// backslash sequences for control characters and the backslash itself.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func (s section) col(name string) int {
	for i, c := range s.columns {
		if c == name {
			return i
		}
	}
	return -1
}

// require fails once per section when the header is missing a column the
// loader reads, instead of once per row.
func (s section) require(cols ...string) error {
	for _, c := range cols {
		if s.col(c) < 0 {
			return fmt.Errorf("dump is missing column %q", c)
		}
	}
	return nil
}

// cell returns the named column of a row, nil when the value was NULL or
// the row is short.
func (s section) cell(row []*string, name string) *string {
	i := s.col(name)
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

// --------------------------------------------------------------------------
// Cell conversions
// --------------------------------------------------------------------------

func intValue(v *string) (int, error) {
	if v == nil {
		return 0, fmt.Errorf("unexpected NULL")
	}
	return strconv.Atoi(strings.TrimSpace(*v))
}

func optIntValue(v *string) (*int, error) {
	if v == nil {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*v))
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func strValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// timeLayouts covers timestamptz, timestamp, and date columns as pg_dump
// writes them. Fractional seconds parse under any of these.
var timeLayouts = []string{
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func timeValue(v *string) (time.Time, error) {
	if v == nil {
		return time.Time{}, fmt.Errorf("unexpected NULL")
	}
	s := strings.TrimSpace(*v)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// --------------------------------------------------------------------------
// Table loaders
// --------------------------------------------------------------------------

func importLocations(ctx context.Context, st store.Writer, sec section, result *Result) {
	if len(sec.rows) == 0 {
		return
	}
	if err := sec.require("id", "name"); err != nil {
		result.AddErrorf("core_location: %v", err)
		return
	}
	for _, row := range sec.rows {
		id, err := intValue(sec.cell(row, "id"))
		if err != nil {
			result.AddErrorf("location id: %v", err)
			continue
		}
		l := store.Location{ID: id, Name: strValue(sec.cell(row, "name"))}
		if err := st.UpsertLocation(ctx, l); err != nil {
			result.AddErrorf("upsert location %d: %v", id, err)
			continue
		}
		result.Locations++
	}
}

func importSeasons(ctx context.Context, st store.Writer, sec section, result *Result) {
	if len(sec.rows) == 0 {
		return
	}
	if err := sec.require("id", "title", "starts"); err != nil {
		result.AddErrorf("core_season: %v", err)
		return
	}
	for _, row := range sec.rows {
		id, err := intValue(sec.cell(row, "id"))
		if err != nil {
			result.AddErrorf("season id: %v", err)
			continue
		}
		starts, err := timeValue(sec.cell(row, "starts"))
		if err != nil {
			result.AddErrorf("season %d starts: %v", id, err)
			continue
		}
		s := store.Season{ID: id, Title: strValue(sec.cell(row, "title")), Starts: starts}
		if err := st.UpsertSeason(ctx, s); err != nil {
			result.AddErrorf("upsert season %d: %v", id, err)
			continue
		}
		result.Seasons++
	}
}

func importTeams(ctx context.Context, st store.Writer, sec section, result *Result) {
	if len(sec.rows) == 0 {
		return
	}
	if err := sec.require("id", "name"); err != nil {
		result.AddErrorf("core_team: %v", err)
		return
	}
	for _, row := range sec.rows {
		id, err := intValue(sec.cell(row, "id"))
		if err != nil {
			result.AddErrorf("team id: %v", err)
			continue
		}
		t := store.Team{ID: id, Name: strValue(sec.cell(row, "name"))}
		if err := st.UpsertTeam(ctx, t); err != nil {
			result.AddErrorf("upsert team %d: %v", id, err)
			continue
		}
		result.Teams++
	}
}

func importGames(ctx context.Context, st store.Writer, sec section, result *Result) {
	if len(sec.rows) == 0 {
		return
	}
	err := sec.require(
		"id", "season_id", "location_id", "home_team_id", "away_team_id",
		"starts_at", "home_score", "away_score", "cancellation",
	)
	if err != nil {
		result.AddErrorf("core_game: %v", err)
		return
	}
	for _, row := range sec.rows {
		g, err := gameFromRow(sec, row)
		if err != nil {
			result.AddErrorf("game row: %v", err)
			continue
		}
		if err := st.UpsertGame(ctx, g); err != nil {
			result.AddErrorf("upsert game %d: %v", g.ID, err)
			continue
		}
		result.Games++
	}
}

// gameFromRow builds a Game from one core_game dump row.
func gameFromRow(sec section, row []*string) (league.Game, error) {
	var g league.Game
	var err error
	if g.ID, err = intValue(sec.cell(row, "id")); err != nil {
		return g, fmt.Errorf("id: %w", err)
	}
	if g.SeasonID, err = intValue(sec.cell(row, "season_id")); err != nil {
		return g, fmt.Errorf("game %d season_id: %w", g.ID, err)
	}
	if g.LocationID, err = intValue(sec.cell(row, "location_id")); err != nil {
		return g, fmt.Errorf("game %d location_id: %w", g.ID, err)
	}
	if g.HomeTeamID, err = intValue(sec.cell(row, "home_team_id")); err != nil {
		return g, fmt.Errorf("game %d home_team_id: %w", g.ID, err)
	}
	if g.AwayTeamID, err = intValue(sec.cell(row, "away_team_id")); err != nil {
		return g, fmt.Errorf("game %d away_team_id: %w", g.ID, err)
	}
	if g.StartsAt, err = timeValue(sec.cell(row, "starts_at")); err != nil {
		return g, fmt.Errorf("game %d starts_at: %w", g.ID, err)
	}
	if g.HomeScore, err = optIntValue(sec.cell(row, "home_score")); err != nil {
		return g, fmt.Errorf("game %d home_score: %w", g.ID, err)
	}
	if g.AwayScore, err = optIntValue(sec.cell(row, "away_score")); err != nil {
		return g, fmt.Errorf("game %d away_score: %w", g.ID, err)
	}
	if g.Cancellation, err = optIntValue(sec.cell(row, "cancellation")); err != nil {
		return g, fmt.Errorf("game %d cancellation: %w", g.ID, err)
	}
	return g, nil
}
