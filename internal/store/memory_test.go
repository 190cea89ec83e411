package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thamesford/slopitch-standings/internal/league"
)

var storeClock = time.Date(2026, 6, 20, 19, 0, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func seedGame(t *testing.T, m *Memory, season, home, away int, homeScore, awayScore *int, startsAt time.Time) league.Game {
	t.Helper()
	g, err := m.InsertGame(context.Background(), league.Game{
		SeasonID:   season,
		LocationID: 1,
		HomeTeamID: home,
		AwayTeamID: away,
		StartsAt:   startsAt,
		HomeScore:  homeScore,
		AwayScore:  awayScore,
	})
	if err != nil {
		t.Fatalf("insert game: %v", err)
	}
	return g
}

func TestMemoryInsertAllocatesIDs(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	first, err := m.InsertTeam(ctx, "Bobcaygeon Brewers")
	if err != nil {
		t.Fatalf("insert team: %v", err)
	}
	second, err := m.InsertTeam(ctx, "Lindsay Loggers")
	if err != nil {
		t.Fatalf("insert team: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("allocated IDs = %d, %d, want 1, 2", first.ID, second.ID)
	}
}

func TestMemoryUpsertKeepsExplicitID(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.UpsertTeam(ctx, Team{ID: 40, Name: "Fenelon Falls"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := m.GetTeam(ctx, 40)
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if got.Name != "Fenelon Falls" {
		t.Fatalf("name = %q, want %q", got.Name, "Fenelon Falls")
	}

	// Later inserts must not collide with imported IDs.
	next, err := m.InsertTeam(ctx, "New Entry")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if next.ID != 41 {
		t.Fatalf("next ID = %d, want 41", next.ID)
	}
}

func TestMemoryGetTeamNotFound(t *testing.T) {
	m := NewMemory()

	_, err := m.GetTeam(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryListTeamsOrdersByName(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for _, name := range []string{"Wolves", "Badgers", "Otters"} {
		if _, err := m.InsertTeam(ctx, name); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	teams, err := m.ListTeams(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Badgers", "Otters", "Wolves"}
	for i, name := range want {
		if teams[i].Name != name {
			t.Fatalf("teams[%d] = %q, want %q", i, teams[i].Name, name)
		}
	}
}

func TestMemoryCurrentSeason(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.CurrentSeason(ctx, storeClock); !errors.Is(err, ErrNotFound) {
		t.Fatalf("no seasons: err = %v, want ErrNotFound", err)
	}

	past, _ := m.InsertSeason(ctx, "Summer 2025", storeClock.AddDate(-1, 0, 0))
	current, _ := m.InsertSeason(ctx, "Summer 2026", storeClock.AddDate(0, -1, 0))
	if _, err := m.InsertSeason(ctx, "Fall 2026", storeClock.AddDate(0, 2, 0)); err != nil {
		t.Fatalf("insert season: %v", err)
	}

	got, err := m.CurrentSeason(ctx, storeClock)
	if err != nil {
		t.Fatalf("current season: %v", err)
	}
	if got.ID != current.ID {
		t.Fatalf("current season = %q, want %q", got.Title, current.Title)
	}

	seasons, err := m.ListSeasons(ctx)
	if err != nil {
		t.Fatalf("list seasons: %v", err)
	}
	if len(seasons) != 3 || seasons[2].ID != past.ID {
		t.Fatalf("seasons not listed newest first: %+v", seasons)
	}
}

func TestMemoryGameQueries(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	played := seedGame(t, m, 1, 1, 2, intPtr(5), intPtr(3), storeClock.AddDate(0, 0, -7))
	older := seedGame(t, m, 1, 2, 1, intPtr(2), intPtr(2), storeClock.AddDate(0, 0, -14))
	upcoming := seedGame(t, m, 1, 1, 2, nil, nil, storeClock.AddDate(0, 0, 7))
	otherSeason := seedGame(t, m, 2, 1, 2, intPtr(9), intPtr(1), storeClock.AddDate(0, 0, -1))

	games, err := m.SeasonGames(ctx, 1)
	if err != nil {
		t.Fatalf("season games: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("season 1 games = %d, want 3", len(games))
	}
	if games[0].ID != upcoming.ID || games[2].ID != older.ID {
		t.Fatal("season games not ordered most recent first")
	}

	completed, err := m.CompletedSeasonGames(ctx, 1)
	if err != nil {
		t.Fatalf("completed season games: %v", err)
	}
	if len(completed) != 2 {
		t.Fatalf("completed games = %d, want 2", len(completed))
	}
	if completed[0].ID != older.ID || completed[1].ID != played.ID {
		t.Fatal("completed games not ordered oldest first")
	}

	all, err := m.CompletedSeasonGames(ctx, 0)
	if err != nil {
		t.Fatalf("all completed games: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all-season completed games = %d, want 3", len(all))
	}

	teamGames, err := m.CompletedTeamGames(ctx, 1, 2)
	if err != nil {
		t.Fatalf("completed team games: %v", err)
	}
	if len(teamGames) != 1 || teamGames[0].ID != otherSeason.ID {
		t.Fatalf("team games in season 2 = %+v, want only game %d", teamGames, otherSeason.ID)
	}

	next, err := m.UpcomingGames(ctx, storeClock, 4)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(next) != 1 || next[0].ID != upcoming.ID {
		t.Fatalf("upcoming games = %+v, want only game %d", next, upcoming.ID)
	}

	latest, err := m.LatestScores(ctx, storeClock, 1)
	if err != nil {
		t.Fatalf("latest scores: %v", err)
	}
	if len(latest) != 1 || latest[0].ID != otherSeason.ID {
		t.Fatalf("latest scores = %+v, want only game %d", latest, otherSeason.ID)
	}
}

func TestMemoryTeamSeasons(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	s1, _ := m.InsertSeason(ctx, "Summer 2025", storeClock.AddDate(-1, 0, 0))
	s2, _ := m.InsertSeason(ctx, "Summer 2026", storeClock.AddDate(0, -1, 0))
	if _, err := m.InsertSeason(ctx, "Unplayed", storeClock.AddDate(0, 1, 0)); err != nil {
		t.Fatalf("insert season: %v", err)
	}

	seedGame(t, m, s1.ID, 1, 2, intPtr(4), intPtr(2), storeClock.AddDate(-1, 0, 7))
	seedGame(t, m, s1.ID, 2, 1, intPtr(3), intPtr(3), storeClock.AddDate(-1, 0, 14))
	seedGame(t, m, s2.ID, 1, 3, nil, nil, storeClock.AddDate(0, 0, 3))

	seasons, err := m.TeamSeasons(ctx, 1)
	if err != nil {
		t.Fatalf("team seasons: %v", err)
	}
	if len(seasons) != 2 {
		t.Fatalf("team seasons = %d, want 2", len(seasons))
	}
	if seasons[0].ID != s2.ID || seasons[1].ID != s1.ID {
		t.Fatal("team seasons not ordered newest first")
	}

	seasons, err = m.TeamSeasons(ctx, 2)
	if err != nil {
		t.Fatalf("team seasons: %v", err)
	}
	if len(seasons) != 1 || seasons[0].ID != s1.ID {
		t.Fatalf("team 2 seasons = %+v, want only season %d", seasons, s1.ID)
	}
}

func TestMemorySaveStandingsReplacesSnapshot(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	first := []league.Standing{
		{TeamRecord: league.TeamRecord{TeamID: 1, SeasonID: 1, Wins: 2}, Rank: 1},
		{TeamRecord: league.TeamRecord{TeamID: 2, SeasonID: 1, Losses: 2}, Rank: 2},
	}
	if err := m.SaveStandings(ctx, 1, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := []league.Standing{
		{TeamRecord: league.TeamRecord{TeamID: 2, SeasonID: 1, Wins: 3}, Rank: 1},
	}
	if err := m.SaveStandings(ctx, 1, second); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := m.SavedStandings(ctx, 1)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(got) != 1 || got[0].TeamID != 2 {
		t.Fatalf("snapshot = %+v, want single row for team 2", got)
	}

	// Mutating the returned slice must not touch the stored snapshot.
	got[0].Rank = 99
	again, err := m.SavedStandings(ctx, 1)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if again[0].Rank != 1 {
		t.Fatalf("stored rank = %d, want 1", again[0].Rank)
	}
}
