package league

import (
	"context"
	"errors"
	"testing"
)

func TestRecordFromGames(t *testing.T) {
	games := []Game{
		playedGame(1, thunder, lightning, 6, 4, 9), // win at home
		playedGame(1, storm, thunder, 3, 8, 6),     // win on the road
		playedGame(1, thunder, cyclones, 2, 5, 3),  // loss
	}

	rec := RecordFromGames(thunder, 1, games)

	if rec.Wins != 2 || rec.Losses != 1 || rec.Ties != 0 {
		t.Fatalf("record = %d-%d-%d, want 2-1-0", rec.Wins, rec.Losses, rec.Ties)
	}
	if rec.GamesPlayed() != 3 {
		t.Errorf("games played = %d, want 3", rec.GamesPlayed())
	}
	if rec.RunsScored != 16 {
		t.Errorf("runs scored = %d, want 16", rec.RunsScored)
	}
	if rec.RunsAgainst != 12 {
		t.Errorf("runs against = %d, want 12", rec.RunsAgainst)
	}
	if rec.CappedRunDiff != 4 {
		t.Errorf("capped run differential = %d, want 4", rec.CappedRunDiff)
	}
	if want := 2.0 / 3.0; rec.Percentage() != want {
		t.Errorf("percentage = %v, want %v", rec.Percentage(), want)
	}
}

func TestRecordSkipsIrrelevantGames(t *testing.T) {
	games := []Game{
		playedGame(1, thunder, lightning, 6, 4, 5),
		scheduledGame(1, thunder, storm, 2),      // no scores yet
		playedGame(1, storm, cyclones, 10, 2, 4), // thunder not involved
	}

	rec := RecordFromGames(thunder, 1, games)

	if rec.GamesPlayed() != 1 {
		t.Fatalf("games played = %d, want 1", rec.GamesPlayed())
	}
	if rec.Wins != 1 {
		t.Errorf("wins = %d, want 1", rec.Wins)
	}
}

func TestRecordFiltersBySeason(t *testing.T) {
	games := []Game{
		playedGame(1, thunder, lightning, 6, 4, 10),
		playedGame(2, thunder, storm, 2, 8, 3),
	}

	rec := RecordFromGames(thunder, 2, games)

	if rec.GamesPlayed() != 1 {
		t.Fatalf("games played = %d, want 1", rec.GamesPlayed())
	}
	if rec.Losses != 1 {
		t.Errorf("losses = %d, want 1", rec.Losses)
	}

	career := RecordFromGames(thunder, 0, games)
	if career.GamesPlayed() != 2 {
		t.Errorf("career games played = %d, want 2", career.GamesPlayed())
	}
}

func TestRecordPoints(t *testing.T) {
	rec := TeamRecord{Wins: 3, Losses: 2, Ties: 1}
	if rec.Points() != 7 {
		t.Fatalf("points = %d, want 7", rec.Points())
	}
}

func TestRecordPercentageCountsTiesAsHalfWins(t *testing.T) {
	games := []Game{
		playedGame(1, thunder, lightning, 5, 2, 2),
		playedGame(1, thunder, storm, 4, 4, 1),
	}

	rec := RecordFromGames(thunder, 1, games)

	if want := 0.75; rec.Percentage() != want {
		t.Fatalf("percentage = %v, want %v", rec.Percentage(), want)
	}
}

func TestRecordPercentageZeroGames(t *testing.T) {
	rec := TeamRecord{TeamID: thunder}
	if rec.Percentage() != 0.0 {
		t.Fatalf("percentage with no games = %v, want 0", rec.Percentage())
	}
}

func TestRunDifferentialCappedPerGame(t *testing.T) {
	games := []Game{
		playedGame(1, thunder, lightning, 20, 0, 1),
	}

	rec := RecordFromGames(thunder, 1, games)

	if rec.RunDifferential() != 20 {
		t.Errorf("raw differential = %d, want 20", rec.RunDifferential())
	}
	if rec.CappedRunDiff != 7 {
		t.Errorf("capped differential = %d, want 7", rec.CappedRunDiff)
	}
}

func TestRunDifferentialCapAppliesEachGame(t *testing.T) {
	games := []Game{
		playedGame(1, thunder, lightning, 15, 0, 2), // capped to +7
		playedGame(1, storm, thunder, 12, 0, 1),     // capped to -7
	}

	rec := RecordFromGames(thunder, 1, games)

	if rec.RunDifferential() != 3 {
		t.Errorf("raw differential = %d, want 3", rec.RunDifferential())
	}
	if rec.CappedRunDiff != 0 {
		t.Errorf("capped differential = %d, want 0", rec.CappedRunDiff)
	}
}

func TestForfeitCountsAsPlayedGame(t *testing.T) {
	g := playedGame(1, thunder, lightning, ForfeitScore, 0, 1)
	g.Cancellation = intPtr(CancelForfeit)

	winner := RecordFromGames(thunder, 1, []Game{g})
	if winner.Wins != 1 || winner.RunsScored != 7 || winner.RunsAgainst != 0 {
		t.Fatalf("forfeit winner = %d wins, %d-%d runs, want 1 win, 7-0 runs",
			winner.Wins, winner.RunsScored, winner.RunsAgainst)
	}
	if winner.CappedRunDiff != 7 {
		t.Errorf("forfeit capped differential = %d, want 7", winner.CappedRunDiff)
	}

	loser := RecordFromGames(lightning, 1, []Game{g})
	if loser.Losses != 1 || loser.CappedRunDiff != -7 {
		t.Fatalf("forfeit loser = %d losses, %d capped, want 1 loss, -7",
			loser.Losses, loser.CappedRunDiff)
	}
}

func TestCalculatorMemoizesRecords(t *testing.T) {
	src := &stubSource{games: []Game{
		playedGame(1, thunder, lightning, 6, 4, 2),
		playedGame(2, thunder, lightning, 3, 5, 1),
	}}
	calc := NewCalculator(src)
	ctx := context.Background()

	first, err := calc.TeamRecord(ctx, thunder, 1)
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	second, err := calc.TeamRecord(ctx, thunder, 1)
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if first != second {
		t.Error("repeated lookup should return the cached record")
	}
	if src.teamCalls != 1 {
		t.Errorf("source queried %d times for one key, want 1", src.teamCalls)
	}

	if _, err := calc.TeamRecord(ctx, thunder, 2); err != nil {
		t.Fatalf("other season lookup: %v", err)
	}
	if src.teamCalls != 2 {
		t.Errorf("source queried %d times for two keys, want 2", src.teamCalls)
	}
}

func TestCalculatorAllTimeRecord(t *testing.T) {
	src := &stubSource{games: []Game{
		playedGame(1, thunder, lightning, 6, 4, 3),
		playedGame(2, thunder, lightning, 2, 5, 2),
		playedGame(2, storm, thunder, 3, 3, 1),
	}}
	calc := NewCalculator(src)

	rec, err := calc.TeamRecord(context.Background(), thunder, 0)
	if err != nil {
		t.Fatalf("career lookup: %v", err)
	}
	if rec.Wins != 1 || rec.Losses != 1 || rec.Ties != 1 {
		t.Fatalf("career record = %d-%d-%d, want 1-1-1", rec.Wins, rec.Losses, rec.Ties)
	}
	if rec.SeasonID != 0 {
		t.Errorf("career record season = %d, want 0", rec.SeasonID)
	}
}

func TestCalculatorPropagatesSourceError(t *testing.T) {
	src := &stubSource{err: errors.New("connection refused")}
	calc := NewCalculator(src)

	if _, err := calc.TeamRecord(context.Background(), thunder, 1); err == nil {
		t.Fatal("expected error from failing source")
	}
}
