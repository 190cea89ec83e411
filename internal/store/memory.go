package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/thamesford/slopitch-standings/internal/league"
)

// Memory is a thread-safe in-memory Store. It backs handler tests and
// ad-hoc runs without a database.
type Memory struct {
	mu        sync.RWMutex
	teams     map[int]Team
	locations map[int]Location
	seasons   map[int]Season
	games     map[int]league.Game
	standings map[int][]league.Standing

	nextTeamID     int
	nextLocationID int
	nextSeasonID   int
	nextGameID     int
}

// NewMemory constructs an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		teams:          make(map[int]Team),
		locations:      make(map[int]Location),
		seasons:        make(map[int]Season),
		games:          make(map[int]league.Game),
		standings:      make(map[int][]league.Standing),
		nextTeamID:     1,
		nextLocationID: 1,
		nextSeasonID:   1,
		nextGameID:     1,
	}
}

// --------------------------------------------------------------------------
// Reads
// --------------------------------------------------------------------------

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) ListTeams(ctx context.Context) ([]Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Team, 0, len(m.teams))
	for _, t := range m.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) GetTeam(ctx context.Context, id int) (Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.teams[id]
	if !ok {
		return Team{}, ErrNotFound
	}
	return t, nil
}

func (m *Memory) ListLocations(ctx context.Context) ([]Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Location, 0, len(m.locations))
	for _, l := range m.locations {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) ListSeasons(ctx context.Context) ([]Season, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Season, 0, len(m.seasons))
	for _, s := range m.seasons {
		out = append(out, s)
	}
	sortSeasonsNewestFirst(out)
	return out, nil
}

func (m *Memory) GetSeason(ctx context.Context, id int) (Season, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.seasons[id]
	if !ok {
		return Season{}, ErrNotFound
	}
	return s, nil
}

func (m *Memory) CurrentSeason(ctx context.Context, now time.Time) (Season, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var current Season
	found := false
	for _, s := range m.seasons {
		if s.Starts.After(now) {
			continue
		}
		if !found || s.Starts.After(current.Starts) ||
			(s.Starts.Equal(current.Starts) && s.ID > current.ID) {
			current = s
			found = true
		}
	}
	if !found {
		return Season{}, ErrNotFound
	}
	return current, nil
}

func (m *Memory) TeamSeasons(ctx context.Context, teamID int) ([]Season, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[int]bool)
	var out []Season
	for _, g := range m.games {
		if !g.Involves(teamID) || seen[g.SeasonID] {
			continue
		}
		if s, ok := m.seasons[g.SeasonID]; ok {
			seen[g.SeasonID] = true
			out = append(out, s)
		}
	}
	sortSeasonsNewestFirst(out)
	return out, nil
}

func (m *Memory) SeasonGames(ctx context.Context, seasonID int) ([]league.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []league.Game
	for _, g := range m.games {
		if g.SeasonID == seasonID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.After(out[j].StartsAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) UpcomingGames(ctx context.Context, now time.Time, limit int) ([]league.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []league.Game
	for _, g := range m.games {
		if !g.StartsAt.Before(now) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) LatestScores(ctx context.Context, now time.Time, limit int) ([]league.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []league.Game
	for _, g := range m.games {
		if g.Completed() && g.StartsAt.Before(now) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.After(out[j].StartsAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) CompletedTeamGames(ctx context.Context, teamID, seasonID int) ([]league.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []league.Game
	for _, g := range m.games {
		if !g.Completed() || !g.Involves(teamID) {
			continue
		}
		if seasonID != 0 && g.SeasonID != seasonID {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.After(out[j].StartsAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) CompletedSeasonGames(ctx context.Context, seasonID int) ([]league.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []league.Game
	for _, g := range m.games {
		if !g.Completed() {
			continue
		}
		if seasonID != 0 && g.SeasonID != seasonID {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) SavedStandings(ctx context.Context, seasonID int) ([]league.Standing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.standings[seasonID]
	out := make([]league.Standing, len(rows))
	copy(out, rows)
	return out, nil
}

// --------------------------------------------------------------------------
// Writes
// --------------------------------------------------------------------------

func (m *Memory) UpsertTeam(ctx context.Context, t Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.teams[t.ID] = t
	if t.ID >= m.nextTeamID {
		m.nextTeamID = t.ID + 1
	}
	return nil
}

func (m *Memory) UpsertLocation(ctx context.Context, l Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.locations[l.ID] = l
	if l.ID >= m.nextLocationID {
		m.nextLocationID = l.ID + 1
	}
	return nil
}

func (m *Memory) UpsertSeason(ctx context.Context, s Season) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seasons[s.ID] = s
	if s.ID >= m.nextSeasonID {
		m.nextSeasonID = s.ID + 1
	}
	return nil
}

func (m *Memory) UpsertGame(ctx context.Context, g league.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.games[g.ID] = g
	if g.ID >= m.nextGameID {
		m.nextGameID = g.ID + 1
	}
	return nil
}

func (m *Memory) InsertTeam(ctx context.Context, name string) (Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := Team{ID: m.nextTeamID, Name: name}
	m.nextTeamID++
	m.teams[t.ID] = t
	return t, nil
}

func (m *Memory) InsertLocation(ctx context.Context, name string) (Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := Location{ID: m.nextLocationID, Name: name}
	m.nextLocationID++
	m.locations[l.ID] = l
	return l, nil
}

func (m *Memory) InsertSeason(ctx context.Context, title string, starts time.Time) (Season, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Season{ID: m.nextSeasonID, Title: title, Starts: starts}
	m.nextSeasonID++
	m.seasons[s.ID] = s
	return s, nil
}

func (m *Memory) InsertGame(ctx context.Context, g league.Game) (league.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g.ID = m.nextGameID
	m.nextGameID++
	m.games[g.ID] = g
	return g, nil
}

func (m *Memory) SaveStandings(ctx context.Context, seasonID int, rows []league.Standing) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]league.Standing, len(rows))
	copy(snapshot, rows)
	m.standings[seasonID] = snapshot
	return nil
}

func sortSeasonsNewestFirst(seasons []Season) {
	sort.Slice(seasons, func(i, j int) bool {
		if !seasons[i].Starts.Equal(seasons[j].Starts) {
			return seasons[i].Starts.After(seasons[j].Starts)
		}
		return seasons[i].ID > seasons[j].ID
	})
}
