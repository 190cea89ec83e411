package metrics

import (
	"sync"
	"time"
)

type computeStats struct {
	runs        int
	errors      int
	lastTeams   int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about standings
// computations. It is intentionally simple so it can be swapped for a
// real backend later.
type Recorder struct {
	mu        sync.Mutex
	computes  map[int]*computeStats
	tieBreaks map[string]int
	otel      *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		computes:  make(map[int]*computeStats),
		tieBreaks: make(map[string]int),
		otel:      otel,
	}
}

// RecordStandingsCompute tracks one standings computation for a season.
func (r *Recorder) RecordStandingsCompute(seasonID, teams int, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.computes[seasonID]
	if !ok {
		stats = &computeStats{}
		r.computes[seasonID] = stats
	}
	stats.runs++
	stats.lastTeams = teams
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordStandingsCompute(seasonID, teams, duration, err)
	}
}

// RecordTieBreak counts one tie-break annotation by its symbol.
func (r *Recorder) RecordTieBreak(symbol string) {
	if r == nil || symbol == "" {
		return
	}

	r.mu.Lock()
	r.tieBreaks[symbol]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordTieBreak(symbol)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a copy of the compute stats for one season.
type Snapshot struct {
	Runs        int
	Errors      int
	LastTeams   int
	LastLatency time.Duration
}

func (r *Recorder) Snapshot(seasonID int) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.computes[seasonID]; ok && stats != nil {
		return Snapshot{
			Runs:        stats.runs,
			Errors:      stats.errors,
			LastTeams:   stats.lastTeams,
			LastLatency: stats.lastLatency,
		}
	}
	return Snapshot{}
}

// ComputeRuns returns the computations recorded for a season.
func (r *Recorder) ComputeRuns(seasonID int) int {
	return r.Snapshot(seasonID).Runs
}

// ComputeErrors returns the failed computations recorded for a season.
func (r *Recorder) ComputeErrors(seasonID int) int {
	return r.Snapshot(seasonID).Errors
}

// TieBreaks returns how often a tie-break symbol has been applied.
func (r *Recorder) TieBreaks(symbol string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tieBreaks[symbol]
}
