// Package stats keeps rolling latency figures for search requests.
package stats

import (
	"sort"
	"sync"
	"time"
)

// Outcome classifies a finished search.
type Outcome string

const (
	OutcomeMatched       Outcome = "matched"
	OutcomeEmpty         Outcome = "empty"
	OutcomeNotSearchable Outcome = "not_searchable"
)

type sample struct {
	at         time.Time
	durationMs int64
	outcome    Outcome
}

// Snapshot aggregates the samples still inside the window.
type Snapshot struct {
	Window   string          `json:"window"`
	Count    int             `json:"count"`
	MinMs    int64           `json:"min_ms"`
	MaxMs    int64           `json:"max_ms"`
	AvgMs    float64         `json:"avg_ms"`
	P50Ms    float64         `json:"p50_ms"`
	P95Ms    float64         `json:"p95_ms"`
	P99Ms    float64         `json:"p99_ms"`
	Outcomes map[Outcome]int `json:"outcomes"`
}

// SearchStats records search latencies within a rolling window. It is safe
// for concurrent use.
type SearchStats struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
	now     func() time.Time
}

func NewSearchStats(window time.Duration) *SearchStats {
	if window <= 0 {
		window = time.Hour
	}
	return &SearchStats{
		samples: make([]sample, 0, 256),
		window:  window,
		now:     time.Now,
	}
}

// Record adds one search. Negative durations count as zero.
func (s *SearchStats) Record(d time.Duration, outcome Outcome) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, sample{at: now, durationMs: ms, outcome: outcome})
}

func (s *SearchStats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	snap := Snapshot{Window: s.window.String(), Outcomes: map[Outcome]int{}}
	if len(s.samples) == 0 {
		return snap
	}

	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		snap.Outcomes[sm.outcome]++
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	snap.Count = len(values)
	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

// pruneLocked drops samples older than the window. Samples are appended in
// time order, so the expired ones form a prefix.
func (s *SearchStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	i := sort.Search(len(s.samples), func(i int) bool {
		return !s.samples[i].at.Before(cutoff)
	})
	if i > 0 {
		s.samples = append(s.samples[:0], s.samples[i:]...)
	}
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sorted[0])
	}
	if pct >= 100 {
		return float64(sorted[len(sorted)-1])
	}

	rank := float64(len(sorted)-1) * pct / 100
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(rank-float64(lower))
}
