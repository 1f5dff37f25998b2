// Package dashboard aggregates scoring activity for the stats
// endpoint. Labels are recomputed from the integer score with the
// blender's thresholds, never trusted from the caller, so the tiers
// shown here can not drift from the ones stamped on analyses.
package dashboard

import (
	"sync"
	"time"

	"github.com/chayapa12/PhishGuard/pkg/rules"
	"github.com/chayapa12/PhishGuard/pkg/scoring"
)

// histogramBuckets is the number of fixed-width score buckets. Bucket i
// covers [i*10, i*10+9]; the last bucket also takes 100.
const histogramBuckets = 10

// Stats accumulates counters across analyses. Safe for concurrent use.
type Stats struct {
	mu         sync.RWMutex
	total      uint64
	scoreSum   float64
	highest    int
	byLabel    map[scoring.Label]uint64
	bySource   map[string]uint64
	byCategory map[rules.Category]uint64
	histogram  [histogramBuckets]uint64
	lastAt     time.Time
	startedAt  time.Time
}

// Snapshot is a consistent copy of the counters.
type Snapshot struct {
	TotalAnalyses uint64                   `json:"total_analyses"`
	MeanScore     float64                  `json:"mean_score"`
	HighestScore  int                      `json:"highest_score"`
	LowRisk       uint64                   `json:"low_risk"`
	MediumRisk    uint64                   `json:"medium_risk"`
	HighRisk      uint64                   `json:"high_risk"`
	BySource      map[string]uint64        `json:"by_source"`
	ByCategory    map[string]uint64        `json:"by_category"`
	Histogram     [histogramBuckets]uint64 `json:"histogram"`
	LastAnalysis  time.Time                `json:"last_analysis"`
	StartedAt     time.Time                `json:"started_at"`
}

// New creates an empty aggregator.
func New() *Stats {
	return &Stats{
		byLabel:    make(map[scoring.Label]uint64),
		bySource:   make(map[string]uint64),
		byCategory: make(map[rules.Category]uint64),
		startedAt:  time.Now().UTC(),
	}
}

// Record folds one analysis into the counters. Source may be empty.
// Category counters tally fired rules, so one analysis can bump several
// categories more than once.
func (s *Stats) Record(res scoring.Result, source string, at time.Time) {
	label := scoring.LabelForScore(res.Score)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	s.scoreSum += float64(res.Score)
	if res.Score > s.highest {
		s.highest = res.Score
	}
	s.byLabel[label]++
	if source != "" {
		s.bySource[source]++
	}
	for _, ev := range res.Heuristic.Evidence {
		s.byCategory[ev.Category]++
	}
	s.histogram[bucketFor(res.Score)]++
	if at.After(s.lastAt) {
		s.lastAt = at
	}
}

// Snapshot returns a copy of the counters. The returned maps are the
// caller's to keep.
func (s *Stats) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		TotalAnalyses: s.total,
		HighestScore:  s.highest,
		LowRisk:       s.byLabel[scoring.LabelLow],
		MediumRisk:    s.byLabel[scoring.LabelMedium],
		HighRisk:      s.byLabel[scoring.LabelHigh],
		BySource:      make(map[string]uint64, len(s.bySource)),
		ByCategory:    make(map[string]uint64, len(s.byCategory)),
		Histogram:     s.histogram,
		LastAnalysis:  s.lastAt,
		StartedAt:     s.startedAt,
	}
	if s.total > 0 {
		snap.MeanScore = s.scoreSum / float64(s.total)
	}
	for src, n := range s.bySource {
		snap.BySource[src] = n
	}
	for cat, n := range s.byCategory {
		snap.ByCategory[string(cat)] = n
	}
	return snap
}

func bucketFor(score int) int {
	if score < 0 {
		return 0
	}
	idx := score / 10
	if idx >= histogramBuckets {
		idx = histogramBuckets - 1
	}
	return idx
}
