package dashboard

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/chayapa12/PhishGuard/pkg/rules"
	"github.com/chayapa12/PhishGuard/pkg/scoring"
)

// scored builds a minimal result carrying one evidence item per listed
// category.
func scored(score int, cats ...rules.Category) scoring.Result {
	res := scoring.Result{Score: score, Label: scoring.LabelForScore(score)}
	for i, c := range cats {
		res.Heuristic.Evidence = append(res.Heuristic.Evidence, scoring.MatchEvidence{
			RuleID:   "r" + strconv.Itoa(i),
			Category: c,
			Reason:   "test evidence",
		})
	}
	return res
}

func TestStatsRecord(t *testing.T) {
	s := New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.Record(scored(10, rules.CategoryGreeting), "api", now)
	s.Record(scored(45, rules.CategoryUrgency, rules.CategoryLinks), "api", now.Add(time.Minute))
	s.Record(scored(90, rules.CategoryUrgency), "ocr", now.Add(2*time.Minute))

	snap := s.Snapshot()

	if snap.TotalAnalyses != 3 {
		t.Errorf("TotalAnalyses = %d, want 3", snap.TotalAnalyses)
	}
	if snap.LowRisk != 1 || snap.MediumRisk != 1 || snap.HighRisk != 1 {
		t.Errorf("label counts = %d/%d/%d, want 1/1/1", snap.LowRisk, snap.MediumRisk, snap.HighRisk)
	}
	if want := (10.0 + 45.0 + 90.0) / 3.0; snap.MeanScore != want {
		t.Errorf("MeanScore = %v, want %v", snap.MeanScore, want)
	}
	if snap.HighestScore != 90 {
		t.Errorf("HighestScore = %d, want 90", snap.HighestScore)
	}
	if snap.BySource["api"] != 2 || snap.BySource["ocr"] != 1 {
		t.Errorf("BySource = %v", snap.BySource)
	}
	if snap.ByCategory["Urgency"] != 2 || snap.ByCategory["Suspicious Links"] != 1 || snap.ByCategory["Generic Greeting"] != 1 {
		t.Errorf("ByCategory = %v", snap.ByCategory)
	}
	if !snap.LastAnalysis.Equal(now.Add(2 * time.Minute)) {
		t.Errorf("LastAnalysis = %v", snap.LastAnalysis)
	}
}

// Category counters tally fired rules, not analyses: two urgency hits in
// one message count twice.
func TestStatsCategoryCountsPerRule(t *testing.T) {
	s := New()
	s.Record(scored(70, rules.CategoryUrgency, rules.CategoryUrgency, rules.CategoryThreat), "", time.Now())

	snap := s.Snapshot()
	if snap.ByCategory["Urgency"] != 2 {
		t.Errorf(`ByCategory["Urgency"] = %d, want 2`, snap.ByCategory["Urgency"])
	}
	if snap.ByCategory["Threat"] != 1 {
		t.Errorf(`ByCategory["Threat"] = %d, want 1`, snap.ByCategory["Threat"])
	}
}

// The tier counters must agree with the blender's label for every
// possible integer score, boundaries included.
func TestStatsTiersMatchScoringLabels(t *testing.T) {
	for score := 0; score <= 100; score++ {
		t.Run(strconv.Itoa(score), func(t *testing.T) {
			s := New()
			s.Record(scored(score), "", time.Now())
			snap := s.Snapshot()

			var got scoring.Label
			switch {
			case snap.LowRisk == 1:
				got = scoring.LabelLow
			case snap.MediumRisk == 1:
				got = scoring.LabelMedium
			case snap.HighRisk == 1:
				got = scoring.LabelHigh
			default:
				t.Fatal("no tier counted")
			}

			if want := scoring.LabelForScore(score); got != want {
				t.Errorf("score %d counted as %q, scorer labels it %q", score, got, want)
			}
		})
	}
}

func TestStatsHistogramBuckets(t *testing.T) {
	s := New()
	for _, score := range []int{0, 9, 10, 29, 30, 55, 99, 100, 100} {
		s.Record(scored(score), "", time.Now())
	}

	snap := s.Snapshot()
	checks := map[int]uint64{
		0: 2, // 0, 9
		1: 1, // 10
		2: 1, // 29
		3: 1, // 30
		5: 1, // 55
		9: 3, // 99, 100, 100
	}
	for bucket, count := range checks {
		if snap.Histogram[bucket] != count {
			t.Errorf("bucket %d = %d, want %d (full histogram %v)",
				bucket, snap.Histogram[bucket], count, snap.Histogram)
		}
	}
}

func TestStatsSnapshotIsACopy(t *testing.T) {
	s := New()
	s.Record(scored(50, rules.CategoryUrgency), "api", time.Now())

	snap := s.Snapshot()
	snap.BySource["api"] = 999
	snap.ByCategory["Urgency"] = 999
	snap.Histogram[5] = 999

	fresh := s.Snapshot()
	if fresh.BySource["api"] != 1 {
		t.Error("mutating a snapshot map leaked into the aggregator")
	}
	if fresh.ByCategory["Urgency"] != 1 {
		t.Error("mutating a snapshot category map leaked into the aggregator")
	}
	if fresh.Histogram[5] != 1 {
		t.Error("mutating a snapshot histogram leaked into the aggregator")
	}
}

func TestStatsEmptySnapshot(t *testing.T) {
	snap := New().Snapshot()
	if snap.TotalAnalyses != 0 || snap.MeanScore != 0 || snap.HighestScore != 0 {
		t.Errorf("empty snapshot = %+v", snap)
	}
	if snap.StartedAt.IsZero() {
		t.Error("StartedAt should be stamped at construction")
	}
}

func TestStatsConcurrentRecords(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				s.Record(scored((g*37+i)%101, rules.CategoryUrgency), "load", time.Now())
			}
		}(g)
	}
	wg.Wait()

	snap := s.Snapshot()
	if snap.TotalAnalyses != 2000 {
		t.Errorf("TotalAnalyses = %d, want 2000", snap.TotalAnalyses)
	}
	if snap.ByCategory["Urgency"] != 2000 {
		t.Errorf(`ByCategory["Urgency"] = %d, want 2000`, snap.ByCategory["Urgency"])
	}
}
