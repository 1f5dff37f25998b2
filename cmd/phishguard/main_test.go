package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/chayapa12/PhishGuard/pkg/config"
	"github.com/chayapa12/PhishGuard/pkg/dashboard"
	"github.com/chayapa12/PhishGuard/pkg/history"
	"github.com/chayapa12/PhishGuard/pkg/model"
	"github.com/chayapa12/PhishGuard/pkg/scoring"
)

const hostileText = "URGENT: verify your account immediately, click here http://bit.ly/x"

type stubEnhancer struct {
	assessment *model.Assessment
	err        error
	ready      bool
	calls      int
}

func (s *stubEnhancer) Name() string  { return "stub" }
func (s *stubEnhancer) IsReady() bool { return s.ready }
func (s *stubEnhancer) Assess(context.Context, string) (*model.Assessment, error) {
	s.calls++
	return s.assessment, s.err
}

type failingStore struct{}

func (failingStore) Append(context.Context, history.Analysis) error { return errors.New("disk full") }
func (failingStore) Recent(context.Context, int) ([]history.Analysis, error) {
	return nil, nil
}
func (failingStore) Len(context.Context) (int, error) { return 0, nil }
func (failingStore) Close() error                     { return nil }

func newTestAnalyzer(t *testing.T, enh model.Enhancer) *Analyzer {
	t.Helper()
	return &Analyzer{
		engine:   scoring.NewDefaultEngine(),
		enhancer: enh,
		store:    history.NewMemoryStore(16),
		stats:    dashboard.New(),
		recent:   dashboard.NewRing(8),
		cfg:      config.NewOfflineConfig(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestAnalyzeLocalOnly(t *testing.T) {
	want := scoring.NewDefaultEngine().Score(hostileText)

	a := newTestAnalyzer(t, nil)
	rec := a.Analyze(context.Background(), hostileText, "api")

	if rec.Score != want.Score || rec.Label != want.Label || rec.Explanation != want.Explanation {
		t.Errorf("record = %d %q, want the local result %d %q", rec.Score, rec.Label, want.Score, want.Label)
	}
	if rec.Text != "[api] "+hostileText {
		t.Errorf("Text = %q, want the source-prefixed text", rec.Text)
	}

	items, err := a.store.Recent(context.Background(), 10)
	if err != nil || len(items) != 1 || items[0].ID != rec.ID {
		t.Errorf("Recent = %v, %v; want the one appended record", items, err)
	}
	if snap := a.stats.Snapshot(); snap.TotalAnalyses != 1 {
		t.Errorf("TotalAnalyses = %d, want 1", snap.TotalAnalyses)
	}

	entries := a.recent.Items()
	if len(entries) != 1 {
		t.Fatalf("ring holds %d entries, want 1", len(entries))
	}
	if entries[0].ID != rec.ID || entries[0].Source != "api" || entries[0].Score != rec.Score {
		t.Errorf("ring entry = %+v, want it to mirror the record", entries[0])
	}
	if strings.HasPrefix(entries[0].Snippet, "[api]") {
		t.Errorf("Snippet = %q, should show the raw text, not the prefixed store form", entries[0].Snippet)
	}
}

func TestAnalyzeEnhancerReplacesScore(t *testing.T) {
	enh := &stubEnhancer{
		ready:      true,
		assessment: &model.Assessment{Score: 91.4, Explanation: "Message closely resembles a known lure."},
	}
	a := newTestAnalyzer(t, enh)

	rec := a.Analyze(context.Background(), "Hi team, lunch at noon on Friday. Thanks!", "api")

	if rec.Score != 91 {
		t.Errorf("Score = %d, want the enhancer's rounded 91", rec.Score)
	}
	if rec.Label != scoring.LabelHigh {
		t.Errorf("Label = %q, want %q from the shared thresholds", rec.Label, scoring.LabelHigh)
	}
	if rec.Explanation != "Message closely resembles a known lure." {
		t.Errorf("Explanation = %q, want the enhancer's", rec.Explanation)
	}
	if enh.calls != 1 {
		t.Errorf("Assess called %d times, want 1", enh.calls)
	}
}

func TestAnalyzeKeepsLocalEvidence(t *testing.T) {
	enh := &stubEnhancer{ready: true, assessment: &model.Assessment{Score: 12, Explanation: "Looks fine."}}
	a := newTestAnalyzer(t, enh)

	rec := a.Analyze(context.Background(), hostileText, "api")

	if rec.Score != 12 || rec.Label != scoring.LabelLow {
		t.Errorf("record = %d %q, want the enhancer's 12 / Low Risk", rec.Score, rec.Label)
	}
	// The local rule evidence still feeds the dashboard counters even
	// when the enhancer overrides the verdict.
	if snap := a.stats.Snapshot(); snap.ByCategory["Urgency"] == 0 {
		t.Errorf("ByCategory = %v, want local Urgency evidence counted", snap.ByCategory)
	}
}

func TestAnalyzeEnhancerFailureKeepsLocal(t *testing.T) {
	want := scoring.NewDefaultEngine().Score(hostileText)

	for _, tc := range []struct {
		name string
		enh  *stubEnhancer
	}{
		{"assess error", &stubEnhancer{ready: true, err: model.ErrModelUnavailable}},
		{"no opinion", &stubEnhancer{ready: true}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAnalyzer(t, tc.enh)
			rec := a.Analyze(context.Background(), hostileText, "api")

			if rec.Score != want.Score || rec.Label != want.Label || rec.Explanation != want.Explanation {
				t.Errorf("record = %d %q, want the local result %d %q", rec.Score, rec.Label, want.Score, want.Label)
			}
			if tc.enh.calls != 1 {
				t.Errorf("Assess called %d times, want 1", tc.enh.calls)
			}
		})
	}
}

func TestAnalyzeSkipsUnreadyEnhancer(t *testing.T) {
	enh := &stubEnhancer{ready: false, assessment: &model.Assessment{Score: 99}}
	a := newTestAnalyzer(t, enh)

	a.Analyze(context.Background(), hostileText, "api")
	if enh.calls != 0 {
		t.Errorf("Assess called %d times on an unready enhancer, want 0", enh.calls)
	}
}

func TestAnalyzeStoreFailureDoesNotFailScoring(t *testing.T) {
	want := scoring.NewDefaultEngine().Score(hostileText)

	a := newTestAnalyzer(t, nil)
	a.store = failingStore{}

	rec := a.Analyze(context.Background(), hostileText, "api")
	if rec.Score != want.Score {
		t.Errorf("Score = %d, want %d despite the append failure", rec.Score, want.Score)
	}
	if snap := a.stats.Snapshot(); snap.TotalAnalyses != 1 {
		t.Errorf("TotalAnalyses = %d, want the analysis still counted", snap.TotalAnalyses)
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	a := newTestAnalyzer(t, nil)
	rec := a.Analyze(context.Background(), "", "api")

	if rec.Score != 0 || rec.Label != scoring.LabelLow {
		t.Errorf("empty text = %d %q, want the zero path", rec.Score, rec.Label)
	}
	if rec.Explanation == "" {
		t.Error("empty text should still carry the fixed low-risk explanation")
	}
}

func TestNewAnalyzer(t *testing.T) {
	t.Run("offline defaults", func(t *testing.T) {
		cfg := config.NewOfflineConfig()
		cfg.TablesFile = ""
		a, err := NewAnalyzer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
		if err != nil {
			t.Fatalf("NewAnalyzer() error = %v", err)
		}
		defer a.Close()

		if a.enhancer != nil {
			t.Errorf("enhancer = %v, want nil for the offline config", a.enhancer)
		}
		if _, ok := a.store.(*history.MemoryStore); !ok {
			t.Errorf("store = %T, want *history.MemoryStore", a.store)
		}
	})

	t.Run("bad tables file", func(t *testing.T) {
		cfg := config.NewOfflineConfig()
		cfg.TablesFile = "does-not-exist.yaml"
		if _, err := NewAnalyzer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
			t.Error("NewAnalyzer() should fail when the tables file cannot be read")
		}
	})
}
