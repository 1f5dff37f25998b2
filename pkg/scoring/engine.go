// Package scoring implements the deterministic phishing scorer: a
// weighted rule heuristic and a linear lexical model blended half and
// half into a 0-100 risk score with a human-readable explanation.
//
// The whole pipeline is a pure function of the input text and the
// tables injected at construction. It performs no I/O, keeps no state
// between calls, and is safe for concurrent use without locking.
package scoring

import (
	"math"

	"github.com/chayapa12/PhishGuard/pkg/rules"
)

// Tables bundles the immutable scoring tables an Engine reads. Built
// once at startup and never mutated afterwards.
type Tables struct {
	Registry *rules.Registry
	Bonuses  []CategoryBonus
	Keywords map[string]float64
	Phrases  []PhraseWeight
	Weights  ModelWeights
}

// DefaultTables returns the shipped rule table, lexical tables, bonus
// table, and model coefficients.
func DefaultTables() Tables {
	return Tables{
		Registry: rules.NewRegistry(),
		Bonuses:  DefaultCategoryBonuses(),
		Keywords: DefaultKeywordWeights(),
		Phrases:  DefaultPhraseWeights(),
		Weights:  DefaultModelWeights(),
	}
}

// Result is one complete scoring of a text.
type Result struct {
	Score       int             `json:"score"`
	Raw         float64         `json:"raw_score"`
	Label       Label           `json:"label"`
	Explanation string          `json:"explanation"`
	Heuristic   HeuristicResult `json:"heuristic"`
	ML          MLResult        `json:"ml"`
}

// Engine runs the full local pipeline: heuristic rules, linear model,
// blend, and explanation.
type Engine struct {
	heuristic *HeuristicScorer
	model     *LinearModel
}

// NewEngine builds an engine over the given tables.
func NewEngine(t Tables) *Engine {
	return &Engine{
		heuristic: NewHeuristicScorer(t.Registry, t.Bonuses),
		model:     NewLinearModel(NewExtractor(t.Keywords, t.Phrases), t.Weights),
	}
}

// NewDefaultEngine builds an engine over DefaultTables.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultTables())
}

// Score runs the pipeline on text. The integer Score is the rounded
// blend; Raw keeps the unrounded value for callers that compose
// further. Empty input produces the zero score and the fixed low-risk
// explanation.
func (e *Engine) Score(text string) Result {
	in := rules.NewInput(text)
	heur := e.heuristic.Score(in)
	ml := e.model.Score(text)

	raw := Blend(heur.Score, ml.Score)
	score := int(math.Round(raw))

	return Result{
		Score:       score,
		Raw:         raw,
		Label:       LabelForScore(score),
		Explanation: BuildExplanation(raw, heur, ml),
		Heuristic:   heur,
		ML:          ml,
	}
}
