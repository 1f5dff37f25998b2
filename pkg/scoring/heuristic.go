package scoring

import (
	"math"
	"unicode"

	"github.com/chayapa12/PhishGuard/pkg/rules"
)

// MatchEvidence records one fired rule. Emitted at most once per rule
// per scoring call, even when the pattern matches repeatedly.
type MatchEvidence struct {
	RuleID   string         `json:"rule_id"`
	Category rules.Category `json:"category"`
	Reason   string         `json:"reason"`
}

// CategoryBonus adds Bonus points when both named categories have at
// least one fired rule.
type CategoryBonus struct {
	First  rules.Category
	Second rules.Category
	Bonus  int
}

// DefaultCategoryBonuses returns the cross-category correlation table.
// Pairs of indicator families that reinforce each other score higher
// than the sum of their parts.
func DefaultCategoryBonuses() []CategoryBonus {
	return []CategoryBonus{
		{rules.CategoryUrgency, rules.CategoryFinancial, 20},
		{rules.CategoryThreat, rules.CategoryLinks, 25},
		{rules.CategoryAuthority, rules.CategoryFinancial, 25},
		{rules.CategoryAuthority, rules.CategoryUrgency, 20},
		{rules.CategoryAttachment, rules.CategoryUrgency, 15},
		{rules.CategoryThreat, rules.CategoryAuthority, 20},
	}
}

// HeuristicResult is the rule-table half of the score. Categories holds
// the distinct matched categories in first-encounter order; Base and
// Bonus break the pre-clamp sum apart for reporting.
type HeuristicResult struct {
	Score      float64          `json:"score"`
	Base       float64          `json:"base"`
	Bonus      float64          `json:"bonus"`
	Evidence   []MatchEvidence  `json:"evidence,omitempty"`
	Categories []rules.Category `json:"categories,omitempty"`
}

// HeuristicScorer sums rule weights and cross-category bonuses. Pure
// and lock-free; the registry and bonus table are fixed at construction.
type HeuristicScorer struct {
	registry *rules.Registry
	bonuses  []CategoryBonus
}

// NewHeuristicScorer builds a scorer over the given tables.
func NewHeuristicScorer(registry *rules.Registry, bonuses []CategoryBonus) *HeuristicScorer {
	return &HeuristicScorer{registry: registry, bonuses: bonuses}
}

// Score evaluates the rule table against the input. Each rule adds its
// weight once; each applicable bonus adds once; the result clamps to
// 100. Text with no alphanumeric content scores zero with no evidence.
func (s *HeuristicScorer) Score(in rules.Input) HeuristicResult {
	if !hasAlphanumeric(in.Normalized) {
		return HeuristicResult{}
	}

	var res HeuristicResult
	seen := make(map[string]bool)
	present := make(map[rules.Category]bool)

	for _, rule := range s.registry.MatchAll(in) {
		if seen[rule.ID] {
			continue
		}
		seen[rule.ID] = true

		res.Base += float64(rule.Weight)
		res.Evidence = append(res.Evidence, MatchEvidence{
			RuleID:   rule.ID,
			Category: rule.Category,
			Reason:   rule.Reason,
		})
		if !present[rule.Category] {
			present[rule.Category] = true
			res.Categories = append(res.Categories, rule.Category)
		}
	}

	for _, b := range s.bonuses {
		if present[b.First] && present[b.Second] {
			res.Bonus += float64(b.Bonus)
		}
	}

	res.Score = math.Min(100, res.Base+res.Bonus)
	return res
}

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
