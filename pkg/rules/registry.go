// Package rules holds the heuristic rule table for phishing detection.
// Each rule pairs a matcher predicate with a category, an additive
// weight, and a human-readable reason that surfaces in reports.
//
// A Registry is immutable once built. All lookups are read-only, so a
// single Registry can be shared across goroutines without locking.
package rules

// Category is the closed set of indicator families a rule can belong
// to. Values double as display names in reports.
type Category string

const (
	CategoryUrgency     Category = "Urgency"
	CategoryFinancial   Category = "Financial"
	CategoryAuthority   Category = "Authority"
	CategoryLinks       Category = "Suspicious Links"
	CategoryGreeting    Category = "Generic Greeting"
	CategoryGrammar     Category = "Bad Grammar"
	CategoryReward      Category = "Unexpected Reward"
	CategoryThreat      Category = "Threat"
	CategoryAttachment  Category = "Unexpected Attachment"
	CategoryPsychTricks Category = "Psychological Tricks"
)

// Categories returns the closed category set in canonical order.
func Categories() []Category {
	return []Category{
		CategoryUrgency,
		CategoryFinancial,
		CategoryAuthority,
		CategoryLinks,
		CategoryGreeting,
		CategoryGrammar,
		CategoryReward,
		CategoryThreat,
		CategoryAttachment,
		CategoryPsychTricks,
	}
}

// Rule is a single weighted indicator. Weight is a positive integer
// contribution to the heuristic score; Reason is the sentence shown to
// the user when the rule fires.
type Rule struct {
	ID       string
	Category Category
	Weight   int
	Matcher  Matcher
	Reason   string
}

// Registry is the full rule table, indexed by category and kept in
// registration order for deterministic matching.
type Registry struct {
	all        []*Rule
	byCategory map[Category][]*Rule
	byID       map[string]*Rule
}

// NewRegistry builds the default rule table.
func NewRegistry() *Registry {
	r := &Registry{
		byCategory: make(map[Category][]*Rule),
		byID:       make(map[string]*Rule),
	}

	r.registerUrgencyRules()
	r.registerFinancialRules()
	r.registerAuthorityRules()
	r.registerLinkRules()
	r.registerGreetingRules()
	r.registerGrammarRules()
	r.registerRewardRules()
	r.registerThreatRules()
	r.registerAttachmentRules()
	r.registerPsychTrickRules()

	return r
}

// NewRegistryWith builds a registry from an explicit rule list,
// preserving order. Used by tests and callers that load a custom table.
func NewRegistryWith(list []Rule) *Registry {
	r := &Registry{
		byCategory: make(map[Category][]*Rule),
		byID:       make(map[string]*Rule),
	}
	for _, rule := range list {
		rule := rule
		r.add(&rule)
	}
	return r
}

func (r *Registry) register(id string, m Matcher, cat Category, weight int, reason string) {
	r.add(&Rule{ID: id, Category: cat, Weight: weight, Matcher: m, Reason: reason})
}

func (r *Registry) add(rule *Rule) {
	if _, dup := r.byID[rule.ID]; dup {
		return
	}
	r.all = append(r.all, rule)
	r.byCategory[rule.Category] = append(r.byCategory[rule.Category], rule)
	r.byID[rule.ID] = rule
}

// MatchAll evaluates every rule against the input and returns the rules
// that fired, in table order. Each rule appears at most once.
func (r *Registry) MatchAll(in Input) []*Rule {
	var matched []*Rule
	for _, rule := range r.all {
		if rule.Matcher.Matches(in) {
			matched = append(matched, rule)
		}
	}
	return matched
}

// All returns every rule in table order.
func (r *Registry) All() []*Rule {
	return r.all
}

// ByCategory returns the rules registered under cat.
func (r *Registry) ByCategory(cat Category) []*Rule {
	return r.byCategory[cat]
}

// Get returns the rule with the given id, or nil.
func (r *Registry) Get(id string) *Rule {
	return r.byID[id]
}

// Count returns the total number of rules.
func (r *Registry) Count() int {
	return len(r.all)
}

// CategoryCount returns the number of rules under cat.
func (r *Registry) CategoryCount(cat Category) int {
	return len(r.byCategory[cat])
}
