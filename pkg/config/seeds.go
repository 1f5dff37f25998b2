package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chayapa12/PhishGuard/pkg/rules"
	"github.com/chayapa12/PhishGuard/pkg/scoring"
)

// tablesFile is the YAML shape of a scoring-table override file. Every
// section is optional; a present section replaces its shipped default
// wholesale, except weights which override coefficient by coefficient.
type tablesFile struct {
	Rules    []seedRule         `yaml:"rules"`
	Keywords map[string]float64 `yaml:"keywords"`
	Phrases  []seedPhrase       `yaml:"phrases"`
	Bonuses  []seedBonus        `yaml:"bonuses"`
	Weights  *seedWeights       `yaml:"weights"`
}

type seedRule struct {
	ID       string   `yaml:"id"`
	Category string   `yaml:"category"`
	Weight   int      `yaml:"weight"`
	Kind     string   `yaml:"kind"` // keyword | phrase | regex | regex_original | tld
	Patterns []string `yaml:"patterns"`
	Reason   string   `yaml:"reason"`
}

type seedPhrase struct {
	Phrase string  `yaml:"phrase"`
	Weight float64 `yaml:"weight"`
}

type seedBonus struct {
	First  string `yaml:"first"`
	Second string `yaml:"second"`
	Bonus  int    `yaml:"bonus"`
}

type seedWeights struct {
	Keyword   *float64 `yaml:"keyword"`
	Ngram     *float64 `yaml:"ngram"`
	Uppercase *float64 `yaml:"uppercase"`
	Symbol    *float64 `yaml:"symbol"`
	Digit     *float64 `yaml:"digit"`
	Bias      *float64 `yaml:"bias"`
}

// LoadTables returns the scoring tables, applying overrides from path
// when it is non-empty. The shipped defaults are built fresh on every
// call and never mutated in place.
func LoadTables(path string) (scoring.Tables, error) {
	tables := scoring.DefaultTables()
	if path == "" {
		return tables, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return tables, fmt.Errorf("read tables file: %w", err)
	}

	var file tablesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return tables, fmt.Errorf("parse tables file %s: %w", path, err)
	}

	if len(file.Rules) > 0 {
		list, err := buildSeedRules(file.Rules)
		if err != nil {
			return tables, err
		}
		tables.Registry = rules.NewRegistryWith(list)
	}

	if len(file.Keywords) > 0 {
		tables.Keywords = file.Keywords
	}

	if len(file.Phrases) > 0 {
		phrases := make([]scoring.PhraseWeight, len(file.Phrases))
		for i, p := range file.Phrases {
			phrases[i] = scoring.PhraseWeight{Phrase: p.Phrase, Weight: p.Weight}
		}
		tables.Phrases = phrases
	}

	if len(file.Bonuses) > 0 {
		bonuses := make([]scoring.CategoryBonus, 0, len(file.Bonuses))
		for _, b := range file.Bonuses {
			first, err := parseCategory(b.First)
			if err != nil {
				return tables, fmt.Errorf("bonus table: %w", err)
			}
			second, err := parseCategory(b.Second)
			if err != nil {
				return tables, fmt.Errorf("bonus table: %w", err)
			}
			if b.Bonus <= 0 {
				return tables, fmt.Errorf("bonus table: %s+%s has non-positive bonus %d", b.First, b.Second, b.Bonus)
			}
			bonuses = append(bonuses, scoring.CategoryBonus{First: first, Second: second, Bonus: b.Bonus})
		}
		tables.Bonuses = bonuses
	}

	if w := file.Weights; w != nil {
		if w.Keyword != nil {
			tables.Weights.Keyword = *w.Keyword
		}
		if w.Ngram != nil {
			tables.Weights.Ngram = *w.Ngram
		}
		if w.Uppercase != nil {
			tables.Weights.Uppercase = *w.Uppercase
		}
		if w.Symbol != nil {
			tables.Weights.Symbol = *w.Symbol
		}
		if w.Digit != nil {
			tables.Weights.Digit = *w.Digit
		}
		if w.Bias != nil {
			tables.Weights.Bias = *w.Bias
		}
	}

	return tables, nil
}

func buildSeedRules(seeds []seedRule) ([]rules.Rule, error) {
	list := make([]rules.Rule, 0, len(seeds))
	for _, s := range seeds {
		if s.ID == "" {
			return nil, fmt.Errorf("rule table: rule with empty id")
		}
		if s.Weight <= 0 {
			return nil, fmt.Errorf("rule %q: weight must be a positive integer, got %d", s.ID, s.Weight)
		}
		if len(s.Patterns) == 0 {
			return nil, fmt.Errorf("rule %q: no patterns", s.ID)
		}

		cat, err := parseCategory(s.Category)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", s.ID, err)
		}

		var m rules.Matcher
		switch s.Kind {
		case "keyword":
			m = rules.KeywordSet(s.Patterns...)
		case "phrase":
			m = rules.PhraseContains(s.Patterns...)
		case "regex", "regex_original":
			if len(s.Patterns) != 1 {
				return nil, fmt.Errorf("rule %q: regex rules take exactly one pattern", s.ID)
			}
			m, err = rules.CompileRegex(s.Patterns[0], s.Kind == "regex_original")
			if err != nil {
				return nil, fmt.Errorf("rule %q: %w", s.ID, err)
			}
		case "tld":
			m = rules.TLDBlocklistMatcher(s.Patterns)
		default:
			return nil, fmt.Errorf("rule %q: unknown kind %q", s.ID, s.Kind)
		}

		list = append(list, rules.Rule{
			ID:       s.ID,
			Category: cat,
			Weight:   s.Weight,
			Matcher:  m,
			Reason:   s.Reason,
		})
	}
	return list, nil
}

func parseCategory(name string) (rules.Category, error) {
	for _, cat := range rules.Categories() {
		if string(cat) == name {
			return cat, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", name)
}
