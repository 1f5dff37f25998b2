package scoring

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"

	"github.com/chayapa12/PhishGuard/pkg/rules"
)

// FlagThreshold is the keyword weight a token must exceed (strictly) to
// be reported in FlaggedWords.
const FlagThreshold = 0.6

// tokenPunct are the characters treated as whitespace when splitting
// text into tokens.
const tokenPunct = ".,!?;:\"'"

// symbolClass is the character set counted by SymbolRatio.
const symbolClass = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Features are the lexical signals fed to the linear model.
// KeywordScore and NgramScore are signed sums of table weights; the
// three ratios are fractions of the total character count and stay in
// [0,1]. Every field is zero for empty input.
type Features struct {
	KeywordScore   float64  `json:"keyword_score"`
	NgramScore     float64  `json:"ngram_score"`
	UppercaseRatio float64  `json:"uppercase_ratio"`
	SymbolRatio    float64  `json:"symbol_ratio"`
	DigitRatio     float64  `json:"digit_ratio"`
	FlaggedWords   []string `json:"flagged_words,omitempty"`
	FlaggedNgrams  []string `json:"flagged_ngrams,omitempty"`
}

// PhraseWeight is one entry of the phrase table.
type PhraseWeight struct {
	Phrase string
	Weight float64
}

// Extractor computes Features against fixed keyword and phrase tables.
// Phrase containment runs on an Aho-Corasick automaton built once at
// construction, so extraction cost does not grow with table size.
type Extractor struct {
	keywords map[string]float64
	phrases  []PhraseWeight
	matcher  *ahocorasick.Matcher
}

// NewExtractor builds an extractor over the given tables. The tables
// are not copied and must not be mutated afterwards.
func NewExtractor(keywords map[string]float64, phrases []PhraseWeight) *Extractor {
	dict := make([][]byte, len(phrases))
	for i, p := range phrases {
		dict[i] = []byte(strings.ToLower(p.Phrase))
	}
	return &Extractor{
		keywords: keywords,
		phrases:  phrases,
		matcher:  ahocorasick.NewMatcher(dict),
	}
}

// NewDefaultExtractor builds an extractor over the default tables.
func NewDefaultExtractor() *Extractor {
	return NewExtractor(DefaultKeywordWeights(), DefaultPhraseWeights())
}

// Tokenize splits normalized text into deduplicated tokens. Sentence
// punctuation becomes whitespace first, then the text is split on
// whitespace runs. The first occurrence of each token wins, so repeated
// keywords count once.
func Tokenize(normalized string) []string {
	mapped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(tokenPunct, r) {
			return ' '
		}
		return r
	}, normalized)

	fields := strings.Fields(mapped)
	seen := make(map[string]bool, len(fields))
	var tokens []string
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	return tokens
}

// Extract computes Features for the original input text. Keyword and
// phrase lookups run on the normalized form; the character ratios are
// measured on the original so casing survives.
func (e *Extractor) Extract(original string) Features {
	if original == "" {
		return Features{}
	}

	normalized := rules.Normalize(original)
	var f Features

	for _, tok := range Tokenize(normalized) {
		w, ok := e.keywords[tok]
		if !ok {
			continue
		}
		f.KeywordScore += w
		if w > FlagThreshold {
			f.FlaggedWords = append(f.FlaggedWords, tok)
		}
	}

	hits := e.matcher.MatchThreadSafe([]byte(normalized))
	sort.Ints(hits)
	for _, idx := range hits {
		if idx < 0 || idx >= len(e.phrases) {
			continue
		}
		p := e.phrases[idx]
		f.NgramScore += p.Weight
		f.FlaggedNgrams = append(f.FlaggedNgrams, p.Phrase)
	}

	total := utf8.RuneCountInString(original)
	if total > 0 {
		var upper, symbol, digit int
		for _, r := range original {
			if unicode.IsUpper(r) {
				upper++
			}
			if strings.ContainsRune(symbolClass, r) {
				symbol++
			}
			if unicode.IsDigit(r) {
				digit++
			}
		}
		f.UppercaseRatio = float64(upper) / float64(total)
		f.SymbolRatio = float64(symbol) / float64(total)
		f.DigitRatio = float64(digit) / float64(total)
	}

	return f
}
