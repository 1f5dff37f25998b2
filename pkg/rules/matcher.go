package rules

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Input carries the two views of the text under test. Normalized is the
// NFC-composed, lowercased form that almost every matcher sees; Original
// keeps casing for the few predicates where case itself is the signal
// (long uppercase runs).
type Input struct {
	Original   string
	Normalized string
}

// NewInput normalizes text once so all matchers share the same view.
func NewInput(text string) Input {
	return Input{Original: text, Normalized: Normalize(text)}
}

// Normalize lowercases text after NFC composition, so composed and
// decomposed accent forms match the same patterns. For ASCII input this
// is identical to strings.ToLower.
func Normalize(text string) string {
	return strings.ToLower(norm.NFC.String(text))
}

// Matcher is the predicate capability each rule carries. Implementations
// are immutable after construction and safe for concurrent use.
type Matcher interface {
	Matches(in Input) bool
}

type keywordSet struct {
	re *regexp.Regexp
}

// KeywordSet matches when any of the given words appears as a whole
// token in the normalized text. Words are taken literally.
func KeywordSet(words ...string) Matcher {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(w))
	}
	return &keywordSet{
		re: regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`),
	}
}

func (m *keywordSet) Matches(in Input) bool {
	return m.re.MatchString(in.Normalized)
}

type phraseContains struct {
	phrases []string
}

// PhraseContains matches when any of the given phrases appears as a
// substring of the normalized text.
func PhraseContains(phrases ...string) Matcher {
	lowered := make([]string, len(phrases))
	for i, p := range phrases {
		lowered[i] = strings.ToLower(p)
	}
	return &phraseContains{phrases: lowered}
}

func (m *phraseContains) Matches(in Input) bool {
	for _, p := range m.phrases {
		if strings.Contains(in.Normalized, p) {
			return true
		}
	}
	return false
}

type regexLike struct {
	re       *regexp.Regexp
	original bool
}

// RegexLike matches the compiled expression against the normalized text.
// The expression is expected to be a compile-time constant; invalid
// patterns panic at construction like regexp.MustCompile.
func RegexLike(expr string) Matcher {
	return &regexLike{re: regexp.MustCompile(expr)}
}

// RegexOnOriginal matches against the original text with casing intact.
// Used for rules where lowercasing would destroy the evidence, such as
// runs of capital letters.
func RegexOnOriginal(expr string) Matcher {
	return &regexLike{re: regexp.MustCompile(expr), original: true}
}

// CompileRegex is the error-returning form of RegexLike for patterns
// that arrive from configuration rather than source.
func CompileRegex(expr string, onOriginal bool) (Matcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &regexLike{re: re, original: onOriginal}, nil
}

func (m *regexLike) Matches(in Input) bool {
	if m.original {
		return m.re.MatchString(in.Original)
	}
	return m.re.MatchString(in.Normalized)
}
