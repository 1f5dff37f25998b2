package rules

import "testing"

func TestNormalizeLowercasesAndComposes(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"ascii upper", "URGENT Action", "urgent action"},
		{"mixed case", "Verify Your Account", "verify your account"},
		{"decomposed accent", "résumé", "résumé"},
		{"punctuation kept", "click here!!!", "click here!!!"},
		{"empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.input)
			if got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNewInputKeepsOriginal(t *testing.T) {
	in := NewInput("URGENT: Verify NOW")
	if in.Original != "URGENT: Verify NOW" {
		t.Errorf("Original = %q", in.Original)
	}
	if in.Normalized != "urgent: verify now" {
		t.Errorf("Normalized = %q", in.Normalized)
	}
}

func TestKeywordSetWholeWordsOnly(t *testing.T) {
	m := KeywordSet("urgent", "emergency")

	testCases := []struct {
		name  string
		input string
		want  bool
	}{
		{"exact word", "this is urgent", true},
		{"word with punctuation", "urgent: reply now", true},
		{"uppercase input", "URGENT REPLY", true},
		{"second keyword", "an emergency has occurred", true},
		{"substring does not count", "urgently needed", false},
		{"prefix does not count", "detergent sale", false},
		{"absent", "hello world", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := m.Matches(NewInput(tc.input))
			if got != tc.want {
				t.Errorf("Matches(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestPhraseContainsSubstring(t *testing.T) {
	m := PhraseContains("verify your account", "click here")

	testCases := []struct {
		name  string
		input string
		want  bool
	}{
		{"phrase mid-sentence", "please verify your account today", true},
		{"case-insensitive", "Please VERIFY YOUR ACCOUNT", true},
		{"second phrase", "just click here to continue", true},
		{"words split apart", "verify the account", false},
		{"absent", "quarterly report attached", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := m.Matches(NewInput(tc.input))
			if got != tc.want {
				t.Errorf("Matches(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestRegexLikeRunsOnNormalizedText(t *testing.T) {
	m := RegexLike(`[!?]{3,}`)

	if !m.Matches(NewInput("really???")) {
		t.Error("expected repeated question marks to match")
	}
	if m.Matches(NewInput("really?")) {
		t.Error("single question mark should not match")
	}
}

func TestRegexOnOriginalSeesCasing(t *testing.T) {
	m := RegexOnOriginal(`[A-Z]{5,}`)

	testCases := []struct {
		name  string
		input string
		want  bool
	}{
		{"shouted word", "URGENT notice", true},
		{"long run inside word", "ATTENTION please", true},
		{"short run", "OK fine", false},
		{"lowercase equivalent", "urgent notice", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := m.Matches(NewInput(tc.input))
			if got != tc.want {
				t.Errorf("Matches(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestTLDBlocklistMatcher(t *testing.T) {
	m := TLDBlocklistMatcher([]string{"xyz", "tk"})

	testCases := []struct {
		name  string
		input string
		want  bool
	}{
		{"blocked tld", "visit login-update.xyz now", true},
		{"blocked tld with path", "http://secure.tk/verify", true},
		{"tld needs leading dot", "xyz is a band", false},
		{"ordinary tld", "see example.com", false},
		{"tld as label prefix", "host.xyzcorp.com", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := m.Matches(NewInput(tc.input))
			if got != tc.want {
				t.Errorf("Matches(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
