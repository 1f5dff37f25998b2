package rules

import "testing"

func TestDefaultTableShape(t *testing.T) {
	r := NewRegistry()

	if r.Count() == 0 {
		t.Fatal("default registry is empty")
	}

	for _, cat := range Categories() {
		if r.CategoryCount(cat) == 0 {
			t.Errorf("category %q has no rules", cat)
		}
	}

	seen := make(map[string]bool)
	for _, rule := range r.All() {
		if rule.Weight <= 0 {
			t.Errorf("rule %q has non-positive weight %d", rule.ID, rule.Weight)
		}
		if rule.Reason == "" {
			t.Errorf("rule %q has no reason", rule.ID)
		}
		if seen[rule.ID] {
			t.Errorf("duplicate rule id %q", rule.ID)
		}
		seen[rule.ID] = true
	}
}

func TestDefaultTableMatches(t *testing.T) {
	r := NewRegistry()

	testCases := []struct {
		name     string
		input    string
		wantRule string
	}{
		{"urgent keyword", "URGENT: please respond", "urgent_language"},
		{"deadline phrase", "act now or lose access", "deadline_pressure"},
		{"countdown", "respond within 48 hours", "countdown_window"},
		{"payment vocabulary", "your invoice is overdue", "payment_terms"},
		{"gift cards", "buy three gift cards", "money_transfer"},
		{"currency amount", "send $500 today", "currency_amount"},
		{"verification demand", "please verify your account", "credential_request"},
		{"support desk", "this is the security team", "support_impersonation"},
		{"shortened link", "go to bit.ly/abc123", "url_shortener"},
		{"bad tld", "login at account-check.xyz", "suspicious_tld"},
		{"click bait", "click here to restore access", "click_prompt"},
		{"plain http", "visit http://example.com/login", "plain_http_link"},
		{"ip url", "open http://192.168.10.5/panel", "ip_literal_link"},
		{"mass greeting", "Dear Customer, we write to inform you", "generic_greeting"},
		{"shouting", "ATTENTION REQUIRED", "uppercase_run"},
		{"punctuation pileup", "free money!!!", "excessive_punctuation"},
		{"scam grammar", "please do the needful", "stilted_phrasing"},
		{"lottery", "you are our lottery winner", "prize_language"},
		{"reward phrase", "claim your reward today", "reward_claim"},
		{"inheritance", "you are the sole beneficiary", "inheritance_story"},
		{"account threat", "your account will be suspended", "account_threat"},
		{"legal threat", "we will take legal action", "legal_threat"},
		{"security scare", "unusual activity was detected", "security_scare"},
		{"attachment push", "open the attachment to confirm", "attachment_prompt"},
		{"executable", "run the file update.exe", "executable_attachment"},
		{"macros", "enable macros to view the document", "macro_prompt"},
		{"secrecy", "do not tell anyone about this", "secrecy_request"},
		{"scarcity", "limited time offer just for you", "scarcity_pitch"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			matched := r.MatchAll(NewInput(tc.input))
			for _, rule := range matched {
				if rule.ID == tc.wantRule {
					return
				}
			}
			t.Errorf("input %q did not fire rule %q (fired: %v)", tc.input, tc.wantRule, ruleIDs(matched))
		})
	}
}

func TestDefaultTableStaysQuietOnBusinessText(t *testing.T) {
	r := NewRegistry()

	testCases := []struct {
		name  string
		input string
	}{
		{"status update", "Hi team, attaching the Q3 report for your review. Thanks!"},
		{"meeting note", "Let's sync on Thursday at 3pm about the roadmap."},
		{"plain greeting", "Hello Maria, hope the conference went well."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			matched := r.MatchAll(NewInput(tc.input))
			if len(matched) != 0 {
				t.Errorf("expected no matches for %q, fired: %v", tc.input, ruleIDs(matched))
			}
		})
	}
}

func TestMatchAllReturnsTableOrder(t *testing.T) {
	r := NewRegistry()
	in := NewInput("URGENT: verify your account immediately, click here http://bit.ly/x")

	matched := r.MatchAll(in)
	if len(matched) < 3 {
		t.Fatalf("expected several matches, got %d", len(matched))
	}

	pos := make(map[string]int)
	for i, rule := range r.All() {
		pos[rule.ID] = i
	}
	for i := 1; i < len(matched); i++ {
		if pos[matched[i-1].ID] > pos[matched[i].ID] {
			t.Errorf("matches out of table order: %q before %q", matched[i-1].ID, matched[i].ID)
		}
	}
}

func TestNewRegistryWithCustomTable(t *testing.T) {
	custom := []Rule{
		{ID: "custom_one", Category: CategoryUrgency, Weight: 30, Matcher: KeywordSet("hurry"), Reason: "custom urgency"},
		{ID: "custom_two", Category: CategoryThreat, Weight: 40, Matcher: PhraseContains("pay up"), Reason: "custom threat"},
		{ID: "custom_one", Category: CategoryThreat, Weight: 99, Matcher: KeywordSet("dup"), Reason: "duplicate id"},
	}

	r := NewRegistryWith(custom)
	if r.Count() != 2 {
		t.Fatalf("expected duplicate id to be dropped, count = %d", r.Count())
	}
	if got := r.Get("custom_one"); got == nil || got.Weight != 30 {
		t.Errorf("first registration should win, got %+v", got)
	}

	matched := r.MatchAll(NewInput("hurry, pay up"))
	if len(matched) != 2 {
		t.Errorf("expected both custom rules to fire, got %v", ruleIDs(matched))
	}
}

func TestByCategoryAndGet(t *testing.T) {
	r := NewRegistry()

	links := r.ByCategory(CategoryLinks)
	if len(links) == 0 {
		t.Fatal("no link rules registered")
	}
	for _, rule := range links {
		if rule.Category != CategoryLinks {
			t.Errorf("rule %q filed under wrong category %q", rule.ID, rule.Category)
		}
	}

	if r.Get("url_shortener") == nil {
		t.Error("Get(url_shortener) returned nil")
	}
	if r.Get("no_such_rule") != nil {
		t.Error("Get on unknown id should return nil")
	}
}

func ruleIDs(rules []*Rule) []string {
	ids := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.ID
	}
	return ids
}

func BenchmarkMatchAll(b *testing.B) {
	r := NewRegistry()
	in := NewInput("URGENT: verify your account immediately, click here http://bit.ly/x before it's too late")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.MatchAll(in)
	}
}

func BenchmarkNewInput(b *testing.B) {
	text := "Dear Customer, your account will be suspended within 24 hours unless you verify your account."

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NewInput(text)
	}
}
