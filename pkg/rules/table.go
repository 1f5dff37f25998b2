package rules

import (
	"regexp"
	"strings"
)

// DefaultShortenerHosts are link-shortener domains frequently used to
// hide phishing destinations.
var DefaultShortenerHosts = []string{
	"bit.ly",
	"tinyurl.com",
	"goo.gl",
	"t.co",
	"ow.ly",
	"is.gd",
	"cutt.ly",
	"rb.gy",
}

// DefaultSuspiciousTLDs are top-level domains with disproportionate
// abuse rates. Matched only when preceded by a dot.
var DefaultSuspiciousTLDs = []string{
	"xyz",
	"top",
	"click",
	"loan",
	"work",
	"gq",
	"tk",
	"ml",
	"cf",
	"buzz",
	"rest",
}

// TLDBlocklistMatcher builds a matcher that fires when the text contains
// a domain under any of the given top-level domains.
func TLDBlocklistMatcher(tlds []string) Matcher {
	quoted := make([]string, len(tlds))
	for i, tld := range tlds {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(tld))
	}
	return RegexLike(`\.(?:` + strings.Join(quoted, "|") + `)\b`)
}

// ============================================================
// URGENCY
// ============================================================

func (r *Registry) registerUrgencyRules() {
	r.register("urgent_language",
		KeywordSet("urgent", "emergency"),
		CategoryUrgency, 15,
		"Urgent language pressuring a fast response")

	r.register("immediate_action",
		KeywordSet("immediately", "asap"),
		CategoryUrgency, 10,
		"Demands action without delay")

	r.register("deadline_pressure",
		PhraseContains("act now", "right away", "expires today", "within 24 hours",
			"final notice", "last chance", "before it's too late", "time is running out"),
		CategoryUrgency, 15,
		"Artificial deadline pressure")

	r.register("countdown_window",
		RegexLike(`(?:within|in)\s+\d+\s+(?:hours?|minutes?)`),
		CategoryUrgency, 10,
		"Countdown window attached to the request")
}

// ============================================================
// FINANCIAL
// ============================================================

func (r *Registry) registerFinancialRules() {
	r.register("payment_terms",
		KeywordSet("payment", "invoice", "refund", "billing"),
		CategoryFinancial, 10,
		"Payment or billing vocabulary")

	r.register("money_transfer",
		PhraseContains("wire transfer", "bank account", "credit card",
			"gift card", "bitcoin", "cryptocurrency"),
		CategoryFinancial, 15,
		"References money movement or payment instruments")

	r.register("currency_amount",
		RegexLike(`[$€£]\s?\d`),
		CategoryFinancial, 10,
		"Specific sums of money")

	r.register("payment_problem",
		PhraseContains("tax refund", "outstanding payment", "payment declined",
			"billing problem", "payment failed"),
		CategoryFinancial, 15,
		"Claims a payment problem needs fixing")
}

// ============================================================
// AUTHORITY
// ============================================================

func (r *Registry) registerAuthorityRules() {
	r.register("credential_request",
		PhraseContains("verify your account", "confirm your identity",
			"update your information", "validate your account",
			"confirm your password", "update your details"),
		CategoryAuthority, 20,
		"Requests account or identity verification")

	r.register("support_impersonation",
		PhraseContains("security team", "customer support", "customer service",
			"it department", "system administrator", "account team"),
		CategoryAuthority, 15,
		"Claims to speak for a support or security desk")

	r.register("official_notice",
		PhraseContains("official notice", "security notice", "compliance notice"),
		CategoryAuthority, 10,
		"Dressed up as an official notice")
}

// ============================================================
// SUSPICIOUS LINKS
// ============================================================

func (r *Registry) registerLinkRules() {
	r.register("url_shortener",
		PhraseContains(DefaultShortenerHosts...),
		CategoryLinks, 20,
		"Link hidden behind a URL shortener")

	r.register("suspicious_tld",
		TLDBlocklistMatcher(DefaultSuspiciousTLDs),
		CategoryLinks, 15,
		"Domain under a high-abuse top-level domain")

	r.register("click_prompt",
		PhraseContains("click here", "click below", "click this link", "follow the link"),
		CategoryLinks, 10,
		"Pushes the reader to click a link")

	r.register("plain_http_link",
		PhraseContains("http://"),
		CategoryLinks, 5,
		"Unencrypted link")

	r.register("ip_literal_link",
		RegexLike(`https?://\d{1,3}(?:\.\d{1,3}){3}`),
		CategoryLinks, 20,
		"Link pointing at a raw IP address")
}

// ============================================================
// GENERIC GREETING
// ============================================================

func (r *Registry) registerGreetingRules() {
	r.register("generic_greeting",
		PhraseContains("dear customer", "dear user", "dear valued customer",
			"dear account holder", "dear sir or madam", "dear sir/madam"),
		CategoryGreeting, 10,
		"Impersonal mass-mail greeting")

	r.register("undisclosed_recipients",
		PhraseContains("undisclosed recipients"),
		CategoryGreeting, 10,
		"Recipient list is hidden")
}

// ============================================================
// BAD GRAMMAR
// ============================================================

func (r *Registry) registerGrammarRules() {
	r.register("uppercase_run",
		RegexOnOriginal(`[A-Z]{5,}`),
		CategoryGrammar, 10,
		"Long runs of capital letters")

	r.register("excessive_punctuation",
		RegexLike(`[!?]{3,}`),
		CategoryGrammar, 10,
		"Repeated exclamation or question marks")

	r.register("stilted_phrasing",
		PhraseContains("do the needful", "revert back", "kindly confirm", "kindly proceed"),
		CategoryGrammar, 10,
		"Stilted phrasing common in scam templates")
}

// ============================================================
// UNEXPECTED REWARD
// ============================================================

func (r *Registry) registerRewardRules() {
	r.register("prize_language",
		KeywordSet("winner", "prize", "lottery", "jackpot"),
		CategoryReward, 20,
		"Prize or lottery vocabulary")

	r.register("reward_claim",
		PhraseContains("you have been selected", "claim your reward",
			"claim your prize", "free gift", "congratulations you"),
		CategoryReward, 20,
		"Unsolicited reward waiting to be claimed")

	r.register("inheritance_story",
		KeywordSet("inheritance", "beneficiary"),
		CategoryReward, 15,
		"Inheritance or beneficiary story")
}

// ============================================================
// THREAT
// ============================================================

func (r *Registry) registerThreatRules() {
	r.register("account_threat",
		PhraseContains("account will be suspended", "account has been suspended",
			"account will be closed", "account will be locked",
			"account has been compromised"),
		CategoryThreat, 20,
		"Threatens the reader's account")

	r.register("legal_threat",
		PhraseContains("legal action", "arrest warrant", "lawsuit", "police report"),
		CategoryThreat, 20,
		"Threatens legal consequences")

	r.register("security_scare",
		PhraseContains("unusual activity", "suspicious login", "unauthorized access",
			"unusual sign-in"),
		CategoryThreat, 15,
		"Manufactured security scare")

	r.register("consequence_warning",
		PhraseContains("or else", "failure to comply", "will result in"),
		CategoryThreat, 10,
		"Open-ended consequences for not complying")
}

// ============================================================
// UNEXPECTED ATTACHMENT
// ============================================================

func (r *Registry) registerAttachmentRules() {
	r.register("attachment_prompt",
		PhraseContains("open the attachment", "see the attachment",
			"download the attachment", "open the attached", "attached invoice"),
		CategoryAttachment, 15,
		"Pushes the reader to open an attachment")

	r.register("executable_attachment",
		RegexLike(`\.(?:exe|scr|bat|cmd|vbs|jar)\b`),
		CategoryAttachment, 25,
		"Mentions an executable file type")

	r.register("macro_prompt",
		PhraseContains("enable macros", "enable content", "enable editing"),
		CategoryAttachment, 15,
		"Asks to enable document macros")
}

// ============================================================
// PSYCHOLOGICAL TRICKS
// ============================================================

func (r *Registry) registerPsychTrickRules() {
	r.register("secrecy_request",
		PhraseContains("keep this confidential", "do not tell anyone",
			"tell no one", "between us"),
		CategoryPsychTricks, 15,
		"Asks the reader to keep the exchange secret")

	r.register("trust_flattery",
		PhraseContains("trusted customer", "loyal customer", "specially chosen"),
		CategoryPsychTricks, 10,
		"Flattery to lower suspicion")

	r.register("scarcity_pitch",
		PhraseContains("limited time offer", "exclusive offer", "only a few left",
			"once in a lifetime"),
		CategoryPsychTricks, 15,
		"Scarcity pitch")

	r.register("personal_plea",
		PhraseContains("i need your help", "personal favor", "count on your discretion"),
		CategoryPsychTricks, 10,
		"Personal plea engineering sympathy")
}
