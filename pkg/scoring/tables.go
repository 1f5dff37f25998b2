package scoring

// DefaultKeywordWeights is the lexical risk table for single tokens.
// Positive weights push the logit toward phishing, negative weights
// cover ordinary business vocabulary and pull it back down.
func DefaultKeywordWeights() map[string]float64 {
	return map[string]float64{
		// pressure
		"urgent": 0.9, "urgently": 0.7, "immediately": 0.6, "emergency": 0.7,
		"asap": 0.6, "expires": 0.6, "deadline": 0.5, "now": 0.3,
		// credentials and accounts
		"verify": 0.9, "confirm": 0.6, "validate": 0.6, "password": 0.8,
		"credentials": 0.8, "login": 0.6, "account": 0.8, "suspended": 0.8,
		"locked": 0.6, "compromised": 0.8, "unauthorized": 0.7,
		"security": 0.4, "alert": 0.5,
		// money
		"bank": 0.6, "payment": 0.5, "invoice": 0.4, "refund": 0.6,
		"tax": 0.4, "bitcoin": 0.7, "transfer": 0.5, "wire": 0.5,
		// rewards
		"winner": 0.9, "won": 0.6, "prize": 0.8, "lottery": 0.9,
		"congratulations": 0.7, "free": 0.5, "gift": 0.5, "reward": 0.6,
		"claim": 0.6,
		// links and files
		"click": 0.7, "link": 0.4, "http": 0.4, "download": 0.5,
		"attachment": 0.5,
		// style
		"dear": 0.3, "customer": 0.3, "kindly": 0.6,
		// ordinary business vocabulary
		"thanks": -0.4, "thank": -0.3, "regards": -0.4, "meeting": -0.3,
		"agenda": -0.3, "team": -0.3, "review": -0.3, "report": -0.2,
		"project": -0.3, "schedule": -0.2, "lunch": -0.4, "newsletter": -0.3,
	}
}

// DefaultPhraseWeights is the multi-word risk table. Order is the
// deterministic order matched phrases are reported in.
func DefaultPhraseWeights() []PhraseWeight {
	return []PhraseWeight{
		{"verify your", 1.1}, {"your account", 0.8}, {"click here", 1.0},
		{"sign in", 0.5}, {"log in", 0.6}, {"password reset", 1.0},
		{"account suspended", 1.4}, {"unusual activity", 1.2}, {"security alert", 1.1},
		{"legal action", 1.1}, {"final notice", 1.2}, {"act now", 1.2},
		{"limited time", 1.0}, {"you have won", 1.5}, {"claim your", 1.2},
		{"free gift", 1.2}, {"gift card", 1.3}, {"wire transfer", 1.2},
		{"bank account", 0.9}, {"credit card", 1.0}, {"social security", 1.3},
		{"enable macros", 1.3}, {"bit.ly", 1.5}, {"tinyurl", 1.5},
		{"http://", 0.5},
		{"for your review", -0.8}, {"best regards", -0.7}, {"let me know", -0.5},
		{"as discussed", -0.6},
	}
}
