package scoring

import (
	"fmt"
	"strings"
)

// Explanation report constants. The truncation caps and the cue
// thresholds are part of the output contract, not tuning knobs.
const (
	lowRiskCutoff    = 5.0
	maxShownPhrases  = 3
	maxShownKeywords = 4
	cueMLScore       = 20.0
	cueUppercase     = 0.1
	cueSymbol        = 0.05

	lowRiskMessage = "Low Risk: no phishing indicators were found in this message."
)

// BuildExplanation renders the human-readable report for a blended
// score. Scores under 5 collapse to a fixed low-risk message no matter
// what evidence accumulated. Everything else gets an assessment header,
// the fired rules grouped by category, optional linguistic cues from
// the model features, and a closing recommendation.
func BuildExplanation(score float64, heur HeuristicResult, ml MLResult) string {
	if score < lowRiskCutoff {
		return lowRiskMessage
	}

	var b strings.Builder
	b.WriteString(header(score))

	if len(heur.Evidence) > 0 {
		b.WriteString("\n\nMatched indicators:")
		for _, cat := range heur.Categories {
			var reasons []string
			for _, ev := range heur.Evidence {
				if ev.Category == cat {
					reasons = append(reasons, ev.Reason)
				}
			}
			fmt.Fprintf(&b, "\n- %s: %s", cat, strings.Join(reasons, "; "))
		}
	}

	if cues := linguisticCues(ml); len(cues) > 0 {
		b.WriteString("\n\nLinguistic cues:")
		for _, cue := range cues {
			b.WriteString("\n- ")
			b.WriteString(cue)
		}
	}

	b.WriteString("\n\n")
	b.WriteString(recommendation(score))
	return b.String()
}

func header(score float64) string {
	switch {
	case score > 60:
		return "High Risk: this message shows strong signs of a phishing attempt."
	case score > 30:
		return "Medium Risk: this message shows several signals often seen in phishing."
	default:
		return "Low Risk: this message shows only weak phishing signals."
	}
}

func linguisticCues(ml MLResult) []string {
	f := ml.Features
	if len(f.FlaggedNgrams) == 0 && len(f.FlaggedWords) == 0 && ml.Score <= cueMLScore {
		return nil
	}

	var cues []string
	if len(f.FlaggedNgrams) > 0 {
		shown := f.FlaggedNgrams
		if len(shown) > maxShownPhrases {
			shown = shown[:maxShownPhrases]
		}
		quoted := make([]string, len(shown))
		for i, p := range shown {
			quoted[i] = fmt.Sprintf("%q", p)
		}
		cues = append(cues, "Suspicious phrases: "+strings.Join(quoted, ", "))
	}
	if len(f.FlaggedWords) > 0 {
		shown := f.FlaggedWords
		if len(shown) > maxShownKeywords {
			shown = shown[:maxShownKeywords]
		}
		cues = append(cues, "Loaded keywords: "+strings.Join(shown, ", "))
	}
	if f.UppercaseRatio > cueUppercase {
		cues = append(cues, "Heavy use of capital letters reads as shouting.")
	}
	if f.SymbolRatio > cueSymbol {
		cues = append(cues, "Unusually dense punctuation or symbols.")
	}
	return cues
}

func recommendation(score float64) string {
	switch {
	case score > 60:
		return "Recommendation: treat this message as hostile. Do not click its links or open attachments, and report it to your security team."
	case score > 30:
		return "Recommendation: be careful with this message. Confirm the request with the sender through a channel you already trust before acting on it."
	default:
		return "Recommendation: nothing alarming stands out, but stay alert for unusual requests."
	}
}
