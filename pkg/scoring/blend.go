package scoring

import "math"

// Label is the risk tier shown to users.
type Label string

const (
	LabelLow    Label = "Low Risk"
	LabelMedium Label = "Medium Risk"
	LabelHigh   Label = "High Risk"
)

// Blend combines the heuristic and model scores half and half. The
// result stays real-valued; rounding happens only when an Analysis
// record is built.
func Blend(heuristic, ml float64) float64 {
	return math.Min(100, 0.5*heuristic+0.5*ml)
}

// LabelForScore maps a rounded score to its risk tier. The dashboard
// aggregates with these exact thresholds, so they live here and only
// here: 30 and below is low, 60 and below is medium, above 60 is high.
func LabelForScore(score int) Label {
	switch {
	case score <= 30:
		return LabelLow
	case score <= 60:
		return LabelMedium
	default:
		return LabelHigh
	}
}
