package scoring

import "math"

// ModelWeights are the coefficients of the linear risk model.
type ModelWeights struct {
	Keyword   float64
	Ngram     float64
	Uppercase float64
	Symbol    float64
	Digit     float64
	Bias      float64
}

// DefaultModelWeights returns the shipped coefficients.
func DefaultModelWeights() ModelWeights {
	return ModelWeights{
		Keyword:   1.2,
		Ngram:     1.5,
		Uppercase: 5.0,
		Symbol:    3.0,
		Digit:     1.5,
		Bias:      -2.0,
	}
}

// logitClamp bounds the logit before exponentiation so adversarial
// inputs with huge feature sums cannot overflow math.Exp.
const logitClamp = 40.0

// MLResult is the linear model output: a 0-100 score plus the features
// it was computed from.
type MLResult struct {
	Score    float64  `json:"score"`
	Features Features `json:"features"`
}

// LinearModel scores text with a logistic regression over lexical
// features. Pure and deterministic.
type LinearModel struct {
	extractor *Extractor
	weights   ModelWeights
}

// NewLinearModel builds a model over the given extractor and weights.
func NewLinearModel(extractor *Extractor, weights ModelWeights) *LinearModel {
	return &LinearModel{extractor: extractor, weights: weights}
}

// Score computes the model score for text. Empty text short-circuits
// to a zero result without running the pipeline.
func (m *LinearModel) Score(text string) MLResult {
	if text == "" {
		return MLResult{}
	}

	f := m.extractor.Extract(text)
	logit := m.weights.Keyword*f.KeywordScore +
		m.weights.Ngram*f.NgramScore +
		m.weights.Uppercase*f.UppercaseRatio +
		m.weights.Symbol*f.SymbolRatio +
		m.weights.Digit*f.DigitRatio +
		m.weights.Bias

	return MLResult{
		Score:    math.Min(100, sigmoid(logit)*100),
		Features: f,
	}
}

func sigmoid(logit float64) float64 {
	if logit > logitClamp {
		logit = logitClamp
	}
	if logit < -logitClamp {
		logit = -logitClamp
	}
	return 1 / (1 + math.Exp(-logit))
}
