// Package model provides optional learned-model enhancers that can refine
// the local deterministic verdict. Every enhancer is best-effort: any
// failure means the caller keeps the local result, never a scoring error.
package model

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/chayapa12/PhishGuard/pkg/config"
)

// Sentinel errors for the enhancer recovery paths. Callers fall back to
// the local verdict on any error; these exist so logs and tests can tell
// the failure modes apart.
var (
	// ErrModelUnavailable means the backing artifact or endpoint is not
	// usable (missing model directory, enhancer disabled).
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrMalformedResponse means the model answered with something that
	// cannot be trusted (undecodable body, score out of range).
	ErrMalformedResponse = errors.New("malformed model response")
)

// Assessment is an enhancer's opinion on a message. Score is on the same
// 0-100 scale as the local blend and replaces it when present; the risk
// label is still derived from the shared thresholds.
type Assessment struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// Enhancer refines the local verdict with a learned model.
// Assess may return (nil, nil) when the enhancer has no opinion on the
// text; the caller keeps the local result in that case too.
type Enhancer interface {
	Name() string
	IsReady() bool
	Assess(ctx context.Context, text string) (*Assessment, error)
}

// FromConfig builds the enhancer selected by cfg.Enhancer. Returns nil
// for "none". A flag naming a backend that cannot start degrades to a
// disabled or absent enhancer with a warning rather than failing startup.
func FromConfig(cfg *config.Config) Enhancer {
	switch cfg.Enhancer {
	case config.EnhancerHugot:
		return NewHugotEnhancer(HugotSettings{
			ModelPath:       cfg.ModelPath,
			OnnxLibraryPath: cfg.OnnxLibPath,
		})
	case config.EnhancerRemote:
		return NewRemoteEnhancer(RemoteSettings{
			URL:     cfg.RemoteURL,
			APIKey:  cfg.RemoteAPIKey,
			Model:   cfg.RemoteModel,
			Timeout: time.Duration(cfg.RemoteTimeoutMs) * time.Millisecond,
		})
	case config.EnhancerSemantic:
		sem, err := NewSemanticEnhancer(cfg.SemanticThreshold)
		if err != nil {
			log.Printf("[ML] semantic enhancer unavailable, local pipeline only: %v", err)
			return nil
		}
		return sem
	case config.EnhancerNone, "":
		return nil
	default:
		log.Printf("[ML] unknown enhancer %q, local pipeline only", cfg.Enhancer)
		return nil
	}
}
