package model

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	"github.com/knights-analytics/hugot/pipelines"
)

// HugotSettings configures the local ONNX classifier.
type HugotSettings struct {
	// ModelPath is the directory holding model.onnx plus tokenizer files.
	// Empty means search the default locations.
	ModelPath string

	// OnnxLibraryPath is the directory holding libonnxruntime. Empty means
	// pure Go inference (slower, no native dependency).
	OnnxLibraryPath string
}

// Known phishing classifier locations, in priority order.
var modelSearchPaths = []struct {
	path  string
	model string
}{
	{"./models/bert-phishing", "ealvaradob/bert-finetuned-phishing"},
	{"./models/distilbert-phishing", "cybersectony/phishing-email-detection-distilbert_v2.4.1"},
}

// ResolveModelPath returns the first directory containing model.onnx,
// starting with the configured path. Empty string when nothing is found.
func ResolveModelPath(configured string) string {
	candidates := make([]string, 0, len(modelSearchPaths)+1)
	if configured != "" {
		candidates = append(candidates, configured)
	}
	for _, m := range modelSearchPaths {
		candidates = append(candidates, m.path)
	}
	for _, dir := range candidates {
		if _, err := os.Stat(filepath.Join(dir, "model.onnx")); err == nil {
			return dir
		}
	}
	return ""
}

// ListAvailableModels reports the classifier artifacts present on disk.
func ListAvailableModels() []string {
	var available []string
	for _, m := range modelSearchPaths {
		if _, err := os.Stat(filepath.Join(m.path, "model.onnx")); err == nil {
			available = append(available, fmt.Sprintf("%s (%s)", m.model, m.path))
		}
	}
	return available
}

// HugotEnhancer classifies messages with a local ONNX model. Construction
// never fails: a missing model or runtime leaves the enhancer disabled and
// the local pipeline in charge.
type HugotEnhancer struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	mu       sync.RWMutex
	ready    bool
}

// NewHugotEnhancer initializes the ONNX session and classification
// pipeline, degrading to a disabled enhancer on any failure.
func NewHugotEnhancer(s HugotSettings) *HugotEnhancer {
	h := &HugotEnhancer{}
	if err := h.initialize(s); err != nil {
		log.Printf("[ML] hugot enhancer disabled: %v", err)
	}
	return h
}

func (h *HugotEnhancer) initialize(s HugotSettings) error {
	modelPath := ResolveModelPath(s.ModelPath)
	if modelPath == "" {
		return fmt.Errorf("no model.onnx found, set PHISHGUARD_MODEL_PATH: %w", ErrModelUnavailable)
	}

	session, err := newSession(s.OnnxLibraryPath)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	cfg := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "phishing-classifier",
	}
	pipeline, err := hugot.NewPipeline(session, cfg)
	if err != nil {
		_ = session.Destroy()
		return fmt.Errorf("create pipeline: %w", err)
	}

	h.mu.Lock()
	h.session = session
	h.pipeline = pipeline
	h.ready = true
	h.mu.Unlock()
	log.Printf("[ML] hugot enhancer ready (model: %s)", modelPath)
	return nil
}

// newSession prefers the ONNX Runtime backend and falls back to pure Go.
func newSession(onnxLibPath string) (*hugot.Session, error) {
	if onnxLibPath != "" {
		session, err := hugot.NewORTSession(options.WithOnnxLibraryPath(onnxLibPath))
		if err == nil {
			log.Printf("[ML] hugot using ONNX Runtime backend")
			return session, nil
		}
		log.Printf("[ML] ONNX Runtime unavailable, falling back to Go backend: %v", err)
	}
	return hugot.NewGoSession()
}

func (h *HugotEnhancer) Name() string {
	return "hugot"
}

// IsReady reports whether a model was loaded.
func (h *HugotEnhancer) IsReady() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ready
}

// isPhishingLabel maps model-specific label conventions onto a verdict.
// ealvaradob/bert answers "phishing" or "benign"; cybersectony/distilbert
// answers "phishing_url"/"legitimate_email" style labels; generic ONNX
// exports answer "LABEL_1" for the positive class.
func isPhishingLabel(label string) bool {
	switch strings.ToLower(label) {
	case "phishing", "phishing_email", "phishing_url", "phishing_url_alt", "spam", "malicious", "label_1":
		return true
	default:
		return false
	}
}

// Assess classifies the text and maps the positive-class probability onto
// the 0-100 risk scale.
func (h *HugotEnhancer) Assess(ctx context.Context, text string) (*Assessment, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.ready || h.pipeline == nil {
		return nil, ErrModelUnavailable
	}

	result, err := h.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}
	if len(result.ClassificationOutputs) == 0 || len(result.ClassificationOutputs[0]) == 0 {
		return nil, fmt.Errorf("%w: empty classification output", ErrMalformedResponse)
	}

	out := result.ClassificationOutputs[0][0]
	confidence := float64(out.Score)

	// The positive-class probability is the risk; a confident benign
	// verdict lands at the low end of the scale.
	risk := confidence
	verdict := "a phishing attempt"
	if !isPhishingLabel(out.Label) {
		risk = 1 - confidence
		verdict = "legitimate"
	}

	return &Assessment{
		Score: risk * 100,
		Explanation: fmt.Sprintf("Local model classified this message as %s (confidence %.0f%%).",
			verdict, confidence*100),
	}, nil
}

// Close releases the ONNX session.
func (h *HugotEnhancer) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ready = false
	if h.session != nil {
		if err := h.session.Destroy(); err != nil {
			return fmt.Errorf("destroy session: %w", err)
		}
		h.session = nil
	}
	return nil
}
