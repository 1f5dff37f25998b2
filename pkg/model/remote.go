package model

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/chayapa12/PhishGuard/pkg/httputil"
)

// RemoteSettings configures the HTTP scoring enhancer.
type RemoteSettings struct {
	URL         string
	APIKey      string        // Bearer token, empty for unauthenticated endpoints
	Model       string        // Model identifier forwarded to the endpoint
	Timeout     time.Duration // Per-call deadline
	MaxInFlight int           // Concurrent call bound, 0 = default
}

// RemoteEnhancer asks an external scoring endpoint for a verdict. The
// endpoint accepts {"model","text"} and answers {"score","label",
// "explanation"} with score on the 0-100 scale.
type RemoteEnhancer struct {
	client *http.Client
	sem    *httputil.Semaphore
	url    string
	apiKey string
	model  string
}

// NewRemoteEnhancer builds the enhancer on the shared connection pool.
func NewRemoteEnhancer(s RemoteSettings) *RemoteEnhancer {
	return &RemoteEnhancer{
		client: httputil.NewClientWithTimeout(s.Timeout),
		sem:    httputil.NewSemaphore(s.MaxInFlight),
		url:    s.URL,
		apiKey: s.APIKey,
		model:  s.Model,
	}
}

func (r *RemoteEnhancer) Name() string {
	return "remote"
}

// IsReady reports whether an endpoint is configured.
func (r *RemoteEnhancer) IsReady() bool {
	return r.url != ""
}

type remoteRequest struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

type remoteResponse struct {
	Score       float64 `json:"score"`
	Label       string  `json:"label"`
	Explanation string  `json:"explanation"`
}

// Assess posts the text to the scoring endpoint. Concurrent calls are
// bounded by the semaphore; waiting callers give up when their context
// expires.
func (r *RemoteEnhancer) Assess(ctx context.Context, text string) (*Assessment, error) {
	if r.url == "" {
		return nil, ErrModelUnavailable
	}

	if err := r.sem.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("remote scorer backlog: %w", err)
	}
	defer r.sem.Release()

	payload, err := json.Marshal(remoteRequest{Model: r.model, Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote scorer call: %w", err)
	}
	defer httputil.DrainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		msg, _ := httputil.ReadErrorBody(resp.Body)
		return nil, fmt.Errorf("remote scorer status %d: %s", resp.StatusCode, string(msg))
	}

	body, err := httputil.ReadResponseBody(resp.Body, httputil.MaxResponseSize)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out remoteResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if out.Score < 0 || out.Score > 100 {
		return nil, fmt.Errorf("%w: score %.2f outside [0,100]", ErrMalformedResponse, out.Score)
	}

	explanation := out.Explanation
	if explanation == "" {
		explanation = fmt.Sprintf("Remote model %s scored this message %.0f/100.", r.model, out.Score)
	}
	return &Assessment{Score: out.Score, Explanation: explanation}, nil
}

// InFlight returns current semaphore statistics for monitoring.
func (r *RemoteEnhancer) InFlight() httputil.SemaphoreStats {
	return r.sem.Stats()
}
