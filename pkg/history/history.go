// Package history stores completed analyses. The scorer itself never
// reads history back; stores only append and serve the service layer's
// listing endpoints, so every backend is a thin ordered log.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chayapa12/PhishGuard/pkg/config"
	"github.com/chayapa12/PhishGuard/pkg/scoring"
)

// ErrClosed is returned by stores after Close.
var ErrClosed = errors.New("history: store closed")

// Analysis is one completed scoring, immutable once created.
type Analysis struct {
	ID          string        `json:"id"`
	Text        string        `json:"text"`
	Source      string        `json:"source,omitempty"`
	Score       int           `json:"score"`
	Label       scoring.Label `json:"label"`
	Explanation string        `json:"explanation"`
	CreatedAt   time.Time     `json:"created_at"`
}

// NewAnalysis builds the record for a scoring result. Source names the
// path the text arrived through ("api", "cli", "ocr") and is also
// prefixed to the stored text so exported logs stay self-describing.
func NewAnalysis(text, source string, res scoring.Result) Analysis {
	stored := text
	if source != "" {
		stored = "[" + source + "] " + text
	}
	return Analysis{
		ID:          uuid.NewString(),
		Text:        stored,
		Source:      source,
		Score:       res.Score,
		Label:       res.Label,
		Explanation: res.Explanation,
		CreatedAt:   time.Now().UTC(),
	}
}

// Store is an ordered log of analyses. Append adds to the end; Recent
// returns up to limit records, newest first.
type Store interface {
	Append(ctx context.Context, a Analysis) error
	Recent(ctx context.Context, limit int) ([]Analysis, error)
	Len(ctx context.Context) (int, error)
	Close() error
}

// Open builds the store selected by the configuration.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.HistoryBackend {
	case config.HistoryMemory:
		return NewMemoryStore(cfg.HistoryLimit), nil
	case config.HistoryRedis:
		return NewRedisStore(ctx, cfg.RedisURL, cfg.HistoryLimit)
	case config.HistoryPostgres:
		return NewPostgresStore(ctx, cfg.PostgresDSN)
	case config.HistoryJSONL:
		return NewJSONLStore(cfg.HistoryFile)
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
	}
}
