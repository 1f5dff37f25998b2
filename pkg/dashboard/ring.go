package dashboard

import (
	"sync"
	"time"

	"github.com/chayapa12/PhishGuard/pkg/scoring"
)

// snippetMax caps the preview text kept per entry.
const snippetMax = 120

// Entry is one recently scored analysis as surfaced on the dashboard.
// Only a snippet of the text is kept; the full record lives in history.
type Entry struct {
	ID        string        `json:"id"`
	Snippet   string        `json:"snippet"`
	Source    string        `json:"source,omitempty"`
	Score     int           `json:"score"`
	Label     scoring.Label `json:"label"`
	CreatedAt time.Time     `json:"created_at"`
}

// Ring keeps the most recent entries in a fixed-size buffer. Oldest
// entries fall off once capacity is reached. Safe for concurrent use.
type Ring struct {
	mu   sync.RWMutex
	buf  []Entry
	next int
	full bool
}

// NewRing creates a ring holding up to capacity entries. Capacity below
// 1 is raised to 1.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([]Entry, capacity)}
}

// Add pushes one entry, truncating its snippet to the preview cap.
func (r *Ring) Add(e Entry) {
	e.Snippet = Snippet(e.Snippet, snippetMax)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.next] = e
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
}

// Items returns the held entries, newest first.
func (r *Ring) Items() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := r.size()
	out := make([]Entry, 0, size)
	idx := r.next
	for i := 0; i < size; i++ {
		idx--
		if idx < 0 {
			idx = len(r.buf) - 1
		}
		out = append(out, r.buf[idx])
	}
	return out
}

// Len returns the number of entries currently held.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size()
}

func (r *Ring) size() int {
	if r.full {
		return len(r.buf)
	}
	return r.next
}

// Snippet shortens text to at most max runes, marking the cut with an
// ellipsis. Multi-byte text is never split mid-rune.
func Snippet(text string, max int) string {
	if max < 1 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}
