package history

import (
	"context"
	"sync"
)

// MemoryStore keeps the newest records in a fixed-size ring. Oldest
// entries fall off once capacity is reached. Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	buf    []Analysis
	next   int
	full   bool
	closed bool
}

// NewMemoryStore creates a ring holding up to capacity records.
// Capacity below 1 is raised to 1.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryStore{buf: make([]Analysis, capacity)}
}

func (s *MemoryStore) Append(_ context.Context, a Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	s.buf[s.next] = a
	s.next++
	if s.next == len(s.buf) {
		s.next = 0
		s.full = true
	}
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	size := s.size()
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]Analysis, 0, limit)
	// Walk backwards from the most recent write.
	idx := s.next
	for i := 0; i < limit; i++ {
		idx--
		if idx < 0 {
			idx = len(s.buf) - 1
		}
		out = append(out, s.buf[idx])
	}
	return out, nil
}

func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.size(), nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *MemoryStore) size() int {
	if s.full {
		return len(s.buf)
	}
	return s.next
}
