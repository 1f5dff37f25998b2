package history

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"

	json "github.com/goccy/go-json"
)

// JSONLStore appends one JSON document per line to a file. Lines are
// written whole under a lock, so the file stays parseable even with
// concurrent writers in one process.
type JSONLStore struct {
	mu     sync.Mutex
	f      *os.File
	enc    *json.Encoder
	path   string
	closed bool
}

// NewJSONLStore opens (or creates) the file in append mode.
func NewJSONLStore(path string) (*JSONLStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	return &JSONLStore{f: f, enc: json.NewEncoder(f), path: path}, nil
}

func (s *JSONLStore) Append(_ context.Context, a Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.enc.Encode(a); err != nil {
		return fmt.Errorf("append history line: %w", err)
	}
	return nil
}

func (s *JSONLStore) Recent(_ context.Context, limit int) ([]Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]Analysis, 0, limit)
	for i := len(all) - 1; i >= len(all)-limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (s *JSONLStore) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	all, err := s.readAll()
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

func (s *JSONLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.f.Close()
}

// readAll parses the whole file. History files stay small (one line
// per analysis of a local tool), so a full scan is fine.
func (s *JSONLStore) readAll() ([]Analysis, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	var all []Analysis
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var a Analysis
		if err := json.Unmarshal(line, &a); err != nil {
			return nil, fmt.Errorf("decode history line: %w", err)
		}
		all = append(all, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}
	return all, nil
}
