package history

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisStore(t *testing.T, maxLen int) *RedisStore {
	t.Helper()
	mini := miniredis.RunT(t)

	s, err := NewRedisStore(context.Background(), "redis://"+mini.Addr(), maxLen)
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRedisStoreAppendAndRecent(t *testing.T) {
	ctx := context.Background()
	s := newTestRedisStore(t, 100)

	for i := 0; i < 5; i++ {
		if err := s.Append(ctx, testAnalysis(i)); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.Len(ctx)
	if err != nil || n != 5 {
		t.Fatalf("Len = %d, %v; want 5", n, err)
	}

	all, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, all, "id-004", "id-003", "id-002", "id-001", "id-000")

	two, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, two, "id-004", "id-003")
}

func TestRedisStoreTrimsToMaxLen(t *testing.T) {
	ctx := context.Background()
	s := newTestRedisStore(t, 3)

	for i := 0; i < 6; i++ {
		if err := s.Append(ctx, testAnalysis(i)); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.Len(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Len = %d, %v; want trim to 3", n, err)
	}

	all, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, all, "id-005", "id-004", "id-003")
}

func TestRedisStoreRoundTripsFields(t *testing.T) {
	ctx := context.Background()
	s := newTestRedisStore(t, 10)

	want := testAnalysis(42)
	if err := s.Append(ctx, want); err != nil {
		t.Fatal(err)
	}

	got, err := s.Recent(ctx, 1)
	if err != nil || len(got) != 1 {
		t.Fatalf("Recent = %v, %v", got, err)
	}

	a := got[0]
	if a.ID != want.ID || a.Text != want.Text || a.Source != want.Source {
		t.Errorf("identity fields mangled: %+v", a)
	}
	if a.Score != want.Score || a.Label != want.Label || a.Explanation != want.Explanation {
		t.Errorf("scoring fields mangled: %+v", a)
	}
	if !a.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", a.CreatedAt, want.CreatedAt)
	}
}

func TestNewRedisStoreErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("bad url", func(t *testing.T) {
		if _, err := NewRedisStore(ctx, "not-a-url", 10); err == nil {
			t.Error("expected a parse error")
		}
	})

	t.Run("unreachable server", func(t *testing.T) {
		mini := miniredis.RunT(t)
		addr := mini.Addr()
		mini.Close()

		if _, err := NewRedisStore(ctx, "redis://"+addr, 10); err == nil {
			t.Error("expected a ping error")
		}
	})
}
