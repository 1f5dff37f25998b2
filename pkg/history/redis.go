package history

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// redisKey is the list every instance appends to.
const redisKey = "phishguard:history"

// RedisStore appends analyses to a Redis list, trimmed to maxLen so the
// shared history cannot grow without bound.
type RedisStore struct {
	client *redis.Client
	maxLen int
}

// NewRedisStore connects to the given redis:// URL and verifies the
// server answers before returning.
func NewRedisStore(ctx context.Context, url string, maxLen int) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client, maxLen: maxLen}, nil
}

func (s *RedisStore) Append(ctx context.Context, a Analysis) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}

	if err := s.client.RPush(ctx, redisKey, data).Err(); err != nil {
		return fmt.Errorf("append to redis history: %w", err)
	}
	if s.maxLen > 0 {
		if err := s.client.LTrim(ctx, redisKey, int64(-s.maxLen), -1).Err(); err != nil {
			return fmt.Errorf("trim redis history: %w", err)
		}
	}
	return nil
}

func (s *RedisStore) Recent(ctx context.Context, limit int) ([]Analysis, error) {
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}

	raw, err := s.client.LRange(ctx, redisKey, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read redis history: %w", err)
	}

	// The list is oldest-to-newest; callers get newest first.
	out := make([]Analysis, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var a Analysis
		if err := json.Unmarshal([]byte(raw[i]), &a); err != nil {
			return nil, fmt.Errorf("decode analysis: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n, err := s.client.LLen(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count redis history: %w", err)
	}
	return int(n), nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
