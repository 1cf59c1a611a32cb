package history

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"knowledge-search/internal/common/metrics"
)

// RedisStore keeps each user's history in a Redis list.
type RedisStore struct {
	client *redis.Client
	limit  int
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, limit int, ttl time.Duration) *RedisStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &RedisStore{client: client, limit: limit, ttl: ttl}
}

func (s *RedisStore) Add(ctx context.Context, userID, query string) ([]string, error) {
	metrics.HistoryOperations.WithLabelValues("redis", "add").Inc()

	q := normalizeEntry(query)
	if q == "" {
		return s.List(ctx, userID)
	}

	key := Key(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, key, 0, q)
		pipe.LPush(ctx, key, q)
		pipe.LTrim(ctx, key, 0, int64(s.limit-1))
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add history for %s: %w", userID, err)
	}
	return s.List(ctx, userID)
}

func (s *RedisStore) List(ctx context.Context, userID string) ([]string, error) {
	metrics.HistoryOperations.WithLabelValues("redis", "list").Inc()

	entries, err := s.client.LRange(ctx, Key(userID), 0, int64(s.limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list history for %s: %w", userID, err)
	}
	if entries == nil {
		entries = []string{}
	}
	return entries, nil
}

func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	metrics.HistoryOperations.WithLabelValues("redis", "clear").Inc()

	if err := s.client.Del(ctx, Key(userID)).Err(); err != nil {
		return fmt.Errorf("clear history for %s: %w", userID, err)
	}
	return nil
}
