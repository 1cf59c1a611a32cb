package history

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"knowledge-search/internal/common/metrics"
)

// MemoryStore keeps history in process memory. Entries expire after ttl
// when ttl is positive.
type MemoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
	limit int
	ttl   time.Duration
}

func NewMemoryStore(limit int, ttl time.Duration) *MemoryStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	expiration := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = ttl
	}
	return &MemoryStore{
		cache: cache.New(expiration, cleanup),
		limit: limit,
		ttl:   ttl,
	}
}

func (s *MemoryStore) Add(_ context.Context, userID, query string) ([]string, error) {
	metrics.HistoryOperations.WithLabelValues("memory", "add").Inc()

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.get(userID)
	q := normalizeEntry(query)
	if q == "" {
		return current, nil
	}
	updated := Push(current, q, s.limit)
	s.cache.Set(Key(userID), updated, cache.DefaultExpiration)
	return append([]string(nil), updated...), nil
}

func (s *MemoryStore) List(_ context.Context, userID string) ([]string, error) {
	metrics.HistoryOperations.WithLabelValues("memory", "list").Inc()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(userID), nil
}

func (s *MemoryStore) Clear(_ context.Context, userID string) error {
	metrics.HistoryOperations.WithLabelValues("memory", "clear").Inc()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(Key(userID))
	return nil
}

func (s *MemoryStore) get(userID string) []string {
	v, ok := s.cache.Get(Key(userID))
	if !ok {
		return []string{}
	}
	return append([]string(nil), v.([]string)...)
}
