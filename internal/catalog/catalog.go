// Package catalog holds the static article corpus the adapters search over.
package catalog

import (
	"time"

	"knowledge-search/internal/models"
)

// Store is a read-only, fully loaded article corpus.
type Store interface {
	// All returns every article in corpus order.
	All() []models.Article
	// Get looks an article up by id.
	Get(id string) (models.Article, bool)
}

// MemoryStore is a Store over an in-memory slice. Safe for concurrent reads.
type MemoryStore struct {
	articles []models.Article
	byID     map[string]int
}

// NewMemoryStore indexes articles by id. Later duplicates are ignored.
func NewMemoryStore(articles []models.Article) *MemoryStore {
	s := &MemoryStore{byID: make(map[string]int, len(articles))}
	for _, a := range articles {
		if _, dup := s.byID[a.ID]; dup {
			continue
		}
		s.byID[a.ID] = len(s.articles)
		s.articles = append(s.articles, a)
	}
	return s
}

// NewDefaultStore builds the generated corpus plus the demo articles,
// with timestamps relative to now.
func NewDefaultStore(now time.Time) *MemoryStore {
	articles := GenerateArticles(now, DefaultSeed)
	articles = append(articles, DemoArticles(now)...)
	return NewMemoryStore(articles)
}

func (s *MemoryStore) All() []models.Article {
	return append([]models.Article(nil), s.articles...)
}

func (s *MemoryStore) Get(id string) (models.Article, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Article{}, false
	}
	return s.articles[i], true
}

// Lookup resolves ids in order, skipping unknown ones.
func Lookup(store Store, ids []string) []models.Article {
	out := make([]models.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := store.Get(id); ok {
			out = append(out, a)
		}
	}
	return out
}
