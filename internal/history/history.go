// Package history persists each user's most recent distinct search queries.
package history

import (
	"context"
	"strings"
)

const (
	KeyPrefix    = "search_history_"
	DefaultLimit = 5
)

// Store keeps per-user query history, most recent first, without
// duplicates.
type Store interface {
	// Add records query and returns the updated history.
	Add(ctx context.Context, userID, query string) ([]string, error)
	List(ctx context.Context, userID string) ([]string, error)
	Clear(ctx context.Context, userID string) error
}

// Key is the storage key for a user's history.
func Key(userID string) string {
	return KeyPrefix + userID
}

// Push puts query in front of entries, drops its earlier occurrence and
// caps the result at limit.
func Push(entries []string, query string, limit int) []string {
	out := make([]string, 0, limit)
	out = append(out, query)
	for _, e := range entries {
		if len(out) == limit {
			break
		}
		if e != query {
			out = append(out, e)
		}
	}
	return out
}

func normalizeEntry(query string) string {
	return strings.TrimSpace(query)
}
