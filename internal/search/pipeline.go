package search

import (
	"sort"
	"time"

	"knowledge-search/internal/models"
	"knowledge-search/pkg/registry"
)

// FilterArticles keeps the articles that pass the category, date-range bucket
// and custom window predicates. Articles without any timestamp pass the date
// predicates. Filtering is idempotent.
func FilterArticles(articles []models.Article, filters models.SearchFilters, now time.Time) []models.Article {
	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if PassesFilters(a, filters, now) {
			out = append(out, a)
		}
	}
	return out
}

// PassesFilters evaluates all filter predicates for one article.
func PassesFilters(a models.Article, filters models.SearchFilters, now time.Time) bool {
	if filters.Category != "" && filters.Category != models.CategoryAll && filters.Category != a.Category {
		return false
	}

	ref, ok := a.ReferenceTime()
	if !ok {
		return true
	}

	if days, bucket := filters.DateRange.Days(); bucket {
		if ref.Before(now.Add(-time.Duration(days) * 24 * time.Hour)) {
			return false
		}
	}
	if filters.StartDate != nil && ref.Before(StartOfDay(*filters.StartDate)) {
		return false
	}
	if filters.EndDate != nil && ref.After(EndOfDay(*filters.EndDate)) {
		return false
	}
	return true
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay is the last millisecond of t's day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Millisecond)
}

// SortArticles returns a stably sorted copy: relevance and popularity
// descending by score and views, date descending by creation. Any other key
// returns the input order unchanged.
func SortArticles(articles []models.Article, key models.SortKey) []models.Article {
	out := append([]models.Article(nil), articles...)

	var less func(i, j int) bool
	switch key {
	case models.SortRelevance:
		less = func(i, j int) bool { return out[i].RelevanceScore > out[j].RelevanceScore }
	case models.SortDate:
		less = func(i, j int) bool { return out[i].CreatedDate.After(out[j].CreatedDate) }
	case models.SortPopularity:
		less = func(i, j int) bool { return out[i].ViewCount > out[j].ViewCount }
	default:
		return out
	}
	sort.SliceStable(out, less)
	return out
}

// ApplyOrdering reapplies the named re-rank rule from the built-in
// scenario registry. Unknown or empty keys are the identity.
func ApplyOrdering(orderingKey string, items []models.Article) []models.Article {
	return ApplyOrderingWith(defaultRegistry, orderingKey, items)
}

var defaultRegistry = registry.Default()

// ApplyOrderingWith is ApplyOrdering against a specific registry.
func ApplyOrderingWith(reg *registry.ScenarioRegistry, orderingKey string, items []models.Article) []models.Article {
	if orderingKey == "" || reg == nil {
		return append([]models.Article(nil), items...)
	}
	priority, ok := reg.Ordering(orderingKey)
	if !ok {
		return append([]models.Article(nil), items...)
	}
	return Prioritize(items, priority)
}

// Prioritize moves listed ids to the front in list order. Unlisted items
// follow in their original relative order.
func Prioritize(items []models.Article, priority []string) []models.Article {
	rank := make(map[string]int, len(priority))
	for i, id := range priority {
		if _, dup := rank[id]; !dup {
			rank[id] = i
		}
	}

	out := append([]models.Article(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := rank[out[i].ID]
		rj, jok := rank[out[j].ID]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		default:
			return false
		}
	})
	return out
}
