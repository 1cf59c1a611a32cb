package models

import "time"

// DateRange is a named recency bucket.
type DateRange string

const (
	DateRangeAll        DateRange = "All"
	DateRangeLast7Days  DateRange = "Last 7 days"
	DateRangeLast30Days DateRange = "Last 30 days"
	DateRangeLast90Days DateRange = "Last 90 days"
	DateRangeLastYear   DateRange = "Last year"
)

// Days returns the bucket width, or false for All and unknown names.
func (d DateRange) Days() (int, bool) {
	switch d {
	case DateRangeLast7Days:
		return 7, true
	case DateRangeLast30Days:
		return 30, true
	case DateRangeLast90Days:
		return 90, true
	case DateRangeLastYear:
		return 365, true
	}
	return 0, false
}

// SortKey selects the result order.
type SortKey string

const (
	SortRelevance  SortKey = "relevance"
	SortDate       SortKey = "date"
	SortPopularity SortKey = "popularity"
)

// SearchFilters is replaced as a whole on every update.
type SearchFilters struct {
	Category  Category   `json:"category,omitempty"`
	DateRange DateRange  `json:"dateRange,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// DefaultFilters matches everything.
func DefaultFilters() SearchFilters {
	return SearchFilters{Category: CategoryAll, DateRange: DateRangeAll}
}

type SearchRequest struct {
	Query   string        `json:"query"`
	Filters SearchFilters `json:"filters"`
	SortBy  SortKey       `json:"sortBy,omitempty"`
}

// SearchResult is an article annotated with the permission summary of the
// user it was filtered for.
type SearchResult struct {
	Article
	PermissionSummary PermissionSummary `json:"permissionSummary"`
}

// SearchResponse carries permission-filtered results. OrderingKey names a
// re-rank rule to reapply after client-side re-sorting; empty means none.
// OrderingPriority is that rule's id list as the server resolved it.
type SearchResponse struct {
	Results          []SearchResult `json:"results"`
	OrderingKey      string         `json:"orderingKey,omitempty"`
	OrderingPriority []string       `json:"orderingPriority,omitempty"`
}

// Articles strips the permission annotation.
func (r SearchResponse) Articles() []Article {
	out := make([]Article, len(r.Results))
	for i, res := range r.Results {
		out[i] = res.Article
	}
	return out
}
