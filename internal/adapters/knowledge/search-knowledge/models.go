// internal/adapters/knowledge/search-knowledge/models.go
package searchknowledge

import "knowledge-search/internal/models"

type Input struct {
	Query   string               `json:"query"`
	Filters models.SearchFilters `json:"filters"`
	SortBy  models.SortKey       `json:"sortBy"`
	Session models.Session       `json:"-"`
}

type Output = models.SearchResponse
