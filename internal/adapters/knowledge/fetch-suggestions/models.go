// internal/adapters/knowledge/fetch-suggestions/models.go
package fetchsuggestions

import "knowledge-search/internal/models"

type Input struct {
	Query   string         `json:"query"`
	Session models.Session `json:"-"`
}

type Output struct {
	Suggestions []models.Article `json:"suggestions"`
}
