// internal/adapters/ai/generate-answer/models.go
package generateanswer

import "knowledge-search/internal/models"

// Input carries the articles visible to the caller. Citations are only ever
// drawn from this list.
type Input struct {
	Query    string           `json:"query"`
	Articles []models.Article `json:"articles"`
	Session  models.Session   `json:"-"`
}

type Output = models.AIResponse
