// internal/adapters/ai/submit-feedback/models.go
package submitfeedback

import "knowledge-search/internal/models"

type Input struct {
	ResponseID string          `json:"responseId"`
	Feedback   models.Feedback `json:"feedback"`
	Session    models.Session  `json:"-"`
}

type Output = models.FeedbackReceipt
