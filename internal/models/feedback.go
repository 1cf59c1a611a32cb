package models

import "time"

type FeedbackType string

const (
	FeedbackHelpful    FeedbackType = "helpful"
	FeedbackNotHelpful FeedbackType = "not_helpful"
	FeedbackEdited     FeedbackType = "edited"
	FeedbackSuggested  FeedbackType = "suggested"
)

type Feedback struct {
	Type       FeedbackType `json:"type"`
	Reason     string       `json:"reason,omitempty"`
	Suggestion string       `json:"suggestion,omitempty"`
	Query      string       `json:"query,omitempty"`
}

// FeedbackReceipt is returned by submitFeedback. Success is false when the
// submission failed; feedback is best-effort.
type FeedbackReceipt struct {
	Success    bool      `json:"success"`
	FeedbackID string    `json:"feedbackId,omitempty"`
	Message    string    `json:"message,omitempty"`
	ResponseID string    `json:"responseId"`
	Received   *Feedback `json:"received,omitempty"`
}

// FeedbackEvent is published for every accepted feedback submission.
type FeedbackEvent struct {
	FeedbackID string       `json:"feedbackId"`
	ResponseID string       `json:"responseId"`
	UserID     string       `json:"userId"`
	CustomerID string       `json:"customerId"`
	Type       FeedbackType `json:"type"`
	Reason     string       `json:"reason,omitempty"`
	Suggestion string       `json:"suggestion,omitempty"`
	ReceivedAt time.Time    `json:"receivedAt"`
}
