// Package console holds the interactive session controllers used by the
// CLI: a search session with latest-request-wins semantics and an
// assistant session that tracks AI availability.
package console

import (
	"context"
	"time"

	"knowledge-search/internal/models"
	"knowledge-search/pkg/registry"
)

// Backend is what a session needs from the knowledge service. Both the
// in-process service and the remote API client satisfy it.
type Backend interface {
	Search(ctx context.Context, session models.Session, req models.SearchRequest) (*models.SearchResponse, error)
	Suggestions(ctx context.Context, session models.Session, query string) ([]models.Article, error)
	Answer(ctx context.Context, session models.Session, query string, articles []models.Article) (*models.AIResponse, error)
	Permissions(ctx context.Context, session models.Session) (*models.PermissionCheck, error)
	SubmitFeedback(ctx context.Context, session models.Session, responseID string, feedback models.Feedback) models.FeedbackReceipt
	History(ctx context.Context, userID string) ([]string, error)
	AddHistory(ctx context.Context, userID, query string) ([]string, error)
	ClearHistory(ctx context.Context, userID string) error
}

// EventRecorder counts session state transitions.
type EventRecorder interface {
	RecordSessionEvent(ctx context.Context, event string)
}

type nopRecorder struct{}

func (nopRecorder) RecordSessionEvent(context.Context, string) {}

const (
	DefaultSuggestionDebounce = 300 * time.Millisecond
	DefaultSubmitGrace        = 100 * time.Millisecond
)

// Options tunes a SearchSession. Registry resolves ordering keys when a
// response carries no priority list; nil means the built-in registry.
type Options struct {
	SuggestionDebounce time.Duration
	SubmitGrace        time.Duration
	Recorder           EventRecorder
	Registry           *registry.ScenarioRegistry
}

func (o Options) withDefaults() Options {
	if o.SuggestionDebounce <= 0 {
		o.SuggestionDebounce = DefaultSuggestionDebounce
	}
	if o.SubmitGrace < 0 {
		o.SubmitGrace = 0
	}
	if o.Recorder == nil {
		o.Recorder = nopRecorder{}
	}
	if o.Registry == nil {
		o.Registry = registry.Default()
	}
	return o
}
