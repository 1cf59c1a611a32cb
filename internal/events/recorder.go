package events

import (
	"context"
	"sync"

	"knowledge-search/internal/common/metrics"
	"knowledge-search/internal/models"
)

// Recorder keeps the most recent feedback events for inspection.
type Recorder struct {
	mu     sync.RWMutex
	limit  int
	events []models.FeedbackEvent
}

func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = 100
	}
	return &Recorder{limit: limit}
}

// Handle is a HandlerFunc.
func (r *Recorder) Handle(_ context.Context, event models.FeedbackEvent) error {
	metrics.FeedbackReceived.WithLabelValues(string(event.Type)).Inc()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	if over := len(r.events) - r.limit; over > 0 {
		r.events = append([]models.FeedbackEvent(nil), r.events[over:]...)
	}
	return nil
}

// Recent returns the recorded events, newest first.
func (r *Recorder) Recent() []models.FeedbackEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.FeedbackEvent, len(r.events))
	for i, ev := range r.events {
		out[len(r.events)-1-i] = ev
	}
	return out
}
