// internal/adapters/ai/submit-feedback/handler.go
package submitfeedback

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"knowledge-search/internal/adapters"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/common/simulate"
	"knowledge-search/internal/models"
)

const (
	TaskType = "submit-feedback"

	ThankYouMessage = "Thank you for your feedback"
)

// Publisher forwards accepted feedback to downstream consumers.
type Publisher interface {
	PublishFeedback(ctx context.Context, event models.FeedbackEvent) error
}

type Handler struct {
	config    *Config
	sim       *simulate.Simulator
	publisher Publisher
	now       func() time.Time
	logger    logger.Logger
}

// NewHandler builds the handler. publisher may be nil, in which case
// feedback is only acknowledged.
func NewHandler(config *Config, sim *simulate.Simulator, publisher Publisher, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		sim:       sim,
		publisher: publisher,
		now:       time.Now,
		logger: logger.OrNoOp(log).With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return adapters.Instrument(ctx, TaskType, input.Session, func(ctx context.Context) (*Output, error) {
		return h.execute(ctx, input)
	})
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.sim.Latency(ctx, h.config.Latency, h.config.Latency); err != nil {
		return nil, err
	}

	feedbackID := "fb-" + uuid.New().String()

	if h.publisher != nil {
		event := models.FeedbackEvent{
			FeedbackID: feedbackID,
			ResponseID: input.ResponseID,
			UserID:     input.Session.User.ID,
			CustomerID: input.Session.Customer.ID,
			Type:       input.Feedback.Type,
			Reason:     input.Feedback.Reason,
			Suggestion: input.Feedback.Suggestion,
			ReceivedAt: h.now().UTC(),
		}
		if err := h.publisher.PublishFeedback(ctx, event); err != nil {
			return nil, fmt.Errorf("publish feedback %s: %w", feedbackID, err)
		}
	}

	h.logger.Info("feedback received", map[string]interface{}{
		"feedbackId": feedbackID,
		"responseId": input.ResponseID,
		"type":       input.Feedback.Type,
	})

	received := input.Feedback
	return &Output{
		Success:    true,
		FeedbackID: feedbackID,
		Message:    ThankYouMessage,
		ResponseID: input.ResponseID,
		Received:   &received,
	}, nil
}
