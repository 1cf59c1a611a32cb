// Package events carries feedback submissions from the request path to
// background consumers over an in-process watermill pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/models"
)

const FeedbackTopic = "ai.feedback"

// HandlerFunc processes one event. A returned error nacks the message.
type HandlerFunc func(ctx context.Context, event models.FeedbackEvent) error

type FeedbackBus struct {
	pubSub *gochannel.GoChannel
	topic  string
	logger logger.Logger
}

func NewFeedbackBus(log logger.Logger) *FeedbackBus {
	log = logger.OrNoOp(log).With(map[string]interface{}{"component": "feedback-bus"})
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		NewWatermillLogger(log),
	)
	return &FeedbackBus{pubSub: pubSub, topic: FeedbackTopic, logger: log}
}

func (b *FeedbackBus) PublishFeedback(ctx context.Context, event models.FeedbackEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal feedback event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("feedbackType", string(event.Type))
	return b.pubSub.Publish(b.topic, msg)
}

// Consume subscribes handle to the topic until ctx is done or the bus closes.
func (b *FeedbackBus) Consume(ctx context.Context, handle HandlerFunc) error {
	messages, err := b.pubSub.Subscribe(ctx, b.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			b.process(msg, handle)
		}
	}()
	return nil
}

func (b *FeedbackBus) process(msg *message.Message, handle HandlerFunc) {
	var event models.FeedbackEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		b.logger.Error("dropping malformed feedback event", map[string]interface{}{
			"messageId": msg.UUID,
			"error":     err.Error(),
		})
		msg.Ack()
		return
	}

	if err := handle(msg.Context(), event); err != nil {
		b.logger.Warn("feedback handler failed", map[string]interface{}{
			"feedbackId": event.FeedbackID,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}
	msg.Ack()
}

func (b *FeedbackBus) Close() error {
	return b.pubSub.Close()
}
