// Package adapters holds the simulated backend endpoints the console calls.
// Each endpoint lives in its own sub-package; this file carries the
// instrumentation they share.
package adapters

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/common/metrics"
	"knowledge-search/internal/models"
)

const tracerName = "knowledge-search/adapters"

// ErrorLabel is the metric and span label for err.
func ErrorLabel(err error) string {
	if err == nil {
		return ""
	}
	if apperrors.IsAIUnavailable(err) {
		return "AI_SERVICE_UNAVAILABLE"
	}
	return string(apperrors.Classify(err).Type)
}

// Instrument runs fn inside a span named after operation and records the
// call in the adapter metrics.
func Instrument[T any](ctx context.Context, operation string, session models.Session, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("user.id", session.User.ID),
			attribute.String("user.role", string(session.User.Role.ID)),
			attribute.String("customer.id", session.Customer.ID),
		),
	)
	defer span.End()

	active := metrics.AdapterCallsActive.WithLabelValues(operation)
	active.Inc()
	defer active.Dec()

	started := time.Now()
	out, err := fn(ctx)

	label := ErrorLabel(err)
	metrics.ObserveCall(operation, started, label)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, label)
	}
	return out, err
}
