// Package resilience wraps request operations with timeouts, cancellable
// delays and retries under exponential backoff.
package resilience

import (
	"context"
	"fmt"
	"time"

	apperrors "knowledge-search/internal/common/errors"
)

// WithTimeout races op against a timer and against ctx.
//
// op keeps running after the timer fires; its result is discarded. It only
// stops early if it observes ctx itself. The timer is stopped on every path.
func WithTimeout[T any](ctx context.Context, timeout time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if ctx.Err() != nil {
		return zero, apperrors.FromContext(ctx, "Request aborted")
	}

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, err := op(ctx)
		done <- result{value: v, err: err}
	}()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case r := <-done:
		return r.value, r.err
	case <-expired:
		return zero, apperrors.NewTimeoutError(fmt.Sprintf("Request timed out after %dms", timeout.Milliseconds()))
	case <-ctx.Done():
		return zero, apperrors.FromContext(ctx, "Request aborted")
	}
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if ctx.Err() != nil {
		return apperrors.FromContext(ctx, "Delay aborted")
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return apperrors.FromContext(ctx, "Delay aborted")
	}
}
