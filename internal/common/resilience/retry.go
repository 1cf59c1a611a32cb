package resilience

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/common/metrics"
)

// JitterFactor bounds the uniform jitter applied to every backoff delay.
const JitterFactor = 0.2

// RetryConfig is supplied per call site and is not modified during a retry sequence.
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
	RetryableErrors   []apperrors.ErrorType

	// Operation labels log lines and metrics.
	Operation string
	// Jitter returns a value in [0,1). Defaults to math/rand.
	Jitter func() float64
}

// DefaultRetryConfig retries timeouts and network errors three times.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialDelay:      time.Second,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2,
		RetryableErrors:   []apperrors.ErrorType{apperrors.ErrTypeTimeout, apperrors.ErrTypeNetwork},
	}
}

// DefaultAPITimeout and DefaultAPIRetryConfig govern remote JSON requests.
const DefaultAPITimeout = 10 * time.Second

func DefaultAPIRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        2,
		InitialDelay:      500 * time.Millisecond,
		MaxDelay:          5 * time.Second,
		BackoffMultiplier: 2,
		RetryableErrors: []apperrors.ErrorType{
			apperrors.ErrTypeTimeout,
			apperrors.ErrTypeNetwork,
			apperrors.ErrTypeServer,
		},
	}
}

func (c RetryConfig) retries(t apperrors.ErrorType) bool {
	for _, r := range c.RetryableErrors {
		if r == t {
			return true
		}
	}
	return false
}

// Backoff returns the wait before retry number attempt (0-based):
// min(initial * multiplier^attempt, max), then ±JitterFactor.
func (c RetryConfig) Backoff(attempt int) time.Duration {
	mult := c.BackoffMultiplier
	if mult <= 0 {
		mult = 1
	}
	exp := float64(c.InitialDelay) * math.Pow(mult, float64(attempt))
	capped := math.Min(exp, float64(c.MaxDelay))
	if c.MaxDelay <= 0 {
		capped = exp
	}

	jitter := c.Jitter
	if jitter == nil {
		jitter = rand.Float64
	}
	delay := capped * (1 + JitterFactor*(2*jitter()-1))
	if delay < 0 {
		return 0
	}
	return time.Duration(math.Floor(delay))
}

// WithRetry runs op up to MaxRetries+1 times. It stops on the first error that
// is not retryable, whose type is not listed in RetryableErrors, or that came
// from the final attempt. The last classified error is returned.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, log logger.Logger, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	log = logger.OrNoOp(log)
	maxAttempts := cfg.MaxRetries + 1

	var last *apperrors.NetworkError
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return zero, apperrors.FromContext(ctx, "Request aborted")
		}

		v, err := op(ctx)
		if err == nil {
			return v, nil
		}

		last = apperrors.Classify(err)
		if !last.Retryable || attempt == maxAttempts-1 || !cfg.retries(last.Type) {
			return zero, last
		}

		delay := cfg.Backoff(attempt)
		metrics.RetryAttempts.WithLabelValues(cfg.Operation, string(last.Type)).Inc()
		log.Warn(fmt.Sprintf("Network request failed (attempt %d/%d). Retrying in %dms...",
			attempt+1, maxAttempts, delay.Milliseconds()), map[string]interface{}{
			"operation": cfg.Operation,
			"errorType": last.Type,
			"error":     last.Message,
		})

		if err := Sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
	return zero, last
}

// WithTimeoutAndRetry applies the timeout budget to every attempt.
func WithTimeoutAndRetry[T any](ctx context.Context, timeout time.Duration, cfg RetryConfig, log logger.Logger, op func(ctx context.Context) (T, error)) (T, error) {
	return WithRetry(ctx, cfg, log, func(ctx context.Context) (T, error) {
		return WithTimeout(ctx, timeout, op)
	})
}
