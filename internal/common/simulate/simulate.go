// Package simulate injects artificial latency and failures into adapter calls.
// All randomness comes from a Source so tests can pin outcomes.
package simulate

import (
	"context"
	"math/rand"
	"sync"
	"time"

	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/common/metrics"
)

// Source yields values in [0,1).
type Source interface {
	Float64() float64
}

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

// Fixed always returns v.
func Fixed(v float64) Source {
	return fixedSource(v)
}

type sequenceSource struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// Sequence returns values in order and then repeats the last one.
func Sequence(values ...float64) Source {
	if len(values) == 0 {
		values = []float64{0.5}
	}
	return &sequenceSource{values: values}
}

func (s *sequenceSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next]
	if s.next < len(s.values)-1 {
		s.next++
	}
	return v
}

type randomSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a goroutine-safe pseudo-random source. A zero seed
// is replaced by the current time.
func NewRandom(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &randomSource{rng: rand.New(rand.NewSource(seed))}
}

func (r *randomSource) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// Simulator decides injected failures and waits out injected latency.
type Simulator struct {
	src          Source
	latencyScale float64
}

// New builds a Simulator. latencyScale multiplies every latency window;
// zero disables waiting entirely.
func New(src Source, latencyScale float64) *Simulator {
	if src == nil {
		src = NewRandom(0)
	}
	if latencyScale < 0 {
		latencyScale = 0
	}
	return &Simulator{src: src, latencyScale: latencyScale}
}

// Instant never fails and never waits. Useful when wiring tests.
func Instant() *Simulator {
	return New(Fixed(0.99), 0)
}

// Float64 draws the next value from the source.
func (s *Simulator) Float64() float64 {
	return s.src.Float64()
}

// Fail draws once and reports whether an injected failure should happen.
func (s *Simulator) Fail(operation, kind string, probability float64) bool {
	if probability <= 0 {
		return false
	}
	if s.src.Float64() < probability {
		metrics.SimulatedFailures.WithLabelValues(operation, kind).Inc()
		return true
	}
	return false
}

// Latency waits a uniform duration in [lo, hi), scaled. It returns an
// ABORT error if ctx is cancelled first.
func (s *Simulator) Latency(ctx context.Context, lo, hi time.Duration) error {
	if ctx.Err() != nil {
		return apperrors.FromContext(ctx, "Request aborted")
	}
	if s.latencyScale == 0 || hi <= 0 {
		return nil
	}

	d := lo
	if hi > lo {
		d += time.Duration(s.src.Float64() * float64(hi-lo))
	}
	d = time.Duration(float64(d) * s.latencyScale)

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return apperrors.FromContext(ctx, "Request aborted")
	}
}
