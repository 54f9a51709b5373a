package retry

import (
	"math/rand/v2"
	"time"
)

// ExponentialBackoff doubles (by default) the delay after every attempt, caps
// it at a maximum and spreads it by a random jitter fraction.
type ExponentialBackoff struct {
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	maxAttempts  int
	jitter       float64
	random       func() float64
}

// BackoffOption configures an ExponentialBackoff.
type BackoffOption func(*ExponentialBackoff)

// WithInitialDelay sets the delay before the first retry.
func WithInitialDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.initialDelay = d }
}

// WithMaxDelay caps the delay between attempts.
func WithMaxDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.maxDelay = d }
}

// WithMultiplier sets the growth factor between attempts.
func WithMultiplier(m float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.multiplier = m }
}

// WithJitter sets the jitter fraction (0.1 = +/-10%). random returns values
// in [0, 1); nil uses math/rand/v2.
func WithJitter(fraction float64, random func() float64) BackoffOption {
	return func(b *ExponentialBackoff) {
		b.jitter = fraction
		b.random = random
	}
}

// NewExponentialBackoff creates a strategy allowing maxAttempts retries
// (0 = none, negative = unlimited).
func NewExponentialBackoff(maxAttempts int, opts ...BackoffOption) *ExponentialBackoff {
	b := &ExponentialBackoff{
		initialDelay: 100 * time.Millisecond,
		maxDelay:     30 * time.Second,
		multiplier:   2,
		maxAttempts:  maxAttempts,
		jitter:       0.1,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.random == nil {
		b.random = rand.Float64
	}
	return b
}

// NextDelay returns the wait before retry number attempt (zero-based).
func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	delay := float64(b.initialDelay)
	for i := 0; i < attempt && delay < float64(b.maxDelay); i++ {
		delay *= b.multiplier
	}
	if delay > float64(b.maxDelay) {
		delay = float64(b.maxDelay)
	}
	if b.jitter > 0 {
		delay *= 1 + b.jitter*(b.random()*2-1)
	}
	return time.Duration(delay)
}

// MaxAttempts returns the number of retries allowed.
func (b *ExponentialBackoff) MaxAttempts() int {
	return b.maxAttempts
}
