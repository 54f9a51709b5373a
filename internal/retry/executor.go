package retry

import (
	"context"
	"time"

	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// Executor runs an operation until it succeeds, fails fatally, runs out of
// attempts or its context ends. Safe for concurrent use.
type Executor struct {
	classifier pgframe.ErrorClassifier
	strategy   pgframe.BackoffStrategy
	logger     pgframe.Logger
	onRetry    func(attempt int, err error, delay time.Duration)
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger reports each retry at verbose level.
func WithLogger(logger pgframe.Logger) Option {
	return func(e *Executor) { e.logger = logger }
}

// WithOnRetry registers a callback invoked before each wait.
func WithOnRetry(fn func(attempt int, err error, delay time.Duration)) Option {
	return func(e *Executor) { e.onRetry = fn }
}

// NewExecutor creates an Executor. Panics if classifier or strategy is nil.
func NewExecutor(classifier pgframe.ErrorClassifier, strategy pgframe.BackoffStrategy, opts ...Option) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	e := &Executor{classifier: classifier, strategy: strategy}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs operation and retries transient failures. It returns the
// last error, or the context's error if the context ends while waiting.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	err := operation(ctx)
	maxAttempts := e.strategy.MaxAttempts()

	for attempt := 0; err != nil && e.classifier.IsTransient(err); attempt++ {
		if maxAttempts >= 0 && attempt >= maxAttempts {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		delay := e.strategy.NextDelay(attempt)
		if e.logger != nil {
			e.logger.Verbose("Attempt %d failed (%v), retrying in %s", attempt+1, err, delay.Round(time.Millisecond))
		}
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		err = operation(ctx)
	}
	return err
}
