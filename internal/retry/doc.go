// Package retry retries establishing database connections with exponential
// backoff.
//
// Only connection setup goes through this package. Statements issued by the
// table writer and reader run exactly once: a failed COPY or DDL is reported
// to the caller, never replayed.
//
// # Example Usage
//
//	executor := retry.NewExecutor(
//	    retry.NewConnectClassifier(),
//	    retry.NewExponentialBackoff(3, retry.WithInitialDelay(200*time.Millisecond)),
//	    retry.WithLogger(logger),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
package retry
