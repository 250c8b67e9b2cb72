package engine

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"openapi-mcp-navigator/internal/apperrors"
	"openapi-mcp-navigator/internal/circuitbreaker"
	"openapi-mcp-navigator/internal/retry"
)

// step is one unit of tool execution threaded through the resilience
// envelope (spec §4.9 step 4, §9 "Decorator-stacked resilience" redesign
// note). Each with* layer takes the next step and returns a new step; the
// chain is composed explicitly at the call site in Engine.Execute.
type step func(ctx context.Context) (interface{}, *apperrors.Error)

// isTransient reports whether an error kind may be retried (spec §4.9 step
// 4: "transient = connection / timeout / resource-exhausted").
func isTransient(err *apperrors.Error) bool {
	switch err.Kind {
	case apperrors.KindDatabaseConnection, apperrors.KindDatabaseTimeout, apperrors.KindResourceExhausted:
		return true
	default:
		return false
	}
}

// withConcurrencyCap rejects immediately with ResourceExhausted when the
// counted resource pool is full (spec §4.9 step 4, innermost layer).
func withConcurrencyCap(sem *semaphore.Weighted, next step) step {
	return func(ctx context.Context) (interface{}, *apperrors.Error) {
		if !sem.TryAcquire(1) {
			return nil, apperrors.ResourceExhausted(1)
		}
		defer sem.Release(1)
		return next(ctx)
	}
}

// withRetry retries transient failures with exponential backoff, restarting
// from the execute step only (spec §5 ordering guarantee).
func withRetry(maxAttempts int, next step) step {
	return func(ctx context.Context) (interface{}, *apperrors.Error) {
		var lastResult interface{}
		var lastErr *apperrors.Error

		retrier := retry.New(&retry.Config{
			MaxAttempts:     maxAttempts,
			InitialDelay:    100 * time.Millisecond,
			MaxDelay:        60 * time.Second,
			Multiplier:      2.0,
			RandomizeFactor: 0.1,
			RetryIf: func(err error) bool {
				ae, ok := err.(*apperrors.Error)
				return ok && isTransient(ae)
			},
		})

		retrier.Do(ctx, func(ctx context.Context) error {
			result, err := next(ctx)
			lastResult, lastErr = result, err
			if err != nil {
				return err
			}
			return nil
		})

		return lastResult, lastErr
	}
}

// withBreaker guards the Store per spec §4.9 step 4: rejects outright while
// OPEN, otherwise runs next and feeds the outcome back into the breaker.
func withBreaker(b *circuitbreaker.Breaker, next step) step {
	return func(ctx context.Context) (interface{}, *apperrors.Error) {
		allowed, retryAfter := b.Allow()
		if !allowed {
			return nil, apperrors.ServiceUnavailable(int(retryAfter.Seconds()) + 1)
		}

		result, err := next(ctx)
		if err != nil && isTransient(err) {
			b.RecordFailure()
		} else {
			b.RecordSuccess()
		}
		return result, err
	}
}

// withTimeout bounds next to d, surfacing DatabaseTimeoutError on expiry
// (spec §4.9 step 4, outermost layer; spec §5 cancellation guarantee).
func withTimeout(d time.Duration, toolName string, next step) step {
	return func(ctx context.Context) (interface{}, *apperrors.Error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		type outcome struct {
			result interface{}
			err    *apperrors.Error
		}
		done := make(chan outcome, 1)
		go func() {
			result, err := next(ctx)
			done <- outcome{result, err}
		}()

		select {
		case o := <-done:
			return o.result, o.err
		case <-ctx.Done():
			return nil, apperrors.DatabaseTimeout(toolName, d.Seconds())
		}
	}
}
