package engine

import (
	"context"
	"testing"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openapi-mcp-navigator/internal/apperrors"
	"openapi-mcp-navigator/internal/circuitbreaker"
)

func okStep(result interface{}) step {
	return func(ctx context.Context) (interface{}, *apperrors.Error) { return result, nil }
}

func failStep(err *apperrors.Error) step {
	return func(ctx context.Context) (interface{}, *apperrors.Error) { return nil, err }
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(apperrors.DatabaseConnection("x")))
	assert.True(t, isTransient(apperrors.DatabaseTimeout("x", 1)))
	assert.True(t, isTransient(apperrors.ResourceExhausted(1)))
	assert.False(t, isTransient(apperrors.Validation("x", nil, "bad", nil)))
	assert.False(t, isTransient(apperrors.NotFound("schema", "x", nil)))
}

func TestWithConcurrencyCap_AllowsUnderLimit(t *testing.T) {
	sem := semaphore.NewWeighted(2)
	wrapped := withConcurrencyCap(sem, okStep("done"))
	result, err := wrapped(context.Background())
	require.Nil(t, err)
	assert.Equal(t, "done", result)
}

func TestWithConcurrencyCap_RejectsWhenFull(t *testing.T) {
	sem := semaphore.NewWeighted(1)
	require.True(t, sem.TryAcquire(1))
	defer sem.Release(1)

	wrapped := withConcurrencyCap(sem, okStep("done"))
	_, err := wrapped(context.Background())
	require.NotNil(t, err)
	assert.Equal(t, apperrors.KindResourceExhausted, err.Kind)
}

func TestWithRetry_RetriesTransientThenSucceeds(t *testing.T) {
	attempts := 0
	flaky := step(func(ctx context.Context) (interface{}, *apperrors.Error) {
		attempts++
		if attempts < 3 {
			return nil, apperrors.DatabaseConnection("down")
		}
		return "recovered", nil
	})

	wrapped := withRetry(5, flaky)
	result, err := wrapped(context.Background())
	require.Nil(t, err)
	assert.Equal(t, "recovered", result)
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_NeverRetriesNonTransient(t *testing.T) {
	attempts := 0
	alwaysValidationErr := step(func(ctx context.Context) (interface{}, *apperrors.Error) {
		attempts++
		return nil, apperrors.Validation("x", nil, "bad", nil)
	})

	wrapped := withRetry(5, alwaysValidationErr)
	_, err := wrapped(context.Background())
	require.NotNil(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithBreaker_RejectsWhenOpen(t *testing.T) {
	b := circuitbreaker.New(circuitbreaker.Config{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Minute})
	b.RecordFailure()

	wrapped := withBreaker(b, okStep("unreachable"))
	_, err := wrapped(context.Background())
	require.NotNil(t, err)
	assert.Equal(t, apperrors.KindServiceUnavailable, err.Kind)
}

func TestWithBreaker_RecordsFailureOnlyForTransientErrors(t *testing.T) {
	b := circuitbreaker.New(circuitbreaker.Config{FailureThreshold: 2, SuccessThreshold: 1, Timeout: time.Minute})

	wrapped := withBreaker(b, failStep(apperrors.Validation("x", nil, "bad", nil)))
	wrapped(context.Background())
	wrapped(context.Background())

	assert.Equal(t, circuitbreaker.Closed, b.State())
}

func TestWithTimeout_SurfacesTimeoutError(t *testing.T) {
	slow := step(func(ctx context.Context) (interface{}, *apperrors.Error) {
		select {
		case <-time.After(50 * time.Millisecond):
			return "too late", nil
		case <-ctx.Done():
			return nil, apperrors.Internal("cancelled")
		}
	})

	wrapped := withTimeout(5*time.Millisecond, "getSchema", slow)
	_, err := wrapped(context.Background())
	require.NotNil(t, err)
	assert.Equal(t, apperrors.KindDatabaseTimeout, err.Kind)
}

func TestWithTimeout_FastStepSucceeds(t *testing.T) {
	wrapped := withTimeout(50*time.Millisecond, "getSchema", okStep("fast"))
	result, err := wrapped(context.Background())
	require.Nil(t, err)
	assert.Equal(t, "fast", result)
}

func TestEnvelope_OrderingBreakerWrapsWholeRetryLoop(t *testing.T) {
	b := circuitbreaker.New(circuitbreaker.Config{FailureThreshold: 10, SuccessThreshold: 1, Timeout: time.Minute})
	attempts := 0
	flaky := step(func(ctx context.Context) (interface{}, *apperrors.Error) {
		attempts++
		if attempts < 3 {
			return nil, apperrors.DatabaseConnection("down")
		}
		return "ok", nil
	})

	chain := withTimeout(time.Second, "getSchema", withBreaker(b, withRetry(5, flaky)))
	result, err := chain(context.Background())
	require.Nil(t, err)
	assert.Equal(t, "ok", result)
	// The breaker only observes the retry loop's final (successful) outcome,
	// so the two transient failures inside the retry loop never reach it.
	assert.Equal(t, circuitbreaker.Closed, b.State())
	assert.EqualValues(t, 1, b.Stats().TotalRequests)
}
