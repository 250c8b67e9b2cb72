package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsOnFirstAttempt(t *testing.T) {
	r := New(&Config{MaxAttempts: 3, InitialDelay: time.Millisecond, RetryIf: func(error) bool { return true }})
	calls := 0
	res := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, res.Err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, res.Attempts)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	r := New(&Config{MaxAttempts: 5, InitialDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond, Multiplier: 2, RetryIf: func(error) bool { return true }})
	calls := 0
	res := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, res.Err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsAtMaxAttempts(t *testing.T) {
	r := New(&Config{MaxAttempts: 3, InitialDelay: time.Millisecond, RetryIf: func(error) bool { return true }})
	calls := 0
	res := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("always fails")
	})
	require.Error(t, res.Err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, res.Attempts)
}

func TestDo_NonRetryableErrorStopsImmediately(t *testing.T) {
	r := New(&Config{MaxAttempts: 5, InitialDelay: time.Millisecond, RetryIf: func(error) bool { return false }})
	calls := 0
	res := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("permanent")
	})
	require.Error(t, res.Err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancellationStopsRetries(t *testing.T) {
	r := New(&Config{MaxAttempts: 10, InitialDelay: 50 * time.Millisecond, RetryIf: func(error) bool { return true }})
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	res := r.Do(ctx, func(ctx context.Context) error {
		calls++
		return errors.New("transient")
	})
	require.Error(t, res.Err)
	assert.Less(t, calls, 10)
}

func TestNew_FillsDefaultsForZeroConfig(t *testing.T) {
	r := New(nil)
	res := r.Do(context.Background(), func(ctx context.Context) error { return nil })
	require.NoError(t, res.Err)
}
