package retry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendtrack/internal/core/domain"
	"lendtrack/internal/pkg/retry"
)

func Test_Do_SucceedsFirstAttempt(t *testing.T) {
	calls := 0

	err := retry.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func Test_Do_RetriesTransientErrors(t *testing.T) {
	calls := 0

	err := retry.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return domain.ErrWriteConflict
		}
		return nil
	}, retry.WithBaseDelay(time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func Test_Do_NonTransientErrorFailsFast(t *testing.T) {
	calls := 0
	permanent := errors.New("record is broken")

	err := retry.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	}, retry.WithBaseDelay(time.Millisecond))

	require.ErrorIs(t, err, permanent)
	assert.NotErrorIs(t, err, domain.ErrRetryExhausted)
	assert.Equal(t, 1, calls, "non-transient errors must not be retried")
}

func Test_Do_BusinessConflictFailsFast(t *testing.T) {
	calls := 0

	err := retry.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return domain.ErrAlreadyDistributed
	}, retry.WithBaseDelay(time.Millisecond))

	require.ErrorIs(t, err, domain.ErrAlreadyDistributed)
	assert.Equal(t, 1, calls)
}

func Test_Do_ExhaustionWrapsLastError(t *testing.T) {
	calls := 0
	wrapped := fmt.Errorf("updating laptop 7: %w", domain.ErrWriteConflict)

	err := retry.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return wrapped
	}, retry.WithBaseDelay(time.Millisecond))

	require.ErrorIs(t, err, domain.ErrRetryExhausted)
	assert.ErrorIs(t, err, domain.ErrWriteConflict, "last error must stay in the chain")
	assert.Equal(t, retry.DefaultMaxAttempts, calls)
}

func Test_Do_BackoffDoublesPerAttempt(t *testing.T) {
	base := 50 * time.Millisecond
	calls := 0
	start := time.Now()

	err := retry.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return domain.ErrWriteConflict
	}, retry.WithBaseDelay(base))

	elapsed := time.Since(start)

	require.ErrorIs(t, err, domain.ErrRetryExhausted)
	assert.Equal(t, 3, calls)
	// delay before attempt 2 is 2*base, before attempt 3 is 4*base;
	// the upper bound rules out a base, 2*base schedule
	assert.GreaterOrEqual(t, elapsed, 6*base)
	assert.Less(t, elapsed, 12*base)
}

func Test_Do_MaxAttemptsOption(t *testing.T) {
	calls := 0

	err := retry.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return domain.ErrWriteConflict
	}, retry.WithMaxAttempts(5), retry.WithBaseDelay(time.Millisecond))

	require.ErrorIs(t, err, domain.ErrRetryExhausted)
	assert.Equal(t, 5, calls)
}

func Test_Do_SingleAttemptNeverSleeps(t *testing.T) {
	calls := 0
	start := time.Now()

	err := retry.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return domain.ErrWriteConflict
	}, retry.WithMaxAttempts(1), retry.WithBaseDelay(time.Second))

	require.ErrorIs(t, err, domain.ErrRetryExhausted)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func Test_Do_CancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := retry.Do(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return domain.ErrWriteConflict
	}, retry.WithBaseDelay(time.Millisecond))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func Test_Do_CancellationDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := retry.Do(ctx, func(ctx context.Context) error {
		calls++
		return domain.ErrWriteConflict
	}, retry.WithBaseDelay(10*time.Second))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "no attempt may run after cancellation")
}

func Test_Do_InvalidOptions(t *testing.T) {
	err := retry.Do(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn must not run with invalid options")
		return nil
	}, retry.WithMaxAttempts(0))
	require.ErrorIs(t, err, retry.ErrInvalidMaxAttempts)

	err = retry.Do(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn must not run with invalid options")
		return nil
	}, retry.WithBaseDelay(-time.Second))
	require.ErrorIs(t, err, retry.ErrNegativeBaseDelay)
}
