package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lendtrack/internal/core/domain"
)

const (
	// DefaultMaxAttempts bounds the retry loop.
	DefaultMaxAttempts = 3

	// DefaultBaseDelay is doubled before every retry attempt.
	DefaultBaseDelay = 100 * time.Millisecond
)

var (
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
	ErrNegativeBaseDelay  = errors.New("base delay must not be negative")
)

// Func is a unit of work that can be re-executed safely. Each invocation must
// be all-or-nothing: the caller wraps it in a transaction scope that commits
// on nil and rolls back on error.
type Func func(ctx context.Context) error

type config struct {
	maxAttempts int
	baseDelay   time.Duration
}

// Option configures retry behavior.
type Option func(*config) error

// WithMaxAttempts sets the maximum number of attempts (including the first).
func WithMaxAttempts(attempts int) Option {
	return func(c *config) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		c.maxAttempts = attempts
		return nil
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
// Delay before attempt k (k >= 2) is baseDelay * 2^(k-1).
func WithBaseDelay(delay time.Duration) Option {
	return func(c *config) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}
		c.baseDelay = delay
		return nil
	}
}

// Do executes fn with bounded exponential backoff. Only errors classified as
// transient by domain.IsTransient are retried; everything else propagates
// immediately. Once the budget is exhausted the last error is returned wrapped
// in domain.ErrRetryExhausted. Cancellation of ctx stops the loop between
// attempts; no retry runs after the caller has gone away.
func Do(ctx context.Context, fn Func, options ...Option) error {
	cfg := &config{
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
	}
	for _, option := range options {
		if err := option(cfg); err != nil {
			return err
		}
	}

	var lastErr error

	for attempt := 1; attempt <= cfg.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := cfg.baseDelay * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !domain.IsTransient(lastErr) {
			return lastErr
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("%w: %w", domain.ErrRetryExhausted, lastErr)
}
