// Package retry runs operations with exponential backoff, for the
// transient API-server failures that show up while addons are starting.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Options holds retry behavior.
type Options struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// Option adjusts retry behavior.
type Option func(*Options)

// WithAttempts sets the total number of attempts (including the first).
func WithAttempts(n int) Option {
	return func(o *Options) { o.Attempts = n }
}

// WithBaseDelay sets the delay before the first retry.
func WithBaseDelay(d time.Duration) Option {
	return func(o *Options) { o.BaseDelay = d }
}

// WithMaxDelay caps the delay between retries.
func WithMaxDelay(d time.Duration) Option {
	return func(o *Options) { o.MaxDelay = d }
}

// Do runs op, retrying on failure with doubling delays until the attempt
// budget is spent. Context cancellation stops the retries; errors marked
// with Permanent are returned immediately.
func Do(ctx context.Context, op func() error, opts ...Option) error {
	o := Options{
		Attempts:  5,
		BaseDelay: 1 * time.Second,
		MaxDelay:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	delay := o.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= o.Attempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return perm.err
		}

		if attempt == o.Attempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("canceled after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(delay):
		}

		delay *= 2
		if delay > o.MaxDelay {
			delay = o.MaxDelay
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", o.Attempts, lastErr)
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks an error as not retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}
