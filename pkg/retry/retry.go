// Package retry repeats an operation with exponential backoff.
// studentdesk uses it only while opening a network storage backend, so a
// CLI started alongside its Redis or PostgreSQL container waits for it to
// come up. Repository operations are never retried.
package retry

import (
	"context"
	"errors"
	"time"
)

// PermanentError marks a failure that another attempt cannot fix, such as a
// malformed connection URL.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so Do returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent checks if an error is permanent (should not be retried).
func IsPermanent(err error) bool {
	var permanentErr *PermanentError
	return errors.As(err, &permanentErr)
}

// Policy controls how often and how long Do waits between attempts.
type Policy struct {
	// MaxAttempts is the number of attempts including the first one.
	MaxAttempts int

	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration

	// MaxDelay caps the doubling delay.
	MaxDelay time.Duration

	// OnRetry is called before each wait.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// ConnectPolicy waits up to about 15 seconds in total.
func ConnectPolicy(attempts int) Policy {
	if attempts < 1 {
		attempts = 1
	}
	return Policy{
		MaxAttempts:  attempts,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     8 * time.Second,
	}
}

func (p Policy) delay(attempt int) time.Duration {
	d := p.InitialDelay << (attempt - 1)
	if d <= 0 || d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Do runs operation until it succeeds, returns a permanent error, the
// attempts run out, or ctx is done. The last operation error is returned,
// unwrapped from PermanentError.
func Do(ctx context.Context, p Policy, operation func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := operation(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		var perm *PermanentError
		if errors.As(err, &perm) {
			return perm.Err
		}
		if attempt == attempts {
			break
		}

		wait := p.delay(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
	}

	return lastErr
}

// DoWithData is Do for operations that return a value.
func DoWithData[T any](ctx context.Context, p Policy, operation func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := Do(ctx, p, func(ctx context.Context) error {
		var opErr error
		result, opErr = operation(ctx)
		return opErr
	})
	return result, err
}
