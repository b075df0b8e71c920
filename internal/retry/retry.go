// Package retry runs an operation a bounded number of times with a doubling
// delay between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrExhausted wraps the last error once every attempt has failed.
var ErrExhausted = errors.New("retry attempts exhausted")

// Permanent marks err as not worth retrying. Do returns it unwrapped right
// away.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Do calls fn up to attempts times. After a failed attempt it waits delay,
// doubling it each time. The wait is abandoned when ctx is done.
func Do(ctx context.Context, attempts int, delay time.Duration, fn func(ctx context.Context) error) error {
	return DoWithLogger(ctx, nil, attempts, delay, fn)
}

// DoWithLogger is Do that reports failed attempts to log.
func DoWithLogger(ctx context.Context, log *slog.Logger, attempts int, delay time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt == attempts {
			break
		}

		if log != nil {
			log.WarnContext(ctx, "Attempt failed, retrying", "attempt", attempt, "max_attempts", attempts, "delay", delay, "error", err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted after attempt %d: %w", attempt, errors.Join(ctx.Err(), err))
		case <-timer.C:
		}
		delay *= 2
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, err)
}
