package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks an error as transient. Wrap connection drops and
// server timeouts with it so that [Retry] attempts the operation again;
// anything unwrapped stops the loop at once.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Defaults used by [RetryWithBackoff].
const (
	defaultAttempts     = 3
	defaultInitialDelay = time.Second
)

// Retry runs op up to attempts times, doubling the wait between failures
// starting from backoff. Only errors marked [RetryableError] are retried.
// A cancelled context interrupts the wait and returns ctx.Err(); once the
// budget is spent the last error comes back as-is, wrapper included.
func Retry(ctx context.Context, attempts int, backoff time.Duration, op func() error) error {
	attempts = max(attempts, 1)

	var lastErr error
	for i := range attempts {
		err := op()
		if err == nil {
			return nil
		}
		if !errors.As(err, new(*RetryableError)) {
			return err
		}
		lastErr = err

		if i == attempts-1 {
			break
		}
		if err := sleep(ctx, backoff); err != nil {
			return err
		}
		backoff *= 2
	}
	return lastErr
}

// RetryWithBackoff is [Retry] with the default budget: three attempts,
// one second apart to start with.
func RetryWithBackoff(ctx context.Context, op func() error) error {
	return Retry(ctx, defaultAttempts, defaultInitialDelay, op)
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
