package tmdb

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// errTransient marks connection and timeout failures, the only class of error
// worth retrying against the metadata source.
var errTransient = errors.New("transient error")

func markTransient(err error) error {
	return fmt.Errorf("%w: %w", errTransient, err)
}

func IsTransient(err error) bool {
	return errors.Is(err, errTransient)
}

// RetryPolicy retries an operation a bounded number of times, sleeping per
// the backoff function between attempts. Only transient errors are retried;
// anything else surfaces immediately.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// LinearBackoff waits attempt*step before the next try.
func LinearBackoff(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     LinearBackoff(time.Second),
	}
}

func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op()
		if err == nil || !IsTransient(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		var delay time.Duration
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", attempts, err)
}
