package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/docsum"
)

// LogFunc receives printf-style notices.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays is two retries, 500ms then 1s apart.
func DefaultRetryDelays() []time.Duration {
	return BackoffDelays(500*time.Millisecond, 2)
}

// BackoffDelays returns n delays doubling from first.
func BackoffDelays(first time.Duration, n int) []time.Duration {
	delays := make([]time.Duration, 0, max(n, 0))
	for d := first; len(delays) < n; d *= 2 {
		delays = append(delays, d)
	}
	return delays
}

// Retry calls fn once, then once more after each delay until it succeeds.
// EINVALID errors are returned at once since repeating the call cannot help.
// onRetry, if set, sees the attempt about to start (2, 3, ...) and the
// error that caused it.
func Retry(ctx context.Context, delays []time.Duration, fn func(context.Context) error, onRetry func(attempt int, err error)) error {
	err := fn(ctx)
	for i, d := range delays {
		if err == nil || docsum.ErrorCode(err) == docsum.EINVALID {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if onRetry != nil {
			onRetry(i+2, err)
		}

		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		err = fn(ctx)
	}
	return err
}
