package fn

import (
	"context"
	"math/rand"
	"time"
)

// RetryOpts configures retry behavior.
type RetryOpts struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Jitter      bool
}

// DefaultRetry is used for startup connections.
var DefaultRetry = RetryOpts{
	MaxAttempts: 5,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     10 * time.Second,
	Jitter:      true,
}

// Retry calls f until it succeeds, MaxAttempts is reached, or ctx is done,
// doubling the wait between attempts up to MaxWait.
func Retry[T any](ctx context.Context, opts RetryOpts, f func(context.Context) Result[T]) Result[T] {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	var result Result[T]
	wait := opts.InitialWait

	for attempt := 1; ; attempt++ {
		result = f(ctx)
		if result.IsOk() || attempt == opts.MaxAttempts {
			return result
		}

		sleep := wait
		if opts.Jitter {
			sleep = time.Duration(float64(wait) * (0.5 + rand.Float64()))
		}
		if opts.MaxWait > 0 && sleep > opts.MaxWait {
			sleep = opts.MaxWait
		}

		select {
		case <-ctx.Done():
			return Err[T](ctx.Err())
		case <-time.After(sleep):
		}

		wait *= 2
		if opts.MaxWait > 0 && wait > opts.MaxWait {
			wait = opts.MaxWait
		}
	}
}
