// Package retry runs an operation with classified, strictly sequential
// exponential backoff. Parallel attempts are deliberately impossible:
// every attempt waits out its delay before the next one starts.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/apierror"
)

// Options control the backoff schedule.
type Options struct {
	// MaxRetries is the number of re-attempts after the first failure, so
	// an operation runs at most MaxRetries+1 times.
	MaxRetries int
	// BaseDelay is the wait before the first retry.
	BaseDelay time.Duration
	// Multiplier grows the delay between consecutive retries.
	Multiplier float64
	// MaxDelay caps the grown delay.
	MaxDelay time.Duration
}

// DefaultOptions mirrors the service-wide retry policy.
func DefaultOptions() Options {
	return Options{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		Multiplier: 2,
		MaxDelay:   10 * time.Second,
	}
}

// delay returns the backoff before retry number attempt (zero-based).
func (o Options) delay(attempt int) time.Duration {
	d := time.Duration(float64(o.BaseDelay) * math.Pow(o.Multiplier, float64(attempt)))
	if d > o.MaxDelay || d <= 0 {
		d = o.MaxDelay
	}
	return d
}

// Do invokes op, classifying every failure through the error taxonomy.
// Non-retryable errors and exhausted budgets propagate immediately; the
// returned error always carries the attempt count it failed on. A context
// cancellation during a backoff wait aborts the sequence, but an attempt
// already in flight is never interrupted by the engine itself.
func Do(ctx context.Context, opts Options, op func(context.Context) error) error {
	lg := zctx.From(ctx)

	for attempt := 0; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		classified := apierror.Classify(err)
		classified.RetryCount = attempt
		if !classified.IsRetryable || attempt >= opts.MaxRetries {
			return classified
		}

		wait := opts.delay(attempt)
		lg.Debug("operation failed, backing off",
			zap.String("kind", string(classified.Kind)),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", wait),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			aborted := apierror.Classify(ctx.Err())
			aborted.RetryCount = attempt
			return aborted
		case <-timer.C:
		}
	}
}
