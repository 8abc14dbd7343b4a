package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck reports unhealthy when the goroutine count exceeds
// the threshold. Useful as a liveness check for goroutine leaks.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if count := runtime.NumGoroutine(); count > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", count, threshold)
		}
		return nil
	}
}

// UpstreamCheck adapts a boolean reachability probe into a CheckFunc.
func UpstreamCheck(name string, probe func(ctx context.Context) bool) CheckFunc {
	return func(ctx context.Context) error {
		if !probe(ctx) {
			return errors.Errorf("upstream %s unreachable", name)
		}
		return nil
	}
}
