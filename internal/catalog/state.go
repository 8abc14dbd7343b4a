package catalog

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/apierror"
	domain "github.com/xenking/storefront/internal/domain/product"
)

// Controller owns the fetched catalog: the unfiltered cache, the active
// size filter, the displayable error slot, and the loading flags. All
// mutation happens through its methods; snapshots handed to callers never
// alias internal state.
type Controller struct {
	source Source
	lg     *zap.Logger

	mu       sync.Mutex
	cache    []domain.Product
	view     []domain.Product
	filter   []string
	err      *apierror.Error
	fetching int
	retrying int
	// nextToken stamps every fetch; a completion applies only while its
	// token is still the newest, so a stale in-flight response can never
	// overwrite a fresher one.
	nextToken uint64

	fetchTotal  metric.Int64Counter
	fetchErrors metric.Int64Counter
}

// NewController creates a catalog controller. A nil MeterProvider
// disables metrics.
func NewController(source Source, lg *zap.Logger, mp metric.MeterProvider) (*Controller, error) {
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	meter := mp.Meter("storefront/catalog")

	fetchTotal, err := meter.Int64Counter("catalog.fetch.total")
	if err != nil {
		return nil, errors.Wrap(err, "create fetch counter")
	}
	fetchErrors, err := meter.Int64Counter("catalog.fetch.errors")
	if err != nil {
		return nil, errors.Wrap(err, "create fetch error counter")
	}

	return &Controller{
		source:      source,
		lg:          lg,
		fetchTotal:  fetchTotal,
		fetchErrors: fetchErrors,
	}, nil
}

// Fetch loads the catalog from the source, replacing the cache and the
// filtered view on success and storing the classified error on failure.
// The fetching flag is cleared on every completion path.
func (c *Controller) Fetch(ctx context.Context) {
	c.fetch(ctx, false)
}

// Filter applies a new size selection. A populated cache is filtered in
// place with no network call; an empty cache triggers a fetch first, which
// then applies the selection.
func (c *Controller) Filter(ctx context.Context, sizes []string) {
	c.mu.Lock()
	c.filter = append([]string(nil), sizes...)
	if len(c.cache) > 0 {
		c.view = FilterBySize(c.cache, c.filter)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.fetch(ctx, false)
}

// RetryFetch re-runs the fetch only while the stored error is retryable;
// otherwise it is a no-op.
func (c *Controller) RetryFetch(ctx context.Context) {
	c.mu.Lock()
	if c.err == nil || !c.err.IsRetryable {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.fetch(ctx, true)
}

func (c *Controller) fetch(ctx context.Context, isRetry bool) {
	c.mu.Lock()
	c.nextToken++
	token := c.nextToken
	if isRetry {
		c.retrying++
	} else {
		c.fetching++
	}
	c.mu.Unlock()

	products, err := c.source.GetProducts(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if isRetry {
		c.retrying--
	} else {
		c.fetching--
	}

	if token != c.nextToken {
		c.lg.Debug("discarding stale fetch result", zap.Uint64("token", token))
		return
	}

	c.fetchTotal.Add(ctx, 1)
	if err != nil {
		apiErr := apierror.Classify(err)
		if isRetry && c.err != nil {
			apiErr.RetryCount = c.err.RetryCount + 1
		}
		c.err = apiErr
		c.fetchErrors.Add(ctx, 1)
		c.lg.Warn("catalog fetch failed",
			zap.String("kind", string(apiErr.Kind)),
			zap.Bool("retryable", apiErr.IsRetryable),
		)
		return
	}

	c.cache = products
	c.view = FilterBySize(products, c.filter)
	c.err = nil
}

// ClearError dismisses the stored error.
func (c *Controller) ClearError() {
	c.mu.Lock()
	c.err = nil
	c.mu.Unlock()
}

// Products returns a snapshot of the filtered catalog.
func (c *Controller) Products() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Product(nil), c.view...)
}

// Count returns the filtered product count.
func (c *Controller) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.view)
}

// HasProducts reports whether the filtered view is non-empty.
func (c *Controller) HasProducts() bool {
	return c.Count() > 0
}

// Loading reports whether any fetch or retry is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetching > 0 || c.retrying > 0
}

// Err returns a copy of the stored error, or nil.
func (c *Controller) Err() *apierror.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		return nil
	}
	e := *c.err
	return &e
}
