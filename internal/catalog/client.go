// Package catalog provides read access to the product catalog and owns
// the cached, filterable catalog state.
package catalog

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xenking/storefront/internal/apierror"
	domain "github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/retry"
)

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 8 << 20

// Source provides read operations over the product catalog.
type Source interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsBySize(ctx context.Context, sizes []string) ([]domain.Product, error)
	CheckAPIHealth(ctx context.Context) bool
}

// ClientConfig holds the upstream endpoint and timing knobs.
type ClientConfig struct {
	// Endpoint is the remote catalog URL. Ignored outside production.
	Endpoint string
	// Production selects the remote endpoint; otherwise the embedded
	// fixture is served and never retried.
	Production bool
	// Timeout bounds one catalog request.
	Timeout time.Duration
	// HealthTimeout bounds one health probe.
	HealthTimeout time.Duration
	// Retry tunes the backoff wrapped around remote fetches.
	Retry retry.Options
}

func (c *ClientConfig) setDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.HealthTimeout == 0 {
		c.HealthTimeout = 5 * time.Second
	}
	if c.Retry == (retry.Options{}) {
		c.Retry = retry.DefaultOptions()
		c.Retry.MaxDelay = 8 * time.Second
	}
}

var _ Source = (*Client)(nil)

// Client fetches and validates the catalog. Failures leave the client as
// classified taxonomy errors, never raw transport errors.
type Client struct {
	cfg    ClientConfig
	http   *http.Client
	tracer trace.Tracer
	lg     *zap.Logger
	sf     singleflight.Group
}

// NewClient creates a catalog client. A nil TracerProvider disables
// tracing.
func NewClient(cfg ClientConfig, lg *zap.Logger, tp trace.TracerProvider) *Client {
	cfg.setDefaults()
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithTracerProvider(tp),
			),
		},
		tracer: tp.Tracer("storefront/catalog"),
		lg:     lg,
	}
}

// GetProducts returns the full validated catalog. Concurrent calls share
// one underlying fetch; the first caller's context governs the shared
// request.
func (c *Client) GetProducts(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := c.sf.Do("products", func() (any, error) {
		if !c.cfg.Production {
			return decodeCatalog(fixtureJSON, c.lg)
		}
		return c.fetchRemote(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// GetProductByID derives a single product from GetProducts; it never
// fetches independently.
func (c *Client) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	products, err := c.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetProductsBySize derives a size-filtered catalog from GetProducts.
func (c *Client) GetProductsBySize(ctx context.Context, sizes []string) ([]domain.Product, error) {
	products, err := c.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	return FilterBySize(products, sizes), nil
}

// CheckAPIHealth probes the upstream endpoint with a short timeout. It
// reports reachability only and never returns an error. The fixture is
// always healthy.
func (c *Client) CheckAPIHealth(ctx context.Context) bool {
	if !c.cfg.Production {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<10))

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

// fetchRemote wraps one-shot fetches in the retry engine. Whether another
// attempt happens is decided purely by the classified error, not by this
// wrapper: validation failures returned from inside stop immediately.
func (c *Client) fetchRemote(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := retry.Do(ctx, c.cfg.Retry, func(ctx context.Context) error {
		fetched, err := c.fetchOnce(ctx)
		if err != nil {
			return err
		}
		products = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) fetchOnce(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "catalog.fetch")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<10))
		return nil, apierror.FromStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return decodeCatalog(body, c.lg)
}

// FilterBySize returns the products whose available sizes intersect the
// selection. The selection is normalized into a set once, so a call costs
// O(n + m) for n products and m selected sizes. An empty selection passes
// everything.
func FilterBySize(products []domain.Product, sizes []string) []domain.Product {
	want := make(map[string]struct{}, len(sizes))
	for _, s := range sizes {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			want[s] = struct{}{}
		}
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.HasAnySize(want) {
			out = append(out, p)
		}
	}
	return out
}
