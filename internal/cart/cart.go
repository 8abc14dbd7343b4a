// Package cart owns the shopping cart's line-item collection. Every
// mutation re-validates its input; invalid products are rejected at the
// boundary and never merged into state.
package cart

import (
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	domain "github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/validate"
)

// Sentinel errors for rejected cart mutations.
var (
	// ErrCartFull is returned when adding a new line to a full cart.
	ErrCartFull = errors.New("cart is full")
	// ErrQuantityLimit is returned when a merge would push a line past
	// the quantity ceiling. The line is left unchanged.
	ErrQuantityLimit = errors.New("quantity limit reached")
)

// InvalidProductError reports why a product failed cart validation. It is
// distinguishable from network failures, which never originate here.
type InvalidProductError struct {
	Reasons []string
}

func (e *InvalidProductError) Error() string {
	return "invalid cart product: " + strings.Join(e.Reasons, "; ")
}

// Controller owns the cart state. Snapshots returned to callers are fresh
// collections; previously returned slices are never mutated in place.
type Controller struct {
	lg *zap.Logger

	mu    sync.Mutex
	lines []domain.CartProduct
	total Total
}

// NewController creates an empty cart.
func NewController(lg *zap.Logger) *Controller {
	return &Controller{
		lg:    lg,
		total: ComputeTotal(nil),
	}
}

// AddProduct validates the product, merges its quantity into an existing
// line with the same ID, or appends a new line. A merge that would exceed
// the quantity ceiling leaves the line unchanged; a new line beyond the
// cart capacity is rejected entirely.
func (c *Controller) AddProduct(p domain.CartProduct) error {
	if err := c.reject(p, "add"); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID != p.ID {
			continue
		}
		merged := c.lines[i].Quantity + p.Quantity
		if merged > domain.MaxQuantity {
			return ErrQuantityLimit
		}
		c.lines[i].Quantity = merged
		c.total = ComputeTotal(c.lines)
		return nil
	}

	if len(c.lines) >= domain.MaxCartLines {
		return ErrCartFull
	}
	c.lines = append(c.lines, p)
	c.total = ComputeTotal(c.lines)
	return nil
}

// RemoveProduct validates the target and removes the matching line. Lines
// that fail re-validation during the scan are dropped as well.
func (c *Controller) RemoveProduct(p domain.CartProduct) error {
	if err := c.reject(p, "remove"); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.ID == p.ID {
			continue
		}
		if reasons := validate.CheckCartProduct(line); len(reasons) > 0 {
			c.lg.Warn("dropping invalid cart line",
				zap.Int64("id", line.ID),
				zap.Strings("reasons", reasons),
			)
			continue
		}
		kept = append(kept, line)
	}
	c.lines = kept
	c.total = ComputeTotal(c.lines)
	return nil
}

// IncreaseProductQuantity adds one to the matching line's quantity when
// the result stays within range; otherwise the line is unchanged.
func (c *Controller) IncreaseProductQuantity(p domain.CartProduct) error {
	return c.adjustQuantity(p, +1)
}

// DecreaseProductQuantity subtracts one from the matching line's quantity
// when the result stays within range. A decrease that would fall below
// one is a no-op, not a removal; callers remove lines explicitly.
func (c *Controller) DecreaseProductQuantity(p domain.CartProduct) error {
	return c.adjustQuantity(p, -1)
}

func (c *Controller) adjustQuantity(p domain.CartProduct, delta int) error {
	if err := c.reject(p, "adjust"); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID != p.ID {
			continue
		}
		next := c.lines[i].Quantity + delta
		if next < 1 || next > domain.MaxQuantity {
			return nil
		}
		c.lines[i].Quantity = next
		c.total = ComputeTotal(c.lines)
		return nil
	}

	c.lg.Debug("quantity adjustment for product not in cart", zap.Int64("id", p.ID))
	return nil
}

// ValidateCartState re-validates every stored line and reports whether
// the whole cart is currently consistent.
func (c *Controller) ValidateCartState() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, line := range c.lines {
		if len(validate.CheckCartProduct(line)) > 0 {
			return false
		}
	}
	return true
}

// Products returns a snapshot of the line items. A line that fails
// validation surfaces as a placeholder with zeroed fields instead of
// being omitted, keeping indices and length stable for callers.
func (c *Controller) Products() []domain.CartProduct {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.CartProduct, len(c.lines))
	for i, line := range c.lines {
		if len(validate.CheckCartProduct(line)) > 0 {
			out[i] = placeholderLine()
			continue
		}
		line.AvailableSizes = append([]string(nil), line.AvailableSizes...)
		out[i] = line
	}
	return out
}

// Total returns the last computed cart total.
func (c *Controller) Total() Total {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Len returns the number of line items.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Controller) reject(p domain.CartProduct, op string) error {
	reasons := validate.CheckCartProduct(p)
	if len(reasons) == 0 {
		return nil
	}
	c.lg.Warn("rejecting invalid cart product",
		zap.String("op", op),
		zap.Int64("id", p.ID),
		zap.Strings("reasons", reasons),
	)
	return &InvalidProductError{Reasons: reasons}
}

func placeholderLine() domain.CartProduct {
	return domain.CartProduct{
		Product: domain.Product{
			Title:          "Invalid Product",
			CurrencyID:     domain.DefaultCurrencyID,
			CurrencyFormat: domain.DefaultCurrencyFormat,
		},
	}
}
