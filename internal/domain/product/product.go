package product

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// MaxSafeID is the largest identifier the upstream feed can represent
// without losing integer precision (2^53 - 1).
const MaxSafeID = int64(1)<<53 - 1

// Bounds for validated product fields.
const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
	MaxPrice          = 1_000_000
	MaxInstallments   = 1000
	MaxQuantity       = 1000
	MaxCartLines      = 100
	MaxSizeEntries    = 10
	MaxCurrencyFmtLen = 10
	MaxStyleLen       = 50
)

// Fallback values applied when a defaultable field fails validation.
const (
	DefaultCurrencyID     = "USD"
	DefaultCurrencyFormat = "$"
	DefaultStyle          = "Unknown"
)

// Currencies is the fixed set of accepted currency codes, upper-cased.
var Currencies = []string{"USD", "EUR", "GBP", "BRL", "JPY", "CAD", "AUD", "CNY"}

// Sizes is the fixed set of sellable garment sizes.
var Sizes = []string{"XS", "S", "M", "ML", "L", "XL", "XXL"}

// Product is a validated catalog item. Instances are immutable once built
// by the validation layer; consumers must not mutate them.
type Product struct {
	ID             int64
	SKU            int64
	Title          string
	Description    string
	Price          decimal.Decimal
	Installments   int
	CurrencyID     string
	CurrencyFormat string
	AvailableSizes []string
	Style          string
	IsFreeShipping bool
}

// CartProduct is a product placed in the cart together with its quantity.
type CartProduct struct {
	Product
	Quantity int
}

// HasAnySize reports whether the product is available in at least one of
// the given sizes. The sizes must already be upper-cased. An empty set
// matches every product.
func (p Product) HasAnySize(sizes map[string]struct{}) bool {
	if len(sizes) == 0 {
		return true
	}
	for _, s := range p.AvailableSizes {
		if _, ok := sizes[s]; ok {
			return true
		}
	}
	return false
}
