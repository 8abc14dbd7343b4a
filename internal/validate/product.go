package validate

import (
	"unicode/utf8"

	domain "github.com/xenking/storefront/internal/domain/product"
)

// Result is the outcome of validating one raw product record. Product is
// always structurally complete: defaultable fields carry their fallback
// values even when Valid is false.
type Result struct {
	Valid   bool
	Product domain.Product
	Errors  []string
}

// CartResult is the outcome of validating one raw cart line.
type CartResult struct {
	Valid   bool
	Product domain.CartProduct
	Errors  []string
}

// Product runs every field validator over an arbitrary record. Required
// fields (id, sku, title, price, currencyId, currencyFormat, style) append
// an error on failure; currencyId, currencyFormat, and style additionally
// fall back to safe defaults. Description, sizes, installments, and the
// free-shipping flag degrade silently and never affect validity.
func Product(raw map[string]any) Result {
	var (
		p    domain.Product
		errs []string
	)

	if id, ok := ProductID(raw["id"]); ok {
		p.ID = id
	} else {
		errs = append(errs, "Invalid product ID")
	}
	if sku, ok := ProductSKU(raw["sku"]); ok {
		p.SKU = sku
	} else {
		errs = append(errs, "Invalid product SKU")
	}

	p.Title = SanitizeProductTitle(raw["title"])
	if _, isString := raw["title"].(string); !isString {
		errs = append(errs, "Invalid product title")
	}
	p.Description = SanitizeProductDescription(raw["description"])

	if price, ok := ProductPrice(raw["price"]); ok {
		p.Price = price
	} else {
		errs = append(errs, "Invalid product price")
	}
	p.Installments = Installments(raw["installments"])

	if code, ok := CurrencyID(raw["currencyId"]); ok {
		p.CurrencyID = code
	} else {
		p.CurrencyID = domain.DefaultCurrencyID
		errs = append(errs, "Invalid currency ID, defaulting to "+domain.DefaultCurrencyID)
	}
	if format, ok := CurrencyFormat(raw["currencyFormat"]); ok {
		p.CurrencyFormat = format
	} else {
		p.CurrencyFormat = domain.DefaultCurrencyFormat
		errs = append(errs, "Invalid currency format, defaulting to "+domain.DefaultCurrencyFormat)
	}

	p.AvailableSizes = AvailableSizes(raw["availableSizes"])

	if style, ok := ProductStyle(raw["style"]); ok {
		p.Style = style
	} else {
		p.Style = domain.DefaultStyle
		errs = append(errs, "Invalid product style, defaulting to "+domain.DefaultStyle)
	}

	p.IsFreeShipping = Truthy(raw["isFreeShipping"])

	return Result{Valid: len(errs) == 0, Product: p, Errors: errs}
}

// CartProduct validates the embedded product first and fails fast with its
// errors; only then is the quantity checked.
func CartProduct(raw map[string]any) CartResult {
	base := Product(raw)
	if !base.Valid {
		return CartResult{
			Product: domain.CartProduct{Product: base.Product},
			Errors:  base.Errors,
		}
	}

	quantity, ok := ProductQuantity(raw["quantity"])
	if !ok {
		return CartResult{
			Product: domain.CartProduct{Product: base.Product},
			Errors:  []string{"Invalid product quantity"},
		}
	}

	return CartResult{
		Valid:   true,
		Product: domain.CartProduct{Product: base.Product, Quantity: quantity},
	}
}

// CheckProduct re-validates an already-typed product, returning the list
// of violated constraints. The cart controller uses it to guard every
// mutation against values tampered with after initial validation.
func CheckProduct(p domain.Product) []string {
	var errs []string
	if p.ID <= 0 || p.ID > domain.MaxSafeID {
		errs = append(errs, "Invalid product ID")
	}
	if p.SKU <= 0 || p.SKU > domain.MaxSafeID {
		errs = append(errs, "Invalid product SKU")
	}
	if p.Title == "" {
		errs = append(errs, "Invalid product title")
	}
	if p.Price.IsNegative() || p.Price.GreaterThan(maxPrice) {
		errs = append(errs, "Invalid product price")
	}
	if _, ok := currencySet[p.CurrencyID]; !ok {
		errs = append(errs, "Invalid currency ID")
	}
	if n := utf8.RuneCountInString(p.CurrencyFormat); n < 1 || n > domain.MaxCurrencyFmtLen {
		errs = append(errs, "Invalid currency format")
	}
	if n := utf8.RuneCountInString(p.Style); n < 1 || n > domain.MaxStyleLen {
		errs = append(errs, "Invalid product style")
	}
	return errs
}

// CheckCartProduct re-validates a typed cart line: the embedded product
// plus its quantity range.
func CheckCartProduct(p domain.CartProduct) []string {
	errs := CheckProduct(p.Product)
	if p.Quantity < 1 || p.Quantity > domain.MaxQuantity {
		errs = append(errs, "Invalid product quantity")
	}
	return errs
}
