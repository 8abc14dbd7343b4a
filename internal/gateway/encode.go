package gateway

import (
	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/apierror"
	"github.com/xenking/storefront/internal/cart"
	domain "github.com/xenking/storefront/internal/domain/product"
)

func encodeProduct(e *jx.Encoder, p domain.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(p.ID) })
		e.Field("sku", func(e *jx.Encoder) { e.Int64(p.SKU) })
		e.Field("title", func(e *jx.Encoder) { e.Str(p.Title) })
		e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		e.Field("price", func(e *jx.Encoder) { e.Float64(p.Price.InexactFloat64()) })
		e.Field("installments", func(e *jx.Encoder) { e.Int(p.Installments) })
		e.Field("currencyId", func(e *jx.Encoder) { e.Str(p.CurrencyID) })
		e.Field("currencyFormat", func(e *jx.Encoder) { e.Str(p.CurrencyFormat) })
		e.Field("availableSizes", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, s := range p.AvailableSizes {
					e.Str(s)
				}
			})
		})
		e.Field("style", func(e *jx.Encoder) { e.Str(p.Style) })
		e.Field("isFreeShipping", func(e *jx.Encoder) { e.Bool(p.IsFreeShipping) })
	})
}

func encodeCartLine(e *jx.Encoder, line domain.CartProduct) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("product", func(e *jx.Encoder) { encodeProduct(e, line.Product) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(line.Quantity) })
	})
}

func encodeTotal(e *jx.Encoder, t cart.Total) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("productQuantity", func(e *jx.Encoder) { e.Int(t.ProductQuantity) })
		e.Field("totalPrice", func(e *jx.Encoder) { e.Float64(t.TotalPrice.InexactFloat64()) })
		e.Field("installments", func(e *jx.Encoder) { e.Int(t.Installments) })
		e.Field("currencyId", func(e *jx.Encoder) { e.Str(t.CurrencyID) })
		e.Field("currencyFormat", func(e *jx.Encoder) { e.Str(t.CurrencyFormat) })
	})
}

// encodeError writes the single displayable error object, or null.
func encodeError(e *jx.Encoder, err *apierror.Error) {
	if err == nil {
		e.Null()
		return
	}
	e.Obj(func(e *jx.Encoder) {
		e.Field("message", func(e *jx.Encoder) { e.Str(err.Message) })
		e.Field("type", func(e *jx.Encoder) { e.Str(string(err.Surface())) })
		e.Field("isRetryable", func(e *jx.Encoder) { e.Bool(err.IsRetryable) })
		e.Field("retryCount", func(e *jx.Encoder) { e.Int(err.RetryCount) })
	})
}
