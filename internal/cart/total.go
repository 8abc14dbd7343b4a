package cart

import (
	"github.com/shopspring/decimal"

	domain "github.com/xenking/storefront/internal/domain/product"
)

// Total is the derived summary of the cart's line items.
type Total struct {
	ProductQuantity int
	TotalPrice      decimal.Decimal
	Installments    int
	CurrencyID      string
	CurrencyFormat  string
}

// ComputeTotal folds the line items into a Total. It is a pure function
// of its input; the controller re-runs it after every mutation.
func ComputeTotal(lines []domain.CartProduct) Total {
	t := Total{
		TotalPrice:     decimal.Zero,
		CurrencyID:     domain.DefaultCurrencyID,
		CurrencyFormat: domain.DefaultCurrencyFormat,
	}
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		t.ProductQuantity += line.Quantity
		t.TotalPrice = t.TotalPrice.Add(line.Price.Mul(qty))
		if line.Installments > t.Installments {
			t.Installments = line.Installments
		}
		t.CurrencyID = line.CurrencyID
		t.CurrencyFormat = line.CurrencyFormat
	}
	t.TotalPrice = t.TotalPrice.Round(2)
	return t
}
