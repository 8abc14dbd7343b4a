package validate

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/xenking/storefront/internal/domain/product"
)

func validRaw() map[string]any {
	return map[string]any{
		"id":             json.Number("12"),
		"sku":            json.Number("8552515751438644"),
		"title":          "Cat Tee Black T-Shirt",
		"description":    "4 MSL",
		"price":          json.Number("10.9"),
		"installments":   json.Number("9"),
		"currencyId":     "USD",
		"currencyFormat": "$",
		"availableSizes": []any{"S", "XS"},
		"style":          "Black with custom print",
		"isFreeShipping": true,
	}
}

func TestProduct_Valid(t *testing.T) {
	res := Product(validRaw())

	require.True(t, res.Valid)
	require.Empty(t, res.Errors)
	assert.Equal(t, int64(12), res.Product.ID)
	assert.Equal(t, "Cat Tee Black T-Shirt", res.Product.Title)
	assert.Equal(t, "10.9", res.Product.Price.String())
	assert.Equal(t, 9, res.Product.Installments)
	assert.Equal(t, []string{"S", "XS"}, res.Product.AvailableSizes)
	assert.True(t, res.Product.IsFreeShipping)
}

func TestProduct_RequiredFieldFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]any)
		wantErr string
	}{
		{
			name:    "missing id",
			mutate:  func(raw map[string]any) { delete(raw, "id") },
			wantErr: "Invalid product ID",
		},
		{
			name:    "negative sku",
			mutate:  func(raw map[string]any) { raw["sku"] = json.Number("-1") },
			wantErr: "Invalid product SKU",
		},
		{
			name:    "non-string title",
			mutate:  func(raw map[string]any) { raw["title"] = 99 },
			wantErr: "Invalid product title",
		},
		{
			name:    "price out of range",
			mutate:  func(raw map[string]any) { raw["price"] = json.Number("1000001") },
			wantErr: "Invalid product price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(raw)

			res := Product(raw)

			assert.False(t, res.Valid)
			assert.Contains(t, res.Errors, tt.wantErr)
		})
	}
}

func TestProduct_FallbackFields(t *testing.T) {
	raw := validRaw()
	raw["currencyId"] = "XYZ"
	raw["currencyFormat"] = ""
	raw["style"] = 123

	res := Product(raw)

	// The record is flagged, but every fallback is still populated so the
	// product stays renderable.
	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 3)
	assert.Equal(t, domain.DefaultCurrencyID, res.Product.CurrencyID)
	assert.Equal(t, domain.DefaultCurrencyFormat, res.Product.CurrencyFormat)
	assert.Equal(t, domain.DefaultStyle, res.Product.Style)
}

func TestProduct_SilentDegradation(t *testing.T) {
	raw := validRaw()
	raw["description"] = 42
	raw["installments"] = json.Number("-1")
	raw["availableSizes"] = "not-a-list"
	raw["isFreeShipping"] = nil

	res := Product(raw)

	require.True(t, res.Valid, "optional fields must not affect validity")
	assert.Equal(t, "", res.Product.Description)
	assert.Equal(t, 0, res.Product.Installments)
	assert.Empty(t, res.Product.AvailableSizes)
	assert.False(t, res.Product.IsFreeShipping)
}

func TestProduct_TitleSanitized(t *testing.T) {
	raw := validRaw()
	raw["title"] = `<script>alert(1)</script>Tee`

	res := Product(raw)

	require.True(t, res.Valid)
	assert.Equal(t, "alert(1)Tee", res.Product.Title)
}

func TestCartProduct(t *testing.T) {
	t.Run("valid line", func(t *testing.T) {
		raw := validRaw()
		raw["quantity"] = json.Number("3")

		res := CartProduct(raw)

		require.True(t, res.Valid)
		assert.Equal(t, 3, res.Product.Quantity)
	})

	t.Run("base errors reported before quantity", func(t *testing.T) {
		raw := validRaw()
		delete(raw, "id")
		raw["quantity"] = json.Number("0")

		res := CartProduct(raw)

		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors, "Invalid product ID")
		assert.NotContains(t, res.Errors, "Invalid product quantity")
	})

	t.Run("quantity out of range", func(t *testing.T) {
		raw := validRaw()
		raw["quantity"] = json.Number("1001")

		res := CartProduct(raw)

		assert.False(t, res.Valid)
		assert.Equal(t, []string{"Invalid product quantity"}, res.Errors)
	})

	t.Run("missing quantity", func(t *testing.T) {
		res := CartProduct(validRaw())
		assert.False(t, res.Valid)
	})
}

func TestCheckProduct(t *testing.T) {
	good := domain.Product{
		ID:             1,
		SKU:            2,
		Title:          "Tee",
		Price:          decimal.NewFromFloat(9.99),
		CurrencyID:     "USD",
		CurrencyFormat: "$",
		Style:          "Plain",
	}
	assert.Empty(t, CheckProduct(good))

	bad := good
	bad.ID = 0
	bad.CurrencyID = "XX"
	bad.Price = decimal.NewFromInt(-1)
	errs := CheckProduct(bad)
	assert.Len(t, errs, 3)
}

func TestCheckCartProduct(t *testing.T) {
	line := domain.CartProduct{
		Product: domain.Product{
			ID:             1,
			SKU:            2,
			Title:          "Tee",
			Price:          decimal.NewFromFloat(9.99),
			CurrencyID:     "USD",
			CurrencyFormat: "$",
			Style:          "Plain",
		},
		Quantity: 1,
	}
	assert.Empty(t, CheckCartProduct(line))

	line.Quantity = 1001
	assert.Contains(t, CheckCartProduct(line), "Invalid product quantity")
}
