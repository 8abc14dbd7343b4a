package validate

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/xenking/storefront/internal/domain/product"
)

func TestProductID(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   int64
		wantOK bool
	}{
		{name: "positive int", input: 42, want: 42, wantOK: true},
		{name: "json number", input: json.Number("17"), want: 17, wantOK: true},
		{name: "max safe id", input: float64(domain.MaxSafeID), want: domain.MaxSafeID, wantOK: true},
		{name: "zero rejected", input: 0},
		{name: "negative rejected", input: -5},
		{name: "fractional rejected", input: 12.5},
		{name: "above max safe rejected", input: float64(domain.MaxSafeID) * 2},
		{name: "NaN rejected", input: math.NaN()},
		{name: "string rejected", input: "12"},
		{name: "nil rejected", input: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ProductID(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProductPrice(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   string
		wantOK bool
	}{
		{name: "plain price", input: json.Number("29.99"), want: "29.99", wantOK: true},
		{name: "half-up rounding on exact literal", input: json.Number("19.995"), want: "20", wantOK: true},
		{name: "zero allowed", input: json.Number("0"), want: "0", wantOK: true},
		{name: "upper bound allowed", input: json.Number("1000000"), want: "1000000", wantOK: true},
		{name: "integer input", input: 15, want: "15", wantOK: true},
		{name: "negative rejected", input: json.Number("-1")},
		{name: "above bound rejected", input: json.Number("1000001")},
		{name: "infinity rejected", input: math.Inf(1)},
		{name: "string rejected", input: "9.99"},
		{name: "nil rejected", input: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ProductPrice(tt.input)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestProductQuantity(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   int
		wantOK bool
	}{
		{name: "one", input: 1, want: 1, wantOK: true},
		{name: "limit", input: domain.MaxQuantity, want: domain.MaxQuantity, wantOK: true},
		{name: "zero rejected", input: 0},
		{name: "over limit rejected", input: domain.MaxQuantity + 1},
		{name: "fractional rejected", input: 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ProductQuantity(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInstallments(t *testing.T) {
	assert.Equal(t, 12, Installments(12))
	assert.Equal(t, 0, Installments(nil))
	assert.Equal(t, 0, Installments(-3))
	assert.Equal(t, 0, Installments(domain.MaxInstallments+1))
	assert.Equal(t, 0, Installments("6"))
	assert.Equal(t, domain.MaxInstallments, Installments(json.Number("1000")))
}

func TestCurrencyID(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   string
		wantOK bool
	}{
		{name: "uppercase passthrough", input: "USD", want: "USD", wantOK: true},
		{name: "lowercase normalized", input: "usd", want: "USD", wantOK: true},
		{name: "padded", input: " eur ", want: "EUR", wantOK: true},
		{name: "unknown code rejected", input: "XYZ"},
		{name: "non-string rejected", input: 840},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CurrencyID(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrencyFormat(t *testing.T) {
	got, ok := CurrencyFormat("$")
	require.True(t, ok)
	assert.Equal(t, "$", got)

	_, ok = CurrencyFormat("")
	assert.False(t, ok)

	_, ok = CurrencyFormat("   ")
	assert.False(t, ok)

	_, ok = CurrencyFormat("aaaaaaaaaaaaaaaa")
	assert.False(t, ok)

	// Sanitization can grow the value past the limit.
	_, ok = CurrencyFormat("<<<<")
	assert.False(t, ok)
}

func TestAvailableSizes(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{
			name:  "filters and normalizes",
			input: []any{"m", "zz", "L"},
			want:  []string{"M", "L"},
		},
		{
			name:  "drops duplicates",
			input: []any{"XL", "xl", " XL "},
			want:  []string{"XL"},
		},
		{
			name:  "string slice accepted",
			input: []string{"xs", "ML"},
			want:  []string{"XS", "ML"},
		},
		{
			name:  "non-strings skipped",
			input: []any{1, true, "S"},
			want:  []string{"S"},
		},
		{name: "non-slice yields nil", input: "M"},
		{name: "nil yields nil", input: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AvailableSizes(tt.input))
		})
	}
}

func TestTruthy(t *testing.T) {
	assert.True(t, Truthy(true))
	assert.True(t, Truthy("yes"))
	assert.True(t, Truthy(1))
	assert.True(t, Truthy(json.Number("0.5")))
	assert.True(t, Truthy(map[string]any{}))
	assert.True(t, Truthy([]any{}))

	assert.False(t, Truthy(false))
	assert.False(t, Truthy(""))
	assert.False(t, Truthy(0))
	assert.False(t, Truthy(json.Number("0")))
	assert.False(t, Truthy(nil))
}

func TestImageSource(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		wantOK bool
	}{
		{name: "local asset", input: "/static/products/12-1-product.webp", wantOK: true},
		{name: "cloudfront https", input: "https://d1234.cloudfront.net/img.jpg", wantOK: true},
		{name: "s3 https", input: "https://bucket.s3.amazonaws.com/img.jpg", wantOK: true},
		{name: "http rejected", input: "http://d1234.cloudfront.net/img.jpg"},
		{name: "unknown host rejected", input: "https://evil.example.com/img.jpg"},
		{name: "malformed url rejected", input: "https://%zz"},
		{name: "non-string rejected", input: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ImageSource(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.input, got)
			}
		})
	}
}
