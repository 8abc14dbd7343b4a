package validate

import (
	"encoding/json"
	"math"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	domain "github.com/xenking/storefront/internal/domain/product"
)

// LocalAssetPrefix is the path prefix under which bundled product images
// are served.
const LocalAssetPrefix = "/static/products/"

// allowedImageHosts lists the domains remote product images may be loaded
// from. A hostname passes when it contains one of these entries.
var allowedImageHosts = []string{
	"cloudfront.net",
	"amazonaws.com",
	"githubusercontent.com",
}

var (
	currencySet = sizeSet(domain.Currencies)
	sizeWhitelist = sizeSet(domain.Sizes)

	maxPrice = decimal.NewFromInt(domain.MaxPrice)
)

func sizeSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

// toFloat coerces the numeric representations produced by the wire decoder
// and by programmatic callers. Everything else fails.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func toSafeInt(v any) (int64, bool) {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// ProductID accepts integers in (0, MaxSafeID].
func ProductID(v any) (int64, bool) {
	id, ok := toSafeInt(v)
	if !ok || id <= 0 || id > domain.MaxSafeID {
		return 0, false
	}
	return id, true
}

// ProductSKU accepts integers in (0, MaxSafeID].
func ProductSKU(v any) (int64, bool) {
	return ProductID(v)
}

// ProductPrice accepts finite numbers in [0, MaxPrice] and rounds them
// half-up to two decimal places. Numbers decoded from the wire arrive as
// json.Number so rounding sees the exact decimal literal rather than its
// nearest float64.
func ProductPrice(v any) (decimal.Decimal, bool) {
	var d decimal.Decimal
	switch n := v.(type) {
	case json.Number:
		parsed, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, false
		}
		d = parsed
	default:
		f, ok := toFloat(v)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		d = decimal.NewFromFloat(f)
	}
	if d.IsNegative() || d.GreaterThan(maxPrice) {
		return decimal.Zero, false
	}
	return d.Round(2), true
}

// ProductQuantity accepts integers in (0, MaxQuantity].
func ProductQuantity(v any) (int, bool) {
	q, ok := toSafeInt(v)
	if !ok || q <= 0 || q > domain.MaxQuantity {
		return 0, false
	}
	return int(q), true
}

// Installments accepts integers in [0, MaxInstallments]; anything else
// degrades to 0.
func Installments(v any) int {
	n, ok := toSafeInt(v)
	if !ok || n < 0 || n > domain.MaxInstallments {
		return 0
	}
	return int(n)
}

// CurrencyID matches the input case-insensitively against the currency
// whitelist and returns the upper-cased code.
func CurrencyID(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	code := strings.ToUpper(strings.TrimSpace(s))
	if _, ok := currencySet[code]; !ok {
		return "", false
	}
	return code, true
}

// CurrencyFormat sanitizes and trims the input and accepts lengths in
// [1, MaxCurrencyFmtLen].
func CurrencyFormat(v any) (string, bool) {
	s := strings.TrimSpace(SanitizeHTML(v))
	if n := utf8.RuneCountInString(s); n < 1 || n > domain.MaxCurrencyFmtLen {
		return "", false
	}
	return s, true
}

// AvailableSizes filters an arbitrary slice down to whitelisted size
// strings, normalizes their case, drops duplicates, and caps the result at
// MaxSizeEntries. Non-slice input yields an empty sequence.
func AvailableSizes(v any) []string {
	var items []any
	switch s := v.(type) {
	case []any:
		items = s
	case []string:
		items = make([]any, len(s))
		for i, e := range s {
			items[i] = e
		}
	default:
		return nil
	}

	var (
		out  []string
		seen = make(map[string]struct{}, len(items))
	)
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			continue
		}
		size := strings.ToUpper(strings.TrimSpace(s))
		if _, ok := sizeWhitelist[size]; !ok {
			continue
		}
		if _, dup := seen[size]; dup {
			continue
		}
		seen[size] = struct{}{}
		out = append(out, size)
		if len(out) == domain.MaxSizeEntries {
			break
		}
	}
	return out
}

// ProductStyle sanitizes and trims the input and accepts lengths in
// [1, MaxStyleLen].
func ProductStyle(v any) (string, bool) {
	s := strings.TrimSpace(SanitizeHTML(v))
	if n := utf8.RuneCountInString(s); n < 1 || n > domain.MaxStyleLen {
		return "", false
	}
	return s, true
}

// Truthy coerces arbitrary input to a boolean the way a loosely-typed
// frontend would: it never rejects.
func Truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case nil:
		return false
	case string:
		return b != ""
	case json.Number:
		f, err := b.Float64()
		return err == nil && f != 0
	case float64, float32, int, int32, int64:
		f, _ := toFloat(v)
		return f != 0
	default:
		// Objects and arrays are truthy regardless of content.
		return true
	}
}

// ImageSource accepts local asset paths and https URLs whose hostname
// contains one of the allowed image domains. Malformed URLs and
// disallowed hosts fail.
func ImageSource(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(s, LocalAssetPrefix) {
		return s, true
	}
	if !strings.HasPrefix(s, "https://") {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	host := u.Hostname()
	if host == "" {
		return "", false
	}
	for _, allowed := range allowedImageHosts {
		if strings.Contains(host, allowed) {
			return s, true
		}
	}
	return "", false
}
