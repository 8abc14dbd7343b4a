package catalog

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/apierror"
	domain "github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/rawjson"
	"github.com/xenking/storefront/internal/validate"
)

// requiredProductFields must be present on every raw record; a payload
// missing any of them is rejected outright as a validation failure.
var requiredProductFields = []string{"id", "sku", "title", "price", "availableSizes"}

// decodeCatalog parses the {"data":{"products":[...]}} envelope, enforces
// the required-field set on every record, and runs each record through
// full validation. Records that carry the required fields but still fail
// validation are dropped individually rather than sinking the payload.
func decodeCatalog(body []byte, lg *zap.Logger) ([]domain.Product, error) {
	if len(body) == 0 {
		return nil, apierror.Validation("EMPTY_RESPONSE")
	}

	raws, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}

	for _, raw := range raws {
		if apiErr := apierror.ValidateResponse(raw, requiredProductFields...); apiErr != nil {
			return nil, apiErr
		}
	}

	products := make([]domain.Product, 0, len(raws))
	for _, raw := range raws {
		res := validate.Product(raw)
		if !res.Valid {
			lg.Warn("dropping invalid product",
				zap.Int64("id", res.Product.ID),
				zap.Strings("errors", res.Errors),
			)
			continue
		}
		products = append(products, res.Product)
	}
	return products, nil
}

// decodeEnvelope extracts the raw product records from the response
// envelope. Records stay loosely typed so the validators see the input
// exactly as it arrived.
func decodeEnvelope(body []byte) ([]map[string]any, error) {
	var (
		raws  []map[string]any
		found bool
	)

	d := jx.DecodeBytes(body)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "data" {
			return d.Skip()
		}
		return d.Obj(func(d *jx.Decoder, key string) error {
			if key != "products" {
				return d.Skip()
			}
			found = true
			return d.Arr(func(d *jx.Decoder) error {
				v, err := rawjson.Value(d)
				if err != nil {
					return err
				}
				m, ok := v.(map[string]any)
				if !ok {
					return errors.New("product entry is not an object")
				}
				raws = append(raws, m)
				return nil
			})
		})
	})
	if err != nil {
		return nil, apierror.Validation("MALFORMED_RESPONSE")
	}
	if !found {
		return nil, apierror.Validation("MISSING_FIELD_products")
	}
	return raws, nil
}
