// Package rawjson decodes JSON into loosely-typed Go values so the
// validation layer sees external input exactly as it arrived. Numbers are
// kept as json.Number to preserve their decimal literals.
package rawjson

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Object decodes data as a single JSON object.
func Object(data []byte) (map[string]any, error) {
	d := jx.DecodeBytes(data)
	v, err := Value(d)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("not a JSON object")
	}
	return m, nil
}

// Value decodes one JSON value from the decoder.
func Value(d *jx.Decoder) (any, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return nil, err
		}
		return json.Number(n.String()), nil
	case jx.Bool:
		return d.Bool()
	case jx.Null:
		return nil, d.Null()
	case jx.Array:
		var arr []any
		err := d.Arr(func(d *jx.Decoder) error {
			v, err := Value(d)
			if err != nil {
				return err
			}
			arr = append(arr, v)
			return nil
		})
		return arr, err
	case jx.Object:
		m := make(map[string]any)
		err := d.Obj(func(d *jx.Decoder, key string) error {
			v, err := Value(d)
			if err != nil {
				return err
			}
			m[key] = v
			return nil
		})
		return m, err
	default:
		return nil, errors.New("unexpected JSON token")
	}
}
