package catalog

import _ "embed"

// fixtureJSON is the static catalog served outside production. It uses the
// same envelope as the remote endpoint so both paths share one decoder.
//
//go:embed fixture/products.json
var fixtureJSON []byte
