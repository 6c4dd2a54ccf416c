// Package currency holds the fixed set of currencies the bank supports and
// their display metadata. Exchange rates are always expressed relative to
// the base currency (USD).
package currency

// Default is the base currency against which all fetched rates are expressed.
const Default = "USD"

// Meta holds currency-specific metadata.
type Meta struct {
	Decimals int
	Symbol   string
}

// supported is the fixed set of currencies. The order is stable and is the
// order returned by Supported.
var supported = []string{"USD", "EUR", "EGP", "AED", "SAR"}

var meta = map[string]Meta{
	"USD": {Decimals: 2, Symbol: "$"},
	"EUR": {Decimals: 2, Symbol: "€"},
	"EGP": {Decimals: 2, Symbol: "£"},
	"AED": {Decimals: 2, Symbol: "د.إ"},
	"SAR": {Decimals: 2, Symbol: "ر.س"},
}

// Supported returns the supported currency codes as a defensive copy.
func Supported() []string {
	out := make([]string, len(supported))
	copy(out, supported)
	return out
}

// IsSupported reports whether code is one of the supported currencies.
func IsSupported(code string) bool {
	_, ok := meta[code]
	return ok
}

// Get returns metadata for a currency code. Unknown codes get the default
// two-decimal metadata with the code itself as symbol.
func Get(code string) Meta {
	if m, ok := meta[code]; ok {
		return m
	}
	return Meta{Decimals: 2, Symbol: code}
}
