// Package money implements the value-and-unit layer: minor-unit integers,
// currency-aware decimal conversion, and display-masking secret wrappers.
package money

import "fmt"

// Currency is an ISO-4217 alphabetic code.
type Currency string

// decimalDigits classifies every currency this gateway is expected to
// quote. A currency absent from this table has no decimal classification
// and MUST be treated as a hard error (§4.1) rather than defaulting
// to 2 digits.
var decimalDigits = map[Currency]int{
	"USD": 2, "EUR": 2, "GBP": 2, "AUD": 2, "CAD": 2, "SGD": 2,
	"INR": 2, "CHF": 2, "NZD": 2, "ZAR": 2, "KZT": 2, "AED": 2,
	"JPY": 0, "KRW": 0, "VND": 0, "CLP": 0, "ISK": 0,
	"BHD": 3, "KWD": 3, "OMR": 3, "JOD": 3, "TND": 3,
	"CLF": 4,
}

// UnsupportedCurrency is returned when a currency has no known decimal
// classification.
type UnsupportedCurrency struct {
	Currency Currency
}

func (e *UnsupportedCurrency) Error() string {
	return fmt.Sprintf("money: currency %q has no decimal classification", e.Currency)
}

// Digits returns the currency's minor-unit decimal digit count and whether
// the currency is classified at all.
func Digits(c Currency) (int, bool) {
	d, ok := decimalDigits[c]
	return d, ok
}

// RegisterCurrency adds or overrides a currency's decimal classification.
// Intended for connector-specific test fixtures and operational config
// overrides, not for runtime mutation from request data.
func RegisterCurrency(c Currency, digits int) {
	decimalDigits[c] = digits
}
