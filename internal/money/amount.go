package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MinorUnit is a non-negative integer count of a currency's smallest unit
// (e.g. USD cents, JPY yen). It is never negotiated as a float.
type MinorUnit int64

// Unit names the connector-facing representation an Amount is converted to.
type Unit int

const (
	UnitMinorInteger Unit = iota
	UnitMajorString
	UnitMajorFloat
)

// AmountConversionFailed is returned by ConvertBack when rounding would
// lose precision, i.e. the major-unit representation does not correspond
// to an exact integer count of minor units.
type AmountConversionFailed struct {
	Currency Currency
	Input string
}

func (e *AmountConversionFailed) Error() string {
	return fmt.Sprintf("money: amount conversion failed for currency %q, value %q", e.Currency, e.Input)
}

// Amount is a unit-safe monetary value: a minor-unit integer plus its
// currency tag.
type Amount struct {
	Minor MinorUnit
	Currency Currency
}

func New(minor MinorUnit, currency Currency) Amount {
	return Amount{Minor: minor, Currency: currency}
}

// decimalValue returns the exact major-unit decimal.Decimal for the amount,
// computed by integer division never by floating point, per spec §9.
func (a Amount) decimalValue() (decimal.Decimal, error) {
	digits, ok := Digits(a.Currency)
	if !ok {
		return decimal.Decimal{}, &UnsupportedCurrency{Currency: a.Currency}
	}
	scale := decimal.New(1, int32(digits))
	return decimal.NewFromInt(int64(a.Minor)).DivRound(scale, int32(digits)), nil
}

// MajorString renders the amount as a fixed-decimal string, zero-padded to
// the currency's digit count (scenario D).
func (a Amount) MajorString() (string, error) {
	d, err := a.decimalValue()
	if err != nil {
		return "", err
	}
	digits, _ := Digits(a.Currency)
	return d.StringFixed(int32(digits)), nil
}

// MajorFloat renders the amount as a float64, for connectors that demand
// one. The float is produced only here, at the serialization boundary —
// never used as intermediate computation state.
func (a Amount) MajorFloat() (float64, error) {
	d, err := a.decimalValue()
	if err != nil {
		return 0, err
	}
	f, _ := d.Float64()
	return f, nil
}

// MinorInteger returns the minor-unit integer representation unchanged.
func (a Amount) MinorInteger() int64 {
	return int64(a.Minor)
}

// Convert renders the amount in the requested connector unit.
func (a Amount) Convert(target Unit) (any, error) {
	switch target {
	case UnitMinorInteger:
		return a.MinorInteger(), nil
	case UnitMajorString:
		return a.MajorString()
	case UnitMajorFloat:
		return a.MajorFloat()
	default:
		return nil, fmt.Errorf("money: unknown unit %d", target)
	}
}

// FromMajorString parses a fixed-decimal major-unit string back into a
// MinorUnit amount, failing if the string carries more precision than the
// currency's digit count allows (property 1: round-trip).
func FromMajorString(value string, currency Currency) (MinorUnit, error) {
	digits, ok := Digits(currency)
	if !ok {
		return 0, &UnsupportedCurrency{Currency: currency}
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, &AmountConversionFailed{Currency: currency, Input: value}
	}

	scale := decimal.New(1, int32(digits))
	minor := d.Mul(scale)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, &AmountConversionFailed{Currency: currency, Input: value}
	}

	return MinorUnit(minor.IntPart()), nil
}

// FromMajorFloat parses a major-unit float back into minor units. Used only
// to round-trip connectors that hand back a float; the float is converted
// to decimal immediately rather than carried further as float.
func FromMajorFloat(value float64, currency Currency) (MinorUnit, error) {
	digits, ok := Digits(currency)
	if !ok {
		return 0, &UnsupportedCurrency{Currency: currency}
	}
	d := decimal.NewFromFloat(value)
	scale := decimal.New(1, int32(digits))
	minor := d.Mul(scale).Round(0)
	return MinorUnit(minor.IntPart()), nil
}
