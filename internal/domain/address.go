package domain

import "strings"

// Address is a postal address. Empty-trimmed fields are treated as absent
// for the purposes of Unify.
type Address struct {
	Line1 string
	Line2 string
	City string
	State string
	ZIP string
	CountryCode string
	FirstName string
	LastName string
}

func (a Address) isEmpty() bool {
	return strings.TrimSpace(a.Line1) == "" &&
		strings.TrimSpace(a.Line2) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.State) == "" &&
		strings.TrimSpace(a.ZIP) == "" &&
		strings.TrimSpace(a.CountryCode) == "" &&
		strings.TrimSpace(a.FirstName) == "" &&
		strings.TrimSpace(a.LastName) == ""
}

func (a Address) fieldOrElse(mine, fallback string) string {
	if strings.TrimSpace(mine) != "" {
		return mine
	}
	return fallback
}

// merge returns the receiver's non-empty fields, falling back to other's
// field-by-field where the receiver's field is empty-trimmed.
func (a Address) merge(other Address) Address {
	return Address{
		Line1:       a.fieldOrElse(a.Line1, other.Line1),
		Line2:       a.fieldOrElse(a.Line2, other.Line2),
		City:        a.fieldOrElse(a.City, other.City),
		State:       a.fieldOrElse(a.State, other.State),
		ZIP:         a.fieldOrElse(a.ZIP, other.ZIP),
		CountryCode: a.fieldOrElse(a.CountryCode, other.CountryCode),
		FirstName:   a.fieldOrElse(a.FirstName, other.FirstName),
		LastName:    a.fieldOrElse(a.LastName, other.LastName),
	}
}

// PaymentAddress groups the three address sources a flow may carry:
// shipping, billing, and a payment-method-level billing address (e.g. the
// address embedded in a card token).
type PaymentAddress struct {
	Shipping Address
	Billing Address
	PaymentMethodBilling Address
}

// Unify computes the effective billing address with explicit precedence:
// payment-method-level overrides billing, billing overrides none. Empty-
// trimmed fields are treated as absent and do not override a populated
// field from a lower-precedence source.
func (p PaymentAddress) Unify() Address {
	return p.PaymentMethodBilling.merge(p.Billing)
}

// BrowserInfo carries browser fingerprint fields used by 3DS and fraud
// checks on some connectors.
type BrowserInfo struct {
	UserAgent string
	AcceptHeader string
	Language string
	ColorDepth int
	ScreenHeight int
	ScreenWidth int
	TimeZoneOffset int
	JavaEnabled bool
	IPAddress string
}
