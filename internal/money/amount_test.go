package money

import "testing"

// Scenario D: MajorString rendering per currency.
func TestMajorString_ScenarioD(t *testing.T) {
	cases := []struct {
		currency Currency
		minor MinorUnit
		want string
	}{
		{"JPY", 12345, "12345"},
		{"USD", 12345, "123.45"},
		{"BHD", 12345, "12.345"},
		{"CLF", 12345, "1.2345"},
	}

	for _, tc := range cases {
		got, err := New(tc.minor, tc.currency).MajorString()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.currency, err)
		}
		if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.currency, got, tc.want)
		}
	}
}

// Property 1: convert_back(convert(minor, currency), currency) == minor.
func TestRoundTrip_Property1(t *testing.T) {
	currencies := []Currency{"USD", "JPY", "BHD", "CLF", "KZT"}
	amounts := []MinorUnit{0, 1, 99, 1000, 123456789}

	for _, cur := range currencies {
		for _, amt := range amounts {
			major, err := New(amt, cur).MajorString()
			if err != nil {
				t.Fatalf("%s/%d: MajorString error: %v", cur, amt, err)
			}
			back, err := FromMajorString(major, cur)
			if err != nil {
				t.Fatalf("%s/%d: FromMajorString(%q) error: %v", cur, amt, major, err)
			}
			if back != amt {
				t.Errorf("%s/%d: round-trip got %d via %q", cur, amt, back, major)
			}
		}
	}
}

func TestUnsupportedCurrency(t *testing.T) {
	_, err := New(100, "XYZ").MajorString()
	if err == nil {
		t.Fatal("expected UnsupportedCurrency error")
	}
	var target *UnsupportedCurrency
	if !isUnsupported(err, &target) {
		t.Fatalf("expected *UnsupportedCurrency, got %T: %v", err, err)
	}
}

func isUnsupported(err error, target **UnsupportedCurrency) bool {
	u, ok := err.(*UnsupportedCurrency)
	if ok {
		*target = u
	}
	return ok
}

func TestFromMajorString_PrecisionLoss(t *testing.T) {
	// JPY has 0 decimals; a fractional string cannot round-trip.
	_, err := FromMajorString("12.5", "JPY")
	if err == nil {
		t.Fatal("expected AmountConversionFailed for fractional JPY")
	}
}
