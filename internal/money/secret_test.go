package money

import "testing"

// Scenario E: masked view of a SignatureKey auth.
func TestMaskAuthKey_ScenarioE(t *testing.T) {
	if got := MaskAuthKey("sk_live_ABCDEFGH"); got != "sk***GH" {
		t.Errorf("api_key: got %q", got)
	}
	if got := MaskAuthKey("pub_12345678"); got != "pu***78" {
		t.Errorf("key1: got %q", got)
	}
	if got := MaskAuthKey("shhhhhhh"); got != "sh***hh" {
		t.Errorf("api_secret: got %q", got)
	}
}

// Property 6: keys of length <= 4 are masked entirely.
func TestMaskAuthKey_ShortKeys(t *testing.T) {
	for _, raw := range []string{"", "a", "ab", "abc", "abcd"} {
		got := MaskAuthKey(raw)
		if len(got) != len(raw) {
			t.Errorf("%q: length mismatch in %q", raw, got)
		}
		for _, c := range got {
			if c != '*' {
				t.Errorf("%q: expected all-masked, got %q", raw, got)
			}
		}
	}
}

func TestMaskEmail(t *testing.T) {
	if got := MaskEmail("user@example.com"); got != "*****@example.com" {
		t.Errorf("got %q", got)
	}
}

func TestMaskCardNumber(t *testing.T) {
	if got := MaskCardNumber("4012888818888"); got != "401288***8888" {
		t.Errorf("got %q", got)
	}
}

func TestMaskIP(t *testing.T) {
	if got := MaskIP("203.0.113.5"); got != "203.**.**.**" {
		t.Errorf("got %q", got)
	}
}

func TestSecretJSONMasksValue(t *testing.T) {
	s := NewStringSecret("topsecret", func(v string) string { return "masked" })
	b, err := s.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"masked"` {
		t.Errorf("got %s", b)
	}
	if s.Expose() != "topsecret" {
		t.Error("expose should return raw value")
	}
}
