package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connectgate/internal/domain"
	"connectgate/internal/money"
)

func sampleEntry() Entry {
	return Entry{
		ID:           "checkout",
		CurrencyUnit: money.UnitMinorInteger,
		SupportedPaymentMethods: map[domain.PaymentMethod]bool{
			domain.PaymentMethodCard: true,
		},
		SupportedFlows: map[domain.Flow]bool{
			domain.FlowAuthorize: true,
			domain.FlowSync:      true,
		},
		SupportedWebhookFlows: map[domain.EventType]bool{
			domain.EventPaymentSuccess: true,
		},
		IsWebhookVerificationMandatory: true,
		BaseURL: func(env string) (string, error) {
			if env == "sandbox" {
				return "https://api.sandbox.checkout.com", nil
			}
			return "https://api.checkout.com", nil
		},
	}
}

func TestRegistryLookup(t *testing.T) {
	r := New()
	r.Register(sampleEntry())

	e, ok := r.Lookup("checkout")
	require.True(t, ok)
	assert.True(t, e.SupportsFlow(domain.FlowAuthorize))
	assert.False(t, e.SupportsFlow(domain.FlowVoid))

	_, ok = r.Lookup("unknown")
	assert.False(t, ok)
}

func TestValidateCapabilityGates(t *testing.T) {
	r := New()
	r.Register(sampleEntry())

	assert.NoError(t, ValidateCapability(r, "checkout", domain.FlowAuthorize, domain.PaymentMethodCard))
	assert.Error(t, ValidateCapability(r, "checkout", domain.FlowVoid, domain.PaymentMethodCard))
	assert.Error(t, ValidateCapability(r, "checkout", domain.FlowAuthorize, domain.PaymentMethodUPI))
	assert.Error(t, ValidateCapability(r, "missing", domain.FlowAuthorize, ""))
}

func TestBaseURLResolution(t *testing.T) {
	e := sampleEntry()
	url, err := e.BaseURL("sandbox")
	require.NoError(t, err)
	assert.Equal(t, "https://api.sandbox.checkout.com", url)
}
