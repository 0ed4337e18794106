package connectorerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	base := New(KindCurrencyNotSupported, "KZT not supported")
	wrapped := Wrap(KindRequestNotSent, "dial failed", base)

	assert.True(t, errors.Is(wrapped, base))
	assert.True(t, errors.Is(wrapped, New(KindCurrencyNotSupported, "different message")))
}

func TestMissingFieldDetails(t *testing.T) {
	err := MissingField("reference_id")
	assert.Equal(t, KindMissingRequiredField, err.Kind)
	assert.Equal(t, "reference_id", err.Details["field"])
}

func TestRPCStatusMapping(t *testing.T) {
	cases := map[Kind]codes.Code{
		KindMissingRequiredField:             codes.InvalidArgument,
		KindFlowNotSupported:                 codes.Unimplemented,
		KindWebhookResourceObjectNotFound:    codes.NotFound,
		KindRequestTimeoutReceived:           codes.DeadlineExceeded,
		KindServiceUnavailableReceived:       codes.Unavailable,
		KindResponseDeserializationFailed:    codes.Internal,
		KindFailedAtConnector:                codes.Unknown,
		KindWebhookVerificationSecretNotFound: codes.FailedPrecondition,
	}
	for kind, want := range cases {
		assert.Equal(t, want, RPCStatus(kind), "kind %s", kind)
	}
}

func TestIntegrityCheckErrorDetails(t *testing.T) {
	err := IntegrityCheckError("checkout", "amount mismatch", []string{"amount", "currency"}, "txn_123")
	assert.Equal(t, KindIntegrityCheckError, err.Kind)
	assert.Equal(t, "txn_123", err.Details["connector_txn_id"])
	assert.Equal(t, []string{"amount", "currency"}, err.Details["field_names"])
}
