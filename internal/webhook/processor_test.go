package webhook

import (
	"errors"
	"testing"

	"connectgate/internal/connectorerrors"
	"connectgate/internal/domain"
)

// stubIntegration is a minimal connector.WebhookIntegration whose every
// method's behavior is controlled by its fields, so each Processor.Process
// branch can be driven independently of any real connector adapter.
type stubIntegration struct {
	verified    bool
	verifyErr   error
	eventType   domain.EventType
	eventErr    error
	payment     domain.PaymentWebhookDetails
	paymentErr  error
	refund      domain.RefundWebhookDetails
	refundErr   error
	dispute     domain.DisputeWebhookDetails
	disputeErr  error
}

func (s stubIntegration) VerifySource(domain.RequestDetails, domain.WebhookSecrets) (bool, error) {
	return s.verified, s.verifyErr
}

func (s stubIntegration) EventType(domain.RequestDetails) (domain.EventType, error) {
	return s.eventType, s.eventErr
}

func (s stubIntegration) ProcessPaymentWebhook(domain.RequestDetails) (domain.PaymentWebhookDetails, error) {
	return s.payment, s.paymentErr
}

func (s stubIntegration) ProcessRefundWebhook(domain.RequestDetails) (domain.RefundWebhookDetails, error) {
	return s.refund, s.refundErr
}

func (s stubIntegration) ProcessDisputeWebhook(domain.RequestDetails) (domain.DisputeWebhookDetails, error) {
	return s.dispute, s.disputeErr
}

func expectKind(t *testing.T, err error, want connectorerrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error of kind %s, got nil", want)
	}
	cerr, ok := connectorerrors.As(err)
	if !ok {
		t.Fatalf("expected a *connectorerrors.Error, got %T (%v)", err, err)
	}
	if cerr.Kind != want {
		t.Errorf("got kind %s, want %s", cerr.Kind, want)
	}
}

func TestProcessor_Process_NilIntegration(t *testing.T) {
	p := &Processor{ConnectorID: "checkout"}
	_, err := p.Process(domain.RequestDetails{}, domain.WebhookSecrets{})
	expectKind(t, err, connectorerrors.KindWebhooksNotImplemented)
}

// Mandatory verification with no configured secret must fail closed rather
// than silently treat the call as verified.
func TestProcessor_Process_MandatoryVerificationNoSecretConfigured(t *testing.T) {
	p := &Processor{
		ConnectorID:                    "checkout",
		Integration:                    stubIntegration{verified: true},
		IsWebhookVerificationMandatory: true,
	}
	_, err := p.Process(domain.RequestDetails{}, domain.WebhookSecrets{})
	expectKind(t, err, connectorerrors.KindWebhookVerificationSecretNotFound)
}

func TestProcessor_Process_VerifySourceError(t *testing.T) {
	p := &Processor{
		ConnectorID: "checkout",
		Integration: stubIntegration{verifyErr: errors.New("boom")},
	}
	_, err := p.Process(domain.RequestDetails{}, domain.WebhookSecrets{Secret: "whsec"})
	expectKind(t, err, connectorerrors.KindWebhookSourceVerificationFailed)
}

func TestProcessor_Process_MandatoryVerificationFailed(t *testing.T) {
	p := &Processor{
		ConnectorID:                    "checkout",
		Integration:                    stubIntegration{verified: false},
		IsWebhookVerificationMandatory: true,
	}
	_, err := p.Process(domain.RequestDetails{}, domain.WebhookSecrets{Secret: "whsec"})
	expectKind(t, err, connectorerrors.KindWebhookSourceVerificationFailed)
}

// When verification is not mandatory, an unverified call still proceeds —
// SourceVerified just reports false on the response.
func TestProcessor_Process_OptionalVerificationFailedStillProceeds(t *testing.T) {
	p := &Processor{
		ConnectorID: "checkout",
		Integration: stubIntegration{
			verified:  false,
			eventType: domain.EventPaymentSuccess,
			payment:   domain.PaymentWebhookDetails{ConnectorTransactionID: "pay_123", Status: domain.StatusCharged},
		},
	}
	resp, err := p.Process(domain.RequestDetails{}, domain.WebhookSecrets{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.SourceVerified {
		t.Error("expected SourceVerified=false")
	}
	if resp.Payment == nil || resp.Payment.ConnectorTransactionID != "pay_123" {
		t.Errorf("got payment details %+v", resp.Payment)
	}
}

func TestProcessor_Process_EventTypeError(t *testing.T) {
	p := &Processor{
		ConnectorID: "checkout",
		Integration: stubIntegration{verified: true, eventErr: errors.New("boom")},
	}
	_, err := p.Process(domain.RequestDetails{}, domain.WebhookSecrets{Secret: "whsec"})
	expectKind(t, err, connectorerrors.KindWebhookEventTypeNotFound)
}

func TestProcessor_Process_UnrecognizedEventType(t *testing.T) {
	p := &Processor{
		ConnectorID: "checkout",
		Integration: stubIntegration{verified: true, eventType: domain.EventUnknown},
	}
	_, err := p.Process(domain.RequestDetails{}, domain.WebhookSecrets{Secret: "whsec"})
	expectKind(t, err, connectorerrors.KindWebhookEventTypeNotFound)
}

func TestProcessor_Process_PaymentWebhook(t *testing.T) {
	p := &Processor{
		ConnectorID: "checkout",
		Integration: stubIntegration{
			verified:  true,
			eventType: domain.EventPaymentSuccess,
			payment:   domain.PaymentWebhookDetails{ConnectorTransactionID: "pay_123", Status: domain.StatusCharged},
		},
	}
	resp, err := p.Process(domain.RequestDetails{}, domain.WebhookSecrets{Secret: "whsec"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ResponseRefID != "pay_123" {
		t.Errorf("got response ref id %q", resp.ResponseRefID)
	}
	if !resp.SourceVerified {
		t.Error("expected SourceVerified=true")
	}
}

func TestProcessor_Process_PaymentWebhook_MissingReferenceID(t *testing.T) {
	p := &Processor{
		ConnectorID: "checkout",
		Integration: stubIntegration{verified: true, eventType: domain.EventPaymentSuccess},
	}
	_, err := p.Process(domain.RequestDetails{}, domain.WebhookSecrets{Secret: "whsec"})
	expectKind(t, err, connectorerrors.KindWebhookReferenceIDNotFound)
}

func TestProcessor_Process_RefundWebhook(t *testing.T) {
	p := &Processor{
		ConnectorID: "checkout",
		Integration: stubIntegration{
			verified:  true,
			eventType: domain.EventRefundSuccess,
			refund:    domain.RefundWebhookDetails{RefundID: "rf_1", ConnectorTransactionID: "pay_123"},
		},
	}
	resp, err := p.Process(domain.RequestDetails{}, domain.WebhookSecrets{Secret: "whsec"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ResponseRefID != "rf_1" {
		t.Errorf("got response ref id %q", resp.ResponseRefID)
	}
}

func TestProcessor_Process_RefundWebhook_MissingReferenceID(t *testing.T) {
	p := &Processor{
		ConnectorID: "checkout",
		Integration: stubIntegration{verified: true, eventType: domain.EventRefundSuccess},
	}
	_, err := p.Process(domain.RequestDetails{}, domain.WebhookSecrets{Secret: "whsec"})
	expectKind(t, err, connectorerrors.KindWebhookReferenceIDNotFound)
}

func TestProcessor_Process_DisputeWebhook(t *testing.T) {
	p := &Processor{
		ConnectorID: "checkout",
		Integration: stubIntegration{
			verified:  true,
			eventType: domain.EventDisputeOpened,
			dispute:   domain.DisputeWebhookDetails{DisputeID: "dsp_1"},
		},
	}
	resp, err := p.Process(domain.RequestDetails{}, domain.WebhookSecrets{Secret: "whsec"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ResponseRefID != "dsp_1" {
		t.Errorf("got response ref id %q", resp.ResponseRefID)
	}
}

func TestProcessor_Process_DisputeWebhook_MissingReferenceID(t *testing.T) {
	p := &Processor{
		ConnectorID: "checkout",
		Integration: stubIntegration{verified: true, eventType: domain.EventDisputeOpened},
	}
	_, err := p.Process(domain.RequestDetails{}, domain.WebhookSecrets{Secret: "whsec"})
	expectKind(t, err, connectorerrors.KindWebhookReferenceIDNotFound)
}
