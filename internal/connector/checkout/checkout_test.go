package checkout

import (
	"testing"

	"connectgate/internal/connector"
	"connectgate/internal/domain"
	"connectgate/internal/money"
)

func testAuth() domain.ConnectorAuth {
	return domain.NewHeaderKeyAuth("sk_test_ABCDEFGH")
}

func TestBearerHeader(t *testing.T) {
	headers := bearerHeader(testAuth())
	if len(headers) != 1 {
		t.Fatalf("got %d headers, want 1", len(headers))
	}
	h := headers[0]
	if h.Name != "Authorization" {
		t.Errorf("got header name %q", h.Name)
	}
	if h.Value.Value != "Bearer sk_test_ABCDEFGH" {
		t.Errorf("got header value %q", h.Value.Value)
	}
	if !h.Value.Sensitive {
		t.Error("expected Authorization header to be marked sensitive")
	}
}

func TestStatusFromCheckout(t *testing.T) {
	cases := []struct {
		status   string
		approved bool
		want     domain.AttemptStatus
	}{
		{"Captured", true, domain.StatusCharged},
		{"Authorized", true, domain.StatusAuthorized},
		{"Pending", false, domain.StatusPending},
		{"Declined", false, domain.StatusAuthorizationFailed},
		{"Voided", true, domain.StatusVoided},
		{"SomethingElse", true, domain.StatusAuthorized},
		{"SomethingElse", false, domain.StatusUnknown},
	}
	for _, tc := range cases {
		if got := statusFromCheckout(tc.status, tc.approved); got != tc.want {
			t.Errorf("statusFromCheckout(%q, %v) = %q, want %q", tc.status, tc.approved, got, tc.want)
		}
	}
}

func cardRequest() domain.AuthorizeRequest {
	return domain.AuthorizeRequest{
		Amount:            money.New(1500, "USD"),
		PaymentMethodType: domain.PaymentMethodCard,
		CaptureMethod:     domain.CaptureAutomatic,
		ReferenceID:       "ref-1",
		PaymentMethodData: domain.Card{
			Number:      money.NewStringSecret("4242424242424242", money.MaskCardNumber),
			ExpiryMonth: "01",
			ExpiryYear:  "30",
		},
	}
}

func TestAuthorizeFlow_Body(t *testing.T) {
	rctx := connector.RequestContext{Auth: testAuth(), BaseURL: "https://api.sandbox.checkout.com"}
	body, err := authorizeFlow{}.Body(rctx, cardRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	jb, ok := body.(connector.JSONBody)
	if !ok {
		t.Fatalf("got body type %T, want connector.JSONBody", body)
	}
	ab, ok := jb.Value.(authorizeBody)
	if !ok {
		t.Fatalf("got value type %T, want authorizeBody", jb.Value)
	}
	if ab.Amount != 1500 {
		t.Errorf("got amount %d, want 1500", ab.Amount)
	}
	if ab.Currency != "USD" {
		t.Errorf("got currency %q", ab.Currency)
	}
	if !ab.Capture {
		t.Error("expected capture=true for CaptureAutomatic")
	}
	if ab.Source.Number != "4242424242424242" {
		t.Errorf("got card number %q", ab.Source.Number)
	}
}

func TestAuthorizeFlow_Body_RejectsNonCardPaymentMethod(t *testing.T) {
	rctx := connector.RequestContext{Auth: testAuth(), BaseURL: "https://api.sandbox.checkout.com"}
	req := cardRequest()
	req.PaymentMethodData = domain.Wallet{Subtype: domain.WalletApplePay}

	if _, err := (authorizeFlow{}).Body(rctx, req); err == nil {
		t.Fatal("expected error for non-card payment method data, got nil")
	}
}

func TestAuthorizeFlow_URL(t *testing.T) {
	rctx := connector.RequestContext{BaseURL: "https://api.sandbox.checkout.com"}
	url, err := authorizeFlow{}.URL(rctx, cardRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://api.sandbox.checkout.com/payments" {
		t.Errorf("got url %q", url)
	}
}

func TestAuthorizeFlow_ParseSuccess(t *testing.T) {
	resp, err := authorizeFlow{}.ParseSuccess([]byte(`{"id":"pay_123","status":"Authorized","approved":true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ConnectorTransactionID != "pay_123" {
		t.Errorf("got transaction id %q", resp.ConnectorTransactionID)
	}
	if resp.Status != domain.StatusAuthorized {
		t.Errorf("got status %q", resp.Status)
	}
}

func TestAuthorizeFlow_ParseError(t *testing.T) {
	errResp, err := authorizeFlow{}.ParseError([]byte(`{"error_type":"request_invalid","error_codes":["card_declined"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if errResp.Code != "request_invalid" {
		t.Errorf("got code %q", errResp.Code)
	}
	if errResp.Message != "card_declined" {
		t.Errorf("got message %q", errResp.Message)
	}
}

func TestAuthorizeFlow_Parse5xx(t *testing.T) {
	errResp, err := authorizeFlow{}.Parse5xx([]byte(`internal failure`), 502)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if errResp.StatusCode != 502 {
		t.Errorf("got status code %d", errResp.StatusCode)
	}
}

func TestCaptureFlow_URLAndBody(t *testing.T) {
	rctx := connector.RequestContext{BaseURL: "https://api.sandbox.checkout.com"}
	req := domain.CaptureRequest{ConnectorTransactionID: "pay_123", AmountToCapture: money.New(500, "USD")}

	url, err := captureFlow{}.URL(rctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://api.sandbox.checkout.com/payments/pay_123/captures" {
		t.Errorf("got url %q", url)
	}

	body, err := captureFlow{}.Body(rctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cb := body.(connector.JSONBody).Value.(captureBody)
	if cb.Amount != 500 {
		t.Errorf("got amount %d, want 500", cb.Amount)
	}
}

func TestVoidFlow_URL(t *testing.T) {
	rctx := connector.RequestContext{BaseURL: "https://api.sandbox.checkout.com"}
	url, err := voidFlow{}.URL(rctx, domain.VoidRequest{ConnectorTransactionID: "pay_123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://api.sandbox.checkout.com/payments/pay_123/voids" {
		t.Errorf("got url %q", url)
	}
}

func TestRefundFlow_ParseSuccess(t *testing.T) {
	resp, err := refundFlow{}.ParseSuccess([]byte(`{"action_id":"act_1","status":"Captured","approved":true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ConnectorRefundID != "act_1" {
		t.Errorf("got connector refund id %q", resp.ConnectorRefundID)
	}
	if resp.Status != domain.StatusCharged {
		t.Errorf("got status %q", resp.Status)
	}
}

func TestSyncFlow_URLAndBody(t *testing.T) {
	rctx := connector.RequestContext{BaseURL: "https://api.sandbox.checkout.com"}
	req := domain.SyncRequest{ConnectorTransactionID: "pay_123"}

	url, err := syncFlow{}.URL(rctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://api.sandbox.checkout.com/payments/pay_123" {
		t.Errorf("got url %q", url)
	}

	body, err := syncFlow{}.Body(rctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != nil {
		t.Errorf("expected nil body for a GET-style sync, got %v", body)
	}
}

// Scenario F: webhook source verification.
func TestWebhookFlow_VerifySource_ScenarioF(t *testing.T) {
	body := []byte(`{"type":"payment_approved","data":{"id":"pay_123"}}`)
	secret := "whsec_test"
	sig := computeHMAC(secret, body)

	cases := []struct {
		name    string
		secrets domain.WebhookSecrets
		sig     string
		want    bool
	}{
		{"valid signature", domain.WebhookSecrets{Secret: secret}, sig, true},
		{"invalid signature", domain.WebhookSecrets{Secret: secret}, "bogus", false},
		{"no secret configured", domain.WebhookSecrets{}, sig, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := domain.RequestDetails{Body: body, Headers: map[string]string{"Cko-Signature": tc.sig}}
			ok, err := (webhookFlow{}).VerifySource(req, tc.secrets)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tc.want {
				t.Errorf("got verified=%v, want %v", ok, tc.want)
			}
		})
	}
}

func TestWebhookFlow_EventType(t *testing.T) {
	cases := []struct {
		payload string
		want    domain.EventType
	}{
		{`{"type":"payment_captured"}`, domain.EventPaymentSuccess},
		{`{"type":"payment_approved"}`, domain.EventPaymentSuccess},
		{`{"type":"payment_declined"}`, domain.EventPaymentFailure},
		{`{"type":"payment_refunded"}`, domain.EventRefundSuccess},
		{`{"type":"dispute_received"}`, domain.EventDisputeOpened},
		{`{"type":"something_else"}`, domain.EventUnknown},
	}
	for _, tc := range cases {
		got, err := (webhookFlow{}).EventType(domain.RequestDetails{Body: []byte(tc.payload)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tc.want {
			t.Errorf("EventType(%s) = %q, want %q", tc.payload, got, tc.want)
		}
	}
}

func TestWebhookFlow_ProcessPaymentWebhook(t *testing.T) {
	req := domain.RequestDetails{Body: []byte(`{"type":"payment_approved","data":{"id":"pay_123","status":"Authorized"}}`)}
	details, err := (webhookFlow{}).ProcessPaymentWebhook(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.ConnectorTransactionID != "pay_123" {
		t.Errorf("got transaction id %q", details.ConnectorTransactionID)
	}
	if details.Status != domain.StatusAuthorized {
		t.Errorf("got status %q", details.Status)
	}
}

func TestWebhookFlow_ProcessRefundWebhook(t *testing.T) {
	req := domain.RequestDetails{Body: []byte(`{"type":"payment_refunded","data":{"id":"pay_123","action_id":"act_1"}}`)}
	details, err := (webhookFlow{}).ProcessRefundWebhook(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.RefundID != "act_1" {
		t.Errorf("got refund id %q", details.RefundID)
	}
	if details.ConnectorTransactionID != "pay_123" {
		t.Errorf("got transaction id %q", details.ConnectorTransactionID)
	}
}

func TestWebhookFlow_ProcessDisputeWebhook(t *testing.T) {
	req := domain.RequestDetails{Body: []byte(`{"type":"dispute_received","data":{"id":"dsp_1"}}`)}
	details, err := (webhookFlow{}).ProcessDisputeWebhook(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.DisputeID != "dsp_1" {
		t.Errorf("got dispute id %q", details.DisputeID)
	}
	if details.Status != domain.StatusUnresolved {
		t.Errorf("got status %q", details.Status)
	}
}
