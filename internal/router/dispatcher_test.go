package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectgate/internal/connector/checkout"
	"connectgate/internal/connectorerrors"
	"connectgate/internal/domain"
	"connectgate/internal/httpexec"
	"connectgate/internal/money"
	"connectgate/internal/registry"
)

func newTestDispatcher(t *testing.T, handler http.HandlerFunc) (*Dispatcher, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)

	reg := registry.New()
	reg.Register(registry.Entry{
		ID:           "checkout",
		CurrencyUnit: money.UnitMinorInteger,
		SupportedFlows: map[domain.Flow]bool{
			domain.FlowAuthorize: true, domain.FlowSync: true,
		},
		SupportedPaymentMethods: map[domain.PaymentMethod]bool{domain.PaymentMethodCard: true},
		SupportedCaptureMethods: map[domain.PaymentMethod][]domain.CaptureMethod{
			domain.PaymentMethodCard: {domain.CaptureAutomatic, domain.CaptureManual},
		},
		BaseURL: func(string) (string, error) { return srv.URL, nil },
	})

	conns := Connectors{"checkout": checkout.New()}
	exec := httpexec.NewExecutor()
	return NewDispatcher(reg, conns, exec, "sandbox"), srv
}

func cardAuthorizeRequest() domain.AuthorizeRequest {
	return domain.AuthorizeRequest{
		Amount:             money.New(1000, "USD"),
		PaymentMethodType:  domain.PaymentMethodCard,
		CaptureMethod:      domain.CaptureAutomatic,
		ReferenceID:        "ref-1",
		PaymentMethodData: domain.Card{
			Number:      money.NewStringSecret("4242424242424242", money.MaskCardNumber),
			ExpiryMonth: "01",
			ExpiryYear:  "30",
		},
	}
}

// Scenario A: a supported capture method on a registered connector reaches
// the HTTP layer and returns a parsed, canonical response.
func TestDispatcher_Authorize_ScenarioA(t *testing.T) {
	srv_handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pay_123","status":"Authorized","approved":true}`))
	}
	d, srv := newTestDispatcher(t, srv_handler)
	defer srv.Close()

	resp, err := d.Authorize(context.Background(), "checkout", domain.FlowData{}, domain.NewHeaderKeyAuth("sk_test"), cardAuthorizeRequest())
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

// Capture method gate (property 2): a capture method the registry entry
// does not declare for the payment method fails before any HTTP call.
func TestDispatcher_Authorize_CaptureMethodNotSupported(t *testing.T) {
	called := false
	d, srv := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	defer srv.Close()

	req := cardAuthorizeRequest()
	req.CaptureMethod = "unsupported_method"

	_, err := d.Authorize(context.Background(), "checkout", domain.FlowData{}, domain.NewHeaderKeyAuth("sk_test"), req)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	cerr, ok := connectorerrors.As(err)
	if !ok || cerr.Kind != connectorerrors.KindCaptureMethodNotSupported {
		t.Errorf("got error %v", err)
	}
	if called {
		t.Error("expected no HTTP call for a capture-method rejection")
	}
}

// Unknown connector (spec §4.4 step 1).
func TestDispatcher_Authorize_UnknownConnector(t *testing.T) {
	d, srv := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {})
	defer srv.Close()

	_, err := d.Authorize(context.Background(), "does-not-exist", domain.FlowData{}, domain.ConnectorAuth{}, cardAuthorizeRequest())
	cerr, ok := connectorerrors.As(err)
	if !ok || cerr.Kind != connectorerrors.KindInvalidConnectorName {
		t.Errorf("got error %v", err)
	}
}

// Scenario C: PSync for a missing connector transaction id never reaches
// the connector — no HTTP call is made.
func TestDispatcher_Sync_MissingConnectorTransactionID_ScenarioC(t *testing.T) {
	called := false
	d, srv := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	defer srv.Close()

	_, err := d.Sync(context.Background(), "checkout", domain.FlowData{}, domain.NewHeaderKeyAuth("sk_test"), domain.SyncRequest{})
	cerr, ok := connectorerrors.As(err)
	if !ok || cerr.Kind != connectorerrors.KindMissingConnectorTransactionID {
		t.Fatalf("got error %v", err)
	}
	if called {
		t.Error("expected no HTTP call when connector transaction id is missing")
	}
}

func TestDispatcher_Sync_ScenarioA(t *testing.T) {
	d, srv := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pay_123","status":"Authorized","approved":true}`))
	})
	defer srv.Close()

	resp, err := d.Sync(context.Background(), "checkout", domain.FlowData{}, domain.NewHeaderKeyAuth("sk_test"), domain.SyncRequest{ConnectorTransactionID: "pay_123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ConnectorTransactionID != "pay_123" {
		t.Errorf("got %q", resp.ConnectorTransactionID)
	}
}

// A connector that returns 4xx is routed to ParseError, not ParseSuccess.
func TestDispatcher_Authorize_ConnectorDeclined(t *testing.T) {
	d, srv := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_type":"card_declined","error_codes":["card_declined"]}`))
	})
	defer srv.Close()

	_, err := d.Authorize(context.Background(), "checkout", domain.FlowData{}, domain.NewHeaderKeyAuth("sk_test"), cardAuthorizeRequest())
	cerr, ok := connectorerrors.As(err)
	if !ok || cerr.Kind != connectorerrors.KindFailedAtConnector {
		t.Fatalf("got error %v", err)
	}
}
