package elavon

import (
	"net/url"
	"strings"
	"testing"

	"connectgate/internal/connector"
	"connectgate/internal/domain"
	"connectgate/internal/money"
)

func testAuth() domain.ConnectorAuth {
	return domain.NewHeaderKeyAuth("tok_ABCDEFGH")
}

func TestTokenHeader(t *testing.T) {
	headers := tokenHeader(testAuth())
	if len(headers) != 1 {
		t.Fatalf("got %d headers, want 1", len(headers))
	}
	if headers[0].Name != "X-Elavon-Token" {
		t.Errorf("got header name %q", headers[0].Name)
	}
	if !headers[0].Value.Sensitive {
		t.Error("expected token header to be marked sensitive")
	}
}

func TestStatusFromResult(t *testing.T) {
	if got := statusFromResult("0"); got != domain.StatusCharged {
		t.Errorf("statusFromResult(\"0\") = %q, want charged", got)
	}
	if got := statusFromResult("101"); got != domain.StatusFailure {
		t.Errorf("statusFromResult(\"101\") = %q, want failure", got)
	}
}

func cardRequest() domain.AuthorizeRequest {
	return domain.AuthorizeRequest{
		Amount: money.New(2500, "USD"),
		PaymentMethodData: domain.Card{
			Number:      money.NewStringSecret("4242424242424242", money.MaskCardNumber),
			ExpiryMonth: "01",
			ExpiryYear:  "30",
		},
	}
}

// Scenario B: the outgoing body is application/x-www-form-urlencoded with a
// single xmldata= field carrying the <txn> XML document.
func TestAuthorizeFlow_Body_ScenarioB(t *testing.T) {
	rctx := connector.RequestContext{Auth: testAuth(), BaseURL: "https://api.demo.elavon.com"}
	body, err := authorizeFlow{}.Body(rctx, cardRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.ContentType() != "application/x-www-form-urlencoded" {
		t.Errorf("got content type %q", body.ContentType())
	}

	encoded, err := body.Encode()
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	values, err := url.ParseQuery(string(encoded))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	xmldata := values.Get("xmldata")
	if xmldata == "" {
		t.Fatal("expected a non-empty xmldata field")
	}
	if !containsAll(xmldata, "<txn>", "CcSale", "ssl_amount", "25.00", "4242424242424242", "0130") {
		t.Errorf("xmldata missing expected fields: %s", xmldata)
	}
}

func TestAuthorizeFlow_Body_RejectsNonCardPaymentMethod(t *testing.T) {
	rctx := connector.RequestContext{Auth: testAuth(), BaseURL: "https://api.demo.elavon.com"}
	req := cardRequest()
	req.PaymentMethodData = domain.Wallet{Subtype: domain.WalletApplePay}

	if _, err := (authorizeFlow{}).Body(rctx, req); err == nil {
		t.Fatal("expected error for non-card payment method data, got nil")
	}
}

func TestAuthorizeFlow_URL(t *testing.T) {
	rctx := connector.RequestContext{BaseURL: "https://api.demo.elavon.com"}
	url, err := authorizeFlow{}.URL(rctx, cardRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://api.demo.elavon.com/processxml.do" {
		t.Errorf("got url %q", url)
	}
}

func TestAuthorizeFlow_ParseSuccess(t *testing.T) {
	resp, err := authorizeFlow{}.ParseSuccess([]byte(`{"ssl_result":"0","ssl_txn_id":"txn_123"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ConnectorTransactionID != "txn_123" {
		t.Errorf("got transaction id %q", resp.ConnectorTransactionID)
	}
	if resp.Status != domain.StatusCharged {
		t.Errorf("got status %q", resp.Status)
	}
}

func TestAuthorizeFlow_ParseSuccess_NonZeroResultIsAnError(t *testing.T) {
	if _, err := (authorizeFlow{}).ParseSuccess([]byte(`{"ssl_result":"101","ssl_txn_id":"txn_123"}`)); err == nil {
		t.Fatal("expected an error when ssl_result is non-zero on the success path")
	}
}

// Scenario B: a declined transaction surfaces errorCode/errorMessage.
func TestAuthorizeFlow_ParseError_ScenarioB(t *testing.T) {
	errResp, err := authorizeFlow{}.ParseError([]byte(`{"errorCode":"101","errorMessage":"Card Declined"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if errResp.Code != "101" {
		t.Errorf("got code %q", errResp.Code)
	}
	if errResp.Message != "Card Declined" {
		t.Errorf("got message %q", errResp.Message)
	}
	if errResp.StatusCode != 400 {
		t.Errorf("got status code %d", errResp.StatusCode)
	}
}

func TestCaptureFlow_Body(t *testing.T) {
	rctx := connector.RequestContext{BaseURL: "https://api.demo.elavon.com"}
	req := domain.CaptureRequest{ConnectorTransactionID: "txn_123", AmountToCapture: money.New(1000, "USD")}

	body, err := captureFlow{}.Body(rctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	encoded, err := body.Encode()
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	values, _ := url.ParseQuery(string(encoded))
	if !containsAll(values.Get("xmldata"), "CcComplete", "txn_123", "10.00") {
		t.Errorf("xmldata missing expected fields: %s", values.Get("xmldata"))
	}
}

func TestVoidFlow_ParseSuccess(t *testing.T) {
	resp, err := voidFlow{}.ParseSuccess([]byte(`{"ssl_result":"0","ssl_txn_id":"txn_123"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != domain.StatusCharged {
		t.Errorf("got status %q", resp.Status)
	}
}

func TestRefundFlow_ParseSuccess(t *testing.T) {
	resp, err := refundFlow{}.ParseSuccess([]byte(`{"ssl_result":"0","ssl_txn_id":"txn_123"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ConnectorRefundID != "txn_123" {
		t.Errorf("got connector refund id %q", resp.ConnectorRefundID)
	}
}

func TestSyncFlow_Body(t *testing.T) {
	rctx := connector.RequestContext{BaseURL: "https://api.demo.elavon.com"}
	body, err := syncFlow{}.Body(rctx, domain.SyncRequest{ConnectorTransactionID: "txn_123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	encoded, _ := body.Encode()
	values, _ := url.ParseQuery(string(encoded))
	if !containsAll(values.Get("xmldata"), "CcQuery", "txn_123") {
		t.Errorf("xmldata missing expected fields: %s", values.Get("xmldata"))
	}
}

func TestSyncFlow_ParseSuccess(t *testing.T) {
	resp, err := syncFlow{}.ParseSuccess([]byte(`{"ssl_result":"0","ssl_txn_id":"txn_123"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ConnectorTransactionID != "txn_123" {
		t.Errorf("got transaction id %q", resp.ConnectorTransactionID)
	}
}

func containsAll(haystack string, needles ...string) bool {
	for _, n := range needles {
		if !strings.Contains(haystack, n) {
			return false
		}
	}
	return true
}
