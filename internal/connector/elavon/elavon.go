// Package elavon implements the Connector Integration Protocol for a
// legacy XML/form-encoded processor, grounded on spec.md scenario B: the
// outgoing body is application/x-www-form-urlencoded with a single field
// `xmldata` holding an XML <txn> document, and the response is XML that
// the HTTP Exchange Executor pre-flattens into canonical JSON before any
// adapter method here ever sees it (§9 "XML connectors").
package elavon

import (
	"encoding/json"
	"encoding/xml"
	"fmt"

	"connectgate/internal/connector"
	"connectgate/internal/domain"
)

// New returns the elavon connector wired into a connector.Connector. Like
// checkout, one small adapter type per flow: Go forbids overloading
// ParseSuccess by return type on a shared receiver.
func New() *connector.Connector {
	return &connector.Connector{
		ID:        "elavon",
		Authorize: authorizeFlow{},
		Capture:   captureFlow{},
		Void:      voidFlow{},
		Refund:    refundFlow{},
		Sync:      syncFlow{},
	}
}

func tokenHeader(auth domain.ConnectorAuth) []connector.Header {
	return []connector.Header{
		{Name: "X-Elavon-Token", Value: connector.MaskableValue{Value: auth.APIKey.Expose(), Sensitive: true}},
	}
}

// txn is the wire shape of the outgoing <txn> XML document, marshaled via
// encoding/xml and wrapped in xmldata= form encoding (scenario B).
type txn struct {
	XMLName xml.Name `xml:"txn"`
	TransactionType string   `xml:"ssl_transaction_type,omitempty"`
	Amount string   `xml:"ssl_amount,omitempty"`
	CardNumber string   `xml:"ssl_card_number,omitempty"`
	ExpDate string   `xml:"ssl_exp_date,omitempty"`
	TxnID string   `xml:"ssl_txn_id,omitempty"`
	InvoiceNumber string   `xml:"ssl_invoice_number,omitempty"`
}

func encodeXMLData(t txn) (connector.Body, error) {
	raw, err := xml.Marshal(t)
	if err != nil {
		return nil, err
	}
	return connector.FormURLEncodedBody{Fields: map[string]string{"xmldata": string(raw)}}, nil
}

// flattenedTxn is the shape the executor's XML-to-JSON preprocessing
// leaves behind: every <txn> child as a flat string field.
type flattenedTxn struct {
	Result string `json:"ssl_result"`
	TxnID string `json:"ssl_txn_id"`
	ErrorCode string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

func parseFlattened(raw []byte) (flattenedTxn, error) {
	var f flattenedTxn
	if err := json.Unmarshal(raw, &f); err != nil {
		return flattenedTxn{}, err
	}
	return f, nil
}

// statusFromResult maps elavon's ssl_result code onto the canonical
// AttemptStatus set: "0" is approved, anything else declined.
func statusFromResult(result string) domain.AttemptStatus {
	if result == "0" {
		return domain.StatusCharged
	}
	return domain.StatusFailure
}

// parseElavonError builds the canonical ErrorResponse from a flattened
// error txn (scenario B: errorCode="101", errorMessage="Card Declined").
func parseElavonError(f flattenedTxn, statusCode int) domain.ErrorResponse {
	return domain.ErrorResponse{
		StatusCode: statusCode,
		Code:       f.ErrorCode,
		Message:    f.ErrorMessage,
	}
}

// --- Authorize ---

type authorizeFlow struct{}

func (authorizeFlow) Headers(ctx connector.RequestContext, req domain.AuthorizeRequest) ([]connector.Header, error) {
	return tokenHeader(ctx.Auth), nil
}

func (authorizeFlow) URL(ctx connector.RequestContext, req domain.AuthorizeRequest) (string, error) {
	return ctx.BaseURL + "/processxml.do", nil
}

func (authorizeFlow) Body(ctx connector.RequestContext, req domain.AuthorizeRequest) (connector.Body, error) {
	card, ok := req.PaymentMethodData.(domain.Card)
	if !ok {
		return nil, fmt.Errorf("elavon: authorize requires card payment method data, got %T", req.PaymentMethodData)
	}
	major, err := req.Amount.MajorString()
	if err != nil {
		return nil, err
	}
	return encodeXMLData(txn{
		TransactionType: "CcSale",
		Amount:          major,
		CardNumber:      card.Number.Expose(),
		ExpDate:         card.ExpiryMonth + card.ExpiryYear[len(card.ExpiryYear)-2:],
	})
}

func (authorizeFlow) ParseSuccess(raw []byte) (domain.AuthorizeResponse, error) {
	f, err := parseFlattened(raw)
	if err != nil {
		return domain.AuthorizeResponse{}, err
	}
	if f.Result != "0" {
		return domain.AuthorizeResponse{}, fmt.Errorf("elavon: unexpected non-zero ssl_result %q on success path", f.Result)
	}
	return domain.AuthorizeResponse{
		ConnectorTransactionID: f.TxnID,
		Status:                 domain.StatusCharged,
	}, nil
}

func (authorizeFlow) ParseError(raw []byte) (domain.ErrorResponse, error) {
	f, err := parseFlattened(raw)
	if err != nil {
		return domain.ErrorResponse{}, err
	}
	return parseElavonError(f, 400), nil
}

func (authorizeFlow) Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error) {
	f, err := parseFlattened(raw)
	if err != nil {
		return domain.ErrorResponse{StatusCode: statusCode, Code: "SERVER_ERROR", Message: "elavon returned a server error"}, nil
	}
	return parseElavonError(f, statusCode), nil
}

// --- Capture ---

type captureFlow struct{}

func (captureFlow) Headers(ctx connector.RequestContext, req domain.CaptureRequest) ([]connector.Header, error) {
	return tokenHeader(ctx.Auth), nil
}

func (captureFlow) URL(ctx connector.RequestContext, req domain.CaptureRequest) (string, error) {
	return ctx.BaseURL + "/processxml.do", nil
}

func (captureFlow) Body(ctx connector.RequestContext, req domain.CaptureRequest) (connector.Body, error) {
	major, err := req.AmountToCapture.MajorString()
	if err != nil {
		return nil, err
	}
	return encodeXMLData(txn{
		TransactionType: "CcComplete",
		TxnID:           req.ConnectorTransactionID,
		Amount:          major,
	})
}

func (captureFlow) ParseSuccess(raw []byte) (domain.CaptureResponse, error) {
	f, err := parseFlattened(raw)
	if err != nil {
		return domain.CaptureResponse{}, err
	}
	return domain.CaptureResponse{ConnectorTransactionID: f.TxnID, Status: statusFromResult(f.Result)}, nil
}

func (captureFlow) ParseError(raw []byte) (domain.ErrorResponse, error) {
	f, err := parseFlattened(raw)
	if err != nil {
		return domain.ErrorResponse{}, err
	}
	return parseElavonError(f, 400), nil
}

func (captureFlow) Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error) {
	f, _ := parseFlattened(raw)
	return parseElavonError(f, statusCode), nil
}

// --- Void ---

type voidFlow struct{}

func (voidFlow) Headers(ctx connector.RequestContext, req domain.VoidRequest) ([]connector.Header, error) {
	return tokenHeader(ctx.Auth), nil
}

func (voidFlow) URL(ctx connector.RequestContext, req domain.VoidRequest) (string, error) {
	return ctx.BaseURL + "/processxml.do", nil
}

func (voidFlow) Body(ctx connector.RequestContext, req domain.VoidRequest) (connector.Body, error) {
	return encodeXMLData(txn{TransactionType: "CcVoid", TxnID: req.ConnectorTransactionID})
}

func (voidFlow) ParseSuccess(raw []byte) (domain.VoidResponse, error) {
	f, err := parseFlattened(raw)
	if err != nil {
		return domain.VoidResponse{}, err
	}
	return domain.VoidResponse{ConnectorTransactionID: f.TxnID, Status: statusFromResult(f.Result)}, nil
}

func (voidFlow) ParseError(raw []byte) (domain.ErrorResponse, error) {
	f, err := parseFlattened(raw)
	if err != nil {
		return domain.ErrorResponse{}, err
	}
	return parseElavonError(f, 400), nil
}

func (voidFlow) Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error) {
	f, _ := parseFlattened(raw)
	return parseElavonError(f, statusCode), nil
}

// --- Refund ---

type refundFlow struct{}

func (refundFlow) Headers(ctx connector.RequestContext, req domain.RefundRequest) ([]connector.Header, error) {
	return tokenHeader(ctx.Auth), nil
}

func (refundFlow) URL(ctx connector.RequestContext, req domain.RefundRequest) (string, error) {
	return ctx.BaseURL + "/processxml.do", nil
}

func (refundFlow) Body(ctx connector.RequestContext, req domain.RefundRequest) (connector.Body, error) {
	major, err := req.RefundAmount.MajorString()
	if err != nil {
		return nil, err
	}
	return encodeXMLData(txn{TransactionType: "CcReturn", TxnID: req.ConnectorTransactionID, Amount: major})
}

func (refundFlow) ParseSuccess(raw []byte) (domain.RefundResponse, error) {
	f, err := parseFlattened(raw)
	if err != nil {
		return domain.RefundResponse{}, err
	}
	return domain.RefundResponse{ConnectorRefundID: f.TxnID, Status: statusFromResult(f.Result)}, nil
}

func (refundFlow) ParseError(raw []byte) (domain.ErrorResponse, error) {
	f, err := parseFlattened(raw)
	if err != nil {
		return domain.ErrorResponse{}, err
	}
	return parseElavonError(f, 400), nil
}

func (refundFlow) Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error) {
	f, _ := parseFlattened(raw)
	return parseElavonError(f, statusCode), nil
}

// --- Sync ---

type syncFlow struct{}

func (syncFlow) Headers(ctx connector.RequestContext, req domain.SyncRequest) ([]connector.Header, error) {
	return tokenHeader(ctx.Auth), nil
}

func (syncFlow) URL(ctx connector.RequestContext, req domain.SyncRequest) (string, error) {
	return ctx.BaseURL + "/processxml.do", nil
}

func (syncFlow) Body(ctx connector.RequestContext, req domain.SyncRequest) (connector.Body, error) {
	return encodeXMLData(txn{TransactionType: "CcQuery", TxnID: req.ConnectorTransactionID})
}

func (syncFlow) ParseSuccess(raw []byte) (domain.SyncResponse, error) {
	f, err := parseFlattened(raw)
	if err != nil {
		return domain.SyncResponse{}, err
	}
	return domain.SyncResponse{ConnectorTransactionID: f.TxnID, Status: statusFromResult(f.Result)}, nil
}

func (syncFlow) ParseError(raw []byte) (domain.ErrorResponse, error) {
	f, err := parseFlattened(raw)
	if err != nil {
		return domain.ErrorResponse{}, err
	}
	return parseElavonError(f, 400), nil
}

func (syncFlow) Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error) {
	f, _ := parseFlattened(raw)
	return parseElavonError(f, statusCode), nil
}
