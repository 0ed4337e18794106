// Package checkout implements the Connector Integration Protocol for a
// JSON-over-HTTPS card processor, grounded on spec.md scenario A: a flat
// JSON request/response shape and header-key bearer authentication.
//
// Each flow gets its own small adapter type rather than one struct with
// overloaded method names: Go does not allow two methods of the same name
// on one receiver to differ only by return type, so "one struct per flow,
// not one struct per connector" is the shape Go forces here (spec §9's
// per-flow capability interface, realized literally).
package checkout

import (
	"encoding/json"
	"fmt"

	"connectgate/internal/connector"
	"connectgate/internal/domain"
)

// New returns the checkout connector wired into a connector.Connector.
// Flow adapters are stateless process singletons: no per-call
// allocation, no mutable fields.
func New() *connector.Connector {
	return &connector.Connector{
		ID:         "checkout",
		Authorize:  authorizeFlow{},
		Capture:    captureFlow{},
		Void:       voidFlow{},
		Refund:     refundFlow{},
		RefundSync: refundSyncFlow{},
		Sync:       syncFlow{},
		Webhook:    webhookFlow{},
	}
}

func bearerHeader(auth domain.ConnectorAuth) []connector.Header {
	return []connector.Header{
		{Name: "Authorization", Value: connector.MaskableValue{Value: "Bearer " + auth.APIKey.Expose(), Sensitive: true}},
	}
}

// statusFromCheckout maps checkout's status vocabulary onto the canonical
// AttemptStatus set. Total over the statuses this connector is
// documented to emit; an unrecognized status lands on StatusAuthorized when
// approved is true and on StatusUnknown otherwise, rather than panicking.
func statusFromCheckout(status string, approved bool) domain.AttemptStatus {
	switch status {
	case "Captured":
		return domain.StatusCharged
	case "Authorized":
		return domain.StatusAuthorized
	case "Pending":
		return domain.StatusPending
	case "Declined":
		return domain.StatusAuthorizationFailed
	case "Voided":
		return domain.StatusVoided
	default:
		if approved {
			return domain.StatusAuthorized
		}
		return domain.StatusUnknown
	}
}

type errorResponseBody struct {
	ErrorType string   `json:"error_type"`
	ErrorCodes []string `json:"error_codes"`
}

func parseErrorBody(raw []byte) (domain.ErrorResponse, error) {
	var body errorResponseBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return domain.ErrorResponse{}, err
	}
	msg := body.ErrorType
	if len(body.ErrorCodes) > 0 {
		msg = body.ErrorCodes[0]
	}
	return domain.ErrorResponse{
		StatusCode:           400,
		Code:                 body.ErrorType,
		Message:               msg,
		RawConnectorResponse: string(raw),
	}, nil
}

func parse5xxBody(raw []byte, statusCode int) (domain.ErrorResponse, error) {
	return domain.ErrorResponse{
		StatusCode:           statusCode,
		Code:                 "SERVER_ERROR",
		Message:              "checkout returned a server error",
		RawConnectorResponse: string(raw),
	}, nil
}

// --- Authorize ---

type authorizeFlow struct{}

type cardSource struct {
	Type string `json:"type"`
	Number string `json:"number"`
	ExpiryMonth string `json:"expiry_month"`
	ExpiryYear string `json:"expiry_year"`
}

type authorizeBody struct {
	Amount int64      `json:"amount"`
	Currency string     `json:"currency"`
	Capture bool       `json:"capture"`
	Reference string     `json:"reference"`
	Source cardSource `json:"source"`
}

type paymentResponseBody struct {
	ID string `json:"id"`
	Status string `json:"status"`
	Approved bool   `json:"approved"`
}

func (authorizeFlow) Headers(ctx connector.RequestContext, req domain.AuthorizeRequest) ([]connector.Header, error) {
	return bearerHeader(ctx.Auth), nil
}

func (authorizeFlow) URL(ctx connector.RequestContext, req domain.AuthorizeRequest) (string, error) {
	return ctx.BaseURL + "/payments", nil
}

func (authorizeFlow) Body(ctx connector.RequestContext, req domain.AuthorizeRequest) (connector.Body, error) {
	card, ok := req.PaymentMethodData.(domain.Card)
	if !ok {
		return nil, fmt.Errorf("checkout: authorize requires card payment method data, got %T", req.PaymentMethodData)
	}
	return connector.JSONBody{Value: authorizeBody{
		Amount:    req.Amount.MinorInteger(),
		Currency:  string(req.Amount.Currency),
		Capture:   req.CaptureMethod == domain.CaptureAutomatic,
		Reference: req.ReferenceID,
		Source: cardSource{
			Type:        "card",
			Number:      card.Number.Expose(),
			ExpiryMonth: card.ExpiryMonth,
			ExpiryYear:  card.ExpiryYear,
		},
	}}, nil
}

func (authorizeFlow) ParseSuccess(raw []byte) (domain.AuthorizeResponse, error) {
	var body paymentResponseBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return domain.AuthorizeResponse{}, err
	}
	return domain.AuthorizeResponse{
		ResourceID:             body.ID,
		ConnectorTransactionID: body.ID,
		Status:                 statusFromCheckout(body.Status, body.Approved),
	}, nil
}

func (authorizeFlow) ParseError(raw []byte) (domain.ErrorResponse, error) { return parseErrorBody(raw) }
func (authorizeFlow) Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error) {
	return parse5xxBody(raw, statusCode)
}

// --- Capture ---

type captureFlow struct{}

type captureBody struct {
	Amount int64 `json:"amount"`
}

func (captureFlow) Headers(ctx connector.RequestContext, req domain.CaptureRequest) ([]connector.Header, error) {
	return bearerHeader(ctx.Auth), nil
}

func (captureFlow) URL(ctx connector.RequestContext, req domain.CaptureRequest) (string, error) {
	return ctx.BaseURL + "/payments/" + req.ConnectorTransactionID + "/captures", nil
}

func (captureFlow) Body(ctx connector.RequestContext, req domain.CaptureRequest) (connector.Body, error) {
	return connector.JSONBody{Value: captureBody{Amount: req.AmountToCapture.MinorInteger()}}, nil
}

func (captureFlow) ParseSuccess(raw []byte) (domain.CaptureResponse, error) {
	var body paymentResponseBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return domain.CaptureResponse{}, err
	}
	return domain.CaptureResponse{
		ConnectorTransactionID: body.ID,
		Status:                 statusFromCheckout(body.Status, body.Approved),
	}, nil
}

func (captureFlow) ParseError(raw []byte) (domain.ErrorResponse, error) { return parseErrorBody(raw) }
func (captureFlow) Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error) {
	return parse5xxBody(raw, statusCode)
}

// --- Void ---

type voidFlow struct{}

func (voidFlow) Headers(ctx connector.RequestContext, req domain.VoidRequest) ([]connector.Header, error) {
	return bearerHeader(ctx.Auth), nil
}

func (voidFlow) URL(ctx connector.RequestContext, req domain.VoidRequest) (string, error) {
	return ctx.BaseURL + "/payments/" + req.ConnectorTransactionID + "/voids", nil
}

func (voidFlow) Body(ctx connector.RequestContext, req domain.VoidRequest) (connector.Body, error) {
	return connector.JSONBody{Value: struct{}{}}, nil
}

func (voidFlow) ParseSuccess(raw []byte) (domain.VoidResponse, error) {
	var body paymentResponseBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return domain.VoidResponse{}, err
	}
	return domain.VoidResponse{
		ConnectorTransactionID: body.ID,
		Status:                 statusFromCheckout(body.Status, body.Approved),
	}, nil
}

func (voidFlow) ParseError(raw []byte) (domain.ErrorResponse, error) { return parseErrorBody(raw) }
func (voidFlow) Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error) {
	return parse5xxBody(raw, statusCode)
}

// --- Refund ---

type refundFlow struct{}

type refundBody struct {
	Amount int64  `json:"amount"`
	Reference string `json:"reference"`
}

type refundResponseBody struct {
	ID string `json:"action_id"`
	Status string `json:"status"`
	Approved bool   `json:"approved"`
}

func (refundFlow) Headers(ctx connector.RequestContext, req domain.RefundRequest) ([]connector.Header, error) {
	return bearerHeader(ctx.Auth), nil
}

func (refundFlow) URL(ctx connector.RequestContext, req domain.RefundRequest) (string, error) {
	return ctx.BaseURL + "/payments/" + req.ConnectorTransactionID + "/refunds", nil
}

func (refundFlow) Body(ctx connector.RequestContext, req domain.RefundRequest) (connector.Body, error) {
	return connector.JSONBody{Value: refundBody{Amount: req.RefundAmount.MinorInteger(), Reference: req.RefundID}}, nil
}

func (refundFlow) ParseSuccess(raw []byte) (domain.RefundResponse, error) {
	var body refundResponseBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return domain.RefundResponse{}, err
	}
	return domain.RefundResponse{
		ConnectorRefundID: body.ID,
		Status:            statusFromCheckout(body.Status, body.Approved),
	}, nil
}

func (refundFlow) ParseError(raw []byte) (domain.ErrorResponse, error) { return parseErrorBody(raw) }
func (refundFlow) Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error) {
	return parse5xxBody(raw, statusCode)
}

// --- RefundSync ---

type refundSyncFlow struct{}

func (refundSyncFlow) Headers(ctx connector.RequestContext, req domain.RefundSyncRequest) ([]connector.Header, error) {
	return bearerHeader(ctx.Auth), nil
}

func (refundSyncFlow) URL(ctx connector.RequestContext, req domain.RefundSyncRequest) (string, error) {
	return ctx.BaseURL + "/payments/actions/" + req.ConnectorRefundID, nil
}

func (refundSyncFlow) Body(ctx connector.RequestContext, req domain.RefundSyncRequest) (connector.Body, error) {
	return nil, nil
}

func (refundSyncFlow) ParseSuccess(raw []byte) (domain.RefundSyncResponse, error) {
	var body refundResponseBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return domain.RefundSyncResponse{}, err
	}
	return domain.RefundSyncResponse{Status: statusFromCheckout(body.Status, body.Approved)}, nil
}

func (refundSyncFlow) ParseError(raw []byte) (domain.ErrorResponse, error) { return parseErrorBody(raw) }
func (refundSyncFlow) Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error) {
	return parse5xxBody(raw, statusCode)
}

// --- Sync ---

type syncFlow struct{}

func (syncFlow) Headers(ctx connector.RequestContext, req domain.SyncRequest) ([]connector.Header, error) {
	return bearerHeader(ctx.Auth), nil
}

func (syncFlow) URL(ctx connector.RequestContext, req domain.SyncRequest) (string, error) {
	return ctx.BaseURL + "/payments/" + req.ConnectorTransactionID, nil
}

func (syncFlow) Body(ctx connector.RequestContext, req domain.SyncRequest) (connector.Body, error) {
	return nil, nil
}

func (syncFlow) ParseSuccess(raw []byte) (domain.SyncResponse, error) {
	var body paymentResponseBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return domain.SyncResponse{}, err
	}
	return domain.SyncResponse{
		ConnectorTransactionID: body.ID,
		Status:                 statusFromCheckout(body.Status, body.Approved),
	}, nil
}

func (syncFlow) ParseError(raw []byte) (domain.ErrorResponse, error) { return parseErrorBody(raw) }
func (syncFlow) Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error) {
	return parse5xxBody(raw, statusCode)
}

// --- Webhook ---

type webhookFlow struct{}

type webhookPayload struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
		Status string `json:"status"`
		ActionID string `json:"action_id"`
	} `json:"data"`
}

// VerifySource checks the connector's HMAC-SHA256 signature header against
// the configured webhook secret. Per scenario F and spec §7's FAQ on a
// missing secret, an unconfigured secret returns (false, nil) — never an
// error — since "no secret configured" is an operational gap, not a
// malformed request.
func (webhookFlow) VerifySource(req domain.RequestDetails, secrets domain.WebhookSecrets) (bool, error) {
	if secrets.Secret == "" {
		return false, nil
	}
	sig := req.Headers["Cko-Signature"]
	if sig == "" {
		return false, nil
	}
	return computeHMAC(secrets.Secret, req.Body) == sig, nil
}

func (webhookFlow) EventType(req domain.RequestDetails) (domain.EventType, error) {
	var p webhookPayload
	if err := json.Unmarshal(req.Body, &p); err != nil {
		return domain.EventUnknown, nil
	}
	switch p.Type {
	case "payment_captured", "payment_approved":
		return domain.EventPaymentSuccess, nil
	case "payment_declined":
		return domain.EventPaymentFailure, nil
	case "payment_refunded":
		return domain.EventRefundSuccess, nil
	case "dispute_received":
		return domain.EventDisputeOpened, nil
	default:
		return domain.EventUnknown, nil
	}
}

func (webhookFlow) ProcessPaymentWebhook(req domain.RequestDetails) (domain.PaymentWebhookDetails, error) {
	var p webhookPayload
	if err := json.Unmarshal(req.Body, &p); err != nil {
		return domain.PaymentWebhookDetails{}, err
	}
	return domain.PaymentWebhookDetails{
		ConnectorTransactionID: p.Data.ID,
		Status:                 statusFromCheckout(p.Data.Status, p.Type == "payment_approved" || p.Type == "payment_captured"),
	}, nil
}

func (webhookFlow) ProcessRefundWebhook(req domain.RequestDetails) (domain.RefundWebhookDetails, error) {
	var p webhookPayload
	if err := json.Unmarshal(req.Body, &p); err != nil {
		return domain.RefundWebhookDetails{}, err
	}
	return domain.RefundWebhookDetails{
		RefundID:               p.Data.ActionID,
		ConnectorTransactionID: p.Data.ID,
		Status:                 domain.StatusCharged,
	}, nil
}

func (webhookFlow) ProcessDisputeWebhook(req domain.RequestDetails) (domain.DisputeWebhookDetails, error) {
	var p webhookPayload
	if err := json.Unmarshal(req.Body, &p); err != nil {
		return domain.DisputeWebhookDetails{}, err
	}
	return domain.DisputeWebhookDetails{
		DisputeID:              p.Data.ID,
		ConnectorTransactionID: p.Data.ID,
		Status:                 domain.StatusUnresolved,
	}, nil
}
