package connector

import (
	"connectgate/internal/domain"
)

// RequestContext carries everything an integration's Headers/URL/Body
// methods need to build one outbound call: the stable per-attempt data and
// the connector's resolved base URL.
type RequestContext struct {
	Common domain.FlowData
	Auth domain.ConnectorAuth
	BaseURL string
}

// AuthorizeIntegration is the Connector Integration Protocol for the
// Authorize flow: build an outbound request from a canonical
// AuthorizeRequest, and parse every outcome class a connector response can
// land in (§4.5).
type AuthorizeIntegration interface {
	Headers(ctx RequestContext, req domain.AuthorizeRequest) ([]Header, error)
	URL(ctx RequestContext, req domain.AuthorizeRequest) (string, error)
	Body(ctx RequestContext, req domain.AuthorizeRequest) (Body, error)
	ParseSuccess(raw []byte) (domain.AuthorizeResponse, error)
	ParseError(raw []byte) (domain.ErrorResponse, error)
	Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error)
}

// SyncIntegration is the Connector Integration Protocol for the PSync flow.
type SyncIntegration interface {
	Headers(ctx RequestContext, req domain.SyncRequest) ([]Header, error)
	URL(ctx RequestContext, req domain.SyncRequest) (string, error)
	Body(ctx RequestContext, req domain.SyncRequest) (Body, error)
	ParseSuccess(raw []byte) (domain.SyncResponse, error)
	ParseError(raw []byte) (domain.ErrorResponse, error)
	Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error)
}

// CaptureIntegration is the Connector Integration Protocol for the Capture
// flow.
type CaptureIntegration interface {
	Headers(ctx RequestContext, req domain.CaptureRequest) ([]Header, error)
	URL(ctx RequestContext, req domain.CaptureRequest) (string, error)
	Body(ctx RequestContext, req domain.CaptureRequest) (Body, error)
	ParseSuccess(raw []byte) (domain.CaptureResponse, error)
	ParseError(raw []byte) (domain.ErrorResponse, error)
	Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error)
}

// VoidIntegration is the Connector Integration Protocol for the Void flow.
type VoidIntegration interface {
	Headers(ctx RequestContext, req domain.VoidRequest) ([]Header, error)
	URL(ctx RequestContext, req domain.VoidRequest) (string, error)
	Body(ctx RequestContext, req domain.VoidRequest) (Body, error)
	ParseSuccess(raw []byte) (domain.VoidResponse, error)
	ParseError(raw []byte) (domain.ErrorResponse, error)
	Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error)
}

// RefundIntegration is the Connector Integration Protocol for the Refund
// flow.
type RefundIntegration interface {
	Headers(ctx RequestContext, req domain.RefundRequest) ([]Header, error)
	URL(ctx RequestContext, req domain.RefundRequest) (string, error)
	Body(ctx RequestContext, req domain.RefundRequest) (Body, error)
	ParseSuccess(raw []byte) (domain.RefundResponse, error)
	ParseError(raw []byte) (domain.ErrorResponse, error)
	Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error)
}

// RefundSyncIntegration is the Connector Integration Protocol for the RSync
// flow.
type RefundSyncIntegration interface {
	Headers(ctx RequestContext, req domain.RefundSyncRequest) ([]Header, error)
	URL(ctx RequestContext, req domain.RefundSyncRequest) (string, error)
	Body(ctx RequestContext, req domain.RefundSyncRequest) (Body, error)
	ParseSuccess(raw []byte) (domain.RefundSyncResponse, error)
	ParseError(raw []byte) (domain.ErrorResponse, error)
	Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error)
}

// CreateOrderIntegration is the Connector Integration Protocol for
// connectors that require a separate order-creation call before
// authorization.
type CreateOrderIntegration interface {
	Headers(ctx RequestContext, req domain.CreateOrderRequest) ([]Header, error)
	URL(ctx RequestContext, req domain.CreateOrderRequest) (string, error)
	Body(ctx RequestContext, req domain.CreateOrderRequest) (Body, error)
	ParseSuccess(raw []byte) (domain.CreateOrderResponse, error)
	ParseError(raw []byte) (domain.ErrorResponse, error)
	Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error)
}

// DisputeIntegration is shared by AcceptDispute, SubmitEvidence and
// DefendDispute — all three exchange the same request/response shape and
// differ only in which URL/flow they target.
type DisputeIntegration interface {
	Headers(ctx RequestContext, req domain.DisputeRequest) ([]Header, error)
	URL(ctx RequestContext, req domain.DisputeRequest) (string, error)
	Body(ctx RequestContext, req domain.DisputeRequest) (Body, error)
	ParseSuccess(raw []byte) (domain.DisputeResponse, error)
	ParseError(raw []byte) (domain.ErrorResponse, error)
	Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error)
}

// SetupMandateIntegration is the Connector Integration Protocol for
// establishing a reusable mandate.
type SetupMandateIntegration interface {
	Headers(ctx RequestContext, req domain.SetupMandateRequest) ([]Header, error)
	URL(ctx RequestContext, req domain.SetupMandateRequest) (string, error)
	Body(ctx RequestContext, req domain.SetupMandateRequest) (Body, error)
	ParseSuccess(raw []byte) (domain.SetupMandateResponse, error)
	ParseError(raw []byte) (domain.ErrorResponse, error)
	Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error)
}

// RepeatPaymentIntegration is the Connector Integration Protocol for
// charging a previously established mandate.
type RepeatPaymentIntegration interface {
	Headers(ctx RequestContext, req domain.RepeatPaymentRequest) ([]Header, error)
	URL(ctx RequestContext, req domain.RepeatPaymentRequest) (string, error)
	Body(ctx RequestContext, req domain.RepeatPaymentRequest) (Body, error)
	ParseSuccess(raw []byte) (domain.RepeatPaymentResponse, error)
	ParseError(raw []byte) (domain.ErrorResponse, error)
	Parse5xx(raw []byte, statusCode int) (domain.ErrorResponse, error)
}

// WebhookIntegration is the Connector Integration Protocol for inbound
// webhook handling: verifying the request came from the
// connector, classifying its event type, and projecting it into the
// canonical per-resource detail structs.
type WebhookIntegration interface {
	VerifySource(req domain.RequestDetails, secrets domain.WebhookSecrets) (bool, error)
	EventType(req domain.RequestDetails) (domain.EventType, error)
	ProcessPaymentWebhook(req domain.RequestDetails) (domain.PaymentWebhookDetails, error)
	ProcessRefundWebhook(req domain.RequestDetails) (domain.RefundWebhookDetails, error)
	ProcessDisputeWebhook(req domain.RequestDetails) (domain.DisputeWebhookDetails, error)
}

// Connector is the full set of integrations a connector adapter may
// implement. Every field is an interface value; a nil field means
// the connector does not register for that flow at all, which the
// Dispatcher must check before calling through it (spec §9's "registered
// but unimplemented" anti-pattern must not recur here — a connector either
// provides a real implementation for a flow or leaves the field nil, it
// never registers an empty stub).
type Connector struct {
	ID string

	Authorize AuthorizeIntegration
	Sync SyncIntegration
	Capture CaptureIntegration
	Void VoidIntegration
	Refund RefundIntegration
	RefundSync RefundSyncIntegration
	CreateOrder CreateOrderIntegration
	AcceptDispute DisputeIntegration
	SubmitEvidence DisputeIntegration
	DefendDispute DisputeIntegration
	SetupMandate SetupMandateIntegration
	RepeatPayment RepeatPaymentIntegration

	Webhook WebhookIntegration
}
