package api

import (
	"context"

	"connectgate/internal/domain"
	"connectgate/internal/pkg/logutil"
	"connectgate/internal/router"
	"connectgate/internal/webhook"
)

// ConnectorService is the RPC surface spec.md §6 describes: one method per
// canonical payment operation plus webhook ingestion. It is implemented
// directly against the Dispatcher (no generated stubs — SPEC_FULL.md §15).
// The HTTP webhook adapter calls HandleWebhook; the gRPC server registers
// nothing for this interface.
type ConnectorService interface {
	Authorize(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.AuthorizeRequest) (domain.AuthorizeResponse, error)
	Sync(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.SyncRequest) (domain.SyncResponse, error)
	Capture(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.CaptureRequest) (domain.CaptureResponse, error)
	Void(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.VoidRequest) (domain.VoidResponse, error)
	Refund(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.RefundRequest) (domain.RefundResponse, error)
	RefundSync(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.RefundSyncRequest) (domain.RefundSyncResponse, error)
	CreateOrder(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.CreateOrderRequest) (domain.CreateOrderResponse, error)
	AcceptDispute(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.DisputeRequest) (domain.DisputeResponse, error)
	SubmitEvidence(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.DisputeRequest) (domain.DisputeResponse, error)
	DefendDispute(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.DisputeRequest) (domain.DisputeResponse, error)
	SetupMandate(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.SetupMandateRequest) (domain.SetupMandateResponse, error)
	RepeatPayment(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.RepeatPaymentRequest) (domain.RepeatPaymentResponse, error)
	HandleWebhook(ctx context.Context, connectorID string, req domain.RequestDetails) (domain.WebhookResponse, error)
}

// Service implements ConnectorService by delegating to a router.Dispatcher
// for payment flows and a webhook.Processor for inbound webhooks.
type Service struct {
	Dispatcher *router.Dispatcher
	Webhooks   *webhook.Registry

	// AuthResolver, if set, runs before every dispatch and may replace
	// meta.Auth — the seam a connector needing an out-of-band token
	// exchange (epay's OAuth2 client-credentials flow) plugs into, so the
	// Dispatcher itself never has to know a caller-supplied credential
	// might need resolving. A nil AuthResolver passes meta.Auth through
	// unchanged.
	AuthResolver func(ctx context.Context, connectorID string, auth domain.ConnectorAuth) (domain.ConnectorAuth, error)
}

// NewService wires a Dispatcher and a webhook Registry into a Service.
func NewService(d *router.Dispatcher, w *webhook.Registry) *Service {
	return &Service{Dispatcher: d, Webhooks: w}
}

// resolveAuth attaches meta.RequestID to ctx — the x-request-id every
// outbound connector call and CallEvent (sink.CallEvent.RequestRefID)
// traces back to — and runs AuthResolver, if set.
func (s *Service) resolveAuth(ctx context.Context, meta RequestMetadata) (context.Context, domain.ConnectorAuth, error) {
	ctx = logutil.WithRequestID(ctx, meta.RequestID)
	if s.AuthResolver == nil {
		return ctx, meta.Auth, nil
	}
	auth, err := s.AuthResolver(ctx, meta.Connector, meta.Auth)
	return ctx, auth, err
}

func (s *Service) Authorize(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.AuthorizeRequest) (domain.AuthorizeResponse, error) {
	ctx, auth, err := s.resolveAuth(ctx, meta)
	if err != nil {
		return domain.AuthorizeResponse{}, err
	}
	return s.Dispatcher.Authorize(ctx, meta.Connector, common, auth, req)
}

func (s *Service) Sync(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.SyncRequest) (domain.SyncResponse, error) {
	ctx, auth, err := s.resolveAuth(ctx, meta)
	if err != nil {
		return domain.SyncResponse{}, err
	}
	return s.Dispatcher.Sync(ctx, meta.Connector, common, auth, req)
}

func (s *Service) Capture(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.CaptureRequest) (domain.CaptureResponse, error) {
	ctx, auth, err := s.resolveAuth(ctx, meta)
	if err != nil {
		return domain.CaptureResponse{}, err
	}
	return s.Dispatcher.Capture(ctx, meta.Connector, common, auth, req)
}

func (s *Service) Void(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.VoidRequest) (domain.VoidResponse, error) {
	ctx, auth, err := s.resolveAuth(ctx, meta)
	if err != nil {
		return domain.VoidResponse{}, err
	}
	return s.Dispatcher.Void(ctx, meta.Connector, common, auth, req)
}

func (s *Service) Refund(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.RefundRequest) (domain.RefundResponse, error) {
	ctx, auth, err := s.resolveAuth(ctx, meta)
	if err != nil {
		return domain.RefundResponse{}, err
	}
	return s.Dispatcher.Refund(ctx, meta.Connector, common, auth, req)
}

func (s *Service) RefundSync(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.RefundSyncRequest) (domain.RefundSyncResponse, error) {
	ctx, auth, err := s.resolveAuth(ctx, meta)
	if err != nil {
		return domain.RefundSyncResponse{}, err
	}
	return s.Dispatcher.RefundSync(ctx, meta.Connector, common, auth, req)
}

func (s *Service) CreateOrder(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.CreateOrderRequest) (domain.CreateOrderResponse, error) {
	ctx, auth, err := s.resolveAuth(ctx, meta)
	if err != nil {
		return domain.CreateOrderResponse{}, err
	}
	return s.Dispatcher.CreateOrder(ctx, meta.Connector, common, auth, req)
}

func (s *Service) AcceptDispute(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.DisputeRequest) (domain.DisputeResponse, error) {
	ctx, auth, err := s.resolveAuth(ctx, meta)
	if err != nil {
		return domain.DisputeResponse{}, err
	}
	return s.Dispatcher.AcceptDispute(ctx, meta.Connector, common, auth, req)
}

func (s *Service) SubmitEvidence(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.DisputeRequest) (domain.DisputeResponse, error) {
	ctx, auth, err := s.resolveAuth(ctx, meta)
	if err != nil {
		return domain.DisputeResponse{}, err
	}
	return s.Dispatcher.SubmitEvidence(ctx, meta.Connector, common, auth, req)
}

func (s *Service) DefendDispute(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.DisputeRequest) (domain.DisputeResponse, error) {
	ctx, auth, err := s.resolveAuth(ctx, meta)
	if err != nil {
		return domain.DisputeResponse{}, err
	}
	return s.Dispatcher.DefendDispute(ctx, meta.Connector, common, auth, req)
}

func (s *Service) SetupMandate(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.SetupMandateRequest) (domain.SetupMandateResponse, error) {
	ctx, auth, err := s.resolveAuth(ctx, meta)
	if err != nil {
		return domain.SetupMandateResponse{}, err
	}
	return s.Dispatcher.SetupMandate(ctx, meta.Connector, common, auth, req)
}

func (s *Service) RepeatPayment(ctx context.Context, meta RequestMetadata, common domain.FlowData, req domain.RepeatPaymentRequest) (domain.RepeatPaymentResponse, error) {
	ctx, auth, err := s.resolveAuth(ctx, meta)
	if err != nil {
		return domain.RepeatPaymentResponse{}, err
	}
	return s.Dispatcher.RepeatPayment(ctx, meta.Connector, common, auth, req)
}

// HandleWebhook adapts a raw inbound webhook into the normalized tuple
// spec.md §6's "separate RPC" describes, delegating source verification,
// classification, and projection to the connector's registered
// webhook.Processor.
func (s *Service) HandleWebhook(ctx context.Context, connectorID string, req domain.RequestDetails) (domain.WebhookResponse, error) {
	return s.Webhooks.Process(connectorID, req)
}
