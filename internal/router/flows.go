package router

import (
	"context"

	"connectgate/internal/connectorerrors"
	"connectgate/internal/domain"
	"connectgate/internal/integrity"
)

// Authorize runs the Authorize flow end to end: validate the capture
// method, resolve the connector, build the outbound request, execute it,
// parse the outcome, and run the integrity check against the fields
// FieldSet[FlowAuthorize] names (spec §4.3 property 2, §4.4, §4.8).
func (d *Dispatcher) Authorize(ctx context.Context, connectorID string, common domain.FlowData, auth domain.ConnectorAuth, req domain.AuthorizeRequest) (domain.AuthorizeResponse, error) {
	entry, ok := d.Registry.Lookup(connectorID)
	if !ok {
		return domain.AuthorizeResponse{}, connectorerrors.New(connectorerrors.KindInvalidConnectorName, "unknown connector: "+connectorID)
	}
	if !entry.SupportsCaptureMethod(req.PaymentMethodType, req.CaptureMethod) {
		return domain.AuthorizeResponse{}, connectorerrors.New(connectorerrors.KindCaptureMethodNotSupported,
			"connector "+connectorID+" does not support capture method "+string(req.CaptureMethod)+" for "+string(req.PaymentMethodType))
	}
	conn, ok := d.Connectors[connectorID]
	if !ok || conn == nil || conn.Authorize == nil {
		return domain.AuthorizeResponse{}, connectorerrors.New(connectorerrors.KindFlowNotSupported, "authorize not implemented by "+connectorID)
	}
	integ := conn.Authorize
	return execFlow(ctx, d, connectorID, domain.FlowAuthorize, req.PaymentMethodType, common, auth, req,
		integ.Headers, integ.URL, integ.Body, integ.ParseSuccess, integ.ParseError, integ.Parse5xx,
		integrity.ProjectAuthorizeRequest,
		func(r domain.AuthorizeResponse) integrity.Projection { return integrity.ProjectAuthorizeResponse(r, req) },
		func(r domain.AuthorizeResponse) string { return r.ConnectorTransactionID })
}

// Sync runs the PSync flow: fetch the connector's current view of a prior
// transaction and compare it against what the caller believes it to be
// (§4.8).
func (d *Dispatcher) Sync(ctx context.Context, connectorID string, common domain.FlowData, auth domain.ConnectorAuth, req domain.SyncRequest) (domain.SyncResponse, error) {
	if req.ConnectorTransactionID == "" {
		return domain.SyncResponse{}, connectorerrors.New(connectorerrors.KindMissingConnectorTransactionID, "sync request missing connector transaction id")
	}
	conn, ok := d.Connectors[connectorID]
	if !ok || conn == nil || conn.Sync == nil {
		return domain.SyncResponse{}, connectorerrors.New(connectorerrors.KindFlowNotSupported, "sync not implemented by "+connectorID)
	}
	integ := conn.Sync
	return execFlow(ctx, d, connectorID, domain.FlowSync, "", common, auth, req,
		integ.Headers, integ.URL, integ.Body, integ.ParseSuccess, integ.ParseError, integ.Parse5xx,
		integrity.ProjectSyncRequest,
		func(r domain.SyncResponse) integrity.Projection { return integrity.ProjectSyncResponse(r, req) },
		func(r domain.SyncResponse) string { return r.ConnectorTransactionID })
}

// Capture runs the Capture flow: settle some or all of a prior
// authorization hold.
func (d *Dispatcher) Capture(ctx context.Context, connectorID string, common domain.FlowData, auth domain.ConnectorAuth, req domain.CaptureRequest) (domain.CaptureResponse, error) {
	conn, ok := d.Connectors[connectorID]
	if !ok || conn == nil || conn.Capture == nil {
		return domain.CaptureResponse{}, connectorerrors.New(connectorerrors.KindFlowNotSupported, "capture not implemented by "+connectorID)
	}
	integ := conn.Capture
	return execFlow(ctx, d, connectorID, domain.FlowCapture, "", common, auth, req,
		integ.Headers, integ.URL, integ.Body, integ.ParseSuccess, integ.ParseError, integ.Parse5xx,
		integrity.ProjectCaptureRequest,
		func(r domain.CaptureResponse) integrity.Projection { return integrity.ProjectCaptureResponse(r, req) },
		func(r domain.CaptureResponse) string { return r.ConnectorTransactionID })
}

// Void runs the Void flow: cancel a prior authorization before it is
// captured.
func (d *Dispatcher) Void(ctx context.Context, connectorID string, common domain.FlowData, auth domain.ConnectorAuth, req domain.VoidRequest) (domain.VoidResponse, error) {
	conn, ok := d.Connectors[connectorID]
	if !ok || conn == nil || conn.Void == nil {
		return domain.VoidResponse{}, connectorerrors.New(connectorerrors.KindFlowNotSupported, "void not implemented by "+connectorID)
	}
	integ := conn.Void
	return execFlow(ctx, d, connectorID, domain.FlowVoid, "", common, auth, req,
		integ.Headers, integ.URL, integ.Body, integ.ParseSuccess, integ.ParseError, integ.Parse5xx,
		integrity.ProjectVoidRequest,
		func(r domain.VoidResponse) integrity.Projection { return integrity.ProjectVoidResponse(r, req) },
		func(r domain.VoidResponse) string { return r.ConnectorTransactionID })
}

// Refund runs the Refund flow: return some or all of a captured payment.
func (d *Dispatcher) Refund(ctx context.Context, connectorID string, common domain.FlowData, auth domain.ConnectorAuth, req domain.RefundRequest) (domain.RefundResponse, error) {
	conn, ok := d.Connectors[connectorID]
	if !ok || conn == nil || conn.Refund == nil {
		return domain.RefundResponse{}, connectorerrors.New(connectorerrors.KindFlowNotSupported, "refund not implemented by "+connectorID)
	}
	integ := conn.Refund
	return execFlow(ctx, d, connectorID, domain.FlowRefund, "", common, auth, req,
		integ.Headers, integ.URL, integ.Body, integ.ParseSuccess, integ.ParseError, integ.Parse5xx,
		integrity.ProjectRefundRequest,
		func(r domain.RefundResponse) integrity.Projection { return integrity.ProjectRefundResponse(r, req) },
		func(r domain.RefundResponse) string { return r.ConnectorTransactionID })
}

// RefundSync runs the RSync flow: fetch the connector's current view of a
// prior refund.
func (d *Dispatcher) RefundSync(ctx context.Context, connectorID string, common domain.FlowData, auth domain.ConnectorAuth, req domain.RefundSyncRequest) (domain.RefundSyncResponse, error) {
	conn, ok := d.Connectors[connectorID]
	if !ok || conn == nil || conn.RefundSync == nil {
		return domain.RefundSyncResponse{}, connectorerrors.New(connectorerrors.KindFlowNotSupported, "refund sync not implemented by "+connectorID)
	}
	integ := conn.RefundSync
	return execFlow(ctx, d, connectorID, domain.FlowRefundSync, "", common, auth, req,
		integ.Headers, integ.URL, integ.Body, integ.ParseSuccess, integ.ParseError, integ.Parse5xx,
		integrity.ProjectRefundSyncRequest,
		func(r domain.RefundSyncResponse) integrity.Projection { return integrity.ProjectRefundSyncResponse(r, req) },
		func(r domain.RefundSyncResponse) string { return "" })
}

// CreateOrder runs the CreateOrder flow, used by connectors that require a
// separate order-creation call before authorization.
func (d *Dispatcher) CreateOrder(ctx context.Context, connectorID string, common domain.FlowData, auth domain.ConnectorAuth, req domain.CreateOrderRequest) (domain.CreateOrderResponse, error) {
	conn, ok := d.Connectors[connectorID]
	if !ok || conn == nil || conn.CreateOrder == nil {
		return domain.CreateOrderResponse{}, connectorerrors.New(connectorerrors.KindFlowNotSupported, "create order not implemented by "+connectorID)
	}
	integ := conn.CreateOrder
	return execFlow(ctx, d, connectorID, domain.FlowCreateOrder, "", common, auth, req,
		integ.Headers, integ.URL, integ.Body, integ.ParseSuccess, integ.ParseError, integ.Parse5xx,
		integrity.ProjectCreateOrderRequest,
		func(r domain.CreateOrderResponse) integrity.Projection { return integrity.ProjectCreateOrderResponse(r, req) },
		func(r domain.CreateOrderResponse) string { return "" })
}

// AcceptDispute runs the AcceptDispute flow: concede a dispute without
// submitting evidence.
func (d *Dispatcher) AcceptDispute(ctx context.Context, connectorID string, common domain.FlowData, auth domain.ConnectorAuth, req domain.DisputeRequest) (domain.DisputeResponse, error) {
	conn, ok := d.Connectors[connectorID]
	if !ok || conn == nil || conn.AcceptDispute == nil {
		return domain.DisputeResponse{}, connectorerrors.New(connectorerrors.KindFlowNotSupported, "accept dispute not implemented by "+connectorID)
	}
	integ := conn.AcceptDispute
	return execFlow(ctx, d, connectorID, domain.FlowAcceptDispute, "", common, auth, req,
		integ.Headers, integ.URL, integ.Body, integ.ParseSuccess, integ.ParseError, integ.Parse5xx,
		integrity.ProjectDisputeRequest, integrity.ProjectDisputeResponse,
		func(r domain.DisputeResponse) string { return "" })
}

// SubmitEvidence runs the SubmitEvidence flow: contest a dispute with
// supporting documentation.
func (d *Dispatcher) SubmitEvidence(ctx context.Context, connectorID string, common domain.FlowData, auth domain.ConnectorAuth, req domain.DisputeRequest) (domain.DisputeResponse, error) {
	conn, ok := d.Connectors[connectorID]
	if !ok || conn == nil || conn.SubmitEvidence == nil {
		return domain.DisputeResponse{}, connectorerrors.New(connectorerrors.KindFlowNotSupported, "submit evidence not implemented by "+connectorID)
	}
	integ := conn.SubmitEvidence
	return execFlow(ctx, d, connectorID, domain.FlowSubmitEvidence, "", common, auth, req,
		integ.Headers, integ.URL, integ.Body, integ.ParseSuccess, integ.ParseError, integ.Parse5xx,
		integrity.ProjectDisputeRequest, integrity.ProjectDisputeResponse,
		func(r domain.DisputeResponse) string { return "" })
}

// DefendDispute runs the DefendDispute flow: contest a dispute without new
// evidence, relying on what was already submitted.
func (d *Dispatcher) DefendDispute(ctx context.Context, connectorID string, common domain.FlowData, auth domain.ConnectorAuth, req domain.DisputeRequest) (domain.DisputeResponse, error) {
	conn, ok := d.Connectors[connectorID]
	if !ok || conn == nil || conn.DefendDispute == nil {
		return domain.DisputeResponse{}, connectorerrors.New(connectorerrors.KindFlowNotSupported, "defend dispute not implemented by "+connectorID)
	}
	integ := conn.DefendDispute
	return execFlow(ctx, d, connectorID, domain.FlowDefendDispute, "", common, auth, req,
		integ.Headers, integ.URL, integ.Body, integ.ParseSuccess, integ.ParseError, integ.Parse5xx,
		integrity.ProjectDisputeRequest, integrity.ProjectDisputeResponse,
		func(r domain.DisputeResponse) string { return "" })
}

// SetupMandate runs the SetupMandate flow: establish a reusable mandate for
// future merchant-initiated transactions.
func (d *Dispatcher) SetupMandate(ctx context.Context, connectorID string, common domain.FlowData, auth domain.ConnectorAuth, req domain.SetupMandateRequest) (domain.SetupMandateResponse, error) {
	conn, ok := d.Connectors[connectorID]
	if !ok || conn == nil || conn.SetupMandate == nil {
		return domain.SetupMandateResponse{}, connectorerrors.New(connectorerrors.KindFlowNotSupported, "setup mandate not implemented by "+connectorID)
	}
	integ := conn.SetupMandate
	return execFlow(ctx, d, connectorID, domain.FlowSetupMandate, "", common, auth, req,
		integ.Headers, integ.URL, integ.Body, integ.ParseSuccess, integ.ParseError, integ.Parse5xx,
		integrity.ProjectSetupMandateRequest,
		func(r domain.SetupMandateResponse) integrity.Projection { return integrity.ProjectSetupMandateResponse(r, req) },
		func(r domain.SetupMandateResponse) string { return "" })
}

// RepeatPayment runs the RepeatPayment flow: charge a previously
// established mandate without the cardholder present.
func (d *Dispatcher) RepeatPayment(ctx context.Context, connectorID string, common domain.FlowData, auth domain.ConnectorAuth, req domain.RepeatPaymentRequest) (domain.RepeatPaymentResponse, error) {
	conn, ok := d.Connectors[connectorID]
	if !ok || conn == nil || conn.RepeatPayment == nil {
		return domain.RepeatPaymentResponse{}, connectorerrors.New(connectorerrors.KindFlowNotSupported, "repeat payment not implemented by "+connectorID)
	}
	integ := conn.RepeatPayment
	return execFlow(ctx, d, connectorID, domain.FlowRepeatPayment, "", common, auth, req,
		integ.Headers, integ.URL, integ.Body, integ.ParseSuccess, integ.ParseError, integ.Parse5xx,
		integrity.ProjectRepeatPaymentRequest,
		func(r domain.RepeatPaymentResponse) integrity.Projection { return integrity.ProjectRepeatPaymentResponse(r, req) },
		func(r domain.RepeatPaymentResponse) string { return r.ConnectorTransactionID })
}
