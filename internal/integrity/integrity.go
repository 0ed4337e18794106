// Package integrity implements the post-response integrity check (spec
// §4.8): per flow, project the fields the caller asked to be checked out
// of both the original request and the connector's parsed response, and
// report any field where the two disagree.
package integrity

import (
	"sort"

	"connectgate/internal/domain"
	"connectgate/internal/money"
)

// amountProjection renders amount's major-unit string and currency tag, the
// {amount, currency} pair nearly every flow's projection carries.
func amountProjection(p Projection, amount money.Amount) {
	major, _ := amount.MajorString()
	p["amount"] = major
	p["currency"] = string(amount.Currency)
}

// responseAmount resolves the amount a response projection should compare
// against: most connectors do not echo amount/currency back on a
// successful response, so a response field left unset (Currency == "") is
// not a divergence — it falls back to what was requested. A connector that
// actively echoes a different amount (resp.Currency populated and resp
// unequal to fallback) still produces a genuine divergence once amountProjection runs
// on the echoed value.
func responseAmount(resp, fallback money.Amount) money.Amount {
	if resp.Currency == "" {
		return fallback
	}
	return resp
}

// stringFallback applies the same "absence is not divergence" rule
// responseAmount applies to amounts: an id field a connector's response
// left blank falls back to what the request already supplied, rather than
// being compared against it as an empty string.
func stringFallback(resp, fallback string) string {
	if resp == "" {
		return fallback
	}
	return resp
}

// ProjectAuthorizeRequest projects the fields FieldSet[FlowAuthorize] names
// out of the outgoing AuthorizeRequest.
func ProjectAuthorizeRequest(req domain.AuthorizeRequest) Projection {
	p := Projection{"capture_method": string(req.CaptureMethod)}
	amountProjection(p, req.Amount)
	return p
}

// ProjectAuthorizeResponse projects the same fields out of what the
// connector's parsed response actually reflects, falling back to req's
// values for anything the response left unset (see responseAmount).
func ProjectAuthorizeResponse(resp domain.AuthorizeResponse, req domain.AuthorizeRequest) Projection {
	captureMethod := resp.CaptureMethod
	if captureMethod == "" {
		captureMethod = req.CaptureMethod
	}
	p := Projection{"capture_method": string(captureMethod)}
	amountProjection(p, responseAmount(resp.Amount, req.Amount))
	return p
}

// ProjectCaptureRequest/-Response project FieldSet[FlowCapture].
func ProjectCaptureRequest(req domain.CaptureRequest) Projection {
	p := Projection{"connector_tx_id": req.ConnectorTransactionID}
	amountProjection(p, req.AmountToCapture)
	return p
}

func ProjectCaptureResponse(resp domain.CaptureResponse, req domain.CaptureRequest) Projection {
	p := Projection{"connector_tx_id": stringFallback(resp.ConnectorTransactionID, req.ConnectorTransactionID)}
	amountProjection(p, responseAmount(resp.Amount, req.AmountToCapture))
	return p
}

// ProjectVoidRequest/-Response project FieldSet[FlowVoid].
func ProjectVoidRequest(req domain.VoidRequest) Projection {
	return Projection{"connector_tx_id": req.ConnectorTransactionID}
}

func ProjectVoidResponse(resp domain.VoidResponse, req domain.VoidRequest) Projection {
	return Projection{"connector_tx_id": stringFallback(resp.ConnectorTransactionID, req.ConnectorTransactionID)}
}

// ProjectSyncRequest/-Response project FieldSet[FlowSync].
func ProjectSyncRequest(req domain.SyncRequest) Projection {
	return Projection{"connector_tx_id": req.ConnectorTransactionID}
}

func ProjectSyncResponse(resp domain.SyncResponse, req domain.SyncRequest) Projection {
	return Projection{"connector_tx_id": stringFallback(resp.ConnectorTransactionID, req.ConnectorTransactionID)}
}

// ProjectRefundRequest/-Response project FieldSet[FlowRefund].
func ProjectRefundRequest(req domain.RefundRequest) Projection {
	p := Projection{"refund_id": req.RefundID, "connector_tx_id": req.ConnectorTransactionID}
	amountProjection(p, req.RefundAmount)
	return p
}

func ProjectRefundResponse(resp domain.RefundResponse, req domain.RefundRequest) Projection {
	p := Projection{
		"refund_id":       stringFallback(resp.RefundID, req.RefundID),
		"connector_tx_id": stringFallback(resp.ConnectorTransactionID, req.ConnectorTransactionID),
	}
	amountProjection(p, responseAmount(resp.Amount, req.RefundAmount))
	return p
}

// ProjectRefundSyncRequest/-Response project FieldSet[FlowRefundSync].
func ProjectRefundSyncRequest(req domain.RefundSyncRequest) Projection {
	return Projection{"refund_id": req.RefundID}
}

func ProjectRefundSyncResponse(resp domain.RefundSyncResponse, req domain.RefundSyncRequest) Projection {
	return Projection{"refund_id": stringFallback(resp.RefundID, req.RefundID)}
}

// ProjectCreateOrderRequest/-Response project FieldSet[FlowCreateOrder].
func ProjectCreateOrderRequest(req domain.CreateOrderRequest) Projection {
	p := Projection{}
	amountProjection(p, req.Amount)
	return p
}

func ProjectCreateOrderResponse(resp domain.CreateOrderResponse, req domain.CreateOrderRequest) Projection {
	p := Projection{}
	amountProjection(p, responseAmount(resp.Amount, req.Amount))
	return p
}

// ProjectDisputeRequest/-Response project FieldSet for AcceptDispute,
// SubmitEvidence and DefendDispute alike (all three share {dispute_id}).
func ProjectDisputeRequest(req domain.DisputeRequest) Projection {
	return Projection{"dispute_id": req.DisputeID}
}

func ProjectDisputeResponse(resp domain.DisputeResponse) Projection {
	return Projection{"dispute_id": resp.DisputeID}
}

// ProjectSetupMandateRequest/-Response project FieldSet[FlowSetupMandate].
func ProjectSetupMandateRequest(req domain.SetupMandateRequest) Projection {
	return Projection{"currency": string(req.Amount.Currency)}
}

func ProjectSetupMandateResponse(resp domain.SetupMandateResponse, req domain.SetupMandateRequest) Projection {
	currency := resp.Currency
	if currency == "" {
		currency = req.Amount.Currency
	}
	return Projection{"currency": string(currency)}
}

// ProjectRepeatPaymentRequest/-Response project FieldSet[FlowRepeatPayment].
func ProjectRepeatPaymentRequest(req domain.RepeatPaymentRequest) Projection {
	p := Projection{}
	amountProjection(p, req.Amount)
	return p
}

func ProjectRepeatPaymentResponse(resp domain.RepeatPaymentResponse, req domain.RepeatPaymentRequest) Projection {
	p := Projection{}
	amountProjection(p, responseAmount(resp.Amount, req.Amount))
	return p
}

// FieldSet names which canonical fields a flow's integrity check compares.
// Order is insertion order in the table below; Compare always returns
// divergences sorted by field name regardless.
var FieldSet = map[domain.Flow][]string{
	domain.FlowAuthorize:     {"amount", "currency", "capture_method"},
	domain.FlowCapture:       {"amount", "currency", "connector_tx_id"},
	domain.FlowVoid:          {"connector_tx_id"},
	domain.FlowSync:          {"connector_tx_id"},
	domain.FlowRefund:        {"amount", "currency", "refund_id", "connector_tx_id"},
	domain.FlowRefundSync:    {"refund_id"},
	domain.FlowCreateOrder:   {"amount", "currency"},
	domain.FlowAcceptDispute: {"dispute_id"},
	domain.FlowSubmitEvidence: {"dispute_id"},
	domain.FlowDefendDispute: {"dispute_id"},
	domain.FlowSetupMandate:  {"currency"},
	domain.FlowRepeatPayment: {"amount", "currency"},
}

// Projection is the field set a flow cares about as a comparable string
// map. Callers build `expected` from the original request/envelope and
// `actual` from the connector's parsed response, using the same key names
// FieldSet declares for that flow.
type Projection map[string]string

// Compare returns the field names (sorted) where expected and actual
// disagree, restricted to the fields FieldSet declares for flow. A field
// present in FieldSet but absent from one of the projections counts as a
// divergence.
func Compare(flow domain.Flow, expected, actual Projection) []string {
	fields := FieldSet[flow]
	var diverging []string
	for _, f := range fields {
		if expected[f] != actual[f] {
			diverging = append(diverging, f)
		}
	}
	sort.Strings(diverging)
	return diverging
}
