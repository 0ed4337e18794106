package domain

import "connectgate/internal/money"

// FlowData is the stable context shared by every flow kind: identifiers and
// config that do not change mid-flow. Per-flow request/response
// payloads carry whatever else that specific operation needs.
type FlowData struct {
	MerchantID string
	AttemptID string
	PaymentID string
	Status AttemptStatus
	Address PaymentAddress
	ConnectorName string
	ReturnURL string
	WebhookURL string
	ConfigOverride map[string]string // x-config-override 
}

// ErrorResponse is the canonical shape an integration's parse_error /
// parse_5xx operations populate.
type ErrorResponse struct {
	StatusCode int
	Code string
	Message string
	Reason string
	AttemptStatus AttemptStatus
	ConnectorTransactionID string
	NetworkAdviceCode string
	NetworkDeclineCode string
	NetworkErrorMessage string
	RawConnectorResponse string
}

// NotImplementedError is the canonical ErrorResponse for a flow declared
// but not implemented by a connector.
func NotImplementedError(what string) ErrorResponse {
	return ErrorResponse{
		StatusCode: 501,
		Code:       "IR_00",
		Message:    "operation not implemented: " + what,
	}
}

// Result is a minimal two-variant result type: exactly one of Response or
// Err is populated. The response slot of a RouterDataV2 starts as
// Err(ErrorResponse{}) and becomes Ok only once an integration's
// parse_success call succeeds.
type Result[T any] struct {
	ok bool
	response T
	err ErrorResponse
}

func Ok[T any](v T) Result[T]              { return Result[T]{ok: true, response: v} }
func Err[T any](e ErrorResponse) Result[T] { return Result[T]{ok: false, err: e} }

func (r Result[T]) IsOk() bool       { return r.ok }
func (r Result[T]) Unwrap() T        { return r.response }
func (r Result[T]) UnwrapErr() ErrorResponse { return r.err }

// RouterDataV2 is the envelope for one flow execution: flow tag,
// flow-agnostic common data, flow-specific request, auth, and the response
// slot. The router.Dispatcher does not build one; it passes the request,
// common data, auth and parsed response as separate values.
type RouterDataV2[Req any, Resp any] struct {
	Flow Flow
	Common FlowData
	Request Req
	Auth ConnectorAuth
	Amount money.Amount

	Response Result[Resp]
}

// NewRouterDataV2 constructs an envelope with the response slot in its
// initial Err state, per spec §3's lifecycle invariant.
func NewRouterDataV2[Req any, Resp any](flow Flow, common FlowData, req Req, auth ConnectorAuth, amount money.Amount) *RouterDataV2[Req, Resp] {
	return &RouterDataV2[Req, Resp]{
		Flow:     flow,
		Common:   common,
		Request:  req,
		Auth:     auth,
		Amount:   amount,
		Response: Err[Resp](ErrorResponse{}),
	}
}
