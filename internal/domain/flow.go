package domain

// Flow names a payment operation. It is the runtime stand-in for the
// phantom flow-tag generic parameter spec §9 describes — Go has no
// zero-size compile-time tag, so the tag travels as a string. Each
// router.Dispatcher flow method passes its own fixed Flow constant next to
// the matching integration interface; no separate runtime check compares
// the two.
type Flow string

const (
	FlowAuthorize Flow = "authorize"
	FlowSync Flow = "psync"
	FlowCapture Flow = "capture"
	FlowVoid Flow = "void"
	FlowRefund Flow = "refund"
	FlowRefundSync Flow = "rsync"
	FlowCreateOrder Flow = "create_order"
	FlowAcceptDispute Flow = "accept_dispute"
	FlowSubmitEvidence Flow = "submit_evidence"
	FlowDefendDispute Flow = "defend_dispute"
	FlowSetupMandate Flow = "setup_mandate"
	FlowRepeatPayment Flow = "repeat_payment"
)

// CaptureMethod is the capture strategy requested for an authorize call.
type CaptureMethod string

const (
	CaptureAutomatic CaptureMethod = "automatic"
	CaptureManual CaptureMethod = "manual"
)

// AttemptStatus is the canonical, connector-agnostic state of a payment
// attempt. Every connector integration owns a total function
// from its own status vocabulary to this set.
type AttemptStatus string

const (
	StatusStarted AttemptStatus = "started"
	StatusAuthenticationPending AttemptStatus = "authentication_pending"
	StatusAuthenticationSuccessful AttemptStatus = "authentication_successful"
	StatusAuthenticationFailed AttemptStatus = "authentication_failed"
	StatusAuthorized AttemptStatus = "authorized"
	StatusAuthorizationFailed AttemptStatus = "authorization_failed"
	StatusAuthorizing AttemptStatus = "authorizing"
	StatusCharged AttemptStatus = "charged"
	StatusPartialCharged AttemptStatus = "partial_charged"
	StatusVoided AttemptStatus = "voided"
	StatusVoidInitiated AttemptStatus = "void_initiated"
	StatusVoidFailed AttemptStatus = "void_failed"
	StatusCaptureInitiated AttemptStatus = "capture_initiated"
	StatusCaptureFailed AttemptStatus = "capture_failed"
	StatusCodInitiated AttemptStatus = "cod_initiated"
	StatusAutoRefunded AttemptStatus = "auto_refunded"
	StatusPending AttemptStatus = "pending"
	StatusPaymentMethodAwaited AttemptStatus = "payment_method_awaited"
	StatusConfirmationAwaited AttemptStatus = "confirmation_awaited"
	StatusDeviceDataCollectionPending AttemptStatus = "device_data_collection_pending"
	StatusFailure AttemptStatus = "failure"
	StatusRouterDeclined AttemptStatus = "router_declined"
	StatusUnresolved AttemptStatus = "unresolved"
	StatusIntegrityFailure AttemptStatus = "integrity_failure"
	StatusUnknown AttemptStatus = "unknown"
)

// EventType classifies a webhook payload.
type EventType string

const (
	EventPaymentSuccess EventType = "payment_success"
	EventPaymentFailure EventType = "payment_failure"
	EventPaymentAuthentication EventType = "payment_authentication"
	EventRefundSuccess EventType = "refund_success"
	EventRefundFailure EventType = "refund_failure"
	EventDisputeOpened EventType = "dispute_opened"
	EventDisputeChallenged EventType = "dispute_challenged"
	EventDisputeWon EventType = "dispute_won"
	EventDisputeLost EventType = "dispute_lost"
	EventUnknown EventType = "unknown"
)
