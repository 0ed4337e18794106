package domain

import "connectgate/internal/money"

// AuthorizeRequest is the flow-specific payload for the Authorize flow.
type AuthorizeRequest struct {
	Amount money.Amount
	PaymentMethodData PaymentMethodData
	PaymentMethodType PaymentMethod
	CaptureMethod CaptureMethod
	AuthenticationType AuthenticationType
	ReferenceID string
	Browser            *BrowserInfo
	Email money.Secret[string]
	ReturnURL string
}

type AuthorizeResponse struct {
	ResourceID string
	ConnectorTransactionID string
	Status AttemptStatus
	RedirectURL string

	// Amount, Currency and CaptureMethod echo what the connector's response
	// actually reflects (not what was requested), so the integrity checker
	//  can detect a processor that silently changed the amount,
	// currency, or capture posture it was asked to authorize.
	Amount money.Amount
	CaptureMethod CaptureMethod
}

// SyncRequest is the PSync flow payload.
type SyncRequest struct {
	ConnectorTransactionID string
	Amount money.Amount
	CaptureMethod CaptureMethod
}

type SyncResponse struct {
	ConnectorTransactionID string
	Status AttemptStatus
}

// CaptureRequest is the Capture flow payload.
type CaptureRequest struct {
	ConnectorTransactionID string
	AmountToCapture money.Amount
}

type CaptureResponse struct {
	ConnectorTransactionID string
	Status AttemptStatus
	Amount money.Amount
}

// VoidRequest is the Void flow payload.
type VoidRequest struct {
	ConnectorTransactionID string
}

type VoidResponse struct {
	ConnectorTransactionID string
	Status AttemptStatus
}

// RefundRequest is the Refund flow payload.
type RefundRequest struct {
	ConnectorTransactionID string
	RefundID string
	RefundAmount money.Amount
	Reason string
}

type RefundResponse struct {
	ConnectorTransactionID string
	RefundID string
	ConnectorRefundID string
	Status AttemptStatus
	Amount money.Amount
}

// RefundSyncRequest is the RSync flow payload.
type RefundSyncRequest struct {
	RefundID string
	ConnectorRefundID string
}

type RefundSyncResponse struct {
	RefundID string
	Status AttemptStatus
}

// CreateOrderRequest is the CreateOrder flow payload, used by connectors
// that require a separate order-creation call before authorization.
type CreateOrderRequest struct {
	Amount money.Amount
}

type CreateOrderResponse struct {
	OrderID string
	Amount money.Amount
}

// DisputeRequest is shared by AcceptDispute, SubmitEvidence, DefendDispute.
type DisputeRequest struct {
	DisputeID string
	Evidence map[string]string
}

type DisputeResponse struct {
	DisputeID string
	Status AttemptStatus
}

// SetupMandateRequest establishes a reusable mandate for future
// merchant-initiated transactions.
type SetupMandateRequest struct {
	Amount money.Amount
	PaymentMethodData PaymentMethodData
	Email money.Secret[string]
	ReturnURL string
}

type SetupMandateResponse struct {
	MandateID string
	Status AttemptStatus
	Currency money.Currency
}

// RepeatPaymentRequest charges a previously established mandate.
type RepeatPaymentRequest struct {
	Amount money.Amount
	MandateReference MandateReference
	ReferenceID string
}

type RepeatPaymentResponse struct {
	ResourceID string
	ConnectorTransactionID string
	Status AttemptStatus
	Amount money.Amount
}
