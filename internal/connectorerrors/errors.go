// Package connectorerrors is the error taxonomy shared by every layer of
// the Connector Integration Engine. Errors keep their Kind until
// the RPC boundary so the stable Kind -> RPC status mapping in RPCStatus
// can be applied there, rather than converting to strings prematurely
//.
package connectorerrors

import (
	"errors"
	"fmt"
)

// Kind is one taxonomy entry from spec §7.
type Kind string

const (
	// Configuration / dispatch
	KindInvalidConnectorName Kind = "INVALID_CONNECTOR_NAME"
	KindFailedToObtainAuthType Kind = "FAILED_TO_OBTAIN_AUTH_TYPE"
	KindFailedToObtainIntegrationURL Kind = "FAILED_TO_OBTAIN_INTEGRATION_URL"
	KindFlowNotSupported Kind = "FLOW_NOT_SUPPORTED"
	KindCaptureMethodNotSupported Kind = "CAPTURE_METHOD_NOT_SUPPORTED"
	KindNotSupported Kind = "NOT_SUPPORTED"
	KindNotImplemented Kind = "NOT_IMPLEMENTED"

	// Request construction
	KindRequestEncodingFailed Kind = "REQUEST_ENCODING_FAILED"
	KindMissingRequiredField Kind = "MISSING_REQUIRED_FIELD"
	KindInvalidDataFormat Kind = "INVALID_DATA_FORMAT"
	KindInvalidDateFormat Kind = "INVALID_DATE_FORMAT"
	KindMismatchedPaymentData Kind = "MISMATCHED_PAYMENT_DATA"
	KindCurrencyNotSupported Kind = "CURRENCY_NOT_SUPPORTED"
	KindAmountConversionFailed Kind = "AMOUNT_CONVERSION_FAILED"
	KindMissingConnectorTransactionID Kind = "MISSING_CONNECTOR_TRANSACTION_ID"

	// Network
	KindRequestNotSent Kind = "REQUEST_NOT_SENT"
	KindRequestTimeoutReceived Kind = "REQUEST_TIMEOUT_RECEIVED"
	KindConnectionClosedIncompleteMessage Kind = "CONNECTION_CLOSED_INCOMPLETE_MESSAGE"
	KindInternalServerErrorReceived Kind = "INTERNAL_SERVER_ERROR_RECEIVED"
	KindBadGatewayReceived Kind = "BAD_GATEWAY_RECEIVED"
	KindServiceUnavailableReceived Kind = "SERVICE_UNAVAILABLE_RECEIVED"
	KindGatewayTimeoutReceived Kind = "GATEWAY_TIMEOUT_RECEIVED"
	KindUnexpectedServerResponse Kind = "UNEXPECTED_SERVER_RESPONSE"

	// Response handling
	KindResponseDeserializationFailed Kind = "RESPONSE_DESERIALIZATION_FAILED"
	KindResponseHandlingFailed Kind = "RESPONSE_HANDLING_FAILED"
	KindUnexpectedResponseError Kind = "UNEXPECTED_RESPONSE_ERROR"
	KindProcessingStepFailed Kind = "PROCESSING_STEP_FAILED"
	KindFailedAtConnector Kind = "FAILED_AT_CONNECTOR"

	// Webhook
	KindWebhookBodyDecodingFailed Kind = "WEBHOOK_BODY_DECODING_FAILED"
	KindWebhookSourceVerificationFailed Kind = "WEBHOOK_SOURCE_VERIFICATION_FAILED"
	KindWebhookSignatureNotFound Kind = "WEBHOOK_SIGNATURE_NOT_FOUND"
	KindWebhookEventTypeNotFound Kind = "WEBHOOK_EVENT_TYPE_NOT_FOUND"
	KindWebhookVerificationSecretNotFound Kind = "WEBHOOK_VERIFICATION_SECRET_NOT_FOUND"
	KindWebhookVerificationSecretInvalid Kind = "WEBHOOK_VERIFICATION_SECRET_INVALID"
	KindWebhookReferenceIDNotFound Kind = "WEBHOOK_REFERENCE_ID_NOT_FOUND"
	KindWebhookResourceObjectNotFound Kind = "WEBHOOK_RESOURCE_OBJECT_NOT_FOUND"
	KindWebhooksNotImplemented Kind = "WEBHOOKS_NOT_IMPLEMENTED"

	// Integrity
	KindIntegrityCheckError Kind = "INTEGRITY_CHECK_ERROR"
)

// Error is the concrete error type carried through the engine. It never
// embeds raw secret material — callers populate Message/Details from
// already-masked views (property 3).
type Error struct {
	Kind Kind
	Message string
	Details map[string]any
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an Error of the given kind wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WithDetails attaches structured context and returns the same error for
// chaining, mirroring the teacher's *Error.WithDetails builder.
func (e *Error) WithDetails(key string, value any) *Error {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// MissingField builds a KindMissingRequiredField error.
func MissingField(field string) *Error {
	return New(KindMissingRequiredField, "missing required field: "+field).WithDetails("field", field)
}

// NotSupported builds a KindNotSupported error for a capability gate
// rejection (property 2).
func NotSupported(connector, message string) *Error {
	return New(KindNotSupported, message).WithDetails("connector", connector)
}

// Is reports whether err's chain contains an *Error matching target,
// delegating to errors.Is.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
