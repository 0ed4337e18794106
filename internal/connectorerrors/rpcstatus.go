package connectorerrors

import "google.golang.org/grpc/codes"

// RPCStatus maps a Kind onto the external RPC status surfaced to API callers
// (spec §7's propagation policy), the gRPC analogue of the teacher's
// *Error.HTTPStatus. Validation and encoding failures become InvalidArgument,
// missing identifiers and unsupported capabilities become FailedPrecondition
// or Unimplemented, connector-side failures become Unknown rather than
// leaking a borrowed HTTP status, and network categories map onto their
// nearest gRPC equivalent.
func (e *Error) RPCStatus() codes.Code {
	return RPCStatus(e.Kind)
}

// RPCStatus returns the gRPC status code a Kind propagates as.
func RPCStatus(kind Kind) codes.Code {
	switch kind {
	case KindInvalidConnectorName,
		KindRequestEncodingFailed,
		KindMissingRequiredField,
		KindInvalidDataFormat,
		KindInvalidDateFormat,
		KindMismatchedPaymentData,
		KindCurrencyNotSupported,
		KindAmountConversionFailed,
		KindWebhookBodyDecodingFailed,
		KindWebhookSignatureNotFound:
		return codes.InvalidArgument

	case KindMissingConnectorTransactionID,
		KindWebhookReferenceIDNotFound,
		KindWebhookVerificationSecretNotFound,
		KindWebhookVerificationSecretInvalid:
		return codes.FailedPrecondition

	case KindFlowNotSupported,
		KindCaptureMethodNotSupported,
		KindNotSupported,
		KindNotImplemented,
		KindWebhooksNotImplemented:
		return codes.Unimplemented

	case KindWebhookResourceObjectNotFound:
		return codes.NotFound

	case KindFailedToObtainAuthType,
		KindWebhookSourceVerificationFailed:
		return codes.Unauthenticated

	case KindRequestTimeoutReceived,
		KindGatewayTimeoutReceived:
		return codes.DeadlineExceeded

	case KindRequestNotSent,
		KindConnectionClosedIncompleteMessage,
		KindServiceUnavailableReceived:
		return codes.Unavailable

	case KindFailedToObtainIntegrationURL,
		KindInternalServerErrorReceived,
		KindBadGatewayReceived,
		KindUnexpectedServerResponse,
		KindResponseDeserializationFailed,
		KindResponseHandlingFailed,
		KindUnexpectedResponseError,
		KindProcessingStepFailed,
		KindIntegrityCheckError:
		return codes.Internal

	case KindFailedAtConnector,
		KindWebhookEventTypeNotFound:
		return codes.Unknown

	default:
		return codes.Unknown
	}
}
