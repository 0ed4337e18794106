// Package webhook composes a connector's WebhookIntegration with its
// registry entry to implement the full inbound webhook pipeline (spec
// §4.7): verify the source, classify the event, and project it into the
// canonical per-resource detail the RPC surface returns.
package webhook

import (
	"connectgate/internal/connector"
	"connectgate/internal/connectorerrors"
	"connectgate/internal/domain"
)

// Processor runs one connector's webhook pipeline.
type Processor struct {
	ConnectorID string
	Integration connector.WebhookIntegration
	IsWebhookVerificationMandatory bool
}

// Process verifies, classifies, and projects an inbound webhook request.
// When verification is mandatory and no secret is configured, this returns
// WebhookVerificationSecretNotFound rather than silently treating the call
// as verified — the Open Question spec §9 raises about the source system's
// documented-but-unenforced anti-pattern is resolved here in favor of
// always enforcing the mandatory flag (DESIGN.md).
func (p *Processor) Process(req domain.RequestDetails, secrets domain.WebhookSecrets) (domain.WebhookResponse, error) {
	if p.Integration == nil {
		return domain.WebhookResponse{}, connectorerrors.New(connectorerrors.KindWebhooksNotImplemented, "connector "+p.ConnectorID+" does not implement webhooks")
	}

	if p.IsWebhookVerificationMandatory && secrets.Secret == "" {
		return domain.WebhookResponse{}, connectorerrors.New(connectorerrors.KindWebhookVerificationSecretNotFound, "webhook verification is mandatory for "+p.ConnectorID+" but no secret is configured")
	}

	verified, err := p.Integration.VerifySource(req, secrets)
	if err != nil {
		return domain.WebhookResponse{}, connectorerrors.Wrap(connectorerrors.KindWebhookSourceVerificationFailed, "source verification failed", err)
	}
	if p.IsWebhookVerificationMandatory && !verified {
		return domain.WebhookResponse{}, connectorerrors.New(connectorerrors.KindWebhookSourceVerificationFailed, "webhook source verification failed for "+p.ConnectorID)
	}

	eventType, err := p.Integration.EventType(req)
	if err != nil {
		return domain.WebhookResponse{}, connectorerrors.Wrap(connectorerrors.KindWebhookEventTypeNotFound, "could not classify webhook event type", err)
	}

	resp := domain.WebhookResponse{
		EventType:      eventType,
		SourceVerified: verified,
	}

	switch eventType {
	case domain.EventPaymentSuccess, domain.EventPaymentFailure, domain.EventPaymentAuthentication:
		details, err := p.Integration.ProcessPaymentWebhook(req)
		if err != nil {
			return domain.WebhookResponse{}, connectorerrors.Wrap(connectorerrors.KindWebhookResourceObjectNotFound, "could not extract payment webhook details", err)
		}
		if details.ConnectorTransactionID == "" {
			return domain.WebhookResponse{}, connectorerrors.New(connectorerrors.KindWebhookReferenceIDNotFound, "payment webhook missing connector transaction id")
		}
		resp.Payment = &details
		resp.ResponseRefID = details.ConnectorTransactionID

	case domain.EventRefundSuccess, domain.EventRefundFailure:
		details, err := p.Integration.ProcessRefundWebhook(req)
		if err != nil {
			return domain.WebhookResponse{}, connectorerrors.Wrap(connectorerrors.KindWebhookResourceObjectNotFound, "could not extract refund webhook details", err)
		}
		if details.RefundID == "" {
			return domain.WebhookResponse{}, connectorerrors.New(connectorerrors.KindWebhookReferenceIDNotFound, "refund webhook missing refund id")
		}
		resp.Refund = &details
		resp.ResponseRefID = details.RefundID

	case domain.EventDisputeOpened, domain.EventDisputeChallenged, domain.EventDisputeWon, domain.EventDisputeLost:
		details, err := p.Integration.ProcessDisputeWebhook(req)
		if err != nil {
			return domain.WebhookResponse{}, connectorerrors.Wrap(connectorerrors.KindWebhookResourceObjectNotFound, "could not extract dispute webhook details", err)
		}
		if details.DisputeID == "" {
			return domain.WebhookResponse{}, connectorerrors.New(connectorerrors.KindWebhookReferenceIDNotFound, "dispute webhook missing dispute id")
		}
		resp.Dispute = &details
		resp.ResponseRefID = details.DisputeID

	default:
		return domain.WebhookResponse{}, connectorerrors.New(connectorerrors.KindWebhookEventTypeNotFound, "unrecognized webhook event type")
	}

	return resp, nil
}
