package webhook

import (
	"connectgate/internal/connectorerrors"
	"connectgate/internal/domain"
)

// entry pairs one connector's Processor with the webhook secret(s)
// configured for it.
type entry struct {
	processor *Processor
	secrets domain.WebhookSecrets
}

// Registry holds one Processor plus its configured secrets per connector,
// so the api boundary can route an inbound webhook by connector id alone
// without threading secret configuration through every caller.
type Registry struct {
	entries map[string]entry
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]entry{}}
}

// Register adds a connector's Processor and webhook secret to the
// Registry.
func (r *Registry) Register(connectorID string, p *Processor, secrets domain.WebhookSecrets) {
	r.entries[connectorID] = entry{processor: p, secrets: secrets}
}

// Lookup returns the Processor registered for connectorID.
func (r *Registry) Lookup(connectorID string) (*Processor, bool) {
	e, ok := r.entries[connectorID]
	if !ok {
		return nil, false
	}
	return e.processor, true
}

// Process runs connectorID's webhook pipeline end to end, resolving its
// configured secrets internally.
func (r *Registry) Process(connectorID string, req domain.RequestDetails) (domain.WebhookResponse, error) {
	e, ok := r.entries[connectorID]
	if !ok {
		return domain.WebhookResponse{}, connectorerrors.New(connectorerrors.KindInvalidConnectorName, "unknown connector: "+connectorID)
	}
	return e.processor.Process(req, e.secrets)
}
