// Package registry holds the static per-connector capability table the
// Dispatcher consults before routing a call: which flows a
// connector implements, which payment methods and webhook events it
// accepts, its currency unit, and its base URL resolver. This mirrors the
// teacher's provider-registration pattern (internal/provider/epay) but
// generalized across many connectors instead of one hard-wired client.
package registry

import (
	"fmt"
	"sort"

	"connectgate/internal/domain"
	"connectgate/internal/money"
)

// CurrencyUnit tells the Dispatcher which Unit a connector's wire format
// expects amounts in.
type CurrencyUnit = money.Unit

// Entry is one connector's static capability declaration.
type Entry struct {
	ID string
	CurrencyUnit CurrencyUnit
	SupportedPaymentMethods map[domain.PaymentMethod]bool
	SupportedWebhookFlows map[domain.EventType]bool
	SupportedFlows map[domain.Flow]bool
	IsWebhookVerificationMandatory bool

	// SupportedCaptureMethods restricts which CaptureMethod values
	// ValidateCaptureMethod accepts for a given payment method.
	// A payment method absent from this map accepts only CaptureAutomatic,
	// the "no supported-methods map present" default spec §4.3 describes.
	SupportedCaptureMethods map[domain.PaymentMethod][]domain.CaptureMethod

	// BaseURL resolves a connector's integration host from config, keyed
	// by environment (e.g. "sandbox", "production").
	BaseURL func(env string) (string, error)
}

// Registry is the set of known connectors, keyed by connector id.
type Registry struct {
	entries map[string]Entry
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{entries: map[string]Entry{}}
}

// Register adds or replaces a connector entry.
func (r *Registry) Register(e Entry) {
	r.entries[e.ID] = e
}

// Lookup returns the entry for id and true, or false when id is not
// registered; callers turn a miss into connectorerrors.KindInvalidConnectorName.
func (r *Registry) Lookup(id string) (Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// IDs returns every registered connector id, sorted for deterministic
// iteration (e.g. health endpoints, capability dumps).
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SupportsFlow reports whether the entry declares support for flow.
func (e Entry) SupportsFlow(flow domain.Flow) bool {
	return e.SupportedFlows[flow]
}

// SupportsPaymentMethod reports whether the entry accepts a payment method.
func (e Entry) SupportsPaymentMethod(pm domain.PaymentMethod) bool {
	return e.SupportedPaymentMethods[pm]
}

// SupportsWebhookEvent reports whether the entry can classify a webhook
// event type.
func (e Entry) SupportsWebhookEvent(et domain.EventType) bool {
	return e.SupportedWebhookFlows[et]
}

// SupportsCaptureMethod reports whether cm is an accepted capture method
// for pm (property 2). A pm with no SupportedCaptureMethods
// entry accepts only CaptureAutomatic — the capability gate's default when
// no supported-methods map is present for that method.
func (e Entry) SupportsCaptureMethod(pm domain.PaymentMethod, cm domain.CaptureMethod) bool {
	methods, ok := e.SupportedCaptureMethods[pm]
	if !ok {
		return cm == "" || cm == domain.CaptureAutomatic
	}
	for _, m := range methods {
		if m == cm {
			return true
		}
	}
	return false
}

// ValidateCaptureMethod runs the capture-method capability gate (spec
// §4.3, property 2): a (payment_method, capture_method) pair the connector
// does not declare support for fails closed with CaptureMethodNotSupported
// semantics, before any network call is made.
func ValidateCaptureMethod(r *Registry, connectorID string, pm domain.PaymentMethod, cm domain.CaptureMethod) error {
	e, ok := r.Lookup(connectorID)
	if !ok {
		return fmt.Errorf("unknown connector %q", connectorID)
	}
	if !e.SupportsCaptureMethod(pm, cm) {
		return fmt.Errorf("connector %q does not support capture method %q for payment method %q", connectorID, cm, pm)
	}
	return nil
}

// ValidateCapability runs the three capability gates spec §4.3 requires
// before a flow is dispatched: the connector must exist, must support the
// requested flow, and (if a payment method is given) must support that
// payment method. Returns nil when all gates pass.
func ValidateCapability(r *Registry, connectorID string, flow domain.Flow, pm domain.PaymentMethod) error {
	e, ok := r.Lookup(connectorID)
	if !ok {
		return fmt.Errorf("unknown connector %q", connectorID)
	}
	if !e.SupportsFlow(flow) {
		return fmt.Errorf("connector %q does not support flow %q", connectorID, flow)
	}
	if pm != "" && !e.SupportsPaymentMethod(pm) {
		return fmt.Errorf("connector %q does not support payment method %q", connectorID, pm)
	}
	return nil
}
