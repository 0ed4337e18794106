// Package domain is the connector-agnostic canonical data model: flow
// request/response shapes, payment-method data, addresses, and the
// RouterDataV2 envelope type for a single flow execution.
//
// Nothing here knows about any particular connector's wire format — that
// translation lives in package connector and the per-connector packages
// under internal/connector/. Fields absent from this model cannot be forwarded to
// a connector.
package domain
