// Package adapters hosts the inbound transport wiring that fronts the
// Connector Integration Engine: gRPC listener bootstrap and (alongside it,
// in internal/adapters/httpapi) the chi-based webhook ingress and metrics
// surface.
//
// Subpackages:
//   - grpc: gRPC server bootstrap — listener, graceful stop, otelgrpc
//     stats handler, health service
//   - httpapi: chi router for POST /webhooks/{connector}, GET /healthz,
//     and the Prometheus /metrics mount
//
// Design principles:
//   - Adapters call internal/api.ConnectorService directly; there is no
//     generated RPC stub layer to satisfy
//   - Transport-specific parsing stops at the api package boundary
package adapters
