// Package pkg contains shared utility packages reused across the
// application, independent of connector-specific business logic.
//
// Subpackages:
//   - logutil: context-propagated structured logging (request id, trace
//     id, operation/span scoping) built on zap
//
// Design principles:
//   - Self-contained and reusable
//   - No dependencies on connector-specific code
package pkg
