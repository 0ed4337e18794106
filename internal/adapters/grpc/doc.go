// Package grpc hosts the gateway's gRPC listener: a grpc.Server with an
// otelgrpc stats handler and the standard gRPC health service, started and
// stopped by internal/app. The package defines no protoc-generated
// services, no authentication interceptors and no TLS setup; other
// services are attached through Register before the server starts.
package grpc
