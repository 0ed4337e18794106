package log

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc/credentials/insecure"
)

// TracerConfig is the subset of TracingConfig the bootstrap needs: a
// service name for the resource attributes and an optional collector
// endpoint. An empty Endpoint disables export and NewTracerProvider
// returns a no-op shutdown func, so callers never need to branch on
// whether tracing is configured.
type TracerConfig struct {
	ServiceName string
	Endpoint    string
}

// NewTracerProvider dials the OTLP/gRPC collector at cfg.Endpoint and
// installs the resulting TracerProvider as the global one via
// otel.SetTracerProvider, the same seam internal/httpexec and every
// other otel.Tracer(...) caller in this module reads from. The returned
// func flushes and shuts the provider down; callers defer it.
func NewTracerProvider(ctx context.Context, cfg TracerConfig) (func(context.Context) error, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("log - NewTracerProvider - resource.New: %w", err)
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("log - NewTracerProvider - otlptracegrpc.New: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
	)

	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
