// Package sink publishes CallEvent records describing each connector call
// the engine makes, for out-of-band observability consumers.
// This is deliberately not the system of record for payment state — see
// SPEC_FULL.md's Non-goals — it is a fire-and-forget side channel.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"connectgate/internal/domain"
)

// CallEvent records one connector call for observability consumers: which
// connector and flow ran, how long it took, and what it resolved to.
type CallEvent struct {
	ID string            `json:"id"`
	ConnectorName string            `json:"connector_name"`
	Flow domain.Flow       `json:"flow"`
	HTTPStatus int               `json:"http_status,omitempty"`
	DurationMS int64             `json:"duration_ms"`
	ErrorKind string            `json:"error_kind,omitempty"`
	// RequestRefID is the x-request-id of the inbound call that triggered
	// this outbound exchange, carried through so a call event can be
	// correlated back to the request that caused it.
	RequestRefID string            `json:"request_ref_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Sink publishes a CallEvent. Implementations must not block the calling
// request past ctx's deadline.
type Sink interface {
	Publish(ctx context.Context, event CallEvent) error
}

// NoopSink discards every event. Useful as a default when no broker is
// configured, mirroring the teacher's preference for an explicit no-op over
// a nil-checked publisher at every call site.
type NoopSink struct{}

func (NoopSink) Publish(context.Context, CallEvent) error { return nil }

// NATSPublisher is a Sink backed by a plain NATS core subject, mirroring
// pkg/broker/nats/jetstream.Publisher's event envelope but over core NATS
// rather than JetStream, since replay/durability is not a requirement for
// this observability side channel.
type NATSPublisher struct {
	conn natsConn
	subject string
	logger  *zap.Logger
}

// natsConn is the subset of *nats.Conn this package depends on, kept
// narrow so tests can substitute a fake.
type natsConn interface {
	Publish(subject string, data []byte) error
}

// NewNATSPublisher builds a Sink that publishes CallEvents as JSON to
// subject over conn.
func NewNATSPublisher(conn natsConn, subject string, logger *zap.Logger) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject, logger: logger}
}

func (p *NATSPublisher) Publish(_ context.Context, event CallEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal call event",
			zap.Error(err),
			zap.String("connector", event.ConnectorName),
		)
		return fmt.Errorf("sink - Publish - json.Marshal: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		p.logger.Error("failed to publish call event",
			zap.Error(err),
			zap.String("subject", p.subject),
		)
		return fmt.Errorf("sink - Publish - conn.Publish: %w", err)
	}

	p.logger.Debug("call event published",
		zap.String("subject", p.subject),
		zap.String("connector", event.ConnectorName),
		zap.String("flow", string(event.Flow)),
	)
	return nil
}
