// Package httpexec is the HTTP Exchange Executor: it takes a
// built request (headers, URL, Body) from a connector operation, sends it
// with a bounded timeout, classifies the outcome, and hands the raw
// response bytes back to the operation's parse_success/parse_error/
// parse_5xx methods.
package httpexec

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"connectgate/internal/connector"
	"connectgate/internal/connectorerrors"
	"connectgate/internal/domain"
	"connectgate/internal/pkg/logutil"
	"connectgate/internal/sink"
)

// DefaultTimeout is the per-call timeout enforced when a flow does not
// override it.
const DefaultTimeout = 30 * time.Second

// OutcomeClass names which of a connector operation's parse_* methods
// should handle a response, based on HTTP status.
type OutcomeClass int

const (
	OutcomeSuccess OutcomeClass = iota
	OutcomeClientError
	OutcomeServerError
)

// Classify buckets an HTTP status code into the outcome class the
// Dispatcher routes to: 2xx is success, 4xx is a connector
// business error, 5xx is a connector/infra fault.
func Classify(statusCode int) OutcomeClass {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return OutcomeSuccess
	case statusCode >= 500:
		return OutcomeServerError
	default:
		return OutcomeClientError
	}
}

// ConnectorOverride is the transport-level config.ConnectorEntry carries
// per connector: an optional forward proxy and an optional timeout that
// replaces the Executor's default for calls to that connector only.
type ConnectorOverride struct {
	Proxy   string
	Timeout time.Duration
}

// Executor sends built requests over HTTP using go-resty, preprocessing
// XML bodies into canonical JSON before handing them to an operation's
// parse methods (§4.6).
type Executor struct {
	client  *resty.Client
	sink sink.Sink
	tracer trace.Tracer
	timeout time.Duration

	overrides map[string]ConnectorOverride
	mu        sync.Mutex
	perConnectorClients map[string]*resty.Client
}

// Option configures an Executor.
type Option func(*Executor)

// WithTimeout overrides the default per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) { e.timeout = d }
}

// WithSink attaches a CallEvent sink; defaults to sink.NoopSink.
func WithSink(s sink.Sink) Option {
	return func(e *Executor) { e.sink = s }
}

// WithConnectorOverrides attaches the per-connector proxy/timeout table
// read from config.ConnectorEntry. A connector absent from the map, or
// present with a zero ConnectorOverride, uses the Executor's defaults.
func WithConnectorOverrides(overrides map[string]ConnectorOverride) Option {
	return func(e *Executor) { e.overrides = overrides }
}

// NewExecutor builds an Executor with a resty client tuned for connector
// calls: bounded retries are intentionally absent here, since retrying a
// payment authorization without idempotency guarantees from the connector
// would risk a duplicate charge (reliability posture).
func NewExecutor(opts...Option) *Executor {
	e := &Executor{
		client:  resty.New(),
		sink:    sink.NoopSink{},
		tracer:  otel.Tracer("connectgate/httpexec"),
		timeout: DefaultTimeout,
		perConnectorClients: make(map[string]*resty.Client),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.client.SetTimeout(e.timeout)
	return e
}

// clientFor returns the resty.Client to use for connectorName: the shared
// default client, or a dedicated one built once and cached when the
// connector has a configured proxy or timeout override.
func (e *Executor) clientFor(connectorName string) *resty.Client {
	override, ok := e.overrides[connectorName]
	if !ok || (override.Proxy == "" && override.Timeout <= 0) {
		return e.client
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if c, ok := e.perConnectorClients[connectorName]; ok {
		return c
	}

	c := resty.New()
	timeout := e.timeout
	if override.Timeout > 0 {
		timeout = override.Timeout
	}
	c.SetTimeout(timeout)

	if override.Proxy != "" {
		proxyURL, err := url.Parse(override.Proxy)
		if err == nil {
			c.SetTransport(&http.Transport{Proxy: http.ProxyURL(proxyURL)})
		}
	}

	e.perConnectorClients[connectorName] = c
	return c
}

// Outbound is a fully-built request ready to send.
type Outbound struct {
	Method string
	URL string
	Headers []connector.Header
	Body connector.Body
}

// Raw is the response the Executor hands back to a connector operation's
// parse methods: class tells the Dispatcher which one to call.
type Raw struct {
	StatusCode int
	Body       []byte
	Class OutcomeClass
}

// Exchange sends req and returns the classified raw response. XML bodies
// are pre-flattened to JSON before being returned, so every connector
// adapter's parse methods — JSON or XML-backed alike — read a flat JSON
// document.
func (e *Executor) Exchange(ctx context.Context, connectorName string, flow domain.Flow, req Outbound) (Raw, error) {
	ctx, span := e.tracer.Start(ctx, "connector.exchange",
		trace.WithAttributes(
			attribute.String("connector.name", connectorName),
			attribute.String("connector.flow", string(flow)),
			attribute.String("http.method", req.Method),
		),
	)
	defer span.End()

	start := time.Now()

	var bodyBytes []byte
	contentType := ""
	if req.Body != nil {
		encoded, err := req.Body.Encode()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "encode failed")
			return Raw{}, connectorerrors.Wrap(connectorerrors.KindRequestEncodingFailed, "failed to encode request body", err)
		}
		bodyBytes = encoded
		contentType = req.Body.ContentType()
	}

	requestRefID := logutil.GetRequestID(ctx)

	rreq := e.clientFor(connectorName).R().SetContext(ctx)
	if contentType != "" {
		rreq.SetHeader("Content-Type", contentType)
	}
	for _, h := range req.Headers {
		rreq.SetHeader(h.Name, h.Value.Value)
	}
	if requestRefID != "" {
		rreq.SetHeader("x-request-id", requestRefID)
	}
	if bodyBytes != nil {
		rreq.SetBody(bodyBytes)
	}

	resp, err := rreq.Execute(req.Method, req.URL)
	duration := time.Since(start)

	event := sink.CallEvent{
		ConnectorName: connectorName,
		Flow:          flow,
		DurationMS:    duration.Milliseconds(),
		RequestRefID:  requestRefID,
		Timestamp:     start.UTC(),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request not sent")
		event.ErrorKind = string(connectorerrors.KindRequestNotSent)
		_ = e.sink.Publish(ctx, event)
		return Raw{}, classifyTransportError(err)
	}

	statusCode := resp.StatusCode()
	class := Classify(statusCode)
	event.HTTPStatus = statusCode

	rawBody := resp.Body()
	if looksLikeXML(rawBody) {
		flattened, ferr := PreprocessXMLResponse(rawBody)
		if ferr != nil {
			span.RecordError(ferr)
			span.SetStatus(codes.Error, "xml preprocessing failed")
			event.ErrorKind = string(connectorerrors.KindResponseDeserializationFailed)
			_ = e.sink.Publish(ctx, event)
			return Raw{}, ferr
		}
		rawBody = flattened
	}

	span.SetAttributes(attribute.Int("http.status_code", statusCode))
	_ = e.sink.Publish(ctx, event)

	return Raw{StatusCode: statusCode, Body: rawBody, Class: class}, nil
}

func looksLikeXML(body []byte) bool {
	for _, b := range body {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '<':
			return true
		default:
			return false
		}
	}
	return false
}

// classifyTransportError maps a resty/net-level failure onto the network
// error taxonomy. A deadline or a net.Error reporting Timeout
// surfaces as a request timeout; everything else as a not-sent failure.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return connectorerrors.Wrap(connectorerrors.KindRequestTimeoutReceived, "request timed out", err)
	}
	return connectorerrors.Wrap(connectorerrors.KindRequestNotSent, "request could not be sent", err)
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	t, ok := err.(timeout)
	return ok && t.Timeout()
}
