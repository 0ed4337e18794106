// Package router implements the Dispatcher: the orchestration spine that
// takes one canonical request, resolves which connector and integration
// handles it, executes the call, and projects the result back to the
// canonical response shape. Each flow gets its own dispatch
// function because Go generics cannot parametrize over "which struct field
// holds the right interface" the way a single generic trait method would
// in the source system.
package router

import (
	"context"
	"net/http"

	"connectgate/internal/connector"
	"connectgate/internal/connectorerrors"
	"connectgate/internal/domain"
	"connectgate/internal/httpexec"
	"connectgate/internal/integrity"
	"connectgate/internal/registry"
)

// Connectors maps a connector id to its wired integration set. Kept
// separate from the Registry, which only carries capability metadata, so
// swapping an adapter's implementation never touches capability
// declarations (spec §4.3 vs §4.2).
type Connectors map[string]*connector.Connector

// Dispatcher is the shared orchestration entry point every flow function
// in this package is a method of.
type Dispatcher struct {
	Registry   *registry.Registry
	Connectors Connectors
	Executor   *httpexec.Executor
	Env string // e.g. "sandbox", "production" — selects registry.Entry.BaseURL
}

// NewDispatcher wires a Registry, a Connectors set, and an Executor into a
// Dispatcher.
func NewDispatcher(reg *registry.Registry, conns Connectors, exec *httpexec.Executor, env string) *Dispatcher {
	return &Dispatcher{Registry: reg, Connectors: conns, Executor: exec, Env: env}
}

// resolve runs the lookup and capability gate steps shared by every flow
// (spec §4.4 steps 1-2): find the registry entry and wired connector, and
// validate the connector supports flow (and, if pm != "", that payment
// method).
func (d *Dispatcher) resolve(connectorID string, flow domain.Flow, pm domain.PaymentMethod) (registry.Entry, *connector.Connector, string, error) {
	entry, ok := d.Registry.Lookup(connectorID)
	if !ok {
		return registry.Entry{}, nil, "", connectorerrors.New(connectorerrors.KindInvalidConnectorName, "unknown connector: "+connectorID)
	}
	if err := registry.ValidateCapability(d.Registry, connectorID, flow, pm); err != nil {
		return registry.Entry{}, nil, "", connectorerrors.Wrap(connectorerrors.KindFlowNotSupported, err.Error(), err)
	}
	conn, ok := d.Connectors[connectorID]
	if !ok || conn == nil {
		return registry.Entry{}, nil, "", connectorerrors.New(connectorerrors.KindInvalidConnectorName, "connector not wired: "+connectorID)
	}
	baseURL, err := entry.BaseURL(d.Env)
	if err != nil {
		return registry.Entry{}, nil, "", connectorerrors.Wrap(connectorerrors.KindFailedToObtainIntegrationURL, "could not resolve base url", err)
	}
	return entry, conn, baseURL, nil
}

// classify maps an httpexec.Raw response plus a connector operation's
// parse_success/parse_error/parse_5xx methods onto a Result-shaped pair,
// the shared tail of every flow's dispatch (spec §4.4 step 3, §4.5).
func classify[Resp any](
	raw httpexec.Raw,
	parseSuccess func([]byte) (Resp, error),
	parseError func([]byte) (domain.ErrorResponse, error),
	parse5xx func([]byte, int) (domain.ErrorResponse, error),
) domain.Result[Resp] {
	switch raw.Class {
	case httpexec.OutcomeSuccess:
		resp, err := parseSuccess(raw.Body)
		if err != nil {
			return domain.Err[Resp](domain.ErrorResponse{
				StatusCode: raw.StatusCode,
				Code:       string(connectorerrors.KindResponseDeserializationFailed),
				Message:    err.Error(),
			})
		}
		return domain.Ok(resp)
	case httpexec.OutcomeServerError:
		errResp, err := parse5xx(raw.Body, raw.StatusCode)
		if err != nil {
			errResp = domain.ErrorResponse{StatusCode: raw.StatusCode, Code: string(connectorerrors.KindUnexpectedServerResponse), Message: err.Error()}
		}
		return domain.Err[Resp](errResp)
	default:
		errResp, err := parseError(raw.Body)
		if err != nil {
			errResp = domain.ErrorResponse{StatusCode: raw.StatusCode, Code: string(connectorerrors.KindResponseHandlingFailed), Message: err.Error()}
		}
		return domain.Err[Resp](errResp)
	}
}

// execFlow runs the dispatch sequence every flow shares: resolve
// the connector and base URL, build the outbound request through the
// integration's Headers/URL/Body methods, execute it, classify the outcome,
// and run the integrity check against projectReq/projectResp. It is a free
// function rather than a method because Go does not allow a method to carry
// its own type parameters — each flow method in this package instantiates it
// with its own Req/Resp pair and its connector's integration accessor.
func execFlow[Req, Resp any](
	ctx context.Context,
	d *Dispatcher,
	connectorID string,
	flow domain.Flow,
	pm domain.PaymentMethod,
	common domain.FlowData,
	auth domain.ConnectorAuth,
	req Req,
	headers func(connector.RequestContext, Req) ([]connector.Header, error),
	buildURL func(connector.RequestContext, Req) (string, error),
	body func(connector.RequestContext, Req) (connector.Body, error),
	parseSuccess func([]byte) (Resp, error),
	parseError func([]byte) (domain.ErrorResponse, error),
	parse5xx func([]byte, int) (domain.ErrorResponse, error),
	projectReq func(Req) integrity.Projection,
	projectResp func(Resp) integrity.Projection,
	txID func(Resp) string,
) (Resp, error) {
	var zero Resp

	_, _, baseURL, err := d.resolve(connectorID, flow, pm)
	if err != nil {
		return zero, err
	}

	rctx := connector.RequestContext{Common: common, Auth: auth, BaseURL: baseURL}

	h, err := headers(rctx, req)
	if err != nil {
		return zero, connectorerrors.Wrap(connectorerrors.KindRequestEncodingFailed, "failed to build headers", err)
	}
	url, err := buildURL(rctx, req)
	if err != nil {
		return zero, connectorerrors.Wrap(connectorerrors.KindFailedToObtainIntegrationURL, "failed to build url", err)
	}
	b, err := body(rctx, req)
	if err != nil {
		return zero, connectorerrors.Wrap(connectorerrors.KindRequestEncodingFailed, "failed to build body", err)
	}

	raw, err := d.Executor.Exchange(ctx, connectorID, flow, httpexec.Outbound{Method: http.MethodPost, URL: url, Headers: h, Body: b})
	if err != nil {
		return zero, err
	}

	result := classify(raw, parseSuccess, parseError, parse5xx)
	if !result.IsOk() {
		errResp := result.UnwrapErr()
		return zero, connectorerrors.New(connectorerrors.KindFailedAtConnector, errResp.Message).WithDetails("error_response", errResp)
	}

	resp := result.Unwrap()
	if projectReq != nil && projectResp != nil {
		var id string
		if txID != nil {
			id = txID(resp)
		}
		if err := IntegrityCheck(connectorID, flow, projectReq(req), projectResp(resp), id); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// IntegrityCheck runs the post-response integrity comparison for flow and
// returns a connectorerrors.Error if the requested fields diverge from what
// the connector's parsed response reflects.
func IntegrityCheck(connectorID string, flow domain.Flow, expected, actual integrity.Projection, connectorTxID string) error {
	diverging := integrity.Compare(flow, expected, actual)
	if len(diverging) == 0 {
		return nil
	}
	return connectorerrors.IntegrityCheckError(connectorID, "response diverges from request on checked fields", diverging, connectorTxID)
}
