// Package api is the RPC-surface boundary spec.md §6 describes: parsing
// request metadata headers once, resolving them to a domain.ConnectorAuth,
// and exposing a ConnectorService Go interface that the gRPC and HTTP
// adapters call directly — there is no protoc step, the service methods
// are plain Go.
package api

import (
	"encoding/json"
	"fmt"

	"connectgate/internal/connectorerrors"
	"connectgate/internal/domain"

	"github.com/google/uuid"
)

// RequestMetadata is the parsed form of the x-* headers spec.md §6 names.
// It is built once at the api boundary and threaded through to the
// Dispatcher rather than re-parsed per flow.
type RequestMetadata struct {
	Connector string
	MerchantID string
	TenantID string
	RequestID string
	ConfigOverride map[string]string

	Auth domain.ConnectorAuth
}

// Headers is the narrow view of an inbound call's metadata this package
// parses from — a map rather than http.Header/metadata.MD so the gRPC and
// HTTP adapters can each supply their own transport's header type without
// this package importing either.
type Headers map[string]string

// ParseRequestMetadata builds a RequestMetadata from the lowercase x-*
// headers spec.md §6 names. A missing x-request-id is generated, never
// rejected; a malformed x-auth or its key fields fails
// FailedToObtainAuthType.
func ParseRequestMetadata(h Headers) (RequestMetadata, error) {
	connector := h["x-connector"]
	if connector == "" {
		return RequestMetadata{}, connectorerrors.New(connectorerrors.KindInvalidConnectorName, "x-connector header is required")
	}

	auth, err := parseAuth(h)
	if err != nil {
		return RequestMetadata{}, err
	}

	requestID := h["x-request-id"]
	if requestID == "" {
		requestID = uuid.New().String()
	}

	var override map[string]string
	if raw := h["x-config-override"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &override); err != nil {
			return RequestMetadata{}, connectorerrors.Wrap(connectorerrors.KindInvalidDataFormat, "x-config-override is not valid JSON", err)
		}
	}

	return RequestMetadata{
		Connector:      connector,
		MerchantID:     h["x-merchant-id"],
		TenantID:       h["x-tenant-id"],
		RequestID:      requestID,
		ConfigOverride: override,
		Auth:           auth,
	}, nil
}

func parseAuth(h Headers) (domain.ConnectorAuth, error) {
	switch domain.AuthType(h["x-auth"]) {
	case domain.AuthTypeNone, "":
		return domain.ConnectorAuth{Type: domain.AuthTypeNone}, nil
	case domain.AuthTypeHeaderKey:
		if h["x-api-key"] == "" {
			return domain.ConnectorAuth{}, missingAuthField("x-api-key")
		}
		return domain.NewHeaderKeyAuth(h["x-api-key"]), nil
	case domain.AuthTypeBodyKey:
		if h["x-api-key"] == "" || h["x-key1"] == "" {
			return domain.ConnectorAuth{}, missingAuthField("x-api-key/x-key1")
		}
		return domain.NewBodyKeyAuth(h["x-api-key"], h["x-key1"]), nil
	case domain.AuthTypeSignatureKey:
		if h["x-api-key"] == "" || h["x-key1"] == "" || h["x-api-secret"] == "" {
			return domain.ConnectorAuth{}, missingAuthField("x-api-key/x-key1/x-api-secret")
		}
		return domain.NewSignatureKeyAuth(h["x-api-key"], h["x-key1"], h["x-api-secret"]), nil
	case domain.AuthTypeMultiAuth:
		if h["x-api-key"] == "" || h["x-key1"] == "" || h["x-api-secret"] == "" || h["x-key2"] == "" {
			return domain.ConnectorAuth{}, missingAuthField("x-api-key/x-key1/x-api-secret/x-key2")
		}
		return domain.NewMultiAuth(h["x-api-key"], h["x-key1"], h["x-api-secret"], h["x-key2"]), nil
	case domain.AuthTypeCertificate:
		if h["x-certificate"] == "" || h["x-private-key"] == "" {
			return domain.ConnectorAuth{}, missingAuthField("x-certificate/x-private-key")
		}
		return domain.NewCertificateAuth(h["x-certificate"], h["x-private-key"]), nil
	default:
		return domain.ConnectorAuth{}, connectorerrors.New(connectorerrors.KindFailedToObtainAuthType, fmt.Sprintf("unrecognized x-auth tag %q", h["x-auth"]))
	}
}

func missingAuthField(fields string) error {
	return connectorerrors.New(connectorerrors.KindFailedToObtainAuthType, "x-auth requires "+fields)
}
