// Package httpapi is the webhook ingress HTTP surface:
// a thin go-chi/chi/v5 router that adapts a raw HTTP request into the
// domain.RequestDetails the Webhook Subsystem consumes, exposes a
// Prometheus /metrics mount via 766b/chi-prometheus, and a liveness
// /healthz — the one concrete rendering of spec.md §6's "separate RPC"
// webhook surface.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	chiprometheus "github.com/766b/chi-prometheus"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"connectgate/internal/api"
	"connectgate/internal/connectorerrors"
	"connectgate/internal/domain"
	"connectgate/internal/pkg/logutil"
)

// ReplayCache is the dedup side channel SPEC_FULL.md §3 describes
// (`WebhookReplayCache`); webhook.ReplayCache satisfies it. Passing nil to
// NewRouter disables dedup — the ingress surface processes every delivery.
type ReplayCache interface {
	SeenBefore(ctx context.Context, connectorID, deliveryID string) (bool, error)
}

// NewRouter builds the chi router hosting the webhook ingress surface,
// health check, and metrics endpoint. replay may be nil.
func NewRouter(svc api.ConnectorService, replay ReplayCache, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodPost, http.MethodGet},
		AllowedHeaders: []string{"*"},
	}))
	r.Use(chiprometheus.NewMiddleware("connectgate"))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/webhooks/{connector}", handleWebhook(svc, replay, logger))

	return r
}

type webhookErrorBody struct {
	Code string `json:"code"`
	Message string `json:"message"`
}

// deliveryIDHeader is the header most connectors in this gateway use to tag
// a webhook delivery for retry-dedup purposes; a connector-specific header
// name would need its own extractor, but none registered here requires one.
const deliveryIDHeader = "X-Webhook-Delivery-Id"

func handleWebhook(svc api.ConnectorService, replay ReplayCache, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		connectorID := chi.URLParam(req, "connector")

		ctx := logutil.WithRequestID(req.Context(), req.Header.Get(deliveryIDHeader))
		ctx, done := logutil.StartOperation(ctx, "webhook."+connectorID)
		defer done()
		req = req.WithContext(ctx)

		body, err := io.ReadAll(req.Body)
		if err != nil {
			writeWebhookError(w, http.StatusBadRequest, connectorerrors.New(connectorerrors.KindWebhookBodyDecodingFailed, "could not read request body"))
			return
		}

		if replay != nil {
			if deliveryID := req.Header.Get(deliveryIDHeader); deliveryID != "" {
				seen, err := replay.SeenBefore(req.Context(), connectorID, deliveryID)
				if err == nil && seen {
					render.JSON(w, req, map[string]string{"status": "already_processed"})
					return
				}
			}
		}

		headers := map[string]string{}
		for name := range req.Header {
			headers[name] = req.Header.Get(name)
		}

		details := domain.RequestDetails{
			Method:  req.Method,
			URL:     req.URL.String(),
			Headers: headers,
			Body:    body,
		}

		resp, err := svc.HandleWebhook(req.Context(), connectorID, details)
		if err != nil {
			logger.Warn("webhook processing failed", zap.String("connector", connectorID), zap.Error(err))
			writeWebhookError(w, statusForWebhookError(err), err)
			return
		}

		render.JSON(w, req, resp)
	}
}

func statusForWebhookError(err error) int {
	ce, ok := connectorerrors.As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch connectorerrors.RPCStatus(ce.Kind).String() {
	case "NotFound":
		return http.StatusNotFound
	case "InvalidArgument", "FailedPrecondition":
		return http.StatusBadRequest
	case "Unimplemented":
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeWebhookError(w http.ResponseWriter, statusCode int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	body := webhookErrorBody{Code: "WEBHOOK_ERROR", Message: err.Error()}
	if ce, ok := connectorerrors.As(err); ok {
		body.Code = string(ce.Kind)
	}
	_ = json.NewEncoder(w).Encode(body)
}
