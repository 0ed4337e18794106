// Package app owns the boot sequence connectgate follows at startup: load
// config, build the logger, wire the Connector Capability Registry and
// every connector adapter, assemble the Dispatcher and Webhook Registry
// behind internal/api.Service, then start the gRPC and HTTP listeners
// side by side and block for a shutdown signal.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"connectgate/internal/adapters/httpapi"
	grpcadapter "connectgate/internal/adapters/grpc"
	"connectgate/internal/api"
	"connectgate/internal/config"
	"connectgate/internal/connector/checkout"
	"connectgate/internal/connector/elavon"
	"connectgate/internal/connector/epay"
	"connectgate/internal/connectorerrors"
	"connectgate/internal/domain"
	"connectgate/internal/httpexec"
	"connectgate/internal/money"
	"connectgate/internal/registry"
	"connectgate/internal/router"
	"connectgate/internal/sink"
	"connectgate/internal/webhook"
	"connectgate/pkg/log"
)

const shutdownGrace = 10 * time.Second

// App holds every long-lived component the boot sequence assembles, so
// Run can start them together and shutdown can stop the gRPC server, the
// HTTP server and the tracer provider in turn.
type App struct {
	logger       *zap.Logger
	cfg          config.Configs
	grpcSrv      *grpcadapter.Server
	httpSrv      *http.Server
	shutdownTracer func(context.Context) error
}

// New runs the boot sequence and returns a App ready to Run.
func New() (*App, error) {
	logger := log.New()

	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("app - New - config.New: %w", err)
	}

	shutdownTracer, err := log.NewTracerProvider(context.Background(), log.TracerConfig{
		ServiceName: cfg.TRACING.ServiceName,
		Endpoint:    cfg.TRACING.OTLPEndpoint,
	})
	if err != nil {
		logger.Warn("tracing disabled: failed to start tracer provider", zap.Error(err))
		shutdownTracer = func(context.Context) error { return nil }
	}

	reg := buildRegistry(cfg)
	conns := router.Connectors{
		"checkout": checkout.New(),
		"elavon":   elavon.New(),
		"epay":     epay.New(),
	}

	var publisher sink.Sink = sink.NoopSink{}
	if cfg.SINK.NATSURL != "" {
		nc, err := nats.Connect(cfg.SINK.NATSURL)
		if err != nil {
			logger.Warn("failed to connect to nats, falling back to noop sink", zap.Error(err))
		} else {
			publisher = sink.NewNATSPublisher(nc, cfg.SINK.NATSSubject, logger)
		}
	}

	exec := httpexec.NewExecutor(
		httpexec.WithTimeout(cfg.SERVER.RequestTimeout),
		httpexec.WithSink(publisher),
		httpexec.WithConnectorOverrides(connectorOverrides(cfg)),
	)

	dispatcher := router.NewDispatcher(reg, conns, exec, cfg.APP.Env)

	webhookRegistry := webhook.NewRegistry()
	webhookRegistry.Register("checkout", &webhook.Processor{
		ConnectorID: "checkout",
		Integration: conns["checkout"].Webhook,
	}, secretsFor(cfg, "checkout"))
	webhookRegistry.Register("epay", &webhook.Processor{
		ConnectorID:                    "epay",
		Integration:                    conns["epay"].Webhook,
		IsWebhookVerificationMandatory: true,
	}, secretsFor(cfg, "epay"))

	svc := api.NewService(dispatcher, webhookRegistry)
	svc.AuthResolver = epayAuthResolver(cfg, epay.NewTokenCache(cfg.CACHE.TokenCacheTTL, cfg.CACHE.TokenCacheCleanup), epay.NewTokenProvider())

	var replay httpapi.ReplayCache
	if cfg.CACHE.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.CACHE.RedisAddr})
		replay = webhook.NewReplayCache(rdb)
	}

	httpRouter := httpapi.NewRouter(svc, replay, logger)

	grpcSrv := grpcadapter.NewServer(cfg.SERVER.GRPCPort, logger)
	grpcSrv.Register(func(s *grpc.Server) { registerConnectorService(s, svc) })

	return &App{
		logger:         logger,
		cfg:            cfg,
		grpcSrv:        grpcSrv,
		httpSrv:        &http.Server{Addr: cfg.SERVER.HTTPPort, Handler: httpRouter},
		shutdownTracer: shutdownTracer,
	}, nil
}

// registerConnectorService is the attachment point a protoc-generated
// RegisterConnectorServiceServer would normally occupy; there is no wire
// stub here, so it is a deliberate no-op kept as the
// seam a future generated stub would plug into without touching the rest
// of the boot sequence.
func registerConnectorService(_ *grpc.Server, _ api.ConnectorService) {}

// Run starts the gRPC and HTTP listeners and blocks until a termination
// signal arrives, then shuts both down gracefully.
func (a *App) Run() error {
	errCh := make(chan error, 2)

	go func() {
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		a.logger.Info("starting http server", zap.String("addr", a.cfg.SERVER.HTTPPort))
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	select {
	case sig := <-quit:
		a.logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		a.logger.Error("server error, shutting down", zap.Error(err))
		a.shutdown()
		return err
	}

	a.shutdown()
	return nil
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	a.grpcSrv.Stop()
	if err := a.httpSrv.Shutdown(ctx); err != nil {
		a.logger.Warn("http server did not shut down cleanly", zap.Error(err))
	}
	if err := a.shutdownTracer(ctx); err != nil {
		a.logger.Warn("tracer provider did not shut down cleanly", zap.Error(err))
	}
	a.logger.Sync()
}

// epayAuthResolver turns a body-key ConnectorAuth (api_key/key1 standing in
// for client_id/client_secret, domain.ConnectorAuth.ClientCredentials) into
// a bearer token by consulting cache, exchanges otherwise, then caching the
// result for its reported TTL. Every other connector and auth shape passes
// through unchanged, so this only ever touches epay traffic.
func epayAuthResolver(cfg config.Configs, tokens *epay.TokenCache, provider *epay.TokenProvider) func(context.Context, string, domain.ConnectorAuth) (domain.ConnectorAuth, error) {
	return func(ctx context.Context, connectorID string, auth domain.ConnectorAuth) (domain.ConnectorAuth, error) {
		if connectorID != "epay" || auth.Type != domain.AuthTypeBodyKey {
			return auth, nil
		}

		clientID, clientSecret := auth.ClientCredentials()
		if token, ok := tokens.Get(clientID); ok {
			return domain.NewHeaderKeyAuth(token), nil
		}

		entry, ok := cfg.CONNECTORS.Table["epay"]
		if !ok || entry.OAuthURL == "" {
			return domain.ConnectorAuth{}, connectorerrors.New(connectorerrors.KindFailedToObtainAuthType, "epay: no oauth_url configured for token exchange")
		}

		token, expiresIn, err := provider.Fetch(ctx, entry.OAuthURL, clientID, clientSecret)
		if err != nil {
			return domain.ConnectorAuth{}, connectorerrors.Wrap(connectorerrors.KindFailedToObtainAuthType, "epay: token exchange failed", err)
		}

		ttl := time.Duration(expiresIn) * time.Second
		if ttl <= 0 {
			ttl = cfg.CACHE.TokenCacheTTL
		}
		tokens.Set(clientID, token, ttl)

		return domain.NewHeaderKeyAuth(token), nil
	}
}

// connectorOverrides turns the per-connector proxy/timeout columns of
// cfg.CONNECTORS.Table into the table httpexec.WithConnectorOverrides
// expects, so the Executor can give a connector its own forward proxy or
// deadline without every flow needing to know about it.
func connectorOverrides(cfg config.Configs) map[string]httpexec.ConnectorOverride {
	overrides := make(map[string]httpexec.ConnectorOverride, len(cfg.CONNECTORS.Table))
	for id, entry := range cfg.CONNECTORS.Table {
		if entry.Proxy == "" && entry.Timeout <= 0 {
			continue
		}
		overrides[id] = httpexec.ConnectorOverride{Proxy: entry.Proxy, Timeout: entry.Timeout}
	}
	return overrides
}

// secretsFor reads the webhook secret configured for a connector, if any.
func secretsFor(cfg config.Configs, connectorID string) domain.WebhookSecrets {
	entry, ok := cfg.CONNECTORS.Table[connectorID]
	if !ok {
		return domain.WebhookSecrets{}
	}
	return domain.WebhookSecrets{Secret: entry.WebhookSecret}
}

// buildRegistry declares the static capability table for every wired
// connector: which flows, payment methods, and webhook events
// each one supports, and how its base URL resolves from config.
func buildRegistry(cfg config.Configs) *registry.Registry {
	reg := registry.New()

	reg.Register(registry.Entry{
		ID:           "checkout",
		CurrencyUnit: money.UnitMinorInteger,
		SupportedFlows: map[domain.Flow]bool{
			domain.FlowAuthorize: true, domain.FlowCapture: true, domain.FlowVoid: true,
			domain.FlowRefund: true, domain.FlowRefundSync: true, domain.FlowSync: true,
		},
		SupportedPaymentMethods: map[domain.PaymentMethod]bool{
			domain.PaymentMethodCard: true, domain.PaymentMethodWallet: true,
		},
		SupportedWebhookFlows: map[domain.EventType]bool{
			domain.EventPaymentSuccess: true, domain.EventPaymentFailure: true,
			domain.EventPaymentAuthentication: true, domain.EventRefundSuccess: true,
			domain.EventRefundFailure: true,
		},
		SupportedCaptureMethods: map[domain.PaymentMethod][]domain.CaptureMethod{
			domain.PaymentMethodCard: {domain.CaptureAutomatic, domain.CaptureManual},
		},
		IsWebhookVerificationMandatory: false,
		BaseURL:                        baseURLResolver(cfg, "checkout"),
	})

	reg.Register(registry.Entry{
		ID:           "elavon",
		CurrencyUnit: money.UnitMajorString,
		SupportedFlows: map[domain.Flow]bool{
			domain.FlowAuthorize: true, domain.FlowCapture: true, domain.FlowVoid: true,
			domain.FlowRefund: true, domain.FlowSync: true,
		},
		SupportedPaymentMethods: map[domain.PaymentMethod]bool{
			domain.PaymentMethodCard: true,
		},
		SupportedCaptureMethods: map[domain.PaymentMethod][]domain.CaptureMethod{
			domain.PaymentMethodCard: {domain.CaptureAutomatic, domain.CaptureManual},
		},
		IsWebhookVerificationMandatory: false,
		BaseURL:                        baseURLResolver(cfg, "elavon"),
	})

	reg.Register(registry.Entry{
		ID:           "epay",
		CurrencyUnit: money.UnitMajorString,
		SupportedFlows: map[domain.Flow]bool{
			domain.FlowAuthorize: true, domain.FlowSync: true, domain.FlowCapture: true,
			domain.FlowVoid: true, domain.FlowRefund: true,
		},
		SupportedPaymentMethods: map[domain.PaymentMethod]bool{
			domain.PaymentMethodCard: true, domain.PaymentMethodMandate: true,
		},
		SupportedWebhookFlows: map[domain.EventType]bool{
			domain.EventPaymentSuccess: true, domain.EventPaymentFailure: true,
		},
		SupportedCaptureMethods: map[domain.PaymentMethod][]domain.CaptureMethod{
			domain.PaymentMethodCard: {domain.CaptureAutomatic, domain.CaptureManual},
		},
		IsWebhookVerificationMandatory: true,
		BaseURL:                        baseURLResolver(cfg, "epay"),
	})

	return reg
}

// baseURLResolver closes over the static per-connector config table and
// returns the connector's one configured base URL for every environment
// name (env appears only in the error message), failing with
// KindFailedToObtainIntegrationURL when the connector has no configured
// base URL.
func baseURLResolver(cfg config.Configs, connectorID string) func(string) (string, error) {
	return func(env string) (string, error) {
		entry, ok := cfg.CONNECTORS.Table[connectorID]
		if !ok || entry.BaseURL == "" {
			return "", connectorerrors.New(connectorerrors.KindFailedToObtainIntegrationURL,
				fmt.Sprintf("no base url configured for connector %q in env %q", connectorID, env))
		}
		return entry.BaseURL, nil
	}
}
