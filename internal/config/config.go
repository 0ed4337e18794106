// Package config loads connectgate's process configuration once at
// startup from environment variables (`envconfig` + `godotenv`,
// SPEC_FULL.md §10), the same section-per-concern shape the teacher's
// internal/config uses. Configuration is immutable after New returns —
// hot-reload is explicitly out of scope.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	defaultAppMode       = "dev"
	defaultGRPCPort      = ":9090"
	defaultHTTPPort      = ":8080"
	defaultTimeout       = 30 * time.Second
	defaultCacheCleanup  = 10 * time.Minute
	defaultTokenCacheTTL = 50 * time.Minute
)

type (
	// Configs is the full process configuration.
	Configs struct {
		APP AppConfig
		SERVER ServerConfig
		CONNECTORS ConnectorsConfig
		CACHE CacheConfig
		SINK SinkConfig
		TRACING TracingConfig
	}

	// AppConfig names the runtime environment the Connector Capability
	// Registry resolves per-connector base URLs against (spec §4.3,
	// "sandbox" vs "production").
	AppConfig struct {
		Mode string `required:"true"`
		Env string `default:"sandbox"`
	}

	// ServerConfig is the global server binding spec §6 names: host,
	// port, grpc|http.
	ServerConfig struct {
		GRPCPort string        `split_words:"true"`
		HTTPPort string        `split_words:"true"`
		RequestTimeout time.Duration `split_words:"true"`
	}

	// ConnectorEntry is one row of the `{base_url, dispute_base_url?,
	// proxy?, timeout?}` table spec §6 describes, keyed by connector name
	// in ConnectorsConfig.Table. Proxy and Timeout, when set, override the
	// Executor's default transport and per-call deadline for calls to
	// that connector only (spec §5).
	ConnectorEntry struct {
		BaseURL string `json:"base_url"`
		DisputeBaseURL string `json:"dispute_base_url,omitempty"`
		Proxy string `json:"proxy,omitempty"`
		Timeout time.Duration `json:"timeout,omitempty"`
		WebhookSecret string `json:"webhook_secret,omitempty"`
		ClientID string `json:"client_id,omitempty"`
		ClientSecret string `json:"client_secret,omitempty"`
		OAuthURL string `json:"oauth_url,omitempty"`
	}

	// ConnectorsConfig holds the per-connector table as a raw JSON blob
	// (`CONNECTORS_TABLE`) decoded into Table, matching the teacher's
	// preference for one env var over N per-connector ones.
	ConnectorsConfig struct {
		TableJSON string `envconfig:"CONNECTORS_TABLE"`
		Table map[string]ConnectorEntry `ignored:"true"`
	}

	// CacheConfig configures the connector OAuth token cache
	// (patrickmn/go-cache) and the Redis-backed webhook replay cache.
	CacheConfig struct {
		RedisAddr string        `split_words:"true"`
		TokenCacheTTL time.Duration `split_words:"true"`
		TokenCacheCleanup time.Duration `split_words:"true"`
	}

	// SinkConfig configures the structured event sink (nats-io/nats.go).
	SinkConfig struct {
		NATSURL string `split_words:"true"`
		NATSSubject string `split_words:"true" default:"connectgate.call_events"`
	}

	// TracingConfig configures the otel tracer provider.
	TracingConfig struct {
		ServiceName string `split_words:"true" default:"connectgate"`
		OTLPEndpoint string `split_words:"true"`
	}
)

// New populates Configs from a.env file (if present) and environment
// variables.
func New() (cfg Configs, err error) {
	root, err := os.Getwd()
	if err != nil {
		return
	}
	_ = godotenv.Load(filepath.Join(root, ".env"))

	cfg.APP = AppConfig{Mode: defaultAppMode, Env: "sandbox"}
	cfg.SERVER = ServerConfig{GRPCPort: defaultGRPCPort, HTTPPort: defaultHTTPPort, RequestTimeout: defaultTimeout}
	cfg.CACHE = CacheConfig{TokenCacheTTL: defaultTokenCacheTTL, TokenCacheCleanup: defaultCacheCleanup}

	if err = envconfig.Process("APP", &cfg.APP); err != nil {
		return
	}
	if err = envconfig.Process("SERVER", &cfg.SERVER); err != nil {
		return
	}
	if err = envconfig.Process("CONNECTORS", &cfg.CONNECTORS); err != nil {
		return
	}
	if err = envconfig.Process("CACHE", &cfg.CACHE); err != nil {
		return
	}
	if err = envconfig.Process("SINK", &cfg.SINK); err != nil {
		return
	}
	if err = envconfig.Process("TRACING", &cfg.TRACING); err != nil {
		return
	}

	if cfg.CONNECTORS.TableJSON != "" {
		if err = json.Unmarshal([]byte(cfg.CONNECTORS.TableJSON), &cfg.CONNECTORS.Table); err != nil {
			return
		}
	}

	return
}
