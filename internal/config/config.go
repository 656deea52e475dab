package config

import (
	"fmt"

	pkgconfig "github.com/tausif1337/remart/pkg/config"
)

// Config holds all configuration for the storefront engine.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Redis (durable snapshot storage)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Firestore (catalog, reviews, orders)
	FirestoreProject string `env:"FIRESTORE_PROJECT" envDefault:"remart-dev"`

	// Persisted auth session token, verified once at startup. Empty means
	// the engine starts signed out.
	SessionToken string `env:"AUTH_SESSION_TOKEN" envDefault:""`

	// Payment gateway
	GatewayBaseURL    string `env:"GATEWAY_BASE_URL" envDefault:"https://sandbox.sslcommerz.com"`
	GatewayStoreID    string `env:"GATEWAY_STORE_ID" envDefault:""`
	GatewayStorePass  string `env:"GATEWAY_STORE_PASSWORD" envDefault:""`
	GatewayCurrency   string `env:"GATEWAY_CURRENCY" envDefault:"BDT"`
	PaymentSuccessURL string `env:"PAYMENT_SUCCESS_URL" envDefault:"remart://payment/success"`
	PaymentFailURL    string `env:"PAYMENT_FAIL_URL" envDefault:"remart://payment/fail"`
	PaymentCancelURL  string `env:"PAYMENT_CANCEL_URL" envDefault:"remart://payment/cancel"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	TracingEnabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint   string  `env:"TRACING_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof access allowlist
	PprofCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.0/8" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GatewayBaseURL == "" {
		return fmt.Errorf("gateway base URL is required")
	}
	if c.FirestoreProject == "" {
		return fmt.Errorf("firestore project is required")
	}
	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		return fmt.Errorf("invalid tracing sample rate: %f", c.TracingSampleRate)
	}
	return nil
}
