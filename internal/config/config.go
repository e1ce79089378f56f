package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the painel-api service.
type Config struct {
	// Service settings
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"painel-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"PAINEL_API_PORT" envDefault:"8190"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// OpenTelemetry
	EnableTracing bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`

	// Hosted backend (REST, auth and realtime share one base URL)
	BackendURL string `env:"BACKEND_URL"`
	BackendKey string `env:"BACKEND_ANON_KEY"`

	// Auth middleware for the panel API itself. The hosted auth provider
	// issues the JWTs; we only verify them against its JWKS.
	AuthEnabled bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer  string `env:"AUTH_ISSUER"`
	AuthJWKSURL string `env:"AUTH_JWKS_URL"`

	// Outbound webhook receiving operator messages
	WebhookURL  string `env:"WEBHOOK_URL"`
	WebhookPath string `env:"WEBHOOK_PATH" envDefault:"painel"`

	// Session persistence
	SessionFile string `env:"SESSION_FILE" envDefault:".painel-session.json"`

	// Realtime feed
	RealtimeEnabled     bool          `env:"REALTIME_ENABLED" envDefault:"true"`
	RealtimeRedialDelay time.Duration `env:"REALTIME_REDIAL_DELAY" envDefault:"3s"`
	RealtimeHeartbeat   time.Duration `env:"REALTIME_HEARTBEAT" envDefault:"30s"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if strings.TrimSpace(cfg.BackendURL) == "" {
		return nil, fmt.Errorf("BACKEND_URL is required")
	}
	if strings.TrimSpace(cfg.BackendKey) == "" {
		return nil, fmt.Errorf("BACKEND_ANON_KEY is required")
	}
	cfg.BackendURL = strings.TrimSuffix(cfg.BackendURL, "/")

	if cfg.AuthEnabled {
		if strings.TrimSpace(cfg.AuthJWKSURL) == "" {
			return nil, fmt.Errorf("AUTH_JWKS_URL is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(cfg.AuthIssuer) == "" {
			return nil, fmt.Errorf("AUTH_ISSUER is required when AUTH_ENABLED is true")
		}
	}

	if strings.TrimSpace(cfg.WebhookURL) == "" {
		return nil, fmt.Errorf("WEBHOOK_URL is required")
	}
	cfg.WebhookURL = strings.TrimSuffix(cfg.WebhookURL, "/")

	return cfg, nil
}

// Addr returns the HTTP server address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// RESTBase returns the base URL of the hosted REST surface.
func (c *Config) RESTBase() string {
	return c.BackendURL + "/rest/v1"
}

// AuthBase returns the base URL of the hosted auth surface.
func (c *Config) AuthBase() string {
	return c.BackendURL + "/auth/v1"
}

// RealtimeURL returns the websocket URL of the hosted change feed.
func (c *Config) RealtimeURL() string {
	ws := c.BackendURL
	switch {
	case strings.HasPrefix(ws, "https://"):
		ws = "wss://" + strings.TrimPrefix(ws, "https://")
	case strings.HasPrefix(ws, "http://"):
		ws = "ws://" + strings.TrimPrefix(ws, "http://")
	}
	return ws + "/realtime/v1/websocket?apikey=" + c.BackendKey + "&vsn=1.0.0"
}

// WebhookEndpoint returns the full outbound webhook URL.
func (c *Config) WebhookEndpoint() string {
	return c.WebhookURL + "/" + strings.TrimPrefix(c.WebhookPath, "/")
}
