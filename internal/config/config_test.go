package config

import "testing"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BACKEND_URL", "https://backend.example.com/")
	t.Setenv("BACKEND_ANON_KEY", "anon-key")
	t.Setenv("WEBHOOK_URL", "https://hooks.example.com")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPPort != 8190 || cfg.ServiceName != "painel-api" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.BackendURL != "https://backend.example.com" {
		t.Fatalf("trailing slash kept: %q", cfg.BackendURL)
	}
}

func TestLoadRequiresBackend(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("BACKEND_ANON_KEY", "anon-key")
	t.Setenv("WEBHOOK_URL", "https://hooks.example.com")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without BACKEND_URL")
	}
}

func TestLoadRequiresJWKSWhenAuthEnabled(t *testing.T) {
	setRequired(t)
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("AUTH_ISSUER", "https://backend.example.com/auth/v1")
	t.Setenv("AUTH_JWKS_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without AUTH_JWKS_URL")
	}
}

func TestDerivedURLs(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.RESTBase(); got != "https://backend.example.com/rest/v1" {
		t.Fatalf("RESTBase = %q", got)
	}
	if got := cfg.AuthBase(); got != "https://backend.example.com/auth/v1" {
		t.Fatalf("AuthBase = %q", got)
	}
	want := "wss://backend.example.com/realtime/v1/websocket?apikey=anon-key&vsn=1.0.0"
	if got := cfg.RealtimeURL(); got != want {
		t.Fatalf("RealtimeURL = %q", got)
	}
	if got := cfg.WebhookEndpoint(); got != "https://hooks.example.com/painel" {
		t.Fatalf("WebhookEndpoint = %q", got)
	}
}
