package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/chatimovel/painel-server/internal/config"
)

type staticTokens struct {
	token string
}

func (s staticTokens) Token() string { return s.token }

func newTestClient(t *testing.T, handler http.Handler, token string, onUnauthorized func()) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		BackendURL: server.URL,
		BackendKey: "anon-key",
	}
	return New(cfg, zerolog.Nop(), staticTokens{token: token}, onUnauthorized), server
}

func TestGetDecodesAndSendsAuthHeaders(t *testing.T) {
	var gotAPIKey, gotAuth, gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": "c1"}]`))
	})

	client, _ := newTestClient(t, handler, "tok", nil)

	var rows []struct {
		ID string `json:"id"`
	}
	if err := client.Get(context.Background(), "conversas?select=*", &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ID != "c1" {
		t.Fatalf("decoded: %+v", rows)
	}
	if gotAPIKey != "anon-key" {
		t.Fatalf("apikey = %q", gotAPIKey)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotPath != "/rest/v1/conversas" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestNoBearerHeaderWhenLoggedOut(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})

	client, _ := newTestClient(t, handler, "", nil)

	var out []any
	if err := client.Get(context.Background(), "conversas", &out); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
}

func TestUnauthorizedTriggersHook(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "JWT expired"}`))
	})

	hookCalls := 0
	client, _ := newTestClient(t, handler, "stale", func() { hookCalls++ })

	var out []any
	err := client.Get(context.Background(), "conversas", &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsUnauthorized(err) {
		t.Fatalf("not recognized as unauthorized: %v", err)
	}
	if hookCalls != 1 {
		t.Fatalf("hook calls = %d", hookCalls)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "JWT expired" {
		t.Fatalf("error payload not parsed: %v", err)
	}
}

func TestAuthSurfaceFailureSkipsHook(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error_description": "invalid credentials"}`))
	})

	hookCalls := 0
	client, _ := newTestClient(t, handler, "", func() { hookCalls++ })

	if _, err := client.SignInWithPassword(context.Background(), "a@b.c", "wrong"); err == nil {
		t.Fatal("expected error")
	}
	if hookCalls != 0 {
		t.Fatal("failed login must not force a logout")
	}
}

func TestPatchAsksForMinimalReturn(t *testing.T) {
	var gotPrefer, gotMethod string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrefer = r.Header.Get("Prefer")
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	})

	client, _ := newTestClient(t, handler, "tok", nil)

	if err := client.Patch(context.Background(), "conversas?id=eq.c1", map[string]string{"status": "resolvida"}); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodPatch {
		t.Fatalf("method = %q", gotMethod)
	}
	if gotPrefer != "return=minimal" {
		t.Fatalf("prefer = %q", gotPrefer)
	}
}

func TestTransportErrorHasZeroStatus(t *testing.T) {
	cfg := &config.Config{
		BackendURL: "http://127.0.0.1:1",
		BackendKey: "anon-key",
	}
	client := New(cfg, zerolog.Nop(), staticTokens{}, nil)

	var out []any
	err := client.Get(context.Background(), "conversas", &out)
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 0 {
		t.Fatalf("unexpected error: %v", err)
	}
}
