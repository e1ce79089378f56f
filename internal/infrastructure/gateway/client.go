// Package gateway wraps the hosted backend's REST and auth surfaces behind a
// typed client with uniform error normalization.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"github.com/chatimovel/painel-server/internal/config"
)

// TokenSource supplies the current access token for authenticated calls.
// An empty token means no session; requests then carry only the api key.
type TokenSource interface {
	Token() string
}

// Client talks to the hosted backend. REST calls go through Get/Post/Patch
// against /rest/v1 resources; the auth surface lives in auth.go.
type Client struct {
	http           *resty.Client
	cfg            *config.Config
	log            zerolog.Logger
	tokens         TokenSource
	onUnauthorized func()
}

type clientStartsAt struct{}

// New creates a gateway client. onUnauthorized is invoked whenever an
// authenticated call comes back 401; the session layer uses it to force a
// single logout.
func New(cfg *config.Config, log zerolog.Logger, tokens TokenSource, onUnauthorized func()) *Client {
	httpClient := resty.New().
		SetTimeout(30 * time.Second)

	componentLog := log.With().Str("component", "gateway").Logger()

	httpClient.AddRequestMiddleware(func(c *resty.Client, r *resty.Request) error {
		r.SetContext(context.WithValue(r.Context(), clientStartsAt{}, time.Now()))
		return nil
	})
	httpClient.AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
		startTime, _ := r.Request.Context().Value(clientStartsAt{}).(time.Time)
		componentLog.Debug().
			Int("status", r.StatusCode()).
			Str("method", r.Request.Method).
			Str("url", r.Request.URL).
			Dur("latency", time.Since(startTime)).
			Msg("backend request")
		return nil
	})

	return &Client{
		http:           httpClient,
		cfg:            cfg,
		log:            componentLog,
		tokens:         tokens,
		onUnauthorized: onUnauthorized,
	}
}

// Get fetches a REST resource. path is the PostgREST resource plus query
// string, e.g. "conversas?select=*&order=ultima_interacao.desc".
func (c *Client) Get(ctx context.Context, path string, out any) error {
	resp, err := c.restRequest(ctx).Get(c.cfg.RESTBase() + "/" + path)
	return c.finish(resp, err, out)
}

// Post inserts a REST resource row and decodes the representation into out
// when out is non-nil.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	resp, err := c.restRequest(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(body).
		Post(c.cfg.RESTBase() + "/" + path)
	return c.finish(resp, err, out)
}

// Patch updates REST resource rows. The backend is asked for a minimal
// response, so no body is decoded.
func (c *Client) Patch(ctx context.Context, path string, body any) error {
	resp, err := c.restRequest(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(body).
		Patch(c.cfg.RESTBase() + "/" + path)
	return c.finish(resp, err, nil)
}

func (c *Client) restRequest(ctx context.Context) *resty.Request {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("apikey", c.cfg.BackendKey).
		SetHeader("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// finish normalizes transport and status errors and decodes the body.
func (c *Client) finish(resp *resty.Response, err error, out any) error {
	if err != nil {
		return &APIError{Status: 0, Message: err.Error()}
	}
	if resp.IsError() {
		apiErr := newAPIError(resp.StatusCode(), resp.Bytes())
		if apiErr.Status == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return apiErr
	}
	if out == nil || resp.StatusCode() == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(resp.Bytes(), out); err != nil {
		return &APIError{Status: resp.StatusCode(), Message: "malformed response body"}
	}
	return nil
}
