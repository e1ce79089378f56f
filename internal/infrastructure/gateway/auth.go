package gateway

import (
	"context"
	"encoding/json"

	"resty.dev/v3"
)

// AuthUser is the hosted auth provider's view of an account.
type AuthUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// AuthSession is the payload of a successful password grant.
type AuthSession struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}

// SignupResponse is the payload of a signup call. Depending on the provider's
// confirmation settings the user may arrive nested or at the top level.
type SignupResponse struct {
	ID   string    `json:"id"`
	User *AuthUser `json:"user"`
}

// UserID returns the created account id from either response shape.
func (r *SignupResponse) UserID() string {
	if r.User != nil && r.User.ID != "" {
		return r.User.ID
	}
	return r.ID
}

// SignInWithPassword performs the password grant against the auth surface.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*AuthSession, error) {
	var session AuthSession
	resp, err := c.authRequest(ctx, "").
		SetBody(map[string]string{"email": email, "password": password}).
		Post(c.cfg.AuthBase() + "/token?grant_type=password")
	if err := c.finishAuth(resp, err, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignUp registers a new platform account. metadata lands in user_metadata.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*SignupResponse, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
	}
	if len(metadata) > 0 {
		body["options"] = map[string]any{"data": metadata}
	}

	var signup SignupResponse
	resp, err := c.authRequest(ctx, "").
		SetBody(body).
		Post(c.cfg.AuthBase() + "/signup")
	if err := c.finishAuth(resp, err, &signup); err != nil {
		return nil, err
	}
	return &signup, nil
}

// SignOut revokes the token server-side. Callers may ignore the error: local
// session clearing proceeds regardless.
func (c *Client) SignOut(ctx context.Context, token string) error {
	resp, err := c.authRequest(ctx, token).
		Post(c.cfg.AuthBase() + "/logout")
	return c.finishAuth(resp, err, nil)
}

// Recover asks the provider to send a password-recovery email.
func (c *Client) Recover(ctx context.Context, email string) error {
	resp, err := c.authRequest(ctx, "").
		SetBody(map[string]string{"email": email}).
		Post(c.cfg.AuthBase() + "/recover")
	return c.finishAuth(resp, err, nil)
}

// UpdateUser updates the authenticated account. body carries either
// {"password": ...} or {"data": {...metadata}}.
func (c *Client) UpdateUser(ctx context.Context, token string, body any) (*AuthUser, error) {
	var user AuthUser
	resp, err := c.authRequest(ctx, token).
		SetBody(body).
		Put(c.cfg.AuthBase() + "/user")
	if err := c.finishAuth(resp, err, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) authRequest(ctx context.Context, token string) *resty.Request {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("apikey", c.cfg.BackendKey).
		SetHeader("Content-Type", "application/json")
	if token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// finishAuth normalizes auth surface responses. Unlike finish, a 401 here
// never triggers the forced-logout hook: a failed login is not an expired
// session.
func (c *Client) finishAuth(resp *resty.Response, err error, out any) error {
	if err != nil {
		return &APIError{Status: 0, Message: err.Error()}
	}
	if resp.IsError() {
		return newAPIError(resp.StatusCode(), resp.Bytes())
	}
	if out == nil || len(resp.Bytes()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Bytes(), out); err != nil {
		return &APIError{Status: resp.StatusCode(), Message: "malformed response body"}
	}
	return nil
}
