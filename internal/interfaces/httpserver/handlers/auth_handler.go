package handlers

import (
	"context"

	"github.com/chatimovel/painel-server/internal/domain/session"
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	sessions *session.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sessions *session.Service) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Login performs the password grant and installs the session.
func (h *AuthHandler) Login(ctx context.Context, email, password string) (*session.Session, error) {
	return h.sessions.Login(ctx, email, password)
}

// Logout ends the session.
func (h *AuthHandler) Logout(ctx context.Context) error {
	return h.sessions.Logout(ctx)
}

// Recover requests a password-recovery email.
func (h *AuthHandler) Recover(ctx context.Context, email string) error {
	return h.sessions.Recover(ctx, email)
}

// UpdatePassword changes the operator's password.
func (h *AuthHandler) UpdatePassword(ctx context.Context, password string) error {
	return h.sessions.UpdatePassword(ctx, password)
}

// UpdateProfile edits the operator's metadata.
func (h *AuthHandler) UpdateProfile(ctx context.Context, metadata map[string]any) (*session.Profile, error) {
	return h.sessions.UpdateProfile(ctx, metadata)
}

// Current returns the active session, or nil.
func (h *AuthHandler) Current() *session.Session {
	return h.sessions.Current()
}
