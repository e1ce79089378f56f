package handlers

import (
	"context"

	"github.com/chatimovel/painel-server/internal/domain/user"
)

// UserHandler handles user management HTTP requests.
type UserHandler struct {
	users *user.Service
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users *user.Service) *UserHandler {
	return &UserHandler{users: users}
}

// List returns the non-deleted users matching the listing options.
func (h *UserHandler) List(ctx context.Context, opts user.ListOptions) ([]user.User, error) {
	return h.users.List(ctx, opts)
}

// Create registers a WhatsApp user.
func (h *UserHandler) Create(ctx context.Context, in user.CreateInput) (*user.User, error) {
	return h.users.Create(ctx, in)
}

// Update edits a WhatsApp user.
func (h *UserHandler) Update(ctx context.Context, id string, in user.UpdateInput) error {
	return h.users.Update(ctx, id, in)
}

// SoftDelete marks a user deleted without removing the row.
func (h *UserHandler) SoftDelete(ctx context.Context, id string) error {
	return h.users.SoftDelete(ctx, id)
}

// ToggleActive flips a user's active flag.
func (h *UserHandler) ToggleActive(ctx context.Context, id string, active bool) error {
	return h.users.ToggleActive(ctx, id, active)
}

// CreatePlatform registers an operator account.
func (h *UserHandler) CreatePlatform(ctx context.Context, in user.CreatePlatformInput) (*user.User, error) {
	return h.users.CreatePlatform(ctx, in)
}
