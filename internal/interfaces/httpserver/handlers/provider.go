// Package handlers holds the thin delegation layer between routes and the
// domain services.
package handlers

import (
	"github.com/google/wire"

	"github.com/chatimovel/painel-server/internal/domain/conversation"
	"github.com/chatimovel/painel-server/internal/domain/dashboard"
	"github.com/chatimovel/painel-server/internal/domain/message"
	"github.com/chatimovel/painel-server/internal/domain/session"
	"github.com/chatimovel/painel-server/internal/domain/user"
)

// Provider holds all HTTP handlers.
type Provider struct {
	Auth          *AuthHandler
	Conversations *ConversationHandler
	Users         *UserHandler
	Dashboard     *DashboardHandler
}

// NewProvider creates a new handler provider.
func NewProvider(
	sessions *session.Service,
	conversations *conversation.Service,
	messages *message.Service,
	users *user.Service,
	metrics *dashboard.Service,
	watcher Watcher,
) *Provider {
	return &Provider{
		Auth:          NewAuthHandler(sessions),
		Conversations: NewConversationHandler(conversations, messages, users, watcher),
		Users:         NewUserHandler(users),
		Dashboard:     NewDashboardHandler(metrics),
	}
}

// HandlerProvider provides all handlers for wire.
var HandlerProvider = wire.NewSet(
	NewAuthHandler,
	NewConversationHandler,
	NewUserHandler,
	NewDashboardHandler,
	NewProvider,
)
