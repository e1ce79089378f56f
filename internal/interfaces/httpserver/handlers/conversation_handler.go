package handlers

import (
	"context"
	"errors"

	"github.com/chatimovel/painel-server/internal/domain/conversation"
	"github.com/chatimovel/painel-server/internal/domain/message"
	"github.com/chatimovel/painel-server/internal/domain/user"
)

// Watcher selects the conversation the realtime reconciler keeps message
// caches hot for. Satisfied by store.Reconciler.
type Watcher interface {
	SetWatched(convID string)
}

// ConversationHandler handles conversation and message HTTP requests.
type ConversationHandler struct {
	conversations *conversation.Service
	messages      *message.Service
	users         *user.Service
	watcher       Watcher
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(conversations *conversation.Service, messages *message.Service, users *user.Service, watcher Watcher) *ConversationHandler {
	return &ConversationHandler{
		conversations: conversations,
		messages:      messages,
		users:         users,
		watcher:       watcher,
	}
}

// List returns the filtered conversation list with full-set counts.
func (h *ConversationHandler) List(ctx context.Context, category conversation.Category, search string) ([]conversation.Conversation, conversation.Counts, error) {
	return h.conversations.List(ctx, category, search)
}

// Messages returns one conversation's history. Opening a conversation makes
// it the watched one: realtime events for it invalidate its message cache
// instead of being ignored.
func (h *ConversationHandler) Messages(ctx context.Context, convID string) ([]message.Message, error) {
	h.watcher.SetWatched(convID)
	return h.messages.History(ctx, convID)
}

// UpdateStatus moves a conversation to a new handling state.
func (h *ConversationHandler) UpdateStatus(ctx context.Context, convID string, status conversation.Status) (conversation.Status, error) {
	return h.conversations.UpdateStatus(ctx, convID, status)
}

// Send delivers an operator message, resolving the operator's usuarios row
// from the authenticated subject. A subject with no row still sends: the
// automation treats a missing operator id as an anonymous panel message.
func (h *ConversationHandler) Send(ctx context.Context, convID, text, authID string) error {
	operatorID := ""
	if authID != "" {
		id, err := h.users.OperatorID(ctx, authID)
		switch {
		case err == nil:
			operatorID = id
		case errors.Is(err, user.ErrNotFound):
		default:
			return err
		}
	}
	return h.messages.Send(ctx, convID, text, operatorID)
}
