// Package responses contains the HTTP response DTOs for the panel API.
package responses

import (
	"github.com/chatimovel/painel-server/internal/domain/conversation"
	"github.com/chatimovel/painel-server/internal/domain/dashboard"
	"github.com/chatimovel/painel-server/internal/domain/message"
	"github.com/chatimovel/painel-server/internal/domain/session"
	"github.com/chatimovel/painel-server/internal/domain/user"
	"github.com/chatimovel/painel-server/internal/utils/phone"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// ConversationListResponse is the conversation list with its category
// counts. Counts always cover the full set regardless of the filter.
type ConversationListResponse struct {
	Conversations []conversation.Conversation `json:"data"`
	Counts        conversation.Counts         `json:"counts"`
}

// NewConversationListResponse builds the list response.
func NewConversationListResponse(list []conversation.Conversation, counts conversation.Counts) ConversationListResponse {
	return ConversationListResponse{Conversations: list, Counts: counts}
}

// MessageListResponse is one conversation's message history.
type MessageListResponse struct {
	Messages []message.Message `json:"messages"`
}

// StatusResponse reports a conversation's status after an update.
type StatusResponse struct {
	ID     string              `json:"id"`
	Status conversation.Status `json:"status"`
}

// SentResponse acknowledges an accepted operator message.
type SentResponse struct {
	Delivered bool `json:"delivered"`
}

// SessionResponse is the authenticated state returned on login.
type SessionResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   string          `json:"expires_at"`
	Profile     session.Profile `json:"profile"`
}

// NewSessionResponse builds the login response.
func NewSessionResponse(sess *session.Session) SessionResponse {
	return SessionResponse{
		AccessToken: sess.AccessToken,
		ExpiresAt:   sess.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Profile:     sess.Profile,
	}
}

// UserResponse is a user row with the phone formatted for display.
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"nome"`
	Phone     string `json:"telefone"`
	Email     string `json:"email,omitempty"`
	Type      string `json:"tipo"`
	Role      string `json:"role,omitempty"`
	Active    bool   `json:"ativo"`
	CreatedAt string `json:"criado_em"`
}

// NewUserResponse builds a display user from a backend row.
func NewUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Phone:     phone.Format(u.Phone),
		Email:     u.Email,
		Type:      u.Type,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// UserListResponse is the user listing.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

// NewUserListResponse builds the user listing.
func NewUserListResponse(users []user.User) UserListResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return UserListResponse{Users: out}
}

// MetricsResponse wraps the dashboard indicators.
type MetricsResponse struct {
	Metrics dashboard.Metrics `json:"metrics"`
}
