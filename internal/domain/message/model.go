package message

import (
	"strings"
	"time"
)

// Origin tags who authored a message.
const (
	OriginAgent    = "agent"  // automated agent
	OriginPanel    = "painel" // operator via this panel
	OriginCustomer = "customer"
)

// DefaultSenderName is shown when a message has no joined user record,
// which means the automated agent authored it.
const DefaultSenderName = "IA Agente Imobiliário"

// Message is one immutable chat message, fetched in ascending timestamp
// order per conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	Origin         string    `json:"origin"`
	SenderName     string    `json:"sender_name"`
}

// NormalizeContent converts literal escaped newlines in stored content into
// real newlines. The automation pipeline persists them escaped.
func NormalizeContent(content string) string {
	return strings.ReplaceAll(content, `\n`, "\n")
}
