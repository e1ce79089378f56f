package message

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatimovel/painel-server/internal/domain/conversation"
	"github.com/chatimovel/painel-server/internal/infrastructure/webhook"
)

var (
	// ErrAgentActive is returned when sending while the automated agent still
	// owns the conversation. The refusal happens before any network call.
	ErrAgentActive = errors.New("automated agent is active, pause it before messaging")
	// ErrEmptyMessage is returned for blank message text.
	ErrEmptyMessage = errors.New("message text is empty")
)

// Gateway is the slice of the REST client the service needs.
type Gateway interface {
	Get(ctx context.Context, path string, out any) error
}

// Cache is the per-conversation message cache. Satisfied by
// store.MessageCache.
type Cache interface {
	Get(convID string) ([]Message, bool)
	Put(convID string, msgs []Message)
	Invalidate(convID string)
}

// Conversations resolves the current status for send gating and takes the
// list invalidation after a successful send.
type Conversations interface {
	Get(ctx context.Context, convID string) (conversation.Conversation, error)
	MarkStale()
}

// Delivery posts an operator message to the automation webhook. Satisfied by
// webhook.Sender.
type Delivery interface {
	Send(ctx context.Context, msg webhook.OutboundMessage) error
}

// Service owns message reads and operator sends.
type Service struct {
	gw       Gateway
	cache    Cache
	convs    Conversations
	delivery Delivery
	log      zerolog.Logger
}

// NewService creates a message service.
func NewService(gw Gateway, cache Cache, convs Conversations, delivery Delivery, log zerolog.Logger) *Service {
	return &Service{
		gw:       gw,
		cache:    cache,
		convs:    convs,
		delivery: delivery,
		log:      log.With().Str("component", "messages").Logger(),
	}
}

// messageRow is the backend's row shape, sender record joined in.
type messageRow struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"id_conversa"`
	Content        string    `json:"conteudo"`
	CreatedAt      time.Time `json:"criada_em"`
	Origin         string    `json:"origem"`
	Sender         *struct {
		Name string `json:"nome"`
		Type string `json:"tipo"`
		Role string `json:"role"`
	} `json:"usuarios"`
}

func (r messageRow) toMessage() Message {
	msg := Message{
		ID:             r.ID,
		ConversationID: r.ConversationID,
		Content:        NormalizeContent(r.Content),
		CreatedAt:      r.CreatedAt,
		Origin:         r.Origin,
		SenderName:     DefaultSenderName,
	}
	if r.Sender != nil && r.Sender.Name != "" {
		msg.SenderName = r.Sender.Name
	}
	return msg
}

// History returns a conversation's messages in ascending timestamp order,
// refetching when the cached entry was invalidated.
func (s *Service) History(ctx context.Context, convID string) ([]Message, error) {
	if msgs, fresh := s.cache.Get(convID); fresh {
		return msgs, nil
	}

	path := "mensagens?id_conversa=eq." + convID +
		"&select=*,usuarios(nome,tipo,role)&order=criada_em.asc"
	var rows []messageRow
	if err := s.gw.Get(ctx, path, &rows); err != nil {
		return nil, err
	}

	msgs := make([]Message, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, row.toMessage())
	}
	s.cache.Put(convID, msgs)
	return msgs, nil
}

// Send delivers an operator message through the automation webhook. It is
// gated on the conversation's current status: unless a human has taken over
// (humano_solicitado), the send is refused with no network call so the
// caller can keep the typed text. The mensagens row is created by the
// automation, not here; the affected caches are invalidated so the next
// read picks it up.
func (s *Service) Send(ctx context.Context, convID, text, operatorID string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	conv, err := s.convs.Get(ctx, convID)
	if err != nil {
		return err
	}
	if conv.Status != conversation.StatusHumanRequested {
		return ErrAgentActive
	}

	err = s.delivery.Send(ctx, webhook.OutboundMessage{
		ConversationID: convID,
		Text:           text,
		Channel:        OriginPanel,
		OperatorID:     operatorID,
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(convID)
	s.convs.MarkStale()
	return nil
}
