package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/chatimovel/painel-server/internal/infrastructure/metrics"
)

// listPath fetches every conversation with the customer join, newest
// interaction first, nulls last. The full set is fetched once and patched
// incrementally; counts are recomputed locally on every read.
const listPath = "conversas?select=*,usuarios(nome,tipo,role)&order=ultima_interacao.desc.nullslast"

var (
	// ErrInvalidStatus is returned for status values outside the state machine.
	ErrInvalidStatus = errors.New("invalid conversation status")
	// ErrNotFound is returned when a conversation does not exist.
	ErrNotFound = errors.New("conversation not found")
)

// Gateway is the slice of the REST client the service needs.
type Gateway interface {
	Get(ctx context.Context, path string, out any) error
	Patch(ctx context.Context, path string, body any) error
}

// ListCache is the conversation list cache. Satisfied by
// store.ConversationCache.
type ListCache interface {
	ReplaceAll(items []Conversation)
	Snapshot() ([]Conversation, bool)
	MarkStale()
}

// MessageInvalidator invalidates a conversation's cached messages.
// Satisfied by store.MessageCache.
type MessageInvalidator interface {
	Invalidate(convID string)
}

// Service owns conversation reads and status transitions.
type Service struct {
	gw    Gateway
	cache ListCache
	msgs  MessageInvalidator
	group singleflight.Group
	log   zerolog.Logger
}

// NewService creates a conversation service.
func NewService(gw Gateway, cache ListCache, msgs MessageInvalidator, log zerolog.Logger) *Service {
	return &Service{
		gw:    gw,
		cache: cache,
		msgs:  msgs,
		log:   log.With().Str("component", "conversations").Logger(),
	}
}

// conversationRow is the backend's row shape, customer record joined in.
type conversationRow struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	Channel         string     `json:"canal"`
	LastInteraction *time.Time `json:"ultima_interacao"`
	Preview         string     `json:"preview"`
	UnreadCount     int        `json:"mensagens_nao_lidas"`
	Customer        *struct {
		Name string `json:"nome"`
		Type string `json:"tipo"`
		Role string `json:"role"`
	} `json:"usuarios"`
}

// toConversation derives display fields once, at fetch time.
func (r conversationRow) toConversation() Conversation {
	conv := Conversation{
		ID:           r.ID,
		CustomerName: DefaultCustomerName,
		Status:       ParseStatus(r.Status),
		Channel:      r.Channel,
		Preview:      r.Preview,
		UnreadCount:  r.UnreadCount,
	}
	if r.Customer != nil && r.Customer.Name != "" {
		conv.CustomerName = r.Customer.Name
	}
	if conv.Channel == "" {
		conv.Channel = DefaultChannel
	}
	if r.LastInteraction != nil {
		conv.LastInteraction = *r.LastInteraction
	}
	if conv.UnreadCount < 0 {
		conv.UnreadCount = 0
	}
	return conv
}

// List returns the conversations matching category and search plus the
// per-category counts over the unfiltered set. Switching categories never
// refetches: only a stale cache does.
func (s *Service) List(ctx context.Context, category Category, search string) ([]Conversation, Counts, error) {
	items, fresh := s.cache.Snapshot()
	if !fresh {
		refetched, err := s.refetch(ctx)
		if err != nil {
			return nil, Counts{}, err
		}
		items = refetched
	}

	return Filter(items, category, search), CountAll(items), nil
}

// Get returns one conversation, from cache when fresh.
func (s *Service) Get(ctx context.Context, convID string) (Conversation, error) {
	items, fresh := s.cache.Snapshot()
	if !fresh {
		refetched, err := s.refetch(ctx)
		if err != nil {
			return Conversation{}, err
		}
		items = refetched
	}

	for _, c := range items {
		if c.ID == convID {
			return c, nil
		}
	}
	return Conversation{}, ErrNotFound
}

// UpdateStatus transitions a conversation and invalidates the affected
// caches. Any of the three concrete states is a valid target from any state.
// The new status is returned for optimistic UI updates.
func (s *Service) UpdateStatus(ctx context.Context, convID string, status Status) (Status, error) {
	if !status.Assignable() {
		return "", ErrInvalidStatus
	}

	path := "conversas?id=eq." + convID
	if err := s.gw.Patch(ctx, path, map[string]string{"status": string(status)}); err != nil {
		return "", err
	}

	s.cache.MarkStale()
	s.msgs.Invalidate(convID)
	metrics.CacheInvalidations.WithLabelValues("conversations").Inc()

	s.log.Info().
		Str("conversation_id", convID).
		Str("status", string(status)).
		Msg("conversation status updated")
	return status, nil
}

// MarkStale flags the list for refetch. Used by collaborators whose
// mutations affect the list indirectly.
func (s *Service) MarkStale() {
	s.cache.MarkStale()
}

// refetch loads the full set from the backend, deduplicating concurrent
// callers through singleflight so one stale read means one query.
func (s *Service) refetch(ctx context.Context) ([]Conversation, error) {
	result, err, _ := s.group.Do("conversations", func() (any, error) {
		var rows []conversationRow
		if err := s.gw.Get(ctx, listPath, &rows); err != nil {
			return nil, err
		}

		items := make([]Conversation, 0, len(rows))
		for _, row := range rows {
			items = append(items, row.toConversation())
		}

		s.cache.ReplaceAll(items)
		metrics.CacheRefetches.WithLabelValues("conversations").Inc()
		s.log.Debug().Int("count", len(items)).Msg("conversation list refetched")
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]Conversation), nil
}
