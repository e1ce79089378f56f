package store

import (
	"sync"

	"github.com/chatimovel/painel-server/internal/domain/message"
)

// MessageCache caches each conversation's message history. Invalidation is
// per conversation; a stale entry forces a refetch on next read.
type MessageCache struct {
	mu     sync.RWMutex
	byConv map[string][]message.Message
	stale  map[string]bool
}

// NewMessageCache creates an empty message cache.
func NewMessageCache() *MessageCache {
	return &MessageCache{
		byConv: make(map[string][]message.Message),
		stale:  make(map[string]bool),
	}
}

// Get returns a copy of the cached messages for convID and whether the entry
// is fresh.
func (c *MessageCache) Get(convID string) ([]message.Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	msgs, ok := c.byConv[convID]
	if !ok || c.stale[convID] {
		return nil, false
	}
	out := make([]message.Message, len(msgs))
	copy(out, msgs)
	return out, true
}

// Put installs a freshly fetched message list for convID.
func (c *MessageCache) Put(convID string, msgs []message.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]message.Message, len(msgs))
	copy(stored, msgs)
	c.byConv[convID] = stored
	delete(c.stale, convID)
}

// Invalidate marks convID's entry stale.
func (c *MessageCache) Invalidate(convID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byConv[convID]; ok {
		c.stale[convID] = true
	}
}
