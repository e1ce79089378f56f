// Package store holds the in-memory caches that back the panel views and the
// reconciler that keeps them consistent with the realtime change feed.
package store

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatimovel/painel-server/internal/domain/conversation"
)

// ConversationCache is the mutex-guarded conversation list cache. Entries are
// unique by ID and kept most-recently-interacted-first; incremental patches
// preserve that order by re-fronting the touched entry in the same write.
type ConversationCache struct {
	mu     sync.RWMutex
	items  []conversation.Conversation
	loaded bool
	stale  bool
	log    zerolog.Logger
}

// NewConversationCache creates an empty, stale cache.
func NewConversationCache(log zerolog.Logger) *ConversationCache {
	return &ConversationCache{
		log: log.With().Str("component", "conversation-cache").Logger(),
	}
}

// ReplaceAll installs a freshly fetched conversation list.
func (c *ConversationCache) ReplaceAll(items []conversation.Conversation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make([]conversation.Conversation, len(items))
	copy(c.items, items)
	c.loaded = true
	c.stale = false
}

// Snapshot returns a copy of the cached list and whether it is fresh.
// Readers never observe a half-applied patch: copies are taken under the
// read lock and patches run under the write lock.
func (c *ConversationCache) Snapshot() ([]conversation.Conversation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]conversation.Conversation, len(c.items))
	copy(out, c.items)
	return out, c.loaded && !c.stale
}

// ApplyMessagePatch updates the entry for convID from a message event: new
// preview and last-interaction timestamp, unread counter incremented by one,
// entry moved to the front. The whole patch is one atomic write. Returns
// false when the conversation is not cached; callers must then mark the
// cache stale instead of fabricating an entry.
func (c *ConversationCache) ApplyMessagePatch(convID, preview string, at time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i := range c.items {
		if c.items[i].ID == convID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	patched := c.items[idx]
	patched.Preview = preview
	patched.LastInteraction = at
	patched.UnreadCount++

	copy(c.items[1:idx+1], c.items[:idx])
	c.items[0] = patched

	c.log.Debug().Str("conversation_id", convID).Msg("patched conversation in place")
	return true
}

// MarkStale flags the cache for a full refetch on next read.
func (c *ConversationCache) MarkStale() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stale = true
}

// Fresh reports whether the cache holds loaded, non-stale data.
func (c *ConversationCache) Fresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded && !c.stale
}

// Len returns the number of cached conversations.
func (c *ConversationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
