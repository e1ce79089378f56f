package store

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatimovel/painel-server/internal/domain/conversation"
)

func seedCache(t *testing.T, items ...conversation.Conversation) *ConversationCache {
	t.Helper()
	cache := NewConversationCache(zerolog.Nop())
	cache.ReplaceAll(items)
	return cache
}

func TestApplyMessagePatchMovesEntryToFront(t *testing.T) {
	cache := seedCache(t,
		conversation.Conversation{ID: "c1", UnreadCount: 0},
		conversation.Conversation{ID: "c2", UnreadCount: 2},
	)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if !cache.ApplyMessagePatch("c2", "nova mensagem", at) {
		t.Fatal("expected patch to find c2")
	}

	items, fresh := cache.Snapshot()
	if !fresh {
		t.Fatal("patch must not mark the cache stale")
	}
	if len(items) != 2 {
		t.Fatalf("cache size changed: %d", len(items))
	}
	if items[0].ID != "c2" || items[1].ID != "c1" {
		t.Fatalf("unexpected order: %s, %s", items[0].ID, items[1].ID)
	}
	if items[0].UnreadCount != 3 {
		t.Fatalf("unread = %d, want 3", items[0].UnreadCount)
	}
	if items[0].Preview != "nova mensagem" || !items[0].LastInteraction.Equal(at) {
		t.Fatalf("patch fields not applied: %+v", items[0])
	}
	if items[1].UnreadCount != 0 {
		t.Fatalf("untouched entry mutated: %+v", items[1])
	}
}

func TestApplyMessagePatchFrontEntry(t *testing.T) {
	cache := seedCache(t,
		conversation.Conversation{ID: "c1", UnreadCount: 1},
		conversation.Conversation{ID: "c2"},
	)

	if !cache.ApplyMessagePatch("c1", "oi", time.Now()) {
		t.Fatal("expected patch to find c1")
	}

	items, _ := cache.Snapshot()
	if items[0].ID != "c1" || items[0].UnreadCount != 2 {
		t.Fatalf("front entry patch wrong: %+v", items[0])
	}
	if len(items) != 2 {
		t.Fatalf("cache size changed: %d", len(items))
	}
}

func TestApplyMessagePatchUnknownConversation(t *testing.T) {
	cache := seedCache(t, conversation.Conversation{ID: "c1"})

	if cache.ApplyMessagePatch("missing", "oi", time.Now()) {
		t.Fatal("patch must not fabricate an entry")
	}
	if cache.Len() != 1 {
		t.Fatalf("cache size changed: %d", cache.Len())
	}
}

func TestMarkStaleForcesRefetch(t *testing.T) {
	cache := seedCache(t, conversation.Conversation{ID: "c1"})
	if !cache.Fresh() {
		t.Fatal("expected fresh cache after ReplaceAll")
	}

	cache.MarkStale()
	if cache.Fresh() {
		t.Fatal("expected stale cache")
	}
	if _, fresh := cache.Snapshot(); fresh {
		t.Fatal("snapshot must report staleness")
	}

	cache.ReplaceAll([]conversation.Conversation{{ID: "c1"}, {ID: "c3"}})
	if !cache.Fresh() {
		t.Fatal("refetch must clear staleness")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	cache := seedCache(t, conversation.Conversation{ID: "c1", Preview: "original"})

	items, _ := cache.Snapshot()
	items[0].Preview = "mutated"

	again, _ := cache.Snapshot()
	if again[0].Preview != "original" {
		t.Fatal("snapshot leaked cache internals")
	}
}
