package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatimovel/painel-server/internal/domain/conversation"
	"github.com/chatimovel/painel-server/internal/domain/message"
	"github.com/chatimovel/painel-server/internal/infrastructure/realtime"
)

// fakeFeed replays a fixed set of events and tracks teardown calls.
type fakeFeed struct {
	events  chan realtime.ChangeEvent
	started int
	stopped int
}

func newFakeFeed(events ...realtime.ChangeEvent) *fakeFeed {
	ch := make(chan realtime.ChangeEvent, len(events))
	for _, e := range events {
		ch <- e
	}
	return &fakeFeed{events: ch}
}

func (f *fakeFeed) Start(ctx context.Context) { f.started++ }
func (f *fakeFeed) Stop() {
	f.stopped++
	close(f.events)
}
func (f *fakeFeed) Events() <-chan realtime.ChangeEvent { return f.events }

func messageEvent(t *testing.T, convID, content string, at time.Time) realtime.ChangeEvent {
	t.Helper()
	record, err := json.Marshal(map[string]any{
		"id":          "m1",
		"id_conversa": convID,
		"conteudo":    content,
		"criada_em":   at.Format(time.RFC3339),
		"origem":      "agent",
	})
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	return realtime.ChangeEvent{Table: realtime.TableMessages, Op: realtime.OpInsert, Record: record}
}

func newReconcilerUnderTest(convs ...conversation.Conversation) (*Reconciler, *ConversationCache, *MessageCache) {
	convCache := NewConversationCache(zerolog.Nop())
	convCache.ReplaceAll(convs)
	msgCache := NewMessageCache()
	r := NewReconciler(newFakeFeed(), convCache, msgCache, zerolog.Nop())
	return r, convCache, msgCache
}

func TestApplyMessageEventPatchesKnownConversation(t *testing.T) {
	r, convCache, _ := newReconcilerUnderTest(
		conversation.Conversation{ID: "c1"},
		conversation.Conversation{ID: "c2", UnreadCount: 2},
	)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r.apply(messageEvent(t, "c2", "oi", at))

	items, fresh := convCache.Snapshot()
	if !fresh {
		t.Fatal("in-place patch must not mark the list stale")
	}
	if items[0].ID != "c2" || items[0].UnreadCount != 3 {
		t.Fatalf("unexpected head entry: %+v", items[0])
	}
}

func TestApplyMessageEventUnknownConversationMarksStale(t *testing.T) {
	r, convCache, _ := newReconcilerUnderTest(conversation.Conversation{ID: "c1"})

	r.apply(messageEvent(t, "brand-new", "oi", time.Now()))

	if convCache.Fresh() {
		t.Fatal("expected stale list for unknown conversation")
	}
	if convCache.Len() != 1 {
		t.Fatal("event must not fabricate a cache entry")
	}
}

func TestApplyMessageEventInvalidatesWatchedMessages(t *testing.T) {
	r, _, msgCache := newReconcilerUnderTest(conversation.Conversation{ID: "c1"})
	msgCache.Put("c1", []message.Message{{ID: "m0"}})
	msgCache.Put("c9", []message.Message{{ID: "m9"}})
	r.SetWatched("c1")

	r.apply(messageEvent(t, "c1", "oi", time.Now()))

	if _, fresh := msgCache.Get("c1"); fresh {
		t.Fatal("watched conversation's messages must be invalidated")
	}
	if _, fresh := msgCache.Get("c9"); !fresh {
		t.Fatal("other conversations' messages must be left alone")
	}
}

func TestApplyMessageEventIgnoresUnwatchedMessages(t *testing.T) {
	r, _, msgCache := newReconcilerUnderTest(conversation.Conversation{ID: "c1"})
	msgCache.Put("c1", []message.Message{{ID: "m0"}})
	r.SetWatched("c9")

	r.apply(messageEvent(t, "c1", "oi", time.Now()))

	if _, fresh := msgCache.Get("c1"); !fresh {
		t.Fatal("unwatched conversation's messages must stay cached")
	}
}

func TestApplyConversationEventAlwaysMarksStale(t *testing.T) {
	r, convCache, _ := newReconcilerUnderTest(conversation.Conversation{ID: "c1", Status: conversation.StatusUnresolved})

	record, _ := json.Marshal(map[string]string{"id": "c1", "status": "resolvida"})
	r.apply(realtime.ChangeEvent{Table: realtime.TableConversations, Op: realtime.OpUpdate, Record: record})

	// Even a patchable-looking payload goes through a full refetch: category
	// membership and counts may have changed.
	if convCache.Fresh() {
		t.Fatal("conversation events must mark the list stale")
	}
}

func TestStartStopLifecycle(t *testing.T) {
	feed := newFakeFeed(messageEvent(t, "c1", "oi", time.Now()))
	convCache := NewConversationCache(zerolog.Nop())
	convCache.ReplaceAll([]conversation.Conversation{{ID: "c1"}})
	r := NewReconciler(feed, convCache, NewMessageCache(), zerolog.Nop())

	ctx := context.Background()
	r.Start(ctx)
	r.Start(ctx) // second call is a no-op
	r.Stop()
	r.Stop() // second call is a no-op

	if feed.started != 1 {
		t.Fatalf("feed started %d times", feed.started)
	}
	if feed.stopped != 1 {
		t.Fatalf("feed stopped %d times", feed.stopped)
	}

	// The buffered event was applied before Stop returned.
	items, _ := convCache.Snapshot()
	if items[0].UnreadCount != 1 {
		t.Fatalf("expected the queued event to be applied, got %+v", items[0])
	}
}
