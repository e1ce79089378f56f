package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/chatimovel/painel-server/internal/infrastructure/metrics"
	"github.com/chatimovel/painel-server/internal/infrastructure/realtime"
)

// Source is the change feed the reconciler consumes. Satisfied by
// realtime.Feed.
type Source interface {
	Start(ctx context.Context)
	Stop()
	Events() <-chan realtime.ChangeEvent
}

// Reconciler keeps the conversation and message caches consistent with the
// change feed, patching in place when possible and marking stale otherwise.
// Lifecycle mirrors the feed's: Start once, Stop once; Stop guarantees no
// cache write happens after it returns.
type Reconciler struct {
	feed  Source
	convs *ConversationCache
	msgs  *MessageCache
	log   zerolog.Logger

	watchedMu sync.RWMutex
	watched   string

	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewReconciler creates a reconciler over the given feed and caches.
func NewReconciler(feed Source, convs *ConversationCache, msgs *MessageCache, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		feed:  feed,
		convs: convs,
		msgs:  msgs,
		log:   log.With().Str("component", "reconciler").Logger(),
	}
}

// Start subscribes to the feed and begins applying events in background.
// Safe to call multiple times - only the first call starts the reconciler.
func (r *Reconciler) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		r.feed.Start(ctx)
		r.wg.Add(1)
		go r.run()
		r.log.Info().Msg("reconciler started")
	})
}

// Stop tears the subscription down exactly once and waits until the apply
// loop has drained.
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() {
		r.feed.Stop()
		r.wg.Wait()
		r.log.Info().Msg("reconciler stopped")
	})
}

// SetWatched selects the conversation whose message cache is invalidated on
// incoming message events. Empty clears the selection; events for other
// conversations never touch a message cache.
func (r *Reconciler) SetWatched(convID string) {
	r.watchedMu.Lock()
	defer r.watchedMu.Unlock()
	r.watched = convID
}

// Watched returns the currently selected conversation ID.
func (r *Reconciler) Watched() string {
	r.watchedMu.RLock()
	defer r.watchedMu.RUnlock()
	return r.watched
}

func (r *Reconciler) run() {
	defer r.wg.Done()

	// Events are applied in delivery order. Events for the same conversation
	// delivered out of order are not reorder-corrected: last writer wins on
	// timestamp and preview.
	for event := range r.feed.Events() {
		r.apply(event)
	}
}

// apply patches the caches for one change event. Free of transport and view
// concerns so it can be exercised directly in tests.
func (r *Reconciler) apply(event realtime.ChangeEvent) {
	switch event.Table {
	case realtime.TableMessages:
		rec, err := event.DecodeMessage()
		if err != nil || rec.ConversationID == "" {
			r.log.Warn().Err(err).Msg("undecodable message event, refetching list")
			r.convs.MarkStale()
			metrics.CacheInvalidations.WithLabelValues("conversations").Inc()
			return
		}

		if rec.ConversationID == r.Watched() {
			r.msgs.Invalidate(rec.ConversationID)
			metrics.CacheInvalidations.WithLabelValues("messages").Inc()
		}

		if r.convs.ApplyMessagePatch(rec.ConversationID, rec.Content, rec.CreatedAt) {
			metrics.CachePatches.Inc()
			return
		}

		// Unknown conversation, likely brand new. A partial patch cannot
		// fabricate the entry, so force a full refetch.
		r.convs.MarkStale()
		metrics.CacheInvalidations.WithLabelValues("conversations").Inc()

	case realtime.TableConversations:
		// Status and metadata changes can move a conversation between
		// categories; counts are only correct after a full refetch.
		r.convs.MarkStale()
		metrics.CacheInvalidations.WithLabelValues("conversations").Inc()

	default:
		r.log.Debug().Str("table", event.Table).Msg("ignoring event for unknown table")
	}
}
