// Package realtime consumes the hosted backend's row-change feed over
// websocket and exposes it as a channel of typed change events.
package realtime

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/chatimovel/painel-server/internal/config"
	"github.com/chatimovel/painel-server/internal/infrastructure/metrics"
)

const joinTopic = "realtime:painel"

// Feed maintains one subscription to the change feed for the mensagens and
// conversas tables. Reconnection lives here, in the transport; consumers only
// see the event channel and must tolerate gaps after a redial.
type Feed struct {
	cfg       *config.Config
	log       zerolog.Logger
	events    chan ChangeEvent
	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewFeed creates a change feed for the configured backend.
func NewFeed(cfg *config.Config, log zerolog.Logger) *Feed {
	return &Feed{
		cfg:    cfg,
		log:    log.With().Str("component", "realtime-feed").Logger(),
		events: make(chan ChangeEvent, 64),
		done:   make(chan struct{}),
	}
}

// Events returns the channel of parsed change events. Closed on Stop.
func (f *Feed) Events() <-chan ChangeEvent {
	return f.events
}

// Start begins the subscription loop in background.
// Safe to call multiple times - only the first call starts the feed.
func (f *Feed) Start(ctx context.Context) {
	f.startOnce.Do(func() {
		if !f.cfg.RealtimeEnabled {
			f.log.Info().Msg("realtime feed disabled, caches refresh on demand only")
			return
		}
		f.wg.Add(1)
		go f.run(ctx)
		f.log.Info().Msg("realtime feed started")
	})
}

// Stop closes the subscription exactly once and waits for the read loop to
// drain. No events are delivered after Stop returns.
func (f *Feed) Stop() {
	f.stopOnce.Do(func() {
		close(f.done)
		f.wg.Wait()
		close(f.events)
		f.log.Info().Msg("realtime feed stopped")
	})
}

func (f *Feed) run(ctx context.Context) {
	defer f.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-f.done:
			return
		default:
		}

		if err := f.session(ctx); err != nil {
			f.log.Warn().Err(err).Msg("feed connection lost, redialing")
			metrics.FeedReconnects.Inc()
		}

		select {
		case <-ctx.Done():
			return
		case <-f.done:
			return
		case <-time.After(f.cfg.RealtimeRedialDelay):
		}
	}
}

// session runs one websocket connection: dial, join, heartbeat, read until
// failure or shutdown.
func (f *Feed) session(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, f.cfg.RealtimeURL(), nil)
	cancel()
	if err != nil {
		return err
	}
	defer conn.Close()

	var writeMu sync.Mutex
	ref := 0
	send := func(env envelope) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		ref++
		env.Ref = strconv.Itoa(ref)
		return conn.WriteJSON(env)
	}

	if err := send(joinEnvelope()); err != nil {
		return err
	}
	f.log.Info().Str("topic", joinTopic).Msg("subscribed to change feed")

	// The heartbeat goroutine doubles as the shutdown watcher: closing the
	// connection is the only way to unblock a pending ReadMessage.
	heartbeatDone := make(chan struct{})
	defer close(heartbeatDone)
	go func() {
		ticker := time.NewTicker(f.cfg.RealtimeHeartbeat)
		defer ticker.Stop()
		for {
			select {
			case <-heartbeatDone:
				return
			case <-ctx.Done():
				conn.Close()
				return
			case <-f.done:
				conn.Close()
				return
			case <-ticker.C:
				if err := send(envelope{Topic: "phoenix", Event: "heartbeat", Payload: json.RawMessage(`{}`)}); err != nil {
					return
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-f.done:
			return nil
		default:
		}

		conn.SetReadDeadline(time.Now().Add(2 * f.cfg.RealtimeHeartbeat))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-f.done:
				return nil
			default:
				return err
			}
		}

		event, ok := parseChange(raw)
		if !ok {
			continue
		}

		metrics.RealtimeEvents.WithLabelValues(event.Table, event.Op).Inc()
		select {
		case f.events <- event:
		case <-f.done:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func joinEnvelope() envelope {
	payload := map[string]any{
		"config": map[string]any{
			"postgres_changes": []map[string]string{
				{"event": "*", "schema": "public", "table": TableMessages},
				{"event": "*", "schema": "public", "table": TableConversations},
			},
		},
	}
	raw, _ := json.Marshal(payload)
	return envelope{Topic: joinTopic, Event: "phx_join", Payload: raw}
}
