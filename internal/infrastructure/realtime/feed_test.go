package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/chatimovel/painel-server/internal/config"
)

// silentFeedServer accepts the websocket upgrade, consumes the join frame and
// then sends nothing, leaving the client blocked in its read.
func silentFeedServer(t *testing.T) (*httptest.Server, <-chan struct{}) {
	t.Helper()
	joined := make(chan struct{})
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		close(joined)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	return srv, joined
}

func TestStopReturnsBeforeReadDeadline(t *testing.T) {
	srv, joined := silentFeedServer(t)
	defer srv.Close()

	heartbeat := 2 * time.Second
	cfg := &config.Config{
		BackendURL:          srv.URL,
		BackendKey:          "anon",
		RealtimeEnabled:     true,
		RealtimeHeartbeat:   heartbeat,
		RealtimeRedialDelay: time.Second,
	}
	feed := NewFeed(cfg, zerolog.Nop())
	feed.Start(context.Background())

	select {
	case <-joined:
	case <-time.After(5 * time.Second):
		t.Fatal("feed never subscribed")
	}

	start := time.Now()
	feed.Stop()
	elapsed := time.Since(start)

	// The read deadline is 2x the heartbeat; a prompt close must not wait
	// for it.
	if elapsed >= heartbeat {
		t.Fatalf("Stop took %v with heartbeat %v", elapsed, heartbeat)
	}

	if _, open := <-feed.Events(); open {
		t.Fatal("events channel left open after Stop")
	}
}

func TestStopOnContextCancel(t *testing.T) {
	srv, joined := silentFeedServer(t)
	defer srv.Close()

	cfg := &config.Config{
		BackendURL:          srv.URL,
		BackendKey:          "anon",
		RealtimeEnabled:     true,
		RealtimeHeartbeat:   2 * time.Second,
		RealtimeRedialDelay: time.Second,
	}
	ctx, cancel := context.WithCancel(context.Background())
	feed := NewFeed(cfg, zerolog.Nop())
	feed.Start(ctx)

	select {
	case <-joined:
	case <-time.After(5 * time.Second):
		t.Fatal("feed never subscribed")
	}

	cancel()
	start := time.Now()
	feed.Stop()
	if elapsed := time.Since(start); elapsed >= 2*time.Second {
		t.Fatalf("Stop took %v after cancel", elapsed)
	}
}
