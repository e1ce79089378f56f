package conversation

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

type fakeGateway struct {
	listJSON   string
	getCalls   int
	patchCalls int
	patchPath  string
	patchBody  any
}

func (g *fakeGateway) Get(_ context.Context, _ string, out any) error {
	g.getCalls++
	return json.Unmarshal([]byte(g.listJSON), out)
}

func (g *fakeGateway) Patch(_ context.Context, path string, body any) error {
	g.patchCalls++
	g.patchPath = path
	g.patchBody = body
	return nil
}

type fakeListCache struct {
	items []Conversation
	fresh bool
	stale int
}

func (c *fakeListCache) ReplaceAll(items []Conversation) {
	c.items = items
	c.fresh = true
}

func (c *fakeListCache) Snapshot() ([]Conversation, bool) {
	return c.items, c.fresh
}

func (c *fakeListCache) MarkStale() {
	c.fresh = false
	c.stale++
}

type fakeInvalidator struct {
	invalidated []string
}

func (i *fakeInvalidator) Invalidate(convID string) {
	i.invalidated = append(i.invalidated, convID)
}

const listFixture = `[
	{"id": "c1", "status": "humano_solicitado", "canal": "whatsapp",
	 "preview": "oi", "mensagens_nao_lidas": 2,
	 "usuarios": {"nome": "Maria Souza", "tipo": "usuario"}},
	{"id": "c2", "status": "pendente", "canal": "",
	 "preview": "", "mensagens_nao_lidas": -1, "usuarios": null}
]`

func newTestService(gw *fakeGateway) (*Service, *fakeListCache, *fakeInvalidator) {
	cache := &fakeListCache{}
	msgs := &fakeInvalidator{}
	return NewService(gw, cache, msgs, zerolog.Nop()), cache, msgs
}

func TestListRefetchesOnlyWhenStale(t *testing.T) {
	gw := &fakeGateway{listJSON: listFixture}
	svc, _, _ := newTestService(gw)

	list, counts, err := svc.List(context.Background(), CategoryAll, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || counts.All != 2 {
		t.Fatalf("unexpected first read: %d items, counts %+v", len(list), counts)
	}
	if gw.getCalls != 1 {
		t.Fatalf("expected one fetch, got %d", gw.getCalls)
	}

	// Category switches serve from cache.
	if _, _, err := svc.List(context.Background(), CategoryHumanRequested, ""); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.List(context.Background(), CategoryResolved, "maria"); err != nil {
		t.Fatal(err)
	}
	if gw.getCalls != 1 {
		t.Fatalf("category switch refetched: %d calls", gw.getCalls)
	}

	svc.MarkStale()
	if _, _, err := svc.List(context.Background(), CategoryAll, ""); err != nil {
		t.Fatal(err)
	}
	if gw.getCalls != 2 {
		t.Fatalf("stale read must refetch: %d calls", gw.getCalls)
	}
}

func TestListDerivesDisplayDefaults(t *testing.T) {
	gw := &fakeGateway{listJSON: listFixture}
	svc, _, _ := newTestService(gw)

	list, _, err := svc.List(context.Background(), CategoryAll, "")
	if err != nil {
		t.Fatal(err)
	}

	c2 := list[1]
	if c2.CustomerName != DefaultCustomerName {
		t.Fatalf("missing customer fallback: %q", c2.CustomerName)
	}
	if c2.Channel != DefaultChannel {
		t.Fatalf("missing channel fallback: %q", c2.Channel)
	}
	if c2.Status != StatusUndefined {
		t.Fatalf("unknown status must map to undefined: %q", c2.Status)
	}
	if c2.UnreadCount != 0 {
		t.Fatalf("negative unread must clamp to zero: %d", c2.UnreadCount)
	}
}

func TestCountsCoverFullSetRegardlessOfFilter(t *testing.T) {
	gw := &fakeGateway{listJSON: listFixture}
	svc, _, _ := newTestService(gw)

	list, counts, err := svc.List(context.Background(), CategoryHumanRequested, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("filter failed: %+v", list)
	}
	if counts.All != 2 || counts.HumanRequested != 1 {
		t.Fatalf("counts must span the unfiltered set: %+v", counts)
	}
}

func TestGetUnknownConversation(t *testing.T) {
	gw := &fakeGateway{listJSON: listFixture}
	svc, _, _ := newTestService(gw)

	if _, err := svc.Get(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateStatusRejectsInvalidTarget(t *testing.T) {
	gw := &fakeGateway{listJSON: listFixture}
	svc, _, _ := newTestService(gw)

	if _, err := svc.UpdateStatus(context.Background(), "c1", StatusUndefined); err != ErrInvalidStatus {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), "c1", Status("pendente")); err != ErrInvalidStatus {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	if gw.patchCalls != 0 {
		t.Fatal("invalid status must not reach the backend")
	}
}

func TestUpdateStatusPatchesAndInvalidates(t *testing.T) {
	gw := &fakeGateway{listJSON: listFixture}
	svc, cache, msgs := newTestService(gw)

	status, err := svc.UpdateStatus(context.Background(), "c1", StatusResolved)
	if err != nil {
		t.Fatal(err)
	}
	if status != StatusResolved {
		t.Fatalf("status = %q", status)
	}
	if gw.patchPath != "conversas?id=eq.c1" {
		t.Fatalf("patch path = %q", gw.patchPath)
	}
	if cache.stale != 1 {
		t.Fatalf("list must be marked stale once, got %d", cache.stale)
	}
	if len(msgs.invalidated) != 1 || msgs.invalidated[0] != "c1" {
		t.Fatalf("message cache invalidation: %v", msgs.invalidated)
	}
}
