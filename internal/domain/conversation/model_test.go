package conversation

import "testing"

func sampleList() []Conversation {
	return []Conversation{
		{ID: "c1", CustomerName: "Maria Souza", Status: StatusHumanRequested},
		{ID: "c2", CustomerName: "Cliente", Status: StatusUnresolved},
		{ID: "c3", CustomerName: "João Lima", Status: StatusResolved},
		{ID: "c4", CustomerName: "Maria Clara", Status: StatusUnresolved},
		{ID: "c5", CustomerName: "Cliente", Status: StatusUndefined},
	}
}

func TestCountAllCoversFullSet(t *testing.T) {
	counts := CountAll(sampleList())

	if counts.All != 5 {
		t.Fatalf("all = %d, want 5", counts.All)
	}
	if counts.Unresolved != 2 || counts.HumanRequested != 1 || counts.Resolved != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestFilterByCategoryKeepsOrder(t *testing.T) {
	out := Filter(sampleList(), CategoryUnresolved, "")

	if len(out) != 2 || out[0].ID != "c2" || out[1].ID != "c4" {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	out := Filter(sampleList(), CategoryAll, "MARIA")

	if len(out) != 2 || out[0].ID != "c1" || out[1].ID != "c4" {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestFilterSearchMatchesID(t *testing.T) {
	out := Filter(sampleList(), CategoryAll, "c3")

	if len(out) != 1 || out[0].ID != "c3" {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestFilterCombinesCategoryAndSearch(t *testing.T) {
	out := Filter(sampleList(), CategoryResolved, "maria")

	if len(out) != 0 {
		t.Fatalf("expected no matches, got %+v", out)
	}
}

func TestFilterEmptyTermMatchesAll(t *testing.T) {
	out := Filter(sampleList(), CategoryAll, "  ")

	if len(out) != 5 {
		t.Fatalf("expected full set, got %d", len(out))
	}
}

func TestParseStatusUnknownIsUndefined(t *testing.T) {
	for _, raw := range []string{"", "pendente", "RESOLVIDA"} {
		if got := ParseStatus(raw); got != StatusUndefined {
			t.Fatalf("ParseStatus(%q) = %q", raw, got)
		}
	}
	if got := ParseStatus("resolvida"); got != StatusResolved {
		t.Fatalf("ParseStatus(resolvida) = %q", got)
	}
}

func TestUndefinedStatusNotAssignable(t *testing.T) {
	if StatusUndefined.Assignable() {
		t.Fatal("undefined must not be a valid update target")
	}
	for _, s := range []Status{StatusUnresolved, StatusHumanRequested, StatusResolved} {
		if !s.Assignable() {
			t.Fatalf("%q must be assignable", s)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if got, err := ParseCategory(""); err != nil || got != CategoryAll {
		t.Fatalf("empty category: %q, %v", got, err)
	}
	if _, err := ParseCategory("archived"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}
