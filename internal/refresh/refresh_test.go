package refresh

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"frontdeskbot/internal/backend"
	"frontdeskbot/internal/kb"
)

func TestEntriesFromRemoteSkipsAnswerless(t *testing.T) {
	rows := []backend.KnowledgeEntry{
		{ID: "1", Question: "Bridal?", Answer: "Yes, from $200.", Keywords: []string{"bridal"}},
		{ID: "2", Question: "Empty?"},
		{ID: "3", Answer: "Gift cards at the desk.", Tags: []string{"giftcards"}},
	}
	entries := EntriesFromRemote(rows)
	if len(entries) != 2 {
		t.Fatalf("expected 2 usable entries, got %d", len(entries))
	}
	if entries[0].ID != "1" || entries[1].ID != "3" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestOnceReplacesDynamicEntries(t *testing.T) {
	var gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"data":[{"id":"r1","question":"Bridal?","answer":"Yes.","keywords":["bridal"]}]}`))
	}))
	defer srv.Close()

	store := kb.New(nil)
	store.UpdateDynamicEntries([]kb.FaqEntry{{ID: "stale", Keywords: []string{"loyalty"}}})

	n, err := Once(context.Background(), backend.NewClient(srv.URL, time.Second), store, 25)
	if err != nil {
		t.Fatalf("Once failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 entry, got %d", n)
	}
	if gotLimit != "25" {
		t.Fatalf("expected limit 25 on the wire, got %q", gotLimit)
	}

	if entry, _ := store.Match("do you have a loyalty program"); entry != nil {
		t.Fatalf("stale dynamic entry survived the refresh: %+v", entry)
	}
	if entry, _ := store.Match("do you do bridal"); entry == nil || entry.ID != "r1" {
		t.Fatalf("expected refreshed entry to match, got %+v", entry)
	}
}

func TestOnceRequiresBackend(t *testing.T) {
	if _, err := Once(context.Background(), backend.NewClient("", time.Second), kb.New(nil), 10); err == nil {
		t.Fatal("expected error for unconfigured backend")
	}
}
