package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"falcon-scn/core/state"
	"falcon-scn/core/storage"
	"falcon-scn/core/utils"
)

func waitForDoc(t *testing.T, medium *storage.MemoryMedium, check func(*state.SystemState) bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		raw, ok, err := medium.Get(context.Background(), storage.KeySystemState)
		if err != nil {
			t.Fatalf("medium get: %v", err)
		}
		if ok {
			var doc state.SystemState
			if err := json.Unmarshal([]byte(raw), &doc); err == nil && check(&doc) {
				return
			}
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("persisted document never reached expected shape")
}

func TestDebouncedSaveLandsInMedium(t *testing.T) {
	s, medium, _ := newTestStore(t)
	loginAdmin(t, s)
	s.AppendLog("DRILL", "scramble exercise", "")

	waitForDoc(t, medium, func(doc *state.SystemState) bool {
		for _, l := range doc.Logs {
			if l.Action == "DRILL" {
				return true
			}
		}
		return false
	})
}

func TestDebounceCoalescesBursts(t *testing.T) {
	s, medium, _ := newTestStore(t)
	for i := 0; i < 20; i++ {
		s.AppendLog("BURST", "entry", "")
	}
	waitForDoc(t, medium, func(doc *state.SystemState) bool {
		n := 0
		for _, l := range doc.Logs {
			if l.Action == "BURST" {
				n++
			}
		}
		return n == 20
	})
	// A burst inside one debounce window should collapse to far fewer
	// writes than mutations.
	stats := s.StatsSnapshot()
	if stats.SavesTotal >= stats.MutationsTotal {
		t.Fatalf("expected coalescing: %d saves for %d mutations", stats.SavesTotal, stats.MutationsTotal)
	}
}

func TestLogRetentionBound(t *testing.T) {
	cfg := testConfig()
	cfg.Security.LogRetention = 10
	medium := storage.NewMemoryMedium()
	s, err := New(context.Background(), cfg, medium, utils.NewLogger())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	for i := 0; i < 25; i++ {
		s.AppendLog("FILL", "entry", "")
	}
	logs := s.RecentLogs(0)
	if len(logs) != 10 {
		t.Fatalf("expected retention cap of 10, got %d", len(logs))
	}
	// Newest first; the oldest surviving entries are still FILL, the
	// SYSTEM_INIT entry has been evicted.
	for _, l := range logs {
		if l.Action == "SYSTEM_INIT" {
			t.Fatal("oldest entries should have been evicted first")
		}
	}
}

func TestCloseFlushesPendingState(t *testing.T) {
	medium := storage.NewMemoryMedium()
	cfg := testConfig()
	cfg.Persistence.DebounceInterval = time.Hour // never fires on its own
	s, err := New(context.Background(), cfg, medium, utils.NewLogger())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	s.AppendLog("PENDING", "unsaved entry", "")
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, ok, err := medium.Get(context.Background(), storage.KeySystemState)
	if err != nil || !ok {
		t.Fatalf("medium get: ok=%v err=%v", ok, err)
	}
	var doc state.SystemState
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("parse saved doc: %v", err)
	}
	found := false
	for _, l := range doc.Logs {
		if l.Action == "PENDING" {
			found = true
		}
	}
	if !found {
		t.Fatal("close did not flush the pending mutation")
	}
}
