package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"falcon-scn/config"
	"falcon-scn/core/auth"
	"falcon-scn/core/state"
	"falcon-scn/core/storage"
	"falcon-scn/core/utils"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Pepper: "test-pepper",
		Persistence: config.PersistenceConfig{
			DebounceInterval: 5 * time.Millisecond,
			FlushInterval:    time.Hour,
			QuotaBytes:       5 * 1024 * 1024,
		},
		Security: config.SecurityConfig{
			MaxLoginAttempts: 5,
			LockoutDuration:  30 * time.Second,
			LogRetention:     2000,
		},
	}
}

func newTestStore(t *testing.T) (*CommandStore, *storage.MemoryMedium, *testClock) {
	t.Helper()
	medium := storage.NewMemoryMedium()
	return newTestStoreOn(t, medium)
}

func newTestStoreOn(t *testing.T, medium *storage.MemoryMedium) (*CommandStore, *storage.MemoryMedium, *testClock) {
	t.Helper()
	s, err := New(context.Background(), testConfig(), medium, utils.NewLogger())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	clock := &testClock{now: time.Now().UTC()}
	s.now = clock.Now
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s, medium, clock
}

func seededAdmin(t *testing.T, s *CommandStore) state.User {
	t.Helper()
	snap := s.Snapshot()
	for _, u := range snap.Users {
		if u.Username == state.DefaultAdmin.Username {
			return u
		}
	}
	t.Fatal("seeded admin missing")
	return state.User{}
}

func loginAdmin(t *testing.T, s *CommandStore) state.User {
	t.Helper()
	res := s.Login(state.DefaultAdmin.Username, state.DefaultAdmin.Password)
	if !res.OK {
		t.Fatalf("admin login failed: %s", res.Message)
	}
	return *res.User
}

func countApprovedAdmins(snap *state.SystemState) int {
	n := 0
	for _, u := range snap.Users {
		if u.Role == state.RoleAdmin && u.IsApproved {
			n++
		}
	}
	return n
}

func TestFreshStateSeeding(t *testing.T) {
	s, _, _ := newTestStore(t)
	snap := s.Snapshot()

	if countApprovedAdmins(snap) != 1 {
		t.Fatalf("expected exactly one approved admin, got %d", countApprovedAdmins(snap))
	}
	if len(snap.Channels) != 6 {
		t.Fatalf("expected 6 default channels, got %d", len(snap.Channels))
	}
	if len(snap.Messages) != 1 || snap.Messages[0].ChannelID != snap.Channels[0].ID {
		t.Fatal("expected one welcome message in the first default channel")
	}
	if len(snap.Posts) != 1 || !snap.Posts[0].IsPinned {
		t.Fatal("expected one pinned welcome post")
	}
	if len(snap.Logs) != 1 || snap.Logs[0].Action != "SYSTEM_INIT" {
		t.Fatalf("expected single SYSTEM_INIT log entry, got %+v", snap.Logs)
	}
	if !snap.IsFirstRun {
		t.Fatal("fresh state should be first run")
	}
}

func TestCorruptDocumentRecovers(t *testing.T) {
	medium := storage.NewMemoryMedium()
	// users collection missing entirely.
	corrupt := `{"version":"3.0.0","channels":[],"messages":[],"posts":[],"media":[],"alerts":[],"logs":[]}`
	if err := medium.Set(context.Background(), storage.KeySystemState, corrupt); err != nil {
		t.Fatalf("seed corrupt doc: %v", err)
	}
	s, _, _ := newTestStoreOn(t, medium)
	snap := s.Snapshot()
	if countApprovedAdmins(snap) < 1 {
		t.Fatal("recovered state must contain an approved admin")
	}
	if len(snap.Channels) != 6 {
		t.Fatalf("recovered state should carry default channels, got %d", len(snap.Channels))
	}
}

func TestUnparseableDocumentRecovers(t *testing.T) {
	medium := storage.NewMemoryMedium()
	if err := medium.Set(context.Background(), storage.KeySystemState, "{not json"); err != nil {
		t.Fatalf("seed garbage: %v", err)
	}
	s, _, _ := newTestStoreOn(t, medium)
	if countApprovedAdmins(s.Snapshot()) < 1 {
		t.Fatal("recovered state must contain an approved admin")
	}
}

func TestLoadMergesOverDefaultsAndClearsFirstRun(t *testing.T) {
	first, _, _ := newTestStore(t)
	first.Login(state.DefaultAdmin.Username, state.DefaultAdmin.Password)
	exported := first.ExportState()

	// Strip a field a newer schema might have added; the reload should still
	// carry defaults for everything absent.
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(exported), &doc); err != nil {
		t.Fatalf("parse export: %v", err)
	}
	delete(doc, "version")
	raw, _ := json.Marshal(doc)

	medium := storage.NewMemoryMedium()
	if err := medium.Set(context.Background(), storage.KeySystemState, string(raw)); err != nil {
		t.Fatalf("seed doc: %v", err)
	}
	s, _, _ := newTestStoreOn(t, medium)
	snap := s.Snapshot()
	if snap.Version != state.SchemaVersion {
		t.Fatalf("version not pinned after merge: %q", snap.Version)
	}
	if snap.IsFirstRun {
		t.Fatal("loaded document must not be first run")
	}
	if snap.CurrentUserID == "" {
		t.Fatal("loaded document lost its session pointer")
	}
}

func TestAdminGuaranteeSynthesizesEmergencyAdmin(t *testing.T) {
	// A shape-valid document with zero admins.
	noAdmins := state.Initial(time.Now().UTC(), func(p string) string {
		return auth.EncodePassword(p, "test-pepper")
	})
	noAdmins.Users = []state.User{}
	raw, _ := json.Marshal(noAdmins)

	medium := storage.NewMemoryMedium()
	if err := medium.Set(context.Background(), storage.KeySystemState, string(raw)); err != nil {
		t.Fatalf("seed doc: %v", err)
	}
	s, _, _ := newTestStoreOn(t, medium)
	snap := s.Snapshot()
	if countApprovedAdmins(snap) != 1 {
		t.Fatalf("expected synthesized emergency admin, got %d admins", countApprovedAdmins(snap))
	}
	if snap.Users[0].Username != state.EmergencyAdmin.Username {
		t.Fatalf("unexpected synthesized user: %s", snap.Users[0].Username)
	}
	found := false
	for _, l := range snap.Logs {
		if l.Action == "EMERGENCY_RECOVERY" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected EMERGENCY_RECOVERY log entry")
	}
	res := s.Login(state.EmergencyAdmin.Username, state.EmergencyAdmin.Password)
	if !res.OK {
		t.Fatalf("emergency admin login failed: %s", res.Message)
	}
}

func TestSubscribeNotifiesAndUnsubscribes(t *testing.T) {
	s, _, _ := newTestStore(t)
	calls := 0
	unsubscribe := s.Subscribe(func() { calls++ })
	s.AppendLog("TEST", "one", "")
	if calls != 1 {
		t.Fatalf("expected 1 notification, got %d", calls)
	}
	unsubscribe()
	s.AppendLog("TEST", "two", "")
	if calls != 1 {
		t.Fatalf("expected no notification after unsubscribe, got %d", calls)
	}
}

func TestPanickingListenerIsContained(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.Subscribe(func() { panic("listener bug") })
	calls := 0
	s.Subscribe(func() { calls++ })
	s.AppendLog("TEST", "entry", "")
	if calls != 1 {
		t.Fatal("surviving listener should still be notified")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s, _, _ := newTestStore(t)
	snap := s.Snapshot()
	snap.Users[0].Username = "tampered"
	if s.Snapshot().Users[0].Username == "tampered" {
		t.Fatal("snapshot mutation leaked into live state")
	}
}
