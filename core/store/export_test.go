package store

import (
	"context"
	"strings"
	"testing"

	"falcon-scn/core/state"
	"falcon-scn/core/storage"
)

func TestExportImportRoundTrip(t *testing.T) {
	s, _, _ := newTestStore(t)
	admin := loginAdmin(t, s)
	ops := channelByName(t, s, "squadron-ops")
	s.SendMessage(ops.ID, "for the record", admin.ID, "", nil)

	before := s.Snapshot()
	exported := s.ExportState()
	if !strings.HasPrefix(exported, "{\n") {
		t.Fatal("export should be pretty-printed")
	}

	res := s.ImportState(context.Background(), exported)
	if !res.OK {
		t.Fatalf("re-import failed: %s", res.Message)
	}
	after := s.Snapshot()

	if len(after.Users) != len(before.Users) ||
		len(after.Messages) != len(before.Messages) ||
		len(after.Channels) != len(before.Channels) ||
		len(after.Posts) != len(before.Posts) {
		t.Fatalf("round trip changed collection sizes: before=%d/%d after=%d/%d",
			len(before.Users), len(before.Messages), len(after.Users), len(after.Messages))
	}
	if countApprovedAdmins(after) < 1 {
		t.Fatal("admin invariant violated after import")
	}
	if after.CurrentUserID != before.CurrentUserID {
		t.Fatal("session pointer changed across round trip")
	}
}

func TestImportDistinguishesFailures(t *testing.T) {
	s, _, _ := newTestStore(t)
	before := s.ExportState()

	res := s.ImportState(context.Background(), "{broken")
	if res.OK || res.Message != "Failed to parse state file" {
		t.Fatalf("parse failure not distinguished: %+v", res)
	}
	res = s.ImportState(context.Background(), `{"users":[]}`)
	if res.OK || res.Message != "Invalid state format" {
		t.Fatalf("shape failure not distinguished: %+v", res)
	}
	if s.ExportState() != before {
		t.Fatal("failed import mutated state")
	}
}

func TestImportReplacesWholesaleAndRecoversAdmin(t *testing.T) {
	s, _, _ := newTestStore(t)
	// A shape-valid document with no users at all.
	doc := `{"version":"0.0.1","users":[],"channels":[],"messages":[],"posts":[],"media":[],"alerts":[],"logs":[]}`
	res := s.ImportState(context.Background(), doc)
	if !res.OK {
		t.Fatalf("import failed: %s", res.Message)
	}
	snap := s.Snapshot()
	if len(snap.Channels) != 0 {
		t.Fatal("import must replace, not merge: default channels leaked in")
	}
	if countApprovedAdmins(snap) != 1 {
		t.Fatalf("emergency admin not synthesized: %d", countApprovedAdmins(snap))
	}
	if snap.Users[0].Username != state.EmergencyAdmin.Username {
		t.Fatalf("unexpected admin: %s", snap.Users[0].Username)
	}
}

func TestResetSystem(t *testing.T) {
	s, medium, _ := newTestStore(t)
	ctx := context.Background()
	s.MarkCredentialsShown(ctx)
	if !s.CredentialsShown(ctx) {
		t.Fatal("credentials flag not set")
	}
	registerUser(t, s, "jdoe")

	s.ResetSystem(ctx)
	snap := s.Snapshot()
	if len(snap.Users) != 1 || snap.Users[0].Username != state.DefaultAdmin.Username {
		t.Fatalf("reset did not restore defaults: %+v", snap.Users)
	}
	if !snap.IsFirstRun {
		t.Fatal("reset state should be first run again")
	}
	if s.CredentialsShown(ctx) {
		t.Fatal("credentials flag should be cleared by reset")
	}
	if _, ok, _ := medium.Get(ctx, storage.KeyCredentialsShown); ok {
		t.Fatal("flag key should be deleted from the medium")
	}
}

func TestStorageUsage(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	if err := s.saveState(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	usage := s.GetStorageUsage(ctx)
	if usage.Used <= 0 {
		t.Fatalf("expected positive usage, got %d", usage.Used)
	}
	if usage.Total != 5*1024*1024 {
		t.Fatalf("unexpected quota: %d", usage.Total)
	}
	if usage.Percentage < 0 || usage.Percentage > 100 {
		t.Fatalf("percentage out of range: %d", usage.Percentage)
	}
}
