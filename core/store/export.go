package store

import (
	"context"
	"encoding/json"

	"falcon-scn/core/state"
	"falcon-scn/core/storage"
)

// ExportState returns the pretty-printed full document, identical in shape
// to the persisted copy.
func (s *CommandStore) ExportState() string {
	s.mu.Lock()
	raw, err := json.MarshalIndent(s.state, "", "  ")
	s.mu.Unlock()
	if err != nil {
		s.logger.Errorf("export marshal: %v", err)
		return ""
	}
	return string(raw)
}

// ImportState replaces the entire in-memory document with the parsed input
// (replacement, not merge), then re-runs the admin-existence guarantee and
// persists. Invalid input fails without touching existing state, with a
// message distinguishing parse failures from shape failures.
func (s *CommandStore) ImportState(ctx context.Context, jsonText string) Result {
	raw := []byte(jsonText)
	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return failure("Failed to parse state file")
	}
	if err := state.ValidateShape(raw); err != nil {
		return failure("Invalid state format")
	}
	var imported state.SystemState
	if err := json.Unmarshal(raw, &imported); err != nil {
		return failure("Failed to parse state file")
	}

	s.mu.Lock()
	s.state = &imported
	s.ensureAdminExistsLocked()
	s.mu.Unlock()
	_ = s.saveState(ctx)
	s.obs.recordMutation()
	s.notify()
	return success("State imported successfully")
}

// ResetSystem wipes the document back to freshly constructed defaults and
// clears the credentials-shown flag.
func (s *CommandStore) ResetSystem(ctx context.Context) {
	s.mu.Lock()
	s.state = state.Initial(s.now(), s.encode)
	s.mu.Unlock()
	if err := s.medium.Delete(ctx, storage.KeyCredentialsShown); err != nil {
		s.logger.Errorf("credentials flag clear failed: %v", err)
	}
	_ = s.saveState(ctx)
	s.obs.recordMutation()
	s.notify()
}

// StorageUsage reports medium consumption against the configured quota.
type StorageUsage struct {
	Used       int64 `json:"used"`
	Total      int64 `json:"total"`
	Percentage int   `json:"percentage"`
}

func (s *CommandStore) GetStorageUsage(ctx context.Context) StorageUsage {
	used, err := s.medium.UsedBytes(ctx)
	if err != nil {
		s.logger.Errorf("storage usage read failed: %v", err)
		return StorageUsage{}
	}
	total := s.cfg.Persistence.QuotaBytes
	usage := StorageUsage{Used: used, Total: total}
	if total > 0 {
		usage.Percentage = int(used * 100 / total)
	}
	return usage
}

// CredentialsShown reports whether the first-run credential notice has been
// acknowledged.
func (s *CommandStore) CredentialsShown(ctx context.Context) bool {
	v, ok, err := s.medium.Get(ctx, storage.KeyCredentialsShown)
	if err != nil {
		s.logger.Errorf("credentials flag read failed: %v", err)
		return false
	}
	return ok && v == "true"
}

// MarkCredentialsShown acknowledges the first-run credential notice.
func (s *CommandStore) MarkCredentialsShown(ctx context.Context) {
	if err := s.medium.Set(ctx, storage.KeyCredentialsShown, "true"); err != nil {
		s.logger.Errorf("credentials flag write failed: %v", err)
	}
	s.mu.Lock()
	s.state.IsFirstRun = false
	s.mu.Unlock()
	s.mutated()
}

// IsFirstRun reports whether this document was freshly provisioned.
func (s *CommandStore) IsFirstRun() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsFirstRun
}
