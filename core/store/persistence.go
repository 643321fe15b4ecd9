package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/robfig/cron/v3"

	"falcon-scn/core/storage"
)

// saveState serializes the full document and overwrites the storage key in
// one write. Failures are logged and swallowed: persistence is best-effort
// and the in-memory state stays authoritative.
func (s *CommandStore) saveState(ctx context.Context) error {
	s.mu.Lock()
	s.state.LastUpdated = s.now()
	raw, err := json.Marshal(s.state)
	s.mu.Unlock()
	if err != nil {
		s.logger.Errorf("state serialize failed: %v", err)
		s.obs.recordSave(err)
		return nil
	}
	err = s.medium.Set(ctx, storage.KeySystemState, string(raw))
	if err != nil {
		s.logger.Errorf("state write failed: %v", err)
	}
	s.obs.recordSave(err)
	return nil
}

// scheduleSave coalesces rapid mutations into one write shortly after the
// last change. The interval flush covers a debounce timer that never fires.
func (s *CommandStore) scheduleSave() {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.cfg.Persistence.DebounceInterval, func() {
		_ = s.saveState(context.Background())
	})
}

func (s *CommandStore) startIntervalFlush() {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	c := cron.New()
	_, err := c.AddFunc("@every "+s.cfg.Persistence.FlushInterval.String(), func() {
		_ = s.saveState(context.Background())
	})
	if err != nil {
		s.logger.Errorf("interval flush schedule failed: %v", err)
		return
	}
	c.Start()
	s.flusher = c
}

// mutated is the common tail of every mutating method: schedule persistence
// and wake subscribers.
func (s *CommandStore) mutated() {
	s.obs.recordMutation()
	s.scheduleSave()
	s.notify()
}
