// Package store implements CommandStore, the in-memory system document with
// synchronous mutation methods, debounced persistence into a key-value
// medium, corruption recovery, and subscriber notification.
//
// The in-memory document is always authoritative: persistence is a
// best-effort snapshot for reload and export, and a write that has not
// landed never affects reads.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"falcon-scn/config"
	"falcon-scn/core/auth"
	"falcon-scn/core/state"
	"falcon-scn/core/storage"
	"falcon-scn/core/utils"
)

// Result is the structured outcome of validated operations. Validation and
// rule failures are returned, never raised.
type Result struct {
	OK      bool   `json:"success"`
	Message string `json:"message"`
}

func failure(message string) Result { return Result{OK: false, Message: message} }
func success(message string) Result { return Result{OK: true, Message: message} }

type CommandStore struct {
	cfg    *config.AppConfig
	medium storage.Medium
	logger *utils.Logger

	mu    sync.Mutex
	state *state.SystemState

	listenerMu   sync.Mutex
	listeners    map[int]func()
	nextListener int

	saveMu    sync.Mutex
	saveTimer *time.Timer
	flusher   *cron.Cron

	obs storeObs

	// now is the store clock; tests substitute it to drive lockout expiry.
	now func() time.Time
}

// New constructs the store, loads (or recovers) the persisted document,
// enforces the admin-existence guarantee, and starts the interval flush.
func New(ctx context.Context, cfg *config.AppConfig, medium storage.Medium, logger *utils.Logger) (*CommandStore, error) {
	s := &CommandStore{
		cfg:       cfg,
		medium:    medium,
		logger:    logger,
		listeners: map[int]func(){},
		now:       func() time.Time { return time.Now().UTC() },
	}
	s.state = s.loadState(ctx)
	s.mu.Lock()
	s.ensureAdminExistsLocked()
	s.mu.Unlock()
	s.startIntervalFlush()
	return s, nil
}

// Close stops the flush machinery and writes a final snapshot.
func (s *CommandStore) Close(ctx context.Context) error {
	s.saveMu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	if s.flusher != nil {
		s.flusher.Stop()
		s.flusher = nil
	}
	s.saveMu.Unlock()
	return s.saveState(ctx)
}

func (s *CommandStore) encode(password string) string {
	return auth.EncodePassword(password, s.cfg.Pepper)
}

// loadState reads the persisted document with full recovery: a missing,
// unparseable, or shape-invalid document falls back to freshly constructed
// defaults. A valid document is unmarshaled over a fresh default so fields
// introduced by newer schema versions keep their default values.
func (s *CommandStore) loadState(ctx context.Context) *state.SystemState {
	now := s.now()
	stored, ok, err := s.medium.Get(ctx, storage.KeySystemState)
	if err != nil {
		s.logger.Errorf("state read failed, using defaults: %v", err)
		s.obs.recordRecovery()
		return state.Initial(now, s.encode)
	}
	if !ok {
		s.logger.Printf("no stored state found, creating initial state")
		return state.Initial(now, s.encode)
	}
	if err := state.ValidateShape([]byte(stored)); err != nil {
		s.logger.Errorf("invalid state structure, resetting to defaults: %v", err)
		s.obs.recordRecovery()
		return state.Initial(now, s.encode)
	}
	merged := state.Initial(now, s.encode)
	if err := json.Unmarshal([]byte(stored), merged); err != nil {
		s.logger.Errorf("state parse failed, resetting to defaults: %v", err)
		s.obs.recordRecovery()
		return state.Initial(now, s.encode)
	}
	merged.Version = state.SchemaVersion
	merged.IsFirstRun = false
	return merged
}

// ensureAdminExistsLocked enforces the core invariant: at least one approved
// admin at all times. Runs at construction and after every import.
func (s *CommandStore) ensureAdminExistsLocked() {
	for i := range s.state.Users {
		u := &s.state.Users[i]
		if u.Role == state.RoleAdmin && u.IsApproved {
			return
		}
	}
	s.logger.Warnf("no approved admin found, creating emergency admin")
	emergency := state.NewSeedUser(state.EmergencyAdmin, s.now(), s.encode)
	s.state.Users = append(s.state.Users, emergency)
	s.appendLogLocked("EMERGENCY_RECOVERY", "Emergency admin account created - no valid admins found", emergency.ID)
	s.obs.recordRecovery()
}

// Subscribe registers a listener invoked after every mutation. The returned
// function removes the listener.
func (s *CommandStore) Subscribe(listener func()) func() {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = listener
	return func() {
		s.listenerMu.Lock()
		defer s.listenerMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *CommandStore) notify() {
	s.listenerMu.Lock()
	listeners := make([]func(), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenerMu.Unlock()
	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Errorf("listener panic: %v", r)
				}
			}()
			l()
		}()
	}
}

// Snapshot returns a deep copy of the document for rendering. Callers never
// receive references into the live state.
func (s *CommandStore) Snapshot() *state.SystemState {
	s.mu.Lock()
	raw, err := json.Marshal(s.state)
	s.mu.Unlock()
	if err != nil {
		s.logger.Errorf("snapshot marshal: %v", err)
		return &state.SystemState{}
	}
	var copied state.SystemState
	if err := json.Unmarshal(raw, &copied); err != nil {
		s.logger.Errorf("snapshot unmarshal: %v", err)
		return &state.SystemState{}
	}
	return &copied
}

// userByIDLocked returns a pointer into the live users slice; valid only
// while the store mutex is held.
func (s *CommandStore) userByIDLocked(id string) *state.User {
	for i := range s.state.Users {
		if s.state.Users[i].ID == id {
			return &s.state.Users[i]
		}
	}
	return nil
}

func (s *CommandStore) channelByIDLocked(id string) *state.Channel {
	for i := range s.state.Channels {
		if s.state.Channels[i].ID == id {
			return &s.state.Channels[i]
		}
	}
	return nil
}

// CurrentUser returns a copy of the active session's user, or nil.
func (s *CommandStore) CurrentUser() *state.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentUserCopyLocked()
}

func (s *CommandStore) currentUserCopyLocked() *state.User {
	if s.state.CurrentUserID == "" {
		return nil
	}
	u := s.userByIDLocked(s.state.CurrentUserID)
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}

func (s *CommandStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentUserID != ""
}

func (s *CommandStore) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.currentUserCopyLocked()
	return u != nil && u.Role == state.RoleAdmin
}

// HasClearance reports whether the current user's stored clearance meets
// level. The stored value is read directly; it may legitimately diverge from
// the role weight.
func (s *CommandStore) HasClearance(level int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.currentUserCopyLocked()
	return u != nil && u.ClearanceLevel >= level
}
