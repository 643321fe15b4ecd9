package store

import "falcon-scn/core/state"

// appendLogLocked prepends an audit entry, evicting the oldest entries past
// the retention bound. Caller holds the store mutex.
func (s *CommandStore) appendLogLocked(action, details, userID string) {
	userName := "System"
	actorID := "system"
	var actor *state.User
	if userID != "" {
		actor = s.userByIDLocked(userID)
	} else if s.state.CurrentUserID != "" {
		actor = s.userByIDLocked(s.state.CurrentUserID)
	}
	if actor != nil {
		userName = actor.FullName
		actorID = actor.ID
	}
	entry := state.ActivityLog{
		ID:        state.NewID("log"),
		UserID:    actorID,
		UserName:  userName,
		Action:    action,
		Details:   details,
		Timestamp: s.now(),
		IPAddress: "127.0.0.1",
	}
	s.state.Logs = append([]state.ActivityLog{entry}, s.state.Logs...)
	if retention := s.cfg.Security.LogRetention; len(s.state.Logs) > retention {
		s.state.Logs = s.state.Logs[:retention]
	}
}

// AppendLog records an audit entry on behalf of the UI layer (page views,
// gated-content denials and the like).
func (s *CommandStore) AppendLog(action, details, userID string) {
	s.mu.Lock()
	s.appendLogLocked(action, details, userID)
	s.mu.Unlock()
	s.mutated()
}

// RecentLogs returns up to limit audit entries, newest first.
func (s *CommandStore) RecentLogs(limit int) []state.ActivityLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.state.Logs) {
		limit = len(s.state.Logs)
	}
	out := make([]state.ActivityLog, limit)
	copy(out, s.state.Logs[:limit])
	return out
}
