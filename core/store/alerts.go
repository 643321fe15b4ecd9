package store

import (
	"falcon-scn/core/rbac"
	"falcon-scn/core/state"
)

// CreateAlert broadcasts a system banner. Admin only; anyone else no-ops.
func (s *CommandStore) CreateAlert(title, content string, level state.AlertLevel, authorID string) {
	if !state.ValidAlertLevel(level) {
		return
	}
	s.mu.Lock()
	author := s.userByIDLocked(authorID)
	if !rbac.CanCreateAlerts(author) {
		s.mu.Unlock()
		return
	}
	s.state.Alerts = append(s.state.Alerts, state.SystemAlert{
		ID:          state.NewID("alert"),
		Title:       title,
		Content:     content,
		Level:       level,
		Author:      author.FullName,
		AuthorID:    authorID,
		Timestamp:   s.now(),
		IsActive:    true,
		DismissedBy: []string{},
	})
	s.appendLogLocked("ALERT_CREATED", "Alert created: "+title+" ("+string(level)+")", authorID)
	s.mu.Unlock()
	s.mutated()
}

// DismissAlert records a per-user dismissal. Idempotent: dismissing twice is
// the same as dismissing once. The alert stays visible to everyone else.
func (s *CommandStore) DismissAlert(alertID, userID string) {
	s.mu.Lock()
	var alert *state.SystemAlert
	for i := range s.state.Alerts {
		if s.state.Alerts[i].ID == alertID {
			alert = &s.state.Alerts[i]
			break
		}
	}
	if alert == nil {
		s.mu.Unlock()
		return
	}
	for _, id := range alert.DismissedBy {
		if id == userID {
			s.mu.Unlock()
			return
		}
	}
	alert.DismissedBy = append(alert.DismissedBy, userID)
	s.mu.Unlock()
	s.mutated()
}

// ActiveAlerts returns copies of alerts still active and not dismissed by
// the given user.
func (s *CommandStore) ActiveAlerts(userID string) []state.SystemAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []state.SystemAlert
	for _, a := range s.state.Alerts {
		if !a.IsActive {
			continue
		}
		dismissed := false
		for _, id := range a.DismissedBy {
			if id == userID {
				dismissed = true
				break
			}
		}
		if !dismissed {
			out = append(out, a)
		}
	}
	return out
}
