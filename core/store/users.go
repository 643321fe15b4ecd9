package store

import (
	"falcon-scn/core/rbac"
	"falcon-scn/core/state"
)

// ApproveUser moves a pending account into service: approved, enlisted,
// clearance 2.
func (s *CommandStore) ApproveUser(userID string) {
	s.mu.Lock()
	user := s.userByIDLocked(userID)
	if user == nil {
		s.mu.Unlock()
		return
	}
	user.IsApproved = true
	user.Role = state.RoleEnlisted
	user.ClearanceLevel = state.RoleHierarchy[state.RoleEnlisted]
	s.appendLogLocked("USER_APPROVED", "User approved: "+user.FullName, userID)
	s.mu.Unlock()
	s.mutated()
}

// RejectUser permanently removes a pending account record.
func (s *CommandStore) RejectUser(userID string) {
	s.mu.Lock()
	user := s.userByIDLocked(userID)
	if user == nil {
		s.mu.Unlock()
		return
	}
	fullName := user.FullName
	users := s.state.Users[:0]
	for _, u := range s.state.Users {
		if u.ID != userID {
			users = append(users, u)
		}
	}
	s.state.Users = users
	s.appendLogLocked("USER_REJECTED", "User rejected and removed: "+fullName, "")
	s.mu.Unlock()
	s.mutated()
}

// AssignRole applies the rbac rule chain; on success the clearance level is
// set mechanically to the new role's hierarchy weight.
func (s *CommandStore) AssignRole(userID string, role state.Role, assignerID string) Result {
	s.mu.Lock()
	user := s.userByIDLocked(userID)
	if user == nil {
		s.mu.Unlock()
		return failure("User not found")
	}
	assigner := s.userByIDLocked(assignerID)
	if assigner == nil {
		s.mu.Unlock()
		return failure("Assigner not found")
	}
	if ok, reason := rbac.CanAssignRole(assigner, user, role); !ok {
		s.mu.Unlock()
		return failure(reason)
	}
	user.Role = role
	user.ClearanceLevel = state.RoleHierarchy[role]
	s.appendLogLocked("ROLE_ASSIGNED", "Role "+string(role)+" assigned to "+user.FullName, assignerID)
	s.mu.Unlock()
	s.mutated()
	return success("Role assigned successfully")
}

// PendingUsers returns copies of accounts awaiting approval.
func (s *CommandStore) PendingUsers() []state.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []state.User
	for _, u := range s.state.Users {
		if !u.IsApproved {
			out = append(out, u)
		}
	}
	return out
}

// OnlineUsers returns copies of accounts currently marked online.
func (s *CommandStore) OnlineUsers() []state.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []state.User
	for _, u := range s.state.Users {
		if u.IsOnline {
			out = append(out, u)
		}
	}
	return out
}
