package store

import (
	"fmt"
	"math"
	"strings"

	"falcon-scn/core/auth"
	"falcon-scn/core/state"
)

// LoginResult carries the structured outcome plus, on success, a copy of the
// authenticated user record.
type LoginResult struct {
	Result
	User *state.User
}

// Login authenticates by username or service ID against approved accounts.
// A lockout still in force rejects without consuming an attempt; the
// configured failure budget triggers a fresh lockout.
func (s *CommandStore) Login(usernameOrServiceID, password string) LoginResult {
	s.mu.Lock()
	now := s.now()

	var user *state.User
	for i := range s.state.Users {
		u := &s.state.Users[i]
		if (u.Username == usernameOrServiceID || u.ServiceID == usernameOrServiceID) && u.IsApproved {
			user = u
			break
		}
	}
	if user == nil {
		s.appendLogLocked("LOGIN_FAILED", "Failed login attempt for unknown user: "+usernameOrServiceID, "")
		s.mu.Unlock()
		s.obs.recordLoginFailure()
		s.mutated()
		return LoginResult{Result: failure("Invalid credentials")}
	}

	if user.LockoutUntil != nil && user.LockoutUntil.After(now) {
		remaining := int(math.Ceil(user.LockoutUntil.Sub(now).Seconds()))
		s.mu.Unlock()
		s.obs.recordLoginFailure()
		return LoginResult{Result: failure(fmt.Sprintf("Account locked. Try again in %d seconds.", remaining))}
	}

	if !auth.VerifyPassword(password, s.cfg.Pepper, user.Password) {
		user.FailedLoginAttempts++
		maxAttempts := s.cfg.Security.MaxLoginAttempts
		if user.FailedLoginAttempts >= maxAttempts {
			until := now.Add(s.cfg.Security.LockoutDuration)
			user.LockoutUntil = &until
			user.FailedLoginAttempts = 0
			s.appendLogLocked("ACCOUNT_LOCKED", "Account locked due to failed login attempts: "+user.FullName, user.ID)
			s.mu.Unlock()
			s.obs.recordLoginFailure()
			s.mutated()
			return LoginResult{Result: failure(fmt.Sprintf(
				"Too many failed attempts. Account locked for %d seconds.",
				int(s.cfg.Security.LockoutDuration.Seconds())))}
		}
		remaining := maxAttempts - user.FailedLoginAttempts
		s.appendLogLocked("LOGIN_FAILED", "Failed login attempt for: "+user.FullName, user.ID)
		s.mu.Unlock()
		s.obs.recordLoginFailure()
		s.mutated()
		return LoginResult{Result: failure(fmt.Sprintf("Invalid credentials. %d attempts remaining.", remaining))}
	}

	user.FailedLoginAttempts = 0
	user.LockoutUntil = nil
	user.LastActive = now
	user.IsOnline = true

	for i := range s.state.Sessions {
		if s.state.Sessions[i].UserID == user.ID {
			s.state.Sessions[i].IsActive = false
		}
	}
	s.state.Sessions = append(s.state.Sessions, state.Session{
		ID:           state.NewID("session"),
		UserID:       user.ID,
		LoginTime:    now,
		LastActivity: now,
		IsActive:     true,
	})
	s.state.CurrentUserID = user.ID
	s.appendLogLocked("LOGIN", "User logged in: "+user.FullName, user.ID)
	copied := *user
	s.mu.Unlock()
	s.mutated()
	return LoginResult{Result: success("Login successful"), User: &copied}
}

// Logout marks the current user offline, deactivates their sessions, and
// clears the current-session pointer.
func (s *CommandStore) Logout() {
	s.mu.Lock()
	if user := s.userByIDLocked(s.state.CurrentUserID); user != nil {
		user.IsOnline = false
		user.LastActive = s.now()
		for i := range s.state.Sessions {
			if s.state.Sessions[i].UserID == user.ID {
				s.state.Sessions[i].IsActive = false
			}
		}
		s.appendLogLocked("LOGOUT", "User logged out: "+user.FullName, user.ID)
	}
	s.state.CurrentUserID = ""
	s.mu.Unlock()
	s.mutated()
}

// Registration carries the self-service enrollment fields.
type Registration struct {
	Username  string
	Password  string
	FullName  string
	ServiceID string
	Rank      string
	Email     string
}

// Register creates a pending, unapproved account. It never authenticates the
// new account. Username, service ID, and email must each be unused.
func (s *CommandStore) Register(reg Registration) Result {
	if strings.TrimSpace(reg.Username) == "" || strings.TrimSpace(reg.Password) == "" {
		return failure("Username and password are required")
	}
	s.mu.Lock()
	for i := range s.state.Users {
		u := &s.state.Users[i]
		if u.Username == reg.Username || u.ServiceID == reg.ServiceID || u.Email == reg.Email {
			s.mu.Unlock()
			return failure("Username, Service ID, or email already registered")
		}
	}
	now := s.now()
	newUser := state.User{
		ID:                state.NewID("user"),
		Username:          reg.Username,
		Password:          s.encode(reg.Password),
		FullName:          reg.FullName,
		ServiceID:         reg.ServiceID,
		Rank:              reg.Rank,
		Email:             reg.Email,
		Role:              state.RolePending,
		ClearanceLevel:    state.RoleHierarchy[state.RolePending],
		CreatedAt:         now,
		LastActive:        now,
		PasswordChangedAt: now,
	}
	s.state.Users = append(s.state.Users, newUser)
	s.appendLogLocked("REGISTRATION", "New user registered: "+newUser.FullName, newUser.ID)
	s.mu.Unlock()
	s.mutated()
	return success("Registration submitted. Awaiting admin approval.")
}

// ChangePassword replaces the credential after verifying the current one.
// A wrong current password mutates nothing.
func (s *CommandStore) ChangePassword(userID, oldPassword, newPassword string) Result {
	s.mu.Lock()
	user := s.userByIDLocked(userID)
	if user == nil {
		s.mu.Unlock()
		return failure("User not found")
	}
	if !auth.VerifyPassword(oldPassword, s.cfg.Pepper, user.Password) {
		s.mu.Unlock()
		return failure("Current password is incorrect")
	}
	user.Password = s.encode(newPassword)
	user.PasswordChangedAt = s.now()
	s.appendLogLocked("PASSWORD_CHANGED", "Password changed for: "+user.FullName, user.ID)
	s.mu.Unlock()
	s.mutated()
	return success("Password changed successfully")
}

// UpdateDisplayName sets the user's preferred display name. Empty reverts to
// the username fallback.
func (s *CommandStore) UpdateDisplayName(userID, displayName string) Result {
	s.mu.Lock()
	user := s.userByIDLocked(userID)
	if user == nil {
		s.mu.Unlock()
		return failure("User not found")
	}
	user.DisplayName = strings.TrimSpace(displayName)
	s.mu.Unlock()
	s.mutated()
	return success("Display name updated")
}

// UpdateEmail changes the account email, preserving uniqueness.
func (s *CommandStore) UpdateEmail(userID, email string) Result {
	email = strings.TrimSpace(email)
	if email == "" {
		return failure("Email is required")
	}
	s.mu.Lock()
	for i := range s.state.Users {
		if s.state.Users[i].Email == email && s.state.Users[i].ID != userID {
			s.mu.Unlock()
			return failure("Email already registered")
		}
	}
	user := s.userByIDLocked(userID)
	if user == nil {
		s.mu.Unlock()
		return failure("User not found")
	}
	user.Email = email
	s.mu.Unlock()
	s.mutated()
	return success("Email updated")
}

// AcceptTerms records the user's acceptance of the terms of service.
func (s *CommandStore) AcceptTerms(userID string) Result {
	s.mu.Lock()
	user := s.userByIDLocked(userID)
	if user == nil {
		s.mu.Unlock()
		return failure("User not found")
	}
	user.AcceptedTerms = true
	s.mu.Unlock()
	s.mutated()
	return success("Terms accepted")
}
