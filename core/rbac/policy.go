// Package rbac holds the authorization rules of the command network: the
// role hierarchy checks for role assignment, content moderation, channel
// access, and the publishing gates.
package rbac

import "falcon-scn/core/state"

// Denial reasons returned by CanAssignRole. They surface verbatim in the
// structured results handed back to callers.
const (
	ReasonSelfDemotion  = "You cannot remove your own admin privileges"
	ReasonAboveOwnRank  = "You cannot assign a higher role than your own"
	ReasonAdminGrant    = "Only administrators can assign admin role"
	ReasonUnknownRole   = "Unknown role"
)

// CanAssignRole evaluates the role-assignment rule chain in order:
// self-admin-demotion guard, hierarchy bound for non-admin assigners,
// admin-only admin grants. It returns ok plus the denial reason.
func CanAssignRole(assigner, target *state.User, newRole state.Role) (bool, string) {
	if !state.ValidRole(newRole) {
		return false, ReasonUnknownRole
	}
	if assigner.ID == target.ID && target.Role == state.RoleAdmin && newRole != state.RoleAdmin {
		return false, ReasonSelfDemotion
	}
	if state.RoleHierarchy[newRole] > state.RoleHierarchy[assigner.Role] && assigner.Role != state.RoleAdmin {
		return false, ReasonAboveOwnRank
	}
	if newRole == state.RoleAdmin && assigner.Role != state.RoleAdmin {
		return false, ReasonAdminGrant
	}
	return true, ""
}

// CanModerate reports whether user may edit or delete content authored by
// authorID: the original author, admins, and moderators only.
func CanModerate(user *state.User, authorID string) bool {
	if user == nil {
		return false
	}
	return user.ID == authorID || user.Role == state.RoleAdmin || user.Role == state.RoleModerator
}

// CanAccessChannel grants read/write access when the user's role is in the
// channel's allowed list OR the user's clearance meets the channel floor.
func CanAccessChannel(user *state.User, ch *state.Channel) bool {
	if user == nil || ch == nil {
		return false
	}
	for _, r := range ch.AllowedRoles {
		if r == user.Role {
			return true
		}
	}
	return user.ClearanceLevel >= ch.ClearanceRequired
}

// CanPostToChannel gates message sends: unlike read access, posting requires
// the role to be in the allowed list AND the clearance floor to be met.
func CanPostToChannel(user *state.User, ch *state.Channel) bool {
	if user == nil || ch == nil {
		return false
	}
	allowed := false
	for _, r := range ch.AllowedRoles {
		if r == user.Role {
			allowed = true
			break
		}
	}
	return allowed && user.ClearanceLevel >= ch.ClearanceRequired
}

// CanBypassLock reports whether user may post into a locked channel.
func CanBypassLock(user *state.User) bool {
	if user == nil {
		return false
	}
	return user.Role == state.RoleAdmin || user.Role == state.RoleModerator
}

// CanPublishPosts restricts bulletin-board authorship to admins and
// moderators. Commenting is open to any authenticated user.
func CanPublishPosts(user *state.User) bool {
	if user == nil {
		return false
	}
	return user.Role == state.RoleAdmin || user.Role == state.RoleModerator
}

// CanCreateAlerts restricts system alert broadcast to admins.
func CanCreateAlerts(user *state.User) bool {
	return user != nil && user.Role == state.RoleAdmin
}
