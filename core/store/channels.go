package store

import (
	"falcon-scn/core/rbac"
	"falcon-scn/core/state"
)

// ChannelFields are the caller-supplied attributes of a new channel.
type ChannelFields struct {
	Name              string
	Category          string
	Description       string
	IsRestricted      bool
	AllowedRoles      []state.Role
	ClearanceRequired int
}

// CreateChannel adds a communication scope and returns a copy of it.
func (s *CommandStore) CreateChannel(fields ChannelFields, creatorID string) *state.Channel {
	channel := state.Channel{
		ID:                state.NewID("chan"),
		Name:              fields.Name,
		Category:          fields.Category,
		Description:       fields.Description,
		IsRestricted:      fields.IsRestricted,
		AllowedRoles:      append([]state.Role(nil), fields.AllowedRoles...),
		ClearanceRequired: fields.ClearanceRequired,
		CreatedBy:         creatorID,
	}
	s.mu.Lock()
	channel.CreatedAt = s.now()
	s.state.Channels = append(s.state.Channels, channel)
	s.appendLogLocked("CHANNEL_CREATED", "Channel #"+channel.Name+" created", creatorID)
	s.mu.Unlock()
	s.mutated()
	copied := channel
	return &copied
}

// LockChannel sets the channel's locked flag.
func (s *CommandStore) LockChannel(channelID string, locked bool, actorID string) {
	s.mu.Lock()
	channel := s.channelByIDLocked(channelID)
	if channel == nil {
		s.mu.Unlock()
		return
	}
	channel.IsLocked = locked
	action, detail := "CHANNEL_UNLOCKED", "unlocked"
	if locked {
		action, detail = "CHANNEL_LOCKED", "locked"
	}
	s.appendLogLocked(action, "Channel #"+channel.Name+" "+detail, actorID)
	s.mu.Unlock()
	s.mutated()
}

// AccessibleChannels returns copies of channels the user may read: role
// membership or clearance meeting the floor.
func (s *CommandStore) AccessibleChannels(userID string) []state.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.userByIDLocked(userID)
	if user == nil {
		return nil
	}
	var out []state.Channel
	for i := range s.state.Channels {
		if rbac.CanAccessChannel(user, &s.state.Channels[i]) {
			out = append(out, s.state.Channels[i])
		}
	}
	return out
}
