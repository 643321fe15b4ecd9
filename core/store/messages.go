package store

import (
	"falcon-scn/core/rbac"
	"falcon-scn/core/state"
)

// SendMessage posts into a channel. Authorization failures (locked channel
// without moderation rights, role not allowed, clearance below the floor)
// return nil without mutating anything: the UI gates the affordance, the
// store enforces it regardless.
func (s *CommandStore) SendMessage(channelID, content, senderID string, replyTo string, mediaURLs []string) *state.Message {
	s.mu.Lock()
	user := s.userByIDLocked(senderID)
	channel := s.channelByIDLocked(channelID)
	if user == nil || channel == nil {
		s.mu.Unlock()
		return nil
	}
	if channel.IsLocked && !rbac.CanBypassLock(user) {
		s.mu.Unlock()
		return nil
	}
	if !rbac.CanPostToChannel(user, channel) {
		s.mu.Unlock()
		return nil
	}
	if mediaURLs == nil {
		mediaURLs = []string{}
	}
	message := state.Message{
		ID:        state.NewID("msg"),
		ChannelID: channelID,
		UserID:    senderID,
		UserName:  user.FullName,
		UserRank:  user.Rank,
		UserRole:  user.Role,
		Content:   content,
		Timestamp: s.now(),
		ReplyTo:   replyTo,
		MediaURLs: mediaURLs,
	}
	s.state.Messages = append(s.state.Messages, message)
	s.mu.Unlock()
	s.mutated()
	copied := message
	return &copied
}

// EditMessage overwrites content in place, no version history. Only the
// author, an admin, or a moderator may edit.
func (s *CommandStore) EditMessage(messageID, newContent, actorID string) {
	s.mu.Lock()
	var message *state.Message
	for i := range s.state.Messages {
		if s.state.Messages[i].ID == messageID {
			message = &s.state.Messages[i]
			break
		}
	}
	actor := s.userByIDLocked(actorID)
	if message == nil || actor == nil || !rbac.CanModerate(actor, message.UserID) {
		s.mu.Unlock()
		return
	}
	now := s.now()
	message.Content = newContent
	message.IsEdited = true
	message.EditedAt = &now
	channelName := ""
	if ch := s.channelByIDLocked(message.ChannelID); ch != nil {
		channelName = ch.Name
	}
	s.appendLogLocked("MESSAGE_EDITED", "Message edited in #"+channelName, actorID)
	s.mu.Unlock()
	s.mutated()
}

// DeleteMessage removes the record entirely; no tombstone is kept.
func (s *CommandStore) DeleteMessage(messageID, actorID string) {
	s.mu.Lock()
	var message *state.Message
	for i := range s.state.Messages {
		if s.state.Messages[i].ID == messageID {
			message = &s.state.Messages[i]
			break
		}
	}
	actor := s.userByIDLocked(actorID)
	if message == nil || actor == nil || !rbac.CanModerate(actor, message.UserID) {
		s.mu.Unlock()
		return
	}
	channelID := message.ChannelID
	messages := s.state.Messages[:0]
	for _, m := range s.state.Messages {
		if m.ID != messageID {
			messages = append(messages, m)
		}
	}
	s.state.Messages = messages
	channelName := ""
	if ch := s.channelByIDLocked(channelID); ch != nil {
		channelName = ch.Name
	}
	s.appendLogLocked("MESSAGE_DELETED", "Message deleted from #"+channelName, actorID)
	s.mu.Unlock()
	s.mutated()
}

// ChannelMessages returns copies of a channel's messages in arrival order.
func (s *CommandStore) ChannelMessages(channelID string) []state.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []state.Message
	for _, m := range s.state.Messages {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out
}
