package store

import (
	"testing"

	"falcon-scn/core/state"
)

func channelByName(t *testing.T, s *CommandStore, name string) state.Channel {
	t.Helper()
	for _, ch := range s.Snapshot().Channels {
		if ch.Name == name {
			return ch
		}
	}
	t.Fatalf("channel %s missing", name)
	return state.Channel{}
}

func approvedUser(t *testing.T, s *CommandStore, username string) state.User {
	t.Helper()
	u := registerUser(t, s, username)
	s.ApproveUser(u.ID)
	return userByID(t, s, u.ID)
}

func TestSendMessageAuthorizationDenial(t *testing.T) {
	s, _, _ := newTestStore(t)
	enlisted := approvedUser(t, s, "jdoe") // enlisted, clearance 2

	briefings := channelByName(t, s, "command-briefings") // clearance 3, officers and up
	if msg := s.SendMessage(briefings.ID, "hello", enlisted.ID, "", nil); msg != nil {
		t.Fatal("enlisted user must not post into command-briefings")
	}
	if msgs := s.ChannelMessages(briefings.ID); len(msgs) != 0 {
		t.Fatalf("denied send left a message behind: %d", len(msgs))
	}
}

func TestSendMessageSnapshotsAuthor(t *testing.T) {
	s, _, _ := newTestStore(t)
	admin := seededAdmin(t, s)
	ops := channelByName(t, s, "squadron-ops")

	msg := s.SendMessage(ops.ID, "status report", admin.ID, "", nil)
	if msg == nil {
		t.Fatal("admin send failed")
	}
	if msg.UserName != admin.FullName || msg.UserRank != admin.Rank || msg.UserRole != state.RoleAdmin {
		t.Fatalf("author snapshot wrong: %+v", msg)
	}

	// Author rename afterwards must not rewrite history.
	s.UpdateDisplayName(admin.ID, "Renamed")
	got := s.ChannelMessages(ops.ID)
	if got[len(got)-1].UserName != admin.FullName {
		t.Fatal("author snapshot mutated after rename")
	}
}

func TestLockedChannelBypass(t *testing.T) {
	s, _, _ := newTestStore(t)
	admin := seededAdmin(t, s)
	officer := approvedUser(t, s, "officer1")
	if res := s.AssignRole(officer.ID, state.RoleOfficer, admin.ID); !res.OK {
		t.Fatalf("promote: %s", res.Message)
	}
	ops := channelByName(t, s, "squadron-ops")
	s.LockChannel(ops.ID, true, admin.ID)

	if msg := s.SendMessage(ops.ID, "blocked", officer.ID, "", nil); msg != nil {
		t.Fatal("officer posted into locked channel")
	}
	if msg := s.SendMessage(ops.ID, "command override", admin.ID, "", nil); msg == nil {
		t.Fatal("admin should bypass channel lock")
	}

	s.LockChannel(ops.ID, false, admin.ID)
	if msg := s.SendMessage(ops.ID, "back online", officer.ID, "", nil); msg == nil {
		t.Fatal("officer should post after unlock")
	}
}

func TestEditMessageModeration(t *testing.T) {
	s, _, _ := newTestStore(t)
	admin := seededAdmin(t, s)
	author := approvedUser(t, s, "author1")
	bystander := approvedUser(t, s, "bystander")
	ops := channelByName(t, s, "squadron-ops")

	msg := s.SendMessage(ops.ID, "original", author.ID, "", nil)
	if msg == nil {
		t.Fatal("send failed")
	}

	s.EditMessage(msg.ID, "hijacked", bystander.ID)
	if got := findMessage(t, s, msg.ID); got.Content != "original" || got.IsEdited {
		t.Fatal("bystander edit should be a no-op")
	}

	s.EditMessage(msg.ID, "corrected", author.ID)
	if got := findMessage(t, s, msg.ID); got.Content != "corrected" || !got.IsEdited || got.EditedAt == nil {
		t.Fatalf("author edit not applied: %+v", got)
	}

	s.EditMessage(msg.ID, "redacted", admin.ID)
	if got := findMessage(t, s, msg.ID); got.Content != "redacted" {
		t.Fatal("admin edit not applied")
	}
}

func findMessage(t *testing.T, s *CommandStore, id string) state.Message {
	t.Helper()
	for _, m := range s.Snapshot().Messages {
		if m.ID == id {
			return m
		}
	}
	t.Fatalf("message %s missing", id)
	return state.Message{}
}

func TestDeleteMessageIsHardDelete(t *testing.T) {
	s, _, _ := newTestStore(t)
	author := approvedUser(t, s, "author1")
	bystander := approvedUser(t, s, "bystander")
	ops := channelByName(t, s, "squadron-ops")

	msg := s.SendMessage(ops.ID, "to delete", author.ID, "", nil)
	if msg == nil {
		t.Fatal("send failed")
	}

	s.DeleteMessage(msg.ID, bystander.ID)
	if len(s.ChannelMessages(ops.ID)) != 1 {
		t.Fatal("bystander delete should be a no-op")
	}

	s.DeleteMessage(msg.ID, author.ID)
	for _, m := range s.Snapshot().Messages {
		if m.ID == msg.ID {
			t.Fatal("message survived delete")
		}
	}
}

func TestReplyAndMediaReferences(t *testing.T) {
	s, _, _ := newTestStore(t)
	admin := seededAdmin(t, s)
	ops := channelByName(t, s, "squadron-ops")

	first := s.SendMessage(ops.ID, "first", admin.ID, "", nil)
	reply := s.SendMessage(ops.ID, "reply", admin.ID, first.ID, []string{"media-1"})
	if reply.ReplyTo != first.ID {
		t.Fatalf("reply target lost: %q", reply.ReplyTo)
	}
	if len(reply.MediaURLs) != 1 || reply.MediaURLs[0] != "media-1" {
		t.Fatalf("media refs lost: %+v", reply.MediaURLs)
	}
}
