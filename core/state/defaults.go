package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Seed credentials are fixed and well known: the default admin is provisioned
// on first run, the emergency admin whenever the admin-existence guarantee
// trips. Both are printed exactly once by the operator surface.
type SeedCredentials struct {
	Username  string
	Password  string
	FullName  string
	ServiceID string
	Rank      string
	Email     string
}

var DefaultAdmin = SeedCredentials{
	Username:  "admin",
	Password:  "FALCON-Command-2026",
	FullName:  "System Administrator",
	ServiceID: "FALCON-ADMIN-001",
	Rank:      "Air Marshal",
	Email:     "admin@falcon.mil",
}

var EmergencyAdmin = SeedCredentials{
	Username:  "emergency_admin",
	Password:  "FALCON-EMERGENCY-ACCESS",
	FullName:  "Emergency Administrator",
	ServiceID: "FALCON-EMRG-001",
	Rank:      "Air Marshal",
	Email:     "emergency@falcon.mil",
}

// NewSeedUser builds an approved admin account from seed credentials. The
// encode function is the credential encoding from core/auth; it is injected
// to keep this package free of the auth dependency.
func NewSeedUser(seed SeedCredentials, now time.Time, encode func(string) string) User {
	return User{
		ID:                NewID("user"),
		Username:          seed.Username,
		Password:          encode(seed.Password),
		FullName:          seed.FullName,
		ServiceID:         seed.ServiceID,
		Rank:              seed.Rank,
		Email:             seed.Email,
		Role:              RoleAdmin,
		IsApproved:        true,
		ClearanceLevel:    RoleHierarchy[RoleAdmin],
		CreatedAt:         now,
		LastActive:        now,
		PasswordChangedAt: now,
	}
}

type channelSeed struct {
	name        string
	category    string
	description string
	restricted  bool
	roles       []Role
	clearance   int
}

var defaultChannelSeeds = []channelSeed{
	{"command-briefings", "Command", "Official command announcements and briefings", true,
		[]Role{RoleAdmin, RoleModerator, RoleOfficer}, 3},
	{"squadron-ops", "Operations", "Squadron operations coordination", false,
		[]Role{RoleAdmin, RoleModerator, RoleOfficer, RoleEnlisted}, 1},
	{"air-defense", "Operations", "Air defense network communications", true,
		[]Role{RoleAdmin, RoleModerator, RoleOfficer}, 3},
	{"training-wing", "Training", "Training exercises and doctrine discussion", false,
		[]Role{RoleAdmin, RoleModerator, RoleOfficer, RoleEnlisted}, 1},
	{"intelligence", "Intelligence", "Classified intelligence briefings", true,
		[]Role{RoleAdmin, RoleModerator, RoleOfficer}, 4},
	{"general-hangar", "General", "General discussion and announcements", false,
		[]Role{RoleAdmin, RoleModerator, RoleOfficer, RoleEnlisted}, 1},
}

// DefaultChannels returns the fixed channel set, creation times staggered so
// the seeded order survives timestamp sorts.
func DefaultChannels(creatorID string, now time.Time) []Channel {
	channels := make([]Channel, 0, len(defaultChannelSeeds))
	for i, seed := range defaultChannelSeeds {
		channels = append(channels, Channel{
			ID:                NewID("chan"),
			Name:              seed.name,
			Category:          seed.category,
			Description:       seed.description,
			IsRestricted:      seed.restricted,
			AllowedRoles:      append([]Role(nil), seed.roles...),
			ClearanceRequired: seed.clearance,
			CreatedAt:         now.Add(time.Duration(i) * time.Millisecond),
			CreatedBy:         creatorID,
		})
	}
	return channels
}

// Initial constructs a complete first-run document: one seeded admin, the
// default channels, a welcome message in the first channel, a pinned welcome
// post, and a SYSTEM_INIT audit entry.
func Initial(now time.Time, encode func(string) string) *SystemState {
	admin := NewSeedUser(DefaultAdmin, now, encode)
	channels := DefaultChannels(admin.ID, now)

	return &SystemState{
		Version:           SchemaVersion,
		LastUpdated:       now,
		IsFirstRun:        true,
		SystemInitialized: true,
		Users:             []User{admin},
		Sessions:          []Session{},
		Channels:          channels,
		Messages: []Message{
			{
				ID:        NewID("msg"),
				ChannelID: channels[0].ID,
				UserID:    admin.ID,
				UserName:  admin.FullName,
				UserRank:  admin.Rank,
				UserRole:  admin.Role,
				Content: "Welcome to the Falcon Secure Command Network. This system is now operational. " +
					"All personnel must maintain operational security at all times.",
				Timestamp: now,
				MediaURLs: []string{},
			},
		},
		Posts: []Post{
			{
				ID:         NewID("post"),
				Author:     admin.FullName,
				AuthorID:   admin.ID,
				AuthorRank: admin.Rank,
				AuthorRole: admin.Role,
				Title:      "Welcome to the Command Bulletin Board",
				Content: "This is the official bulletin board for all network personnel. Important announcements " +
					"and operational updates will be posted here.\n\nAll personnel are required to check this board daily.",
				MediaURLs: []string{},
				Timestamp: now,
				IsPinned:  true,
				Comments:  []Comment{},
			},
		},
		Media:  []MediaItem{},
		Alerts: []SystemAlert{},
		Logs: []ActivityLog{
			{
				ID:        NewID("log"),
				UserID:    admin.ID,
				UserName:  admin.FullName,
				Action:    "SYSTEM_INIT",
				Details:   "Falcon Secure Command Network initialized successfully",
				Timestamp: now,
				IPAddress: "127.0.0.1",
			},
		},
	}
}

var requiredCollections = []string{"users", "channels", "messages", "posts", "media", "alerts", "logs"}

// ValidateShape checks that raw is a JSON object carrying every collection the
// document requires, each as a JSON array. Documents failing this check are
// rejected wholesale.
func ValidateShape(raw []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("not a JSON object: %w", err)
	}
	for _, field := range requiredCollections {
		val, ok := doc[field]
		if !ok {
			return fmt.Errorf("missing collection %q", field)
		}
		trimmed := bytes.TrimSpace(val)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			return fmt.Errorf("collection %q is not an array", field)
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(val, &arr); err != nil {
			return fmt.Errorf("collection %q is not an array", field)
		}
	}
	return nil
}
