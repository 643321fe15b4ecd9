package state

import "time"

// SchemaVersion identifies the persisted document layout. Loads pin the
// running document to this version after merging stored data over defaults.
const SchemaVersion = "3.0.0"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleOfficer   Role = "officer"
	RoleEnlisted  Role = "enlisted"
	RolePending   Role = "pending"
)

type AlertLevel string

const (
	AlertNotice   AlertLevel = "notice"
	AlertElevated AlertLevel = "elevated"
	AlertHigh     AlertLevel = "high"
	AlertLockdown AlertLevel = "lockdown"
)

// User is an account record. ClearanceLevel is normally derived from the role
// weight, but the two may diverge (imports, archive gating); that divergence
// is permitted and intentional.
type User struct {
	ID                  string     `json:"id"`
	Username            string     `json:"username"`
	Password            string     `json:"password"` // encoded, see core/auth
	FullName            string     `json:"fullName"`
	DisplayName         string     `json:"displayName,omitempty"`
	ServiceID           string     `json:"serviceId"`
	Rank                string     `json:"rank"`
	Email               string     `json:"email"`
	Role                Role       `json:"role"`
	IsApproved          bool       `json:"isApproved"`
	ClearanceLevel      int        `json:"clearanceLevel"`
	AcceptedTerms       bool       `json:"acceptedTerms,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	LastActive          time.Time  `json:"lastActive"`
	IsOnline            bool       `json:"isOnline"`
	FailedLoginAttempts int        `json:"failedLoginAttempts"`
	LockoutUntil        *time.Time `json:"lockoutUntil"`
	PasswordChangedAt   time.Time  `json:"passwordChangedAt"`
}

// Name returns the preferred display name, falling back to the username.
func (u *User) Name() string {
	if u == nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	LoginTime    time.Time `json:"loginTime"`
	LastActivity time.Time `json:"lastActivity"`
	IsActive     bool      `json:"isActive"`
}

type Channel struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	Description       string    `json:"description"`
	IsRestricted      bool      `json:"isRestricted"`
	AllowedRoles      []Role    `json:"allowedRoles"`
	ClearanceRequired int       `json:"clearanceRequired"`
	IsLocked          bool      `json:"isLocked"`
	CreatedAt         time.Time `json:"createdAt"`
	CreatedBy         string    `json:"createdBy"`
}

// Message carries a denormalized author snapshot (name, rank, role at time of
// send), not a live user reference.
type Message struct {
	ID        string     `json:"id"`
	ChannelID string     `json:"channelId"`
	UserID    string     `json:"userId"`
	UserName  string     `json:"userName"`
	UserRank  string     `json:"userRank"`
	UserRole  Role       `json:"userRole"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	IsEdited  bool       `json:"isEdited"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
	ReplyTo   string     `json:"replyTo,omitempty"`
	MediaURLs []string   `json:"mediaUrls"`
}

type Comment struct {
	ID         string    `json:"id"`
	Author     string    `json:"author"`
	AuthorID   string    `json:"authorId"`
	AuthorRank string    `json:"authorRank"`
	AuthorRole Role      `json:"authorRole"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

type Post struct {
	ID         string     `json:"id"`
	Author     string     `json:"author"`
	AuthorID   string     `json:"authorId"`
	AuthorRank string     `json:"authorRank"`
	AuthorRole Role       `json:"authorRole"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	MediaURLs  []string   `json:"mediaUrls"`
	Timestamp  time.Time  `json:"timestamp"`
	IsEdited   bool       `json:"isEdited"`
	EditedAt   *time.Time `json:"editedAt,omitempty"`
	IsPinned   bool       `json:"isPinned"`
	Comments   []Comment  `json:"comments"`
}

type MediaLink struct {
	Type string `json:"type"` // "message" or "post"
	ID   string `json:"id"`
}

type MediaItem struct {
	ID         string     `json:"id"`
	Uploader   string     `json:"uploader"`
	UploaderID string     `json:"uploaderId"`
	FileName   string     `json:"fileName"`
	FileType   string     `json:"fileType"`
	FileSize   int64      `json:"fileSize"`
	DataURL    string     `json:"dataUrl"`
	SHA256     string     `json:"sha256,omitempty"`
	LinkedTo   *MediaLink `json:"linkedTo,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

type SystemAlert struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Level       AlertLevel `json:"level"`
	Author      string     `json:"author"`
	AuthorID    string     `json:"authorId"`
	Timestamp   time.Time  `json:"timestamp"`
	IsActive    bool       `json:"isActive"`
	DismissedBy []string   `json:"dismissedBy"`
}

type ActivityLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
	IPAddress string    `json:"ipAddress,omitempty"`
}

// SystemState is the root aggregate. It exclusively owns every collection;
// entities reference each other only by ID.
type SystemState struct {
	Version           string        `json:"version"`
	LastUpdated       time.Time     `json:"lastUpdated"`
	IsFirstRun        bool          `json:"isFirstRun"`
	SystemInitialized bool          `json:"systemInitialized"`
	Users             []User        `json:"users"`
	Sessions          []Session     `json:"sessions"`
	CurrentUserID     string        `json:"currentUserId,omitempty"`
	Channels          []Channel     `json:"channels"`
	Messages          []Message     `json:"messages"`
	Posts             []Post        `json:"posts"`
	Media             []MediaItem   `json:"media"`
	Alerts            []SystemAlert `json:"alerts"`
	Logs              []ActivityLog `json:"logs"`
}
