package domain

import "time"

// AccessLevel is the caller's authorization tier, resolved once per
// authenticated request and passed by value into permission checks.
type AccessLevel string

const (
	AccessLevelRegular AccessLevel = "regular"
	AccessLevelStaff   AccessLevel = "staff"
	AccessLevelAdmin   AccessLevel = "admin"
)

// AtLeast reports whether l grants everything level grants.
func (l AccessLevel) AtLeast(level AccessLevel) bool {
	rank := map[AccessLevel]int{
		AccessLevelRegular: 0,
		AccessLevelStaff:   1,
		AccessLevelAdmin:   2,
	}
	return rank[l] >= rank[level]
}

// AssistantEmail identifies the automated assistant pseudo-user: a regular
// user row flagged staff, used as the author of generated comments.
const AssistantEmail = "ai.assistant@helpdesk.local"

// User is the single principal table: requesters, support staff, admins and
// the assistant pseudo-user all live here, distinguished by AccessLevel.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	AccessLevel  AccessLevel
	DepartmentID *string
	Active       bool
	IsAssistant  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsStaff reports whether the user handles tickets.
func (u *User) IsStaff() bool {
	return u.AccessLevel.AtLeast(AccessLevelStaff)
}
