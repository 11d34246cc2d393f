package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleStandard UserRole = "standard"
)

// Action names a gated operation for permission checks.
type Action string

const (
	ActionAuthorContent Action = "author_content"
	ActionDeleteContent Action = "delete_content"
	ActionViewSystem    Action = "view_system_stats"
	ActionViewAuditLog  Action = "view_audit_log"
	ActionExportReports Action = "export_reports"
)

// Can maps a role to its permission set. Admin-only actions are enumerated
// explicitly; everything else is open to any authenticated user.
func (r UserRole) Can(a Action) bool {
	switch a {
	case ActionAuthorContent, ActionDeleteContent, ActionViewSystem, ActionViewAuditLog, ActionExportReports:
		return r == RoleAdmin
	default:
		return true
	}
}

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleStandard
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null;size:150"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Role         UserRole `json:"role" gorm:"not null;default:standard;size:20;index"`

	// Stored as an opaque path, upload handling is out of scope.
	ProfilePicture *string `json:"profile_picture" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Quizzes     []Quiz           `json:"-" gorm:"foreignKey:CreatedBy"`
	Submissions []QuizSubmission `json:"-" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
