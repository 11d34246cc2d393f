package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditRead   AuditAction = "read"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
	AuditLogin  AuditAction = "login"
	AuditLogout AuditAction = "logout"
)

// AuditLog is append-only. Nothing in the application updates or deletes
// rows; UserID survives user deletion as NULL.
type AuditLog struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    *uint          `json:"user_id" gorm:"index"`
	Action    AuditAction    `json:"action" gorm:"not null;size:20;index"`
	ModelName string         `json:"model_name" gorm:"not null;size:100;index"`
	ObjectID  *uint          `json:"object_id"`
	Details   string         `json:"details" gorm:"type:text"`
	IPAddress *string        `json:"ip_address" gorm:"size:45"`
	UserAgent string         `json:"user_agent" gorm:"type:text"`
	Metadata  datatypes.JSON `json:"metadata" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
