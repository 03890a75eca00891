package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionLogin            = "LOGIN"
	ActionLoginFailed      = "LOGIN_FAILED"
	ActionRegister         = "REGISTER"
	ActionRefreshToken     = "REFRESH_TOKEN"
	ActionChangePassword   = "CHANGE_PASSWORD"
	ActionUpdateProfile    = "UPDATE_PROFILE"
	ActionCreateRole       = "CREATE_ROLE"
	ActionUpdateRole       = "UPDATE_ROLE"
	ActionDeleteRole       = "DELETE_ROLE"
	ActionUpdateRolePerms  = "UPDATE_ROLE_PERMISSIONS"
	ActionDeactivateUser   = "DEACTIVATE_USER"
	ActionApproveLeave     = "APPROVE_LEAVE"
	ActionRejectLeave      = "REJECT_LEAVE"
)

// AuditLog tracks who did what and when for security-relevant events.
// UserID is nullable so failed logins for unknown accounts can be recorded.
type AuditLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User      *User      `gorm:"foreignKey:UserID" json:"user"`
	Action    string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID  string     `gorm:"type:varchar(50);index" json:"entity_id"`
	Details   string     `gorm:"type:text" json:"details"`
	IPAddress string     `gorm:"type:varchar(45)" json:"ip_address"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
