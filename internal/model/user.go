package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User is the account record the auth core operates on. Everything that is
// HR data (name, position, salary) lives on the linked Employee profile.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Status       string         `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	RoleID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"role_id"`
	Role         Role           `gorm:"foreignKey:RoleID" json:"role"`
	AvatarURL    string         `gorm:"type:varchar(500)" json:"avatar_url"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
	Employee     *Employee      `gorm:"foreignKey:UserID" json:"employee,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns the ID client-side so every supported database,
// including the sqlite test driver, stores the same uuid.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsActive reports whether the account may authenticate. Checked fresh on
// every request, never trusted from token claims.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
