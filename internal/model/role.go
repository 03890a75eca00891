package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a named permission bundle. IsSystem protects built-in roles from
// deletion; IsBypass marks the role whose holders pass every permission
// check regardless of their assigned set.
type Role struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	IsSystem    bool         `gorm:"default:false" json:"is_system"`
	IsBypass    bool         `gorm:"default:false" json:"is_bypass"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (r *Role) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// PermissionCodes flattens the role's permission set to "resource.action"
// strings.
func (r *Role) PermissionCodes() []string {
	codes := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		codes = append(codes, p.Code())
	}
	return codes
}

// Permission is an atomic (resource, action) capability.
type Permission struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Resource    string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_permissions_resource_action" json:"resource"`
	Action      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_permissions_resource_action" json:"action"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
}

func (p *Permission) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Code renders the permission in its canonical "resource.action" form.
func (p Permission) Code() string {
	return p.Resource + "." + p.Action
}
