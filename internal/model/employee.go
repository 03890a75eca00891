package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Employee is the HR profile record, keyed 1:1 to a User. The auth core
// creates it lazily on the first profile write; HR modules own it afterwards.
type Employee struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	FirstName    string          `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string          `gorm:"type:varchar(100)" json:"last_name"`
	Phone        string          `gorm:"type:varchar(20)" json:"phone"`
	Address      string          `gorm:"type:text" json:"address"`
	Position     string          `gorm:"type:varchar(100)" json:"position"`
	DepartmentID *uuid.UUID      `gorm:"type:uuid;index" json:"department_id"`
	Department   *Department     `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	HireDate     *time.Time      `json:"hire_date"`
	Salary       decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"salary"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (e *Employee) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Department groups employees for reporting and leave approval routing.
type Department struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d *Department) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
