package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

const (
	LeaveTypeAnnual = "annual"
	LeaveTypeSick   = "sick"
	LeaveTypeUnpaid = "unpaid"
)

// LeaveRequest is an employee's request for time off. Days is decimal to
// allow half-day leave.
type LeaveRequest struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee   Employee        `gorm:"foreignKey:EmployeeID" json:"employee"`
	Type       string          `gorm:"type:varchar(20);not null" json:"type"`
	StartDate  time.Time       `gorm:"not null" json:"start_date"`
	EndDate    time.Time       `gorm:"not null" json:"end_date"`
	Days       decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"days"`
	Reason     string          `gorm:"type:text" json:"reason"`
	Status     string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewerID *uuid.UUID      `gorm:"type:uuid" json:"reviewer_id"`
	ReviewedAt *time.Time      `json:"reviewed_at"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (l *LeaveRequest) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
