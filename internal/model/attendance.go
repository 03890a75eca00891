package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AttendanceRecord tracks a single working day: one clock-in, at most one
// clock-out. Hours is derived at clock-out time.
type AttendanceRecord struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_employee_date" json:"employee_id"`
	Employee   Employee        `gorm:"foreignKey:EmployeeID" json:"employee"`
	WorkDate   time.Time       `gorm:"type:date;not null;uniqueIndex:idx_attendance_employee_date" json:"work_date"`
	ClockIn    time.Time       `gorm:"not null" json:"clock_in"`
	ClockOut   *time.Time      `json:"clock_out"`
	Hours      decimal.Decimal `gorm:"type:numeric(5,2);default:0" json:"hours"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *AttendanceRecord) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
