package repository

import (
	"context"
	"time"

	"hrms/internal/model"

	"gorm.io/gorm"
)

type AttendanceRepository interface {
	Create(ctx context.Context, record *model.AttendanceRecord) error
	GetForDate(ctx context.Context, employeeID string, workDate time.Time) (*model.AttendanceRecord, error)
	GetLatestOpen(ctx context.Context, employeeID string) (*model.AttendanceRecord, error)
	List(ctx context.Context, page, limit int, employeeID string) ([]model.AttendanceRecord, int64, error)
	Update(ctx context.Context, record *model.AttendanceRecord) error
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, record *model.AttendanceRecord) error {
	return GetDB(ctx, r.db).Create(record).Error
}

func (r *attendanceRepository) GetForDate(ctx context.Context, employeeID string, workDate time.Time) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := GetDB(ctx, r.db).
		Where("employee_id = ? AND work_date = ?", employeeID, workDate).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetLatestOpen returns the most recent record that has not been clocked
// out yet, so a shift started before midnight can still be closed the
// next day.
func (r *attendanceRepository) GetLatestOpen(ctx context.Context, employeeID string) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := GetDB(ctx, r.db).
		Where("employee_id = ? AND clock_out IS NULL", employeeID).
		Order("work_date DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *attendanceRepository) List(ctx context.Context, page, limit int, employeeID string) ([]model.AttendanceRecord, int64, error) {
	var records []model.AttendanceRecord
	var total int64

	query := GetDB(ctx, r.db).Model(&model.AttendanceRecord{})
	if employeeID != "" {
		query = query.Where("employee_id = ?", employeeID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("Employee").Order("work_date DESC").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *attendanceRepository) Update(ctx context.Context, record *model.AttendanceRecord) error {
	return GetDB(ctx, r.db).Save(record).Error
}
