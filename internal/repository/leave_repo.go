package repository

import (
	"context"

	"hrms/internal/model"

	"gorm.io/gorm"
)

type LeaveRepository interface {
	Create(ctx context.Context, leave *model.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	List(ctx context.Context, page, limit int, employeeID, status string) ([]model.LeaveRequest, int64, error)
	Update(ctx context.Context, leave *model.LeaveRequest) error
	// CountOverlapping returns the number of non-rejected requests for the
	// employee whose date range intersects [start, end].
	CountOverlapping(ctx context.Context, employeeID string, leave *model.LeaveRequest) (int64, error)
}

type leaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &leaveRepository{db: db}
}

func (r *leaveRepository) Create(ctx context.Context, leave *model.LeaveRequest) error {
	return GetDB(ctx, r.db).Create(leave).Error
}

func (r *leaveRepository) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	var leave model.LeaveRequest
	if err := GetDB(ctx, r.db).Preload("Employee").First(&leave, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &leave, nil
}

func (r *leaveRepository) List(ctx context.Context, page, limit int, employeeID, status string) ([]model.LeaveRequest, int64, error) {
	var leaves []model.LeaveRequest
	var total int64

	query := GetDB(ctx, r.db).Model(&model.LeaveRequest{})
	if employeeID != "" {
		query = query.Where("employee_id = ?", employeeID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("Employee").Order("created_at DESC").Offset(offset).Limit(limit).Find(&leaves).Error; err != nil {
		return nil, 0, err
	}

	return leaves, total, nil
}

func (r *leaveRepository) Update(ctx context.Context, leave *model.LeaveRequest) error {
	return GetDB(ctx, r.db).Save(leave).Error
}

func (r *leaveRepository) CountOverlapping(ctx context.Context, employeeID string, leave *model.LeaveRequest) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", model.LeaveStatusRejected).
		Where("start_date <= ? AND end_date >= ?", leave.EndDate, leave.StartDate).
		Count(&count).Error
	return count, err
}
