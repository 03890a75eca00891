package service

import (
	"context"
	"errors"
	"time"

	"hrms/internal/apperror"
	"hrms/internal/model"
	"hrms/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateLeaveRequest struct {
	Type      string `json:"type" binding:"required,oneof=annual sick unpaid"`
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

type ReviewLeaveRequest struct {
	Comment string `json:"comment"`
}

// --- Interface ---

type LeaveService interface {
	Create(ctx context.Context, employeeID uuid.UUID, req CreateLeaveRequest) (*model.LeaveRequest, error)
	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	List(ctx context.Context, page, limit int, employeeID, status string) ([]model.LeaveRequest, int64, error)
	Approve(ctx context.Context, id string, reviewerID uuid.UUID) (*model.LeaveRequest, error)
	Reject(ctx context.Context, id string, reviewerID uuid.UUID, req ReviewLeaveRequest) (*model.LeaveRequest, error)
	Cancel(ctx context.Context, id string, employeeID uuid.UUID) error
}

type leaveService struct {
	leaves    repository.LeaveRepository
	audit     repository.AuditRepository
	txManager repository.TransactionManager
}

func NewLeaveService(leaves repository.LeaveRepository, audit repository.AuditRepository, txManager repository.TransactionManager) LeaveService {
	return &leaveService{leaves: leaves, audit: audit, txManager: txManager}
}

// --- Implementation ---

func (s *leaveService) Create(ctx context.Context, employeeID uuid.UUID, req CreateLeaveRequest) (*model.LeaveRequest, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, apperror.BadRequest("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, apperror.BadRequest("end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, apperror.BadRequest("end_date must not be before start_date")
	}

	leave := &model.LeaveRequest{
		EmployeeID: employeeID,
		Type:       req.Type,
		StartDate:  start,
		EndDate:    end,
		Days:       decimal.NewFromInt(int64(end.Sub(start).Hours()/24) + 1),
		Reason:     req.Reason,
		Status:     model.LeaveStatusPending,
	}

	overlapping, err := s.leaves.CountOverlapping(ctx, employeeID.String(), leave)
	if err != nil {
		return nil, apperror.Internal("failed to check overlapping leave", err)
	}
	if overlapping > 0 {
		return nil, apperror.Conflict("An overlapping leave request already exists")
	}

	if err := s.leaves.Create(ctx, leave); err != nil {
		return nil, apperror.Internal("failed to create leave request", err)
	}
	return s.leaves.GetByID(ctx, leave.ID.String())
}

func (s *leaveService) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	leave, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Leave request not found")
		}
		return nil, apperror.Internal("failed to load leave request", err)
	}
	return leave, nil
}

func (s *leaveService) List(ctx context.Context, page, limit int, employeeID, status string) ([]model.LeaveRequest, int64, error) {
	return s.leaves.List(ctx, page, limit, employeeID, status)
}

func (s *leaveService) Approve(ctx context.Context, id string, reviewerID uuid.UUID) (*model.LeaveRequest, error) {
	return s.review(ctx, id, reviewerID, model.LeaveStatusApproved, model.ActionApproveLeave, "")
}

func (s *leaveService) Reject(ctx context.Context, id string, reviewerID uuid.UUID, req ReviewLeaveRequest) (*model.LeaveRequest, error) {
	return s.review(ctx, id, reviewerID, model.LeaveStatusRejected, model.ActionRejectLeave, req.Comment)
}

func (s *leaveService) review(ctx context.Context, id string, reviewerID uuid.UUID, status, action, comment string) (*model.LeaveRequest, error) {
	leave, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if leave.Status != model.LeaveStatusPending {
		return nil, apperror.Conflict("Leave request has already been reviewed")
	}

	now := time.Now()
	leave.Status = status
	leave.ReviewerID = &reviewerID
	leave.ReviewedAt = &now

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.leaves.Update(txCtx, leave); err != nil {
			return err
		}
		return s.audit.Create(txCtx, &model.AuditLog{
			UserID:   &reviewerID,
			Action:   action,
			EntityID: leave.ID.String(),
			Details:  comment,
		})
	})
	if err != nil {
		return nil, apperror.Internal("failed to review leave request", err)
	}
	return leave, nil
}

func (s *leaveService) Cancel(ctx context.Context, id string, employeeID uuid.UUID) error {
	leave, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if leave.EmployeeID != employeeID {
		return apperror.Forbidden("You can only cancel your own leave requests")
	}
	if leave.Status != model.LeaveStatusPending {
		return apperror.Conflict("Only pending leave requests can be cancelled")
	}

	leave.Status = model.LeaveStatusRejected
	if err := s.leaves.Update(ctx, leave); err != nil {
		return apperror.Internal("failed to cancel leave request", err)
	}
	return nil
}
