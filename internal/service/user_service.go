package service

import (
	"context"
	"errors"

	"hrms/internal/apperror"
	"hrms/internal/model"
	"hrms/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive"`
}

type UpdateUserRoleRequest struct {
	RoleID string `json:"role_id" binding:"required,uuid"`
}

// --- Interface ---

type UserService interface {
	List(ctx context.Context, page, limit int) ([]model.User, int64, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateStatus(ctx context.Context, id string, actorID uuid.UUID, req UpdateUserStatusRequest) (*model.User, error)
	UpdateRole(ctx context.Context, id string, actorID uuid.UUID, req UpdateUserRoleRequest) (*model.User, error)
}

type userService struct {
	users     repository.UserRepository
	roles     repository.RoleRepository
	audit     repository.AuditRepository
	txManager repository.TransactionManager
}

func NewUserService(users repository.UserRepository, roles repository.RoleRepository, audit repository.AuditRepository, txManager repository.TransactionManager) UserService {
	return &userService{users: users, roles: roles, audit: audit, txManager: txManager}
}

// --- Implementation ---

func (s *userService) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	return s.users.List(ctx, page, limit)
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal("failed to load user", err)
	}
	return user, nil
}

// UpdateStatus toggles a user between active and inactive. An inactive user
// is rejected by the authentication middleware on their next request, even
// with a still-valid access token.
func (s *userService) UpdateStatus(ctx context.Context, id string, actorID uuid.UUID, req UpdateUserStatusRequest) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ID == actorID {
		return nil, apperror.BadRequest("You cannot change your own status")
	}

	user.Status = req.Status
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.users.Update(txCtx, user); err != nil {
			return err
		}
		return s.audit.Create(txCtx, &model.AuditLog{
			UserID:   &actorID,
			Action:   model.ActionDeactivateUser,
			EntityID: user.ID.String(),
			Details:  "status set to " + req.Status,
		})
	})
	if err != nil {
		return nil, apperror.Internal("failed to update user status", err)
	}
	return user, nil
}

func (s *userService) UpdateRole(ctx context.Context, id string, actorID uuid.UUID, req UpdateUserRoleRequest) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := s.roles.GetByID(ctx, req.RoleID)
	if err != nil {
		return nil, apperror.NotFound("Role not found")
	}

	user.RoleID = role.ID
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.users.Update(txCtx, user); err != nil {
			return err
		}
		return s.audit.Create(txCtx, &model.AuditLog{
			UserID:   &actorID,
			Action:   model.ActionUpdateRole,
			EntityID: user.ID.String(),
			Details:  "role set to " + role.Name,
		})
	})
	if err != nil {
		return nil, apperror.Internal("failed to update user role", err)
	}
	return s.GetByID(ctx, id)
}
