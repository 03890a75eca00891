package service

import (
	"context"
	"errors"

	"hrms/internal/apperror"
	"hrms/internal/model"
	"hrms/internal/repository"

	"gorm.io/gorm"
)

// --- DTOs ---

type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateDepartmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// --- Interface ---

type DepartmentService interface {
	Create(ctx context.Context, req CreateDepartmentRequest) (*model.Department, error)
	GetByID(ctx context.Context, id string) (*model.Department, error)
	List(ctx context.Context) ([]model.Department, error)
	Update(ctx context.Context, id string, req UpdateDepartmentRequest) (*model.Department, error)
	Delete(ctx context.Context, id string) error
}

type departmentService struct {
	departments repository.DepartmentRepository
}

func NewDepartmentService(departments repository.DepartmentRepository) DepartmentService {
	return &departmentService{departments: departments}
}

// --- Implementation ---

func (s *departmentService) Create(ctx context.Context, req CreateDepartmentRequest) (*model.Department, error) {
	if _, err := s.departments.GetByName(ctx, req.Name); err == nil {
		return nil, apperror.Conflict("Department name already exists")
	}

	department := &model.Department{Name: req.Name, Description: req.Description}
	if err := s.departments.Create(ctx, department); err != nil {
		return nil, apperror.Internal("failed to create department", err)
	}
	return department, nil
}

func (s *departmentService) GetByID(ctx context.Context, id string) (*model.Department, error) {
	department, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Department not found")
		}
		return nil, apperror.Internal("failed to load department", err)
	}
	return department, nil
}

func (s *departmentService) List(ctx context.Context) ([]model.Department, error) {
	return s.departments.List(ctx)
}

func (s *departmentService) Update(ctx context.Context, id string, req UpdateDepartmentRequest) (*model.Department, error) {
	department, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" && req.Name != department.Name {
		if _, err := s.departments.GetByName(ctx, req.Name); err == nil {
			return nil, apperror.Conflict("Department name already exists")
		}
		department.Name = req.Name
	}
	if req.Description != "" {
		department.Description = req.Description
	}

	if err := s.departments.Update(ctx, department); err != nil {
		return nil, apperror.Internal("failed to update department", err)
	}
	return department, nil
}

func (s *departmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.departments.CountEmployees(ctx, id)
	if err != nil {
		return apperror.Internal("failed to count employees", err)
	}
	if count > 0 {
		return apperror.Conflict("Department still has employees assigned")
	}

	if err := s.departments.Delete(ctx, id); err != nil {
		return apperror.Internal("failed to delete department", err)
	}
	return nil
}
