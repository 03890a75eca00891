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

type CreateEmployeeRequest struct {
	UserID       string          `json:"user_id" binding:"required,uuid"`
	FirstName    string          `json:"first_name" binding:"required"`
	LastName     string          `json:"last_name" binding:"required"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	Position     string          `json:"position"`
	DepartmentID string          `json:"department_id" binding:"omitempty,uuid"`
	HireDate     string          `json:"hire_date"` // YYYY-MM-DD
	Salary       decimal.Decimal `json:"salary"`
}

type UpdateEmployeeRequest struct {
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	Phone        string           `json:"phone"`
	Address      string           `json:"address"`
	Position     string           `json:"position"`
	DepartmentID string           `json:"department_id" binding:"omitempty,uuid"`
	Salary       *decimal.Decimal `json:"salary"`
}

// --- Interface ---

type EmployeeService interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (*model.Employee, error)
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	List(ctx context.Context, page, limit int, departmentID string) ([]model.Employee, int64, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (*model.Employee, error)
	Delete(ctx context.Context, id string) error
}

type employeeService struct {
	employees   repository.EmployeeRepository
	departments repository.DepartmentRepository
	users       repository.UserRepository
}

func NewEmployeeService(employees repository.EmployeeRepository, departments repository.DepartmentRepository, users repository.UserRepository) EmployeeService {
	return &employeeService{employees: employees, departments: departments, users: users}
}

// --- Implementation ---

func (s *employeeService) Create(ctx context.Context, req CreateEmployeeRequest) (*model.Employee, error) {
	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, apperror.NotFound("User not found")
	}

	if _, err := s.employees.GetByUserID(ctx, req.UserID); err == nil {
		return nil, apperror.Conflict("Employee profile already exists for this user")
	}

	employee := &model.Employee{
		UserID:    user.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		Position:  req.Position,
		Salary:    req.Salary,
	}

	if req.DepartmentID != "" {
		department, err := s.departments.GetByID(ctx, req.DepartmentID)
		if err != nil {
			return nil, apperror.NotFound("Department not found")
		}
		employee.DepartmentID = &department.ID
	}

	if req.HireDate != "" {
		hireDate, err := time.Parse("2006-01-02", req.HireDate)
		if err != nil {
			return nil, apperror.BadRequest("hire_date must be YYYY-MM-DD")
		}
		employee.HireDate = &hireDate
	}

	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, apperror.Internal("failed to create employee", err)
	}

	return s.employees.GetByID(ctx, employee.ID.String())
}

func (s *employeeService) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Employee not found")
		}
		return nil, apperror.Internal("failed to load employee", err)
	}
	return employee, nil
}

func (s *employeeService) List(ctx context.Context, page, limit int, departmentID string) ([]model.Employee, int64, error) {
	if departmentID != "" {
		if _, err := uuid.Parse(departmentID); err != nil {
			return nil, 0, apperror.BadRequest("department_id must be a valid uuid")
		}
	}
	return s.employees.List(ctx, page, limit, departmentID)
}

func (s *employeeService) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (*model.Employee, error) {
	employee, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		employee.FirstName = req.FirstName
	}
	if req.LastName != "" {
		employee.LastName = req.LastName
	}
	if req.Phone != "" {
		employee.Phone = req.Phone
	}
	if req.Address != "" {
		employee.Address = req.Address
	}
	if req.Position != "" {
		employee.Position = req.Position
	}
	if req.Salary != nil {
		if req.Salary.IsNegative() {
			return nil, apperror.BadRequest("salary cannot be negative")
		}
		employee.Salary = *req.Salary
	}
	if req.DepartmentID != "" {
		department, err := s.departments.GetByID(ctx, req.DepartmentID)
		if err != nil {
			return nil, apperror.NotFound("Department not found")
		}
		employee.DepartmentID = &department.ID
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, apperror.Internal("failed to update employee", err)
	}

	return s.employees.GetByID(ctx, id)
}

func (s *employeeService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return apperror.Internal("failed to delete employee", err)
	}
	return nil
}
