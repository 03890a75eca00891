package service_test

import (
	"context"
	"net/http"
	"testing"

	"hrms/internal/apperror"
	"hrms/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepartmentCRUD(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	departments := service.NewDepartmentService(s.departments)

	created, err := departments.Create(ctx, service.CreateDepartmentRequest{
		Name:        "Engineering",
		Description: "Builds the product",
	})
	require.NoError(t, err)

	_, err = departments.Create(ctx, service.CreateDepartmentRequest{Name: "Engineering"})
	appErr := apperror.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Status)

	updated, err := departments.Update(ctx, created.ID.String(), service.UpdateDepartmentRequest{Name: "Platform"})
	require.NoError(t, err)
	assert.Equal(t, "Platform", updated.Name)

	all, err := departments.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, departments.Delete(ctx, created.ID.String()))
	_, err = departments.GetByID(ctx, created.ID.String())
	assert.Error(t, err)
}

func TestDepartmentDeleteBlockedWhileStaffed(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	departments := service.NewDepartmentService(s.departments)
	employees := service.NewEmployeeService(s.employees, s.departments, s.users)

	dept, err := departments.Create(ctx, service.CreateDepartmentRequest{Name: "Engineering"})
	require.NoError(t, err)

	res := s.register(t, "alice@example.com", "password123")
	_, err = employees.Create(ctx, service.CreateEmployeeRequest{
		UserID:       res.User.ID.String(),
		FirstName:    "Alice",
		LastName:     "Nguyen",
		DepartmentID: dept.ID.String(),
		Salary:       decimal.NewFromInt(90000),
	})
	require.NoError(t, err)

	err = departments.Delete(ctx, dept.ID.String())
	appErr := apperror.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "Department still has employees assigned", appErr.Message)
}

func TestEmployeeCreateGuards(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	employees := service.NewEmployeeService(s.employees, s.departments, s.users)

	_, err := employees.Create(ctx, service.CreateEmployeeRequest{
		UserID:    "11111111-1111-1111-1111-111111111111",
		FirstName: "Ghost",
		LastName:  "User",
	})
	appErr := apperror.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "User not found", appErr.Message)

	res := s.register(t, "alice@example.com", "password123")
	_, err = employees.Create(ctx, service.CreateEmployeeRequest{
		UserID:    res.User.ID.String(),
		FirstName: "Alice",
		LastName:  "Nguyen",
		HireDate:  "2026-01-05",
	})
	require.NoError(t, err)

	// One employee record per user.
	_, err = employees.Create(ctx, service.CreateEmployeeRequest{
		UserID:    res.User.ID.String(),
		FirstName: "Alice",
		LastName:  "Again",
	})
	appErr = apperror.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}
