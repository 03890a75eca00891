package service_test

import (
	"context"
	"net/http"
	"testing"

	"hrms/internal/apperror"
	"hrms/internal/model"
	"hrms/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *testStack) newEmployee(t *testing.T, email string) uuid.UUID {
	t.Helper()

	res := s.register(t, email, "password123")
	_, err := s.auth.UpdateProfile(context.Background(), res.User.ID.String(), service.UpdateProfileRequest{
		FirstName: "Test",
		LastName:  "Employee",
	})
	require.NoError(t, err)

	employee, err := s.employees.GetByUserID(context.Background(), res.User.ID.String())
	require.NoError(t, err)
	return employee.ID
}

func TestCreateLeaveRequest(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	employeeID := s.newEmployee(t, "alice@example.com")

	leave, err := s.leaveSvc.Create(ctx, employeeID, service.CreateLeaveRequest{
		Type:      model.LeaveTypeAnnual,
		StartDate: "2026-09-07",
		EndDate:   "2026-09-11",
		Reason:    "vacation",
	})
	require.NoError(t, err)
	assert.Equal(t, model.LeaveStatusPending, leave.Status)
	assert.Equal(t, "5", leave.Days.String())
	assert.Nil(t, leave.ReviewerID)
}

func TestCreateLeaveValidation(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	employeeID := s.newEmployee(t, "alice@example.com")

	_, err := s.leaveSvc.Create(ctx, employeeID, service.CreateLeaveRequest{
		Type:      model.LeaveTypeAnnual,
		StartDate: "not-a-date",
		EndDate:   "2026-09-11",
	})
	appErr := apperror.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)

	_, err = s.leaveSvc.Create(ctx, employeeID, service.CreateLeaveRequest{
		Type:      model.LeaveTypeAnnual,
		StartDate: "2026-09-11",
		EndDate:   "2026-09-07",
	})
	appErr = apperror.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "end_date must not be before start_date", appErr.Message)
}

func TestCreateLeaveRejectsOverlap(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	employeeID := s.newEmployee(t, "alice@example.com")

	_, err := s.leaveSvc.Create(ctx, employeeID, service.CreateLeaveRequest{
		Type:      model.LeaveTypeAnnual,
		StartDate: "2026-09-07",
		EndDate:   "2026-09-11",
	})
	require.NoError(t, err)

	// Overlaps the tail of the existing request.
	_, err = s.leaveSvc.Create(ctx, employeeID, service.CreateLeaveRequest{
		Type:      model.LeaveTypeSick,
		StartDate: "2026-09-10",
		EndDate:   "2026-09-14",
	})
	appErr := apperror.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "An overlapping leave request already exists", appErr.Message)

	// A different employee may take the same dates.
	otherID := s.newEmployee(t, "bob@example.com")
	_, err = s.leaveSvc.Create(ctx, otherID, service.CreateLeaveRequest{
		Type:      model.LeaveTypeAnnual,
		StartDate: "2026-09-10",
		EndDate:   "2026-09-14",
	})
	assert.NoError(t, err)
}

func TestApproveAndRejectLeave(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	employeeID := s.newEmployee(t, "alice@example.com")
	reviewerID := uuid.New()

	leave, err := s.leaveSvc.Create(ctx, employeeID, service.CreateLeaveRequest{
		Type:      model.LeaveTypeAnnual,
		StartDate: "2026-09-07",
		EndDate:   "2026-09-08",
	})
	require.NoError(t, err)

	approved, err := s.leaveSvc.Approve(ctx, leave.ID.String(), reviewerID)
	require.NoError(t, err)
	assert.Equal(t, model.LeaveStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewerID)
	assert.Equal(t, reviewerID, *approved.ReviewerID)
	assert.NotNil(t, approved.ReviewedAt)

	// Review is terminal.
	_, err = s.leaveSvc.Reject(ctx, leave.ID.String(), reviewerID, service.ReviewLeaveRequest{})
	appErr := apperror.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "Leave request has already been reviewed", appErr.Message)

	assert.Contains(t, s.auditActions(t), model.ActionApproveLeave)
}

func TestCancelLeave(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	employeeID := s.newEmployee(t, "alice@example.com")
	otherID := s.newEmployee(t, "bob@example.com")

	leave, err := s.leaveSvc.Create(ctx, employeeID, service.CreateLeaveRequest{
		Type:      model.LeaveTypeUnpaid,
		StartDate: "2026-09-07",
		EndDate:   "2026-09-08",
	})
	require.NoError(t, err)

	err = s.leaveSvc.Cancel(ctx, leave.ID.String(), otherID)
	appErr := apperror.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusForbidden, appErr.Status)

	require.NoError(t, s.leaveSvc.Cancel(ctx, leave.ID.String(), employeeID))

	got, err := s.leaveSvc.GetByID(ctx, leave.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.LeaveStatusRejected, got.Status)
}
