package service_test

import (
	"context"
	"net/http"
	"testing"

	"hrms/internal/apperror"
	"hrms/internal/model"
	"hrms/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateUserStatus(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	alice := s.register(t, "alice@example.com", "password123")
	admin := s.register(t, "admin@example.com", "password123")

	user, err := s.userService.UpdateStatus(ctx, alice.User.ID.String(), admin.User.ID, service.UpdateUserStatusRequest{
		Status: model.UserStatusInactive,
	})
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusInactive, user.Status)

	// The deactivated account can no longer log in.
	_, err = s.auth.Login(ctx, service.LoginRequest{Email: "alice@example.com", Password: "password123"}, "127.0.0.1")
	appErr := apperror.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)

	assert.Contains(t, s.auditActions(t), model.ActionDeactivateUser)
}

func TestUpdateOwnStatusRejected(t *testing.T) {
	s := newTestStack(t)

	admin := s.register(t, "admin@example.com", "password123")

	_, err := s.userService.UpdateStatus(context.Background(), admin.User.ID.String(), admin.User.ID, service.UpdateUserStatusRequest{
		Status: model.UserStatusInactive,
	})
	appErr := apperror.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "You cannot change your own status", appErr.Message)
}

func TestUpdateUserRole(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	require.NoError(t, s.roleService.SeedDefaults(ctx))

	alice := s.register(t, "alice@example.com", "password123")
	admin := s.register(t, "admin@example.com", "password123")

	hr, err := s.roles.GetByName(ctx, "HR Manager")
	require.NoError(t, err)

	user, err := s.userService.UpdateRole(ctx, alice.User.ID.String(), admin.User.ID, service.UpdateUserRoleRequest{
		RoleID: hr.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, hr.ID, user.RoleID)

	// The next login reflects the new role without re-registration.
	login, err := s.auth.Login(ctx, service.LoginRequest{Email: "alice@example.com", Password: "password123"}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "HR Manager", login.User.Role)

	_, err = s.userService.UpdateRole(ctx, alice.User.ID.String(), admin.User.ID, service.UpdateUserRoleRequest{
		RoleID: "00000000-0000-0000-0000-000000000009",
	})
	appErr := apperror.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "Role not found", appErr.Message)
}
