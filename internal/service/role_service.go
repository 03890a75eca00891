package service

import (
	"context"
	"errors"

	"hrms/internal/apperror"
	"hrms/internal/model"
	"hrms/internal/rbac"
	"hrms/internal/repository"

	"gorm.io/gorm"
)

// --- DTOs ---

type CreateRoleRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	PermissionIDs []string `json:"permission_ids"`
}

type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateRolePermissionsRequest struct {
	PermissionIDs []string `json:"permission_ids" binding:"required"`
}

// --- Interface ---

type RoleService interface {
	ListRoles(ctx context.Context) ([]model.Role, error)
	GetRole(ctx context.Context, id string) (*model.Role, error)
	CreateRole(ctx context.Context, req CreateRoleRequest) (*model.Role, error)
	UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*model.Role, error)
	DeleteRole(ctx context.Context, id string) error
	UpdateRolePermissions(ctx context.Context, id string, req UpdateRolePermissionsRequest) (*model.Role, error)
	ListPermissions(ctx context.Context) ([]model.Permission, error)
	SeedDefaults(ctx context.Context) error
}

type roleService struct {
	roles repository.RoleRepository
	cache *rbac.Cache
	audit repository.AuditRepository
}

func NewRoleService(roles repository.RoleRepository, cache *rbac.Cache, audit repository.AuditRepository) RoleService {
	return &roleService{roles: roles, cache: cache, audit: audit}
}

// --- Implementation ---

func (s *roleService) ListRoles(ctx context.Context) ([]model.Role, error) {
	return s.roles.List(ctx)
}

func (s *roleService) GetRole(ctx context.Context, id string) (*model.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Role not found")
	}
	return role, nil
}

func (s *roleService) CreateRole(ctx context.Context, req CreateRoleRequest) (*model.Role, error) {
	if _, err := s.roles.GetByName(ctx, req.Name); err == nil {
		return nil, apperror.Conflict("Role name already exists")
	}

	role := &model.Role{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, apperror.Internal("failed to create role", err)
	}

	if len(req.PermissionIDs) > 0 {
		perms, err := s.roles.GetPermissionsByIDs(ctx, req.PermissionIDs)
		if err != nil {
			return nil, apperror.Internal("failed to resolve permissions", err)
		}
		if err := s.roles.ReplacePermissions(ctx, role, perms); err != nil {
			return nil, apperror.Internal("failed to assign permissions", err)
		}
	}

	_ = s.audit.Create(ctx, &model.AuditLog{Action: model.ActionCreateRole, EntityID: role.ID.String(), Details: role.Name})
	return s.roles.GetByID(ctx, role.ID.String())
}

func (s *roleService) UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*model.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Role not found")
	}
	if role.IsSystem && role.Name != req.Name {
		return nil, apperror.BadRequest("System roles cannot be renamed")
	}

	role.Name = req.Name
	role.Description = req.Description
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, apperror.Internal("failed to update role", err)
	}

	_ = s.audit.Create(ctx, &model.AuditLog{Action: model.ActionUpdateRole, EntityID: role.ID.String(), Details: role.Name})
	return role, nil
}

func (s *roleService) DeleteRole(ctx context.Context, id string) error {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return apperror.NotFound("Role not found")
	}
	if role.IsSystem {
		return apperror.BadRequest("System roles cannot be deleted")
	}

	if err := s.roles.Delete(ctx, role); err != nil {
		return apperror.Internal("failed to delete role", err)
	}

	s.cache.Invalidate(id)
	_ = s.audit.Create(ctx, &model.AuditLog{Action: model.ActionDeleteRole, EntityID: id, Details: role.Name})
	return nil
}

func (s *roleService) UpdateRolePermissions(ctx context.Context, id string, req UpdateRolePermissionsRequest) (*model.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Role not found")
	}

	perms, err := s.roles.GetPermissionsByIDs(ctx, req.PermissionIDs)
	if err != nil {
		return nil, apperror.Internal("failed to resolve permissions", err)
	}
	if len(perms) != len(req.PermissionIDs) {
		return nil, apperror.BadRequest("One or more permission ids are unknown")
	}

	if err := s.roles.ReplacePermissions(ctx, role, perms); err != nil {
		return nil, apperror.Internal("failed to update permissions", err)
	}

	// The cached flattened set is now stale.
	s.cache.Invalidate(id)
	_ = s.audit.Create(ctx, &model.AuditLog{Action: model.ActionUpdateRolePerms, EntityID: id, Details: role.Name})

	return s.roles.GetByID(ctx, id)
}

func (s *roleService) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	return s.roles.ListPermissions(ctx)
}

// SeedDefaults upserts the permission catalog and the built-in roles. Safe
// to run on every startup.
func (s *roleService) SeedDefaults(ctx context.Context) error {
	catalog := []model.Permission{
		{Resource: "employees", Action: "read", Description: "View employees"},
		{Resource: "employees", Action: "write", Description: "Create and update employees"},
		{Resource: "employees", Action: "delete", Description: "Remove employees"},
		{Resource: "departments", Action: "read", Description: "View departments"},
		{Resource: "departments", Action: "write", Description: "Create and update departments"},
		{Resource: "departments", Action: "delete", Description: "Remove departments"},
		{Resource: "leaves", Action: "read", Description: "View leave requests"},
		{Resource: "leaves", Action: "write", Description: "Request leave"},
		{Resource: "leaves", Action: "approve", Description: "Approve or reject leave"},
		{Resource: "attendance", Action: "read", Description: "View attendance records"},
		{Resource: "attendance", Action: "write", Description: "Clock in and out"},
		{Resource: "users", Action: "read", Description: "View user accounts"},
		{Resource: "users", Action: "write", Description: "Manage user accounts"},
		{Resource: "roles", Action: "manage", Description: "Manage roles and permissions"},
		{Resource: "audit", Action: "read", Description: "View the audit trail"},
	}

	existing, err := s.roles.ListPermissions(ctx)
	if err != nil {
		return err
	}
	byCode := make(map[string]model.Permission, len(existing))
	for _, p := range existing {
		byCode[p.Code()] = p
	}

	for i := range catalog {
		p := &catalog[i]
		if found, ok := byCode[p.Code()]; ok {
			p.ID = found.ID
			continue
		}
		if err := s.roles.CreatePermission(ctx, p); err != nil {
			return err
		}
		byCode[p.Code()] = *p
	}

	pick := func(codes ...string) []model.Permission {
		perms := make([]model.Permission, 0, len(codes))
		for _, code := range codes {
			if p, ok := byCode[code]; ok {
				perms = append(perms, p)
			}
		}
		return perms
	}

	builtins := []struct {
		role  model.Role
		perms []model.Permission
	}{
		{
			// Holders pass every permission check; the flag carries the
			// bypass, not the name.
			role:  model.Role{Name: "Super Admin", Description: "Full unconditional access", IsSystem: true, IsBypass: true},
			perms: nil,
		},
		{
			role: model.Role{Name: "HR Manager", Description: "People operations", IsSystem: true},
			perms: pick(
				"employees.read", "employees.write", "employees.delete",
				"departments.read", "departments.write",
				"leaves.read", "leaves.approve",
				"attendance.read",
				"users.read",
				"audit.read",
			),
		},
		{
			role: model.Role{Name: DefaultRoleName, Description: "Default role for self-registered accounts", IsSystem: true},
			perms: pick(
				"leaves.read", "leaves.write",
				"attendance.read", "attendance.write",
			),
		},
	}

	for _, b := range builtins {
		role, err := s.roles.GetByName(ctx, b.role.Name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			role = &b.role
			if err := s.roles.Create(ctx, role); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if err := s.roles.ReplacePermissions(ctx, role, b.perms); err != nil {
			return err
		}
		s.cache.Invalidate(role.ID.String())
	}

	return nil
}
