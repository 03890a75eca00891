package service

import (
	"context"
	"errors"
	"time"

	"hrms/internal/apperror"
	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/internal/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultRoleName is the low-privilege role assigned on self-registration.
// Created lazily if the seeder has not run yet.
const DefaultRoleName = "Employee"

// --- DTOs ---

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Position  string `json:"position"`
}

type UserSummary struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type AuthResponse struct {
	User         UserSummary `json:"user"`
	Permissions  []string    `json:"permissions,omitempty"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

type ProfileResponse struct {
	User        UserSummary     `json:"user"`
	Employee    *model.Employee `json:"employee,omitempty"`
	Permissions []string        `json:"permissions"`
}

// --- Interface ---

// AuthService owns the account lifecycle: registration, credential checks,
// token rotation and the 1:1 employee profile shadow.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest, ip string) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest, ip string) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*token.Pair, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
	GetProfile(ctx context.Context, userID string) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*ProfileResponse, error)
	UpdateAvatar(ctx context.Context, userID, avatarURL string) (string, error)
}

type authService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	employees  repository.EmployeeRepository
	audit      repository.AuditRepository
	tokens     *token.Service
	txManager  repository.TransactionManager
	bcryptCost int
}

func NewAuthService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	employees repository.EmployeeRepository,
	audit repository.AuditRepository,
	tokens *token.Service,
	txManager repository.TransactionManager,
	bcryptCost int,
) AuthService {
	if bcryptCost == 0 {
		bcryptCost = 12
	}
	return &authService{
		users:      users,
		roles:      roles,
		employees:  employees,
		audit:      audit,
		tokens:     tokens,
		txManager:  txManager,
		bcryptCost: bcryptCost,
	}
}

// --- Implementation ---

func (s *authService) Register(ctx context.Context, req RegisterRequest, ip string) (*AuthResponse, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperror.Conflict("Email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Internal("failed to check email", err)
	}

	role, err := s.ensureDefaultRole(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to resolve default role", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Status:       model.UserStatusActive,
		RoleID:       role.ID,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.users.Create(txCtx, user); err != nil {
			return err
		}
		if req.FirstName != "" || req.LastName != "" {
			employee := &model.Employee{
				UserID:    user.ID,
				FirstName: req.FirstName,
				LastName:  req.LastName,
			}
			if err := s.employees.Create(txCtx, employee); err != nil {
				return err
			}
		}
		return s.recordAudit(txCtx, &user.ID, model.ActionRegister, user.ID.String(), ip, "")
	})
	if err != nil {
		// Two concurrent registrations can both pass the lookup above; the
		// unique index settles the race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("Email already registered")
		}
		return nil, apperror.Internal("failed to create account", err)
	}

	pair, err := s.tokens.IssuePair(user.ID.String(), user.Email, role.Name)
	if err != nil {
		return nil, apperror.Internal("failed to issue tokens", err)
	}

	return &AuthResponse{
		User:         toUserSummary(user, role.Name),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest, ip string) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil || !user.IsActive() {
		// One message for "no such user" and "inactive": no account
		// enumeration through error text.
		_ = s.recordAudit(ctx, nil, model.ActionLoginFailed, req.Email, ip, "unknown or inactive account")
		return nil, apperror.Unauthorized("Invalid credentials or inactive account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		// Covers both a wrong password and a corrupt stored hash.
		_ = s.recordAudit(ctx, &user.ID, model.ActionLoginFailed, user.ID.String(), ip, "password mismatch")
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID.String(), now); err != nil {
		return nil, apperror.Internal("failed to update last login", err)
	}
	user.LastLoginAt = &now

	pair, err := s.tokens.IssuePair(user.ID.String(), user.Email, user.Role.Name)
	if err != nil {
		return nil, apperror.Internal("failed to issue tokens", err)
	}

	_ = s.recordAudit(ctx, &user.ID, model.ActionLogin, user.ID.String(), ip, "")

	return &AuthResponse{
		User:         toUserSummary(user, user.Role.Name),
		Permissions:  user.Role.PermissionCodes(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*token.Pair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid or expired refresh token")
	}

	// The refresh token only names the user. Role, status and everything
	// else come from a fresh store read so a revoked role or deactivated
	// account can never be carried into the new access token.
	user, err := s.users.GetWithAccess(ctx, claims.Subject)
	if err != nil || !user.IsActive() {
		return nil, apperror.Unauthorized("User not found or inactive")
	}

	pair, err := s.tokens.IssuePair(user.ID.String(), user.Email, user.Role.Name)
	if err != nil {
		return nil, apperror.Internal("failed to issue tokens", err)
	}

	_ = s.recordAudit(ctx, &user.ID, model.ActionRefreshToken, user.ID.String(), "", "")

	return &pair, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperror.BadRequest("Current password and new password are required")
	}
	if len(req.NewPassword) < 8 {
		return apperror.BadRequest("New password must be at least 8 characters")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return apperror.Unauthorized("User not found or inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		// Distinct message is fine here: the caller is already
		// authenticated.
		return apperror.BadRequest("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return apperror.Internal("failed to hash password", err)
	}

	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return apperror.Internal("failed to update password", err)
	}

	_ = s.recordAudit(ctx, &user.ID, model.ActionChangePassword, user.ID.String(), "", "")
	return nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*ProfileResponse, error) {
	user, err := s.users.GetWithAccess(ctx, userID)
	if err != nil {
		return nil, apperror.NotFound("User not found")
	}

	role, err := s.roles.GetByID(ctx, user.RoleID.String())
	if err != nil {
		return nil, apperror.Internal("failed to load role", err)
	}

	return &ProfileResponse{
		User:        toUserSummary(user, role.Name),
		Employee:    user.Employee,
		Permissions: role.PermissionCodes(),
	}, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*ProfileResponse, error) {
	user, err := s.users.GetWithAccess(ctx, userID)
	if err != nil {
		return nil, apperror.NotFound("User not found")
	}

	// Idempotent upsert: the first profile write creates the employee
	// shadow record, later writes update it in place.
	employee, err := s.employees.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		applyProfile(employee, req)
		if err := s.employees.Update(ctx, employee); err != nil {
			return nil, apperror.Internal("failed to update profile", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		employee = &model.Employee{UserID: user.ID}
		applyProfile(employee, req)
		if err := s.employees.Create(ctx, employee); err != nil {
			return nil, apperror.Internal("failed to create profile", err)
		}
	default:
		return nil, apperror.Internal("failed to load profile", err)
	}

	_ = s.recordAudit(ctx, &user.ID, model.ActionUpdateProfile, employee.ID.String(), "", "")

	user.Employee = employee
	return s.GetProfile(ctx, userID)
}

func (s *authService) UpdateAvatar(ctx context.Context, userID, avatarURL string) (string, error) {
	if avatarURL == "" {
		return "", apperror.BadRequest("No file uploaded")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", apperror.NotFound("User not found")
	}

	user.AvatarURL = avatarURL
	if err := s.users.Update(ctx, user); err != nil {
		return "", apperror.Internal("failed to update avatar", err)
	}

	return user.AvatarURL, nil
}

// --- Helpers ---

func (s *authService) ensureDefaultRole(ctx context.Context) (*model.Role, error) {
	role, err := s.roles.GetByName(ctx, DefaultRoleName)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role = &model.Role{
		Name:        DefaultRoleName,
		Description: "Default role for self-registered accounts",
		IsSystem:    true,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *authService) recordAudit(ctx context.Context, userID *uuid.UUID, action, entityID, ip, details string) error {
	return s.audit.Create(ctx, &model.AuditLog{
		UserID:    userID,
		Action:    action,
		EntityID:  entityID,
		IPAddress: ip,
		Details:   details,
	})
}

func applyProfile(employee *model.Employee, req UpdateProfileRequest) {
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
}

func toUserSummary(user *model.User, roleName string) UserSummary {
	return UserSummary{
		ID:          user.ID,
		Email:       user.Email,
		Role:        roleName,
		Status:      user.Status,
		AvatarURL:   user.AvatarURL,
		LastLoginAt: user.LastLoginAt,
	}
}
