package service_test

import (
	"context"
	"testing"
	"time"

	"hrms/internal/database"
	"hrms/internal/model"
	"hrms/internal/rbac"
	"hrms/internal/repository"
	"hrms/internal/service"
	"hrms/internal/token"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// testStack wires the whole service layer against an in-memory database,
// the same way main does against Postgres.
type testStack struct {
	db *gorm.DB

	users       repository.UserRepository
	roles       repository.RoleRepository
	employees   repository.EmployeeRepository
	departments repository.DepartmentRepository
	leaves      repository.LeaveRepository
	attendance  repository.AttendanceRepository
	audit       repository.AuditRepository

	tokens *token.Service
	cache  *rbac.Cache

	auth        service.AuthService
	roleService service.RoleService
	userService service.UserService
	leaveSvc    service.LeaveService
	attSvc      service.AttendanceService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	db := newTestDB(t)
	s := &testStack{
		db:          db,
		users:       repository.NewUserRepository(db),
		roles:       repository.NewRoleRepository(db),
		employees:   repository.NewEmployeeRepository(db),
		departments: repository.NewDepartmentRepository(db),
		leaves:      repository.NewLeaveRepository(db),
		attendance:  repository.NewAttendanceRepository(db),
		audit:       repository.NewAuditRepository(db),
		tokens:      token.NewService("test-access-secret", "test-refresh-secret", 15*time.Minute, 7*24*time.Hour),
	}
	s.cache = rbac.NewCache(s.roles, rbac.DefaultTTL)

	txManager := repository.NewTransactionManager(db)
	s.auth = service.NewAuthService(s.users, s.roles, s.employees, s.audit, s.tokens, txManager, bcrypt.MinCost)
	s.roleService = service.NewRoleService(s.roles, s.cache, s.audit)
	s.userService = service.NewUserService(s.users, s.roles, s.audit, txManager)
	s.leaveSvc = service.NewLeaveService(s.leaves, s.audit, txManager)
	s.attSvc = service.NewAttendanceService(s.attendance)
	return s
}

func (s *testStack) register(t *testing.T, email, password string) *service.AuthResponse {
	t.Helper()

	res, err := s.auth.Register(context.Background(), service.RegisterRequest{
		Email:    email,
		Password: password,
	}, "127.0.0.1")
	require.NoError(t, err)
	return res
}

func (s *testStack) auditActions(t *testing.T) []string {
	t.Helper()

	var logs []model.AuditLog
	require.NoError(t, s.db.Order("created_at asc").Find(&logs).Error)
	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	return actions
}
