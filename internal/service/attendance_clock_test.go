package service

import (
	"context"
	"testing"
	"time"

	"hrms/internal/database"
	"hrms/internal/model"
	"hrms/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// White-box test with an injected clock: a shift that starts before
// midnight must be closed against the day it clocked in.
func TestClockOutClosesShiftStartedBeforeMidnight(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	role := model.Role{Name: "Employee"}
	require.NoError(t, db.Create(&role).Error)
	user := model.User{Email: "night@example.com", PasswordHash: "x", Status: model.UserStatusActive, RoleID: role.ID}
	require.NoError(t, db.Create(&user).Error)
	employee := model.Employee{UserID: user.ID, FirstName: "Night", LastName: "Shift"}
	require.NoError(t, db.Create(&employee).Error)

	clockIn := time.Date(2026, time.March, 3, 23, 0, 0, 0, time.UTC)
	svc := &attendanceService{
		attendance: repository.NewAttendanceRepository(db),
		now:        func() time.Time { return clockIn },
	}

	ctx := context.Background()
	record, err := svc.ClockIn(ctx, employee.ID)
	require.NoError(t, err)

	// 01:00 the next day.
	clockOut := clockIn.Add(2 * time.Hour)
	svc.now = func() time.Time { return clockOut }

	closed, err := svc.ClockOut(ctx, employee.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, closed.ID)
	assert.True(t, record.WorkDate.Equal(closed.WorkDate))
	require.NotNil(t, closed.ClockOut)
	assert.Equal(t, "2", closed.Hours.String())
}
