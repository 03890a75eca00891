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

// --- Interface ---

type AttendanceService interface {
	ClockIn(ctx context.Context, employeeID uuid.UUID) (*model.AttendanceRecord, error)
	ClockOut(ctx context.Context, employeeID uuid.UUID) (*model.AttendanceRecord, error)
	List(ctx context.Context, page, limit int, employeeID string) ([]model.AttendanceRecord, int64, error)
}

type attendanceService struct {
	attendance repository.AttendanceRepository
	now        func() time.Time
}

func NewAttendanceService(attendance repository.AttendanceRepository) AttendanceService {
	return &attendanceService{attendance: attendance, now: time.Now}
}

// --- Implementation ---

func (s *attendanceService) ClockIn(ctx context.Context, employeeID uuid.UUID) (*model.AttendanceRecord, error) {
	now := s.now()
	workDate := now.Truncate(24 * time.Hour)

	if _, err := s.attendance.GetForDate(ctx, employeeID.String(), workDate); err == nil {
		return nil, apperror.Conflict("Already clocked in today")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Internal("failed to check attendance", err)
	}

	record := &model.AttendanceRecord{
		EmployeeID: employeeID,
		WorkDate:   workDate,
		ClockIn:    now,
	}
	if err := s.attendance.Create(ctx, record); err != nil {
		return nil, apperror.Internal("failed to clock in", err)
	}
	return record, nil
}

func (s *attendanceService) ClockOut(ctx context.Context, employeeID uuid.UUID) (*model.AttendanceRecord, error) {
	now := s.now()

	// A shift that started before midnight is closed against the day it
	// clocked in, so look for the latest open record rather than keying
	// on today's date.
	record, err := s.attendance.GetLatestOpen(ctx, employeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if closed, cerr := s.attendance.GetForDate(ctx, employeeID.String(), now.Truncate(24*time.Hour)); cerr == nil && closed.ClockOut != nil {
				return nil, apperror.Conflict("Already clocked out today")
			}
			return nil, apperror.BadRequest("No clock-in record found")
		}
		return nil, apperror.Internal("failed to load attendance", err)
	}

	record.ClockOut = &now
	record.Hours = decimal.NewFromFloat(now.Sub(record.ClockIn).Hours()).Round(2)

	if err := s.attendance.Update(ctx, record); err != nil {
		return nil, apperror.Internal("failed to clock out", err)
	}
	return record, nil
}

func (s *attendanceService) List(ctx context.Context, page, limit int, employeeID string) ([]model.AttendanceRecord, int64, error) {
	return s.attendance.List(ctx, page, limit, employeeID)
}
