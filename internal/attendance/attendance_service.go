package attendance

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"hrms/internal/shared/apperror"
	"hrms/internal/timemath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusOnLeave = "on_leave"

	DefaultScheduledIn  = "08:00 AM"
	DefaultScheduledOut = "05:00 PM"
)

var (
	errAlreadyClockedIn = apperror.New(
		apperror.CodeConflict,
		"already clocked in for today",
		http.StatusConflict,
	)
	errAlreadyClockedOut = apperror.New(
		apperror.CodeConflict,
		"already clocked out for today",
		http.StatusConflict,
	)
	errNoClockIn = apperror.New(
		apperror.CodeNotFound,
		"clock in not found for today",
		http.StatusNotFound,
	)
	errInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, employeeID string, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, employeeID string, req ClockOutRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context, actorID string, canReadAll bool) ([]AttendanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) ClockIn(ctx context.Context, employeeID string, req ClockInRequest) (AttendanceResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return AttendanceResponse{}, errInvalidEmployeeID
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	tardiness := timemath.Tardiness(DefaultScheduledIn, timemath.FormatClock(now))
	status := StatusPresent
	if tardiness > 0 {
		status = StatusLate
	}

	row := &Attendance{
		ID:               uuid.New(),
		EmployeeID:       employeeUUID,
		AttendanceDate:   today,
		Status:           status,
		ScheduledIn:      DefaultScheduledIn,
		ScheduledOut:     DefaultScheduledOut,
		CheckIn:          &now,
		TardinessMinutes: tardiness,
		Notes:            req.Notes,
	}

	// The unique (employee, date) index resolves the clock-in race; an
	// unaffected insert means a record for today already exists.
	inserted, err := s.repo.Create(ctx, row)
	if err != nil {
		s.logger.Error("clock in persist failed", zap.String("employee_id", employeeID), zap.Error(err))
		return AttendanceResponse{}, err
	}
	if !inserted {
		return AttendanceResponse{}, errAlreadyClockedIn
	}

	s.logger.Info("clock in recorded",
		zap.String("employee_id", employeeID),
		zap.String("status", status),
		zap.Int("tardiness_minutes", tardiness),
	)
	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, employeeID string, req ClockOutRequest) (AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return AttendanceResponse{}, errInvalidEmployeeID
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	row, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, errNoClockIn
		}
		return AttendanceResponse{}, err
	}
	if row.CheckIn == nil {
		return AttendanceResponse{}, errNoClockIn
	}
	if row.CheckOut != nil {
		return AttendanceResponse{}, errAlreadyClockedOut
	}

	row.CheckOut = &now
	row.HoursRenderedMinutes = timemath.HoursRendered(
		timemath.FormatClock(*row.CheckIn),
		timemath.FormatClock(now),
	)
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("clock out persist failed", zap.String("employee_id", employeeID), zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock out recorded",
		zap.String("employee_id", employeeID),
		zap.Int("hours_rendered_minutes", row.HoursRenderedMinutes),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, actorID string, canReadAll bool) ([]AttendanceResponse, error) {
	var (
		rows []Attendance
		err  error
	)
	if canReadAll {
		rows, err = s.repo.FindAll(ctx)
	} else {
		if _, parseErr := uuid.Parse(actorID); parseErr != nil {
			return nil, errInvalidEmployeeID
		}
		rows, err = s.repo.FindAllByEmployee(ctx, actorID)
	}
	if err != nil {
		return nil, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:                   a.ID.String(),
		EmployeeID:           a.EmployeeID.String(),
		AttendanceDate:       a.AttendanceDate.Format("2006-01-02"),
		Status:               a.Status,
		ScheduledIn:          a.ScheduledIn,
		ScheduledOut:         a.ScheduledOut,
		TardinessMinutes:     a.TardinessMinutes,
		HoursRenderedMinutes: a.HoursRenderedMinutes,
		Notes:                a.Notes,
	}
	if a.CheckIn != nil {
		v := a.CheckIn.Format(time.RFC3339)
		resp.CheckIn = &v
	}
	if a.CheckOut != nil {
		v := a.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &v
	}
	if a.LeaveRequestID != nil {
		v := a.LeaveRequestID.String()
		resp.LeaveRequestID = &v
	}
	return resp
}
