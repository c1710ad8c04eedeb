package leavecredit

import (
	"context"
	"errors"
	"time"

	leavecrediterrors "hrms/internal/leavecredit/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leavecredit_service.go -destination=mock/leavecredit_service_mock.go -package=mock
type Service interface {
	// GetOrCreate returns the employee's ledger for the year, lazily
	// creating missing type rows and resetting rows whose stored year is
	// stale.
	GetOrCreate(ctx context.Context, employeeID string, year int) ([]Credit, error)
	// CanUse returns nil when days of leaveType can be deducted, an
	// InsufficientCredit error otherwise. Non-credit-bearing types always
	// pass.
	CanUse(ctx context.Context, employeeID string, leaveType Type, year, days int) error
	// Restore gives previously consumed days back after an approved request
	// is revoked.
	Restore(ctx context.Context, employeeID string, leaveType Type, days int) error
	// ResetForNewYear zeroes usage for every type and stamps the year.
	ResetForNewYear(ctx context.Context, employeeID string, year int) ([]Credit, error)
	GetLedger(ctx context.Context, employeeID string, year int) (LedgerResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavecredit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavecredit.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetOrCreate(ctx context.Context, employeeID string, year int) ([]Credit, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leavecrediterrors.ErrInvalidEmployeeID
	}

	credits, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("load ledger failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	have := make(map[Type]bool, len(credits))
	stale := false
	for _, c := range credits {
		have[c.LeaveType] = true
		if c.Year != year {
			stale = true
		}
	}

	if stale {
		s.logger.Info("ledger year stale, resetting",
			zap.String("employee_id", employeeID),
			zap.Int("year", year),
		)
		if err := s.repo.Reset(ctx, employeeID, year); err != nil {
			s.logger.Error("ledger reset failed", zap.String("employee_id", employeeID), zap.Error(err))
			return nil, err
		}
	}

	created := false
	for _, t := range AllTypes() {
		if have[t] {
			continue
		}
		c := &Credit{
			ID:         uuid.New(),
			EmployeeID: employeeUUID,
			LeaveType:  t,
			Year:       year,
			Total:      DefaultAnnualCredits,
			Used:       0,
			Remaining:  DefaultAnnualCredits,
		}
		if err := s.repo.Create(ctx, c); err != nil {
			s.logger.Error("ledger row create failed",
				zap.String("employee_id", employeeID),
				zap.String("leave_type", string(t)),
				zap.Error(err),
			)
			return nil, err
		}
		created = true
	}

	if stale || created {
		return s.repo.FindByEmployee(ctx, employeeID)
	}
	return credits, nil
}

func (s *service) CanUse(ctx context.Context, employeeID string, leaveType Type, year, days int) error {
	if days <= 0 {
		return leavecrediterrors.ErrInvalidDays
	}
	if _, ok := ParseType(string(leaveType)); !ok {
		return leavecrediterrors.ErrUnknownLeaveType
	}
	if !leaveType.CreditBearing() {
		return nil
	}

	credits, err := s.GetOrCreate(ctx, employeeID, year)
	if err != nil {
		return err
	}
	for _, c := range credits {
		if c.LeaveType != leaveType {
			continue
		}
		if c.Remaining < days {
			return leavecrediterrors.InsufficientCredit(string(leaveType), c.Remaining, days)
		}
		return nil
	}
	return leavecrediterrors.ErrUnknownLeaveType
}

func (s *service) Restore(ctx context.Context, employeeID string, leaveType Type, days int) error {
	if days <= 0 {
		return leavecrediterrors.ErrInvalidDays
	}
	if !leaveType.CreditBearing() {
		return nil
	}

	ok, err := s.repo.Restore(ctx, employeeID, leaveType, days)
	if err != nil {
		s.logger.Error("credit restore failed",
			zap.String("employee_id", employeeID),
			zap.String("leave_type", string(leaveType)),
			zap.Error(err),
		)
		return err
	}
	if !ok {
		return leavecrediterrors.ErrUnknownLeaveType
	}
	s.logger.Info("credits restored",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", string(leaveType)),
		zap.Int("days", days),
	)
	return nil
}

func (s *service) ResetForNewYear(ctx context.Context, employeeID string, year int) ([]Credit, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leavecrediterrors.ErrInvalidEmployeeID
	}
	if err := s.repo.Reset(ctx, employeeID, year); err != nil {
		s.logger.Error("ledger reset failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("ledger reset for new year",
		zap.String("employee_id", employeeID),
		zap.Int("year", year),
	)
	return s.repo.FindByEmployee(ctx, employeeID)
}

func (s *service) GetLedger(ctx context.Context, employeeID string, year int) (LedgerResponse, error) {
	credits, err := s.GetOrCreate(ctx, employeeID, year)
	if err != nil {
		return LedgerResponse{}, err
	}
	return mapToLedgerResponse(employeeID, year, credits), nil
}

func mapToLedgerResponse(employeeID string, year int, credits []Credit) LedgerResponse {
	resp := LedgerResponse{
		EmployeeID: employeeID,
		Year:       year,
		Credits:    make([]CreditResponse, len(credits)),
	}
	for i, c := range credits {
		cr := CreditResponse{
			LeaveType: string(c.LeaveType),
			Year:      c.Year,
			Total:     c.Total,
			Used:      c.Used,
			Remaining: c.Remaining,
		}
		if c.LastResetAt != nil {
			v := c.LastResetAt.Format(time.RFC3339)
			cr.LastResetAt = &v
		}
		resp.Credits[i] = cr
	}
	return resp
}
