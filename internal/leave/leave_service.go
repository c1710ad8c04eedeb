package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"hrms/internal/approval"
	"hrms/internal/attendance"
	"hrms/internal/conflict"
	"hrms/internal/events"
	leaveerrors "hrms/internal/leave/errors"
	"hrms/internal/leavecredit"
	leavecrediterrors "hrms/internal/leavecredit/errors"
	"hrms/internal/messaging/kafka"
	"hrms/internal/shared/apperror"
	"hrms/internal/shared/contextutil"
	"hrms/internal/timemath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, limit, offset int) ([]LeaveResponse, int64, error)
	GetAllByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	// GetByID enforces ownership: without canReadAll only the requester's own
	// records are visible.
	GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (LeaveResponse, error)
	// Update is owner-only and pending-only; it re-runs the create-time
	// conflict and credit checks excluding the record itself.
	Update(ctx context.Context, actorID, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	// Cancel deletes a pending request. Owners can always cancel their own;
	// canManage lets hr cancel anyone's.
	Cancel(ctx context.Context, actorID string, canManage bool, id string) error
	// Approve consumes credits, flips the status, and synthesizes on_leave
	// attendance rows in one transaction.
	Approve(ctx context.Context, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actorID, id, reason string) (LeaveResponse, error)
	// Revoke undoes an approval: status to rejected, credits restored,
	// synthesized attendance rows removed.
	Revoke(ctx context.Context, actorID, id, reason string) (LeaveResponse, error)
	BulkApprove(ctx context.Context, actorID string, ids []string) (approval.Result, error)
}

type service struct {
	db             *sql.DB
	repo           Repository
	credits        leavecredit.Service
	creditRepo     leavecredit.Repository
	attendanceRepo attendance.Repository
	detector       *conflict.Detector
	outbox         kafka.OutboxRepository
	logger         *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	credits leavecredit.Service,
	creditRepo leavecredit.Repository,
	attendanceRepo attendance.Repository,
	detector *conflict.Detector,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:             db,
		repo:           repo,
		credits:        credits,
		creditRepo:     creditRepo,
		attendanceRepo: attendanceRepo,
		detector:       detector,
		outbox:         outbox,
		logger:         l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	employeeUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	leaveType, from, to, days, err := parseLeaveInput(req.LeaveType, req.DateFrom, req.DateTo)
	if err != nil {
		return LeaveResponse{}, err
	}

	if err := s.checkConflicts(ctx, actorID, from, to, nil); err != nil {
		return LeaveResponse{}, err
	}

	if leaveType.CreditBearing() {
		if err := s.credits.CanUse(ctx, actorID, leaveType, from.Year(), days); err != nil {
			return LeaveResponse{}, err
		}
	}

	l := &Leave{
		ID:             uuid.New(),
		EmployeeID:     employeeUUID,
		LeaveType:      leaveType,
		DateFrom:       from,
		DateTo:         to,
		TotalLeaveDays: days,
		Notes:          req.Notes,
		Status:         StatusPending,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("create leave failed", zap.String("employee_id", actorID), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request filed",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actorID),
		zap.String("leave_type", string(leaveType)),
		zap.Int("days", days),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, limit, offset int) ([]LeaveResponse, int64, error) {
	rows, total, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return mapToResponses(rows), total, nil
}

func (s *service) GetAllByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	rows, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToResponses(rows), nil
}

func (s *service) GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (LeaveResponse, error) {
	l, err := s.find(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !canReadAll && l.EmployeeID.String() != actorID {
		return LeaveResponse{}, apperror.ErrForbidden
	}
	return mapToResponse(*l), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	l, err := s.find(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.EmployeeID.String() != actorID {
		return LeaveResponse{}, apperror.ErrForbidden
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	leaveType, from, to, days, err := parseLeaveInput(req.LeaveType, req.DateFrom, req.DateTo)
	if err != nil {
		return LeaveResponse{}, err
	}

	if err := s.checkConflicts(ctx, actorID, from, to, &id); err != nil {
		return LeaveResponse{}, err
	}

	if leaveType.CreditBearing() {
		if err := s.credits.CanUse(ctx, actorID, leaveType, from.Year(), days); err != nil {
			return LeaveResponse{}, err
		}
	}

	l.LeaveType = leaveType
	l.DateFrom = from
	l.DateTo = to
	l.TotalLeaveDays = days
	l.Notes = req.Notes
	if err := s.repo.Update(ctx, l); err != nil {
		s.logger.Error("update leave failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) Cancel(ctx context.Context, actorID string, canManage bool, id string) error {
	l, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !canManage && l.EmployeeID.String() != actorID {
		return apperror.ErrForbidden
	}
	if l.Status != StatusPending {
		return leaveerrors.ErrAlreadyProcessed
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("cancel leave failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("leave request cancelled",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)
	return nil
}

func (s *service) Approve(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	approverUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	l, err := s.find(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	employeeID := l.EmployeeID.String()
	year := l.DateFrom.Year()

	// Provision ledger rows (and reset stale years) before the conditional
	// deduction inside the transaction.
	if l.LeaveType.CreditBearing() {
		if err := s.credits.CanUse(ctx, employeeID, l.LeaveType, year, l.TotalLeaveDays); err != nil {
			return LeaveResponse{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if l.LeaveType.CreditBearing() {
		ok, err := s.creditRepo.WithTx(tx).ConsumeIfAvailable(ctx, employeeID, l.LeaveType, year, l.TotalLeaveDays)
		if err != nil {
			return LeaveResponse{}, err
		}
		if !ok {
			// A concurrent approval won the remaining balance.
			remaining := 0
			if c, cerr := s.creditRepo.FindByEmployeeAndType(ctx, employeeID, l.LeaveType); cerr == nil {
				remaining = c.Remaining
			}
			return LeaveResponse{}, leavecrediterrors.InsufficientCredit(string(l.LeaveType), remaining, l.TotalLeaveDays)
		}
	}

	now := time.Now().UTC()
	ok, err := s.repo.WithTx(tx).Approve(ctx, id, approverUUID, now)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !ok {
		// Someone else processed the request between our read and this
		// update; the rollback discards the credit deduction.
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	txAttendance := s.attendanceRepo.WithTx(tx)
	for d := l.DateFrom; !d.After(l.DateTo); d = d.AddDate(0, 0, 1) {
		if err := txAttendance.CreateOnLeave(ctx, l.EmployeeID, d, l.ID); err != nil {
			return LeaveResponse{}, err
		}
	}

	if s.outbox != nil {
		if err := s.writeApprovedEvent(ctx, tx, l, actorID, now); err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	l.Status = StatusApproved
	l.ApprovedBy = &approverUUID
	l.ApprovedAt = &now

	s.logger.Info("leave request approved",
		zap.String("leave_id", id),
		zap.String("employee_id", employeeID),
		zap.String("approved_by", actorID),
		zap.Int("days", l.TotalLeaveDays),
	)
	return mapToResponse(*l), nil
}

func (s *service) Reject(ctx context.Context, actorID, id, reason string) (LeaveResponse, error) {
	rejectorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if reason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	l, err := s.find(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	now := time.Now().UTC()
	ok, err := s.repo.RejectPending(ctx, id, rejectorUUID, now, reason)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	l.Status = StatusRejected
	l.RejectedBy = &rejectorUUID
	l.RejectedAt = &now
	l.RejectionReason = &reason

	s.logger.Info("leave request rejected",
		zap.String("leave_id", id),
		zap.String("rejected_by", actorID),
	)
	return mapToResponse(*l), nil
}

func (s *service) Revoke(ctx context.Context, actorID, id, reason string) (LeaveResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if reason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	l, err := s.find(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.Status != StatusApproved {
		return LeaveResponse{}, leaveerrors.ErrNotApproved
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	ok, err := s.repo.WithTx(tx).RevokeApproved(ctx, id, actorUUID, now, reason)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrNotApproved
	}

	if l.LeaveType.CreditBearing() {
		if _, err := s.creditRepo.WithTx(tx).Restore(ctx, l.EmployeeID.String(), l.LeaveType, l.TotalLeaveDays); err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := s.attendanceRepo.WithTx(tx).DeleteByLeaveRequest(ctx, id); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	l.Status = StatusRejected
	l.ApprovedBy = nil
	l.ApprovedAt = nil
	l.RejectedBy = &actorUUID
	l.RejectedAt = &now
	l.RejectionReason = &reason

	s.logger.Info("leave approval revoked",
		zap.String("leave_id", id),
		zap.String("revoked_by", actorID),
	)
	return mapToResponse(*l), nil
}

func (s *service) BulkApprove(ctx context.Context, actorID string, ids []string) (approval.Result, error) {
	return approval.BulkApprove(ctx, ids, actorID, func(ctx context.Context, actorID, id string) error {
		_, err := s.Approve(ctx, actorID, id)
		return err
	}, s.logger)
}

func (s *service) find(ctx context.Context, id string) (*Leave, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrLeaveNotFound
	}
	l, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, leaveerrors.ErrLeaveNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// checkConflicts runs the leave-overlap check before the attendance check so
// a double-filing is always reported as a leave conflict.
func (s *service) checkConflicts(ctx context.Context, employeeID string, from, to time.Time, excludeID *string) error {
	rec, err := s.detector.OverlappingLeave(ctx, employeeID, from, to, []string{StatusPending, StatusApproved}, excludeID)
	if err != nil {
		return err
	}
	if rec != nil {
		return leaveerrors.OverlappingLeave(rec.DateFrom, rec.DateTo, rec.Status)
	}

	rows, err := s.detector.AttendanceInRange(ctx, employeeID, from, to)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return leaveerrors.AttendanceExists(from, to)
	}
	return nil
}

func (s *service) writeApprovedEvent(ctx context.Context, tx *sql.Tx, l *Leave, approvedBy string, at time.Time) error {
	payload, err := json.Marshal(events.LeaveApprovedEvent{
		EventType:      "leave.approved",
		LeaveID:        l.ID.String(),
		EmployeeID:     l.EmployeeID.String(),
		LeaveType:      string(l.LeaveType),
		DateFrom:       l.DateFrom.Format(dateLayout),
		DateTo:         l.DateTo.Format(dateLayout),
		TotalLeaveDays: l.TotalLeaveDays,
		ApprovedBy:     approvedBy,
		OccurredAt:     at,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave",
		AggregateID:   l.ID.String(),
		EventType:     "leave.approved",
		Topic:         events.LeaveApprovedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parseLeaveInput(rawType, rawFrom, rawTo string) (leavecredit.Type, time.Time, time.Time, int, error) {
	leaveType, ok := leavecredit.ParseType(rawType)
	if !ok {
		return "", time.Time{}, time.Time{}, 0, leaveerrors.ErrInvalidLeaveType
	}
	from, err := time.Parse(dateLayout, rawFrom)
	if err != nil {
		return "", time.Time{}, time.Time{}, 0, leaveerrors.ErrInvalidDateFormat
	}
	to, err := time.Parse(dateLayout, rawTo)
	if err != nil {
		return "", time.Time{}, time.Time{}, 0, leaveerrors.ErrInvalidDateFormat
	}
	if from.After(to) {
		return "", time.Time{}, time.Time{}, 0, leaveerrors.ErrInvalidDateRange
	}
	return leaveType, from, to, timemath.DaysInclusive(from, to), nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:             l.ID.String(),
		EmployeeID:     l.EmployeeID.String(),
		LeaveType:      string(l.LeaveType),
		DateFrom:       l.DateFrom.Format(dateLayout),
		DateTo:         l.DateTo.Format(dateLayout),
		TotalLeaveDays: l.TotalLeaveDays,
		Notes:          l.Notes,
		Status:         l.Status,
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if l.RejectedBy != nil {
		v := l.RejectedBy.String()
		resp.RejectedBy = &v
	}
	if l.RejectedAt != nil {
		v := l.RejectedAt.Format(time.RFC3339)
		resp.RejectedAt = &v
	}
	resp.RejectionReason = l.RejectionReason
	return resp
}

func mapToResponses(rows []Leave) []LeaveResponse {
	out := make([]LeaveResponse, len(rows))
	for i, l := range rows {
		out[i] = mapToResponse(l)
	}
	return out
}
