package overtime

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"hrms/internal/approval"
	"hrms/internal/conflict"
	"hrms/internal/events"
	"hrms/internal/messaging/kafka"
	overtimeerrors "hrms/internal/overtime/errors"
	"hrms/internal/shared/apperror"
	"hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TypeRegular = "regular"
	TypeHoliday = "holiday"
	TypeWeekend = "weekend"
	TypeOther   = "other"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=overtime_service.go -destination=mock/overtime_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateOvertimeRequest) (OvertimeResponse, error)
	GetAll(ctx context.Context, limit, offset int) ([]OvertimeResponse, int64, error)
	GetAllByEmployee(ctx context.Context, employeeID string) ([]OvertimeResponse, error)
	GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (OvertimeResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateOvertimeRequest) (OvertimeResponse, error)
	Cancel(ctx context.Context, actorID string, canManage bool, id string) error
	// Approve refuses days inside an approved leave, then flips the status
	// and writes the outbox event in one transaction.
	Approve(ctx context.Context, actorID, id string) (OvertimeResponse, error)
	Reject(ctx context.Context, actorID, id, reason string) (OvertimeResponse, error)
	BulkApprove(ctx context.Context, actorID string, ids []string) (approval.Result, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	detector *conflict.Detector
	outbox   kafka.OutboxRepository
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	detector *conflict.Detector,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("overtime.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("overtime.service")
	}
	return &service{db: db, repo: repo, detector: detector, outbox: outbox, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateOvertimeRequest) (OvertimeResponse, error) {
	employeeUUID, err := uuid.Parse(actorID)
	if err != nil {
		return OvertimeResponse{}, overtimeerrors.ErrInvalidActorID
	}

	date, err := parseOvertimeInput(req.Date, req.Hours, req.OvertimeType)
	if err != nil {
		return OvertimeResponse{}, err
	}

	if err := s.checkDuplicate(ctx, actorID, date, nil); err != nil {
		return OvertimeResponse{}, err
	}

	o := &Overtime{
		ID:           uuid.New(),
		EmployeeID:   employeeUUID,
		OvertimeDate: date,
		Hours:        req.Hours,
		OvertimeType: req.OvertimeType,
		Reason:       req.Reason,
		Status:       StatusPending,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		s.logger.Error("create overtime failed", zap.String("employee_id", actorID), zap.Error(err))
		return OvertimeResponse{}, err
	}

	s.logger.Info("overtime request filed",
		zap.String("overtime_id", o.ID.String()),
		zap.String("employee_id", actorID),
		zap.Float64("hours", req.Hours),
	)
	return mapToResponse(*o), nil
}

func (s *service) GetAll(ctx context.Context, limit, offset int) ([]OvertimeResponse, int64, error) {
	rows, total, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return mapToResponses(rows), total, nil
}

func (s *service) GetAllByEmployee(ctx context.Context, employeeID string) ([]OvertimeResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, overtimeerrors.ErrInvalidActorID
	}
	rows, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToResponses(rows), nil
}

func (s *service) GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (OvertimeResponse, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return OvertimeResponse{}, err
	}
	if !canReadAll && o.EmployeeID.String() != actorID {
		return OvertimeResponse{}, apperror.ErrForbidden
	}
	return mapToResponse(*o), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateOvertimeRequest) (OvertimeResponse, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return OvertimeResponse{}, err
	}
	if o.EmployeeID.String() != actorID {
		return OvertimeResponse{}, apperror.ErrForbidden
	}
	if o.Status != StatusPending {
		return OvertimeResponse{}, overtimeerrors.ErrAlreadyProcessed
	}

	date, err := parseOvertimeInput(req.Date, req.Hours, req.OvertimeType)
	if err != nil {
		return OvertimeResponse{}, err
	}

	if err := s.checkDuplicate(ctx, actorID, date, &id); err != nil {
		return OvertimeResponse{}, err
	}

	o.OvertimeDate = date
	o.Hours = req.Hours
	o.OvertimeType = req.OvertimeType
	o.Reason = req.Reason
	if err := s.repo.Update(ctx, o); err != nil {
		s.logger.Error("update overtime failed", zap.String("overtime_id", id), zap.Error(err))
		return OvertimeResponse{}, err
	}
	return mapToResponse(*o), nil
}

func (s *service) Cancel(ctx context.Context, actorID string, canManage bool, id string) error {
	o, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !canManage && o.EmployeeID.String() != actorID {
		return apperror.ErrForbidden
	}
	if o.Status != StatusPending {
		return overtimeerrors.ErrAlreadyProcessed
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("cancel overtime failed", zap.String("overtime_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("overtime request cancelled",
		zap.String("overtime_id", id),
		zap.String("actor_id", actorID),
	)
	return nil
}

func (s *service) Approve(ctx context.Context, actorID, id string) (OvertimeResponse, error) {
	approverUUID, err := uuid.Parse(actorID)
	if err != nil {
		return OvertimeResponse{}, overtimeerrors.ErrInvalidActorID
	}

	o, err := s.find(ctx, id)
	if err != nil {
		return OvertimeResponse{}, err
	}
	if o.Status != StatusPending {
		return OvertimeResponse{}, overtimeerrors.ErrAlreadyProcessed
	}

	// Overtime on a day the employee is on approved leave makes no sense.
	rec, err := s.detector.OverlappingLeave(ctx, o.EmployeeID.String(), o.OvertimeDate, o.OvertimeDate, []string{StatusApproved}, nil)
	if err != nil {
		return OvertimeResponse{}, err
	}
	if rec != nil {
		return OvertimeResponse{}, overtimeerrors.BlockedByLeave(o.OvertimeDate, rec.DateFrom, rec.DateTo)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return OvertimeResponse{}, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	ok, err := s.repo.WithTx(tx).Approve(ctx, id, approverUUID, now)
	if err != nil {
		return OvertimeResponse{}, err
	}
	if !ok {
		return OvertimeResponse{}, overtimeerrors.ErrAlreadyProcessed
	}

	if s.outbox != nil {
		if err := s.writeApprovedEvent(ctx, tx, o, actorID, now); err != nil {
			return OvertimeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return OvertimeResponse{}, err
	}

	o.Status = StatusApproved
	o.ApprovedBy = &approverUUID
	o.ApprovedAt = &now

	s.logger.Info("overtime request approved",
		zap.String("overtime_id", id),
		zap.String("employee_id", o.EmployeeID.String()),
		zap.String("approved_by", actorID),
	)
	return mapToResponse(*o), nil
}

func (s *service) Reject(ctx context.Context, actorID, id, reason string) (OvertimeResponse, error) {
	rejectorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return OvertimeResponse{}, overtimeerrors.ErrInvalidActorID
	}
	if reason == "" {
		return OvertimeResponse{}, overtimeerrors.ErrRejectionReasonRequired
	}

	o, err := s.find(ctx, id)
	if err != nil {
		return OvertimeResponse{}, err
	}
	if o.Status != StatusPending {
		return OvertimeResponse{}, overtimeerrors.ErrAlreadyProcessed
	}

	now := time.Now().UTC()
	ok, err := s.repo.RejectPending(ctx, id, rejectorUUID, now, reason)
	if err != nil {
		return OvertimeResponse{}, err
	}
	if !ok {
		return OvertimeResponse{}, overtimeerrors.ErrAlreadyProcessed
	}

	o.Status = StatusRejected
	o.RejectedBy = &rejectorUUID
	o.RejectedAt = &now
	o.RejectionReason = &reason

	s.logger.Info("overtime request rejected",
		zap.String("overtime_id", id),
		zap.String("rejected_by", actorID),
	)
	return mapToResponse(*o), nil
}

func (s *service) BulkApprove(ctx context.Context, actorID string, ids []string) (approval.Result, error) {
	return approval.BulkApprove(ctx, ids, actorID, func(ctx context.Context, actorID, id string) error {
		_, err := s.Approve(ctx, actorID, id)
		return err
	}, s.logger)
}

func (s *service) find(ctx context.Context, id string) (*Overtime, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, overtimeerrors.ErrOvertimeNotFound
	}
	o, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, overtimeerrors.ErrOvertimeNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) checkDuplicate(ctx context.Context, employeeID string, date time.Time, excludeID *string) error {
	existing, err := s.repo.FindActiveByDate(ctx, employeeID, date, excludeID)
	if err != nil {
		return err
	}
	if existing != nil {
		return overtimeerrors.DuplicateForDate(date)
	}
	return nil
}

func (s *service) writeApprovedEvent(ctx context.Context, tx *sql.Tx, o *Overtime, approvedBy string, at time.Time) error {
	payload, err := json.Marshal(events.OvertimeApprovedEvent{
		EventType:  "overtime.approved",
		OvertimeID: o.ID.String(),
		EmployeeID: o.EmployeeID.String(),
		Date:       o.OvertimeDate.Format(dateLayout),
		Hours:      o.Hours,
		ApprovedBy: approvedBy,
		OccurredAt: at,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "overtime",
		AggregateID:   o.ID.String(),
		EventType:     "overtime.approved",
		Topic:         events.OvertimeApprovedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parseOvertimeInput(rawDate string, hours float64, overtimeType string) (time.Time, error) {
	date, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		return time.Time{}, overtimeerrors.ErrInvalidDateFormat
	}
	if hours <= 0 || hours > 24 {
		return time.Time{}, overtimeerrors.ErrInvalidHours
	}
	switch overtimeType {
	case TypeRegular, TypeHoliday, TypeWeekend, TypeOther:
	default:
		return time.Time{}, overtimeerrors.ErrInvalidOvertimeType
	}
	return date, nil
}

func mapToResponse(o Overtime) OvertimeResponse {
	resp := OvertimeResponse{
		ID:           o.ID.String(),
		EmployeeID:   o.EmployeeID.String(),
		Date:         o.OvertimeDate.Format(dateLayout),
		Hours:        o.Hours,
		OvertimeType: o.OvertimeType,
		Reason:       o.Reason,
		Status:       o.Status,
	}
	if o.ApprovedBy != nil {
		v := o.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if o.ApprovedAt != nil {
		v := o.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if o.RejectedBy != nil {
		v := o.RejectedBy.String()
		resp.RejectedBy = &v
	}
	if o.RejectedAt != nil {
		v := o.RejectedAt.Format(time.RFC3339)
		resp.RejectedAt = &v
	}
	resp.RejectionReason = o.RejectionReason
	return resp
}

func mapToResponses(rows []Overtime) []OvertimeResponse {
	out := make([]OvertimeResponse, len(rows))
	for i, o := range rows {
		out[i] = mapToResponse(o)
	}
	return out
}
