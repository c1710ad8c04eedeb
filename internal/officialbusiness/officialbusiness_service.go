package officialbusiness

import (
	"context"
	"errors"
	"time"

	"hrms/internal/conflict"
	officialbusinesserrors "hrms/internal/officialbusiness/errors"
	"hrms/internal/shared/apperror"
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

//go:generate mockgen -source=officialbusiness_service.go -destination=mock/officialbusiness_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateOfficialBusinessRequest) (OfficialBusinessResponse, error)
	GetAll(ctx context.Context, limit, offset int) ([]OfficialBusinessResponse, int64, error)
	GetAllByEmployee(ctx context.Context, employeeID string) ([]OfficialBusinessResponse, error)
	GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (OfficialBusinessResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateOfficialBusinessRequest) (OfficialBusinessResponse, error)
	Cancel(ctx context.Context, actorID string, canManage bool, id string) error
	// Approve refuses ranges overlapping an approved leave, then flips the
	// status with a pending-only conditional update.
	Approve(ctx context.Context, actorID, id string) (OfficialBusinessResponse, error)
	Reject(ctx context.Context, actorID, id, reason string) (OfficialBusinessResponse, error)
}

type service struct {
	repo     Repository
	detector *conflict.Detector
	logger   *zap.Logger
}

func NewService(repo Repository, detector *conflict.Detector, logger ...*zap.Logger) Service {
	l := zap.L().Named("officialbusiness.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("officialbusiness.service")
	}
	return &service{repo: repo, detector: detector, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateOfficialBusinessRequest) (OfficialBusinessResponse, error) {
	employeeUUID, err := uuid.Parse(actorID)
	if err != nil {
		return OfficialBusinessResponse{}, officialbusinesserrors.ErrInvalidActorID
	}

	from, to, err := parseRange(req.DateFrom, req.DateTo)
	if err != nil {
		return OfficialBusinessResponse{}, err
	}

	if err := s.checkOverlap(ctx, actorID, from, to, nil); err != nil {
		return OfficialBusinessResponse{}, err
	}

	ob := &OfficialBusiness{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		DateFrom:   from,
		DateTo:     to,
		Reason:     req.Reason,
		Status:     StatusPending,
	}
	if err := s.repo.Create(ctx, ob); err != nil {
		s.logger.Error("create official business failed", zap.String("employee_id", actorID), zap.Error(err))
		return OfficialBusinessResponse{}, err
	}

	s.logger.Info("official business request filed",
		zap.String("ob_id", ob.ID.String()),
		zap.String("employee_id", actorID),
		zap.Int("days", timemath.DaysInclusive(from, to)),
	)
	return mapToResponse(*ob), nil
}

func (s *service) GetAll(ctx context.Context, limit, offset int) ([]OfficialBusinessResponse, int64, error) {
	rows, total, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return mapToResponses(rows), total, nil
}

func (s *service) GetAllByEmployee(ctx context.Context, employeeID string) ([]OfficialBusinessResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, officialbusinesserrors.ErrInvalidActorID
	}
	rows, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToResponses(rows), nil
}

func (s *service) GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (OfficialBusinessResponse, error) {
	ob, err := s.find(ctx, id)
	if err != nil {
		return OfficialBusinessResponse{}, err
	}
	if !canReadAll && ob.EmployeeID.String() != actorID {
		return OfficialBusinessResponse{}, apperror.ErrForbidden
	}
	return mapToResponse(*ob), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateOfficialBusinessRequest) (OfficialBusinessResponse, error) {
	ob, err := s.find(ctx, id)
	if err != nil {
		return OfficialBusinessResponse{}, err
	}
	if ob.EmployeeID.String() != actorID {
		return OfficialBusinessResponse{}, apperror.ErrForbidden
	}
	if ob.Status != StatusPending {
		return OfficialBusinessResponse{}, officialbusinesserrors.ErrAlreadyProcessed
	}

	from, to, err := parseRange(req.DateFrom, req.DateTo)
	if err != nil {
		return OfficialBusinessResponse{}, err
	}

	if err := s.checkOverlap(ctx, actorID, from, to, &id); err != nil {
		return OfficialBusinessResponse{}, err
	}

	ob.DateFrom = from
	ob.DateTo = to
	ob.Reason = req.Reason
	if err := s.repo.Update(ctx, ob); err != nil {
		s.logger.Error("update official business failed", zap.String("ob_id", id), zap.Error(err))
		return OfficialBusinessResponse{}, err
	}
	return mapToResponse(*ob), nil
}

func (s *service) Cancel(ctx context.Context, actorID string, canManage bool, id string) error {
	ob, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !canManage && ob.EmployeeID.String() != actorID {
		return apperror.ErrForbidden
	}
	if ob.Status != StatusPending {
		return officialbusinesserrors.ErrAlreadyProcessed
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("cancel official business failed", zap.String("ob_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *service) Approve(ctx context.Context, actorID, id string) (OfficialBusinessResponse, error) {
	approverUUID, err := uuid.Parse(actorID)
	if err != nil {
		return OfficialBusinessResponse{}, officialbusinesserrors.ErrInvalidActorID
	}

	ob, err := s.find(ctx, id)
	if err != nil {
		return OfficialBusinessResponse{}, err
	}
	if ob.Status != StatusPending {
		return OfficialBusinessResponse{}, officialbusinesserrors.ErrAlreadyProcessed
	}

	rec, err := s.detector.OverlappingLeave(ctx, ob.EmployeeID.String(), ob.DateFrom, ob.DateTo, []string{StatusApproved}, nil)
	if err != nil {
		return OfficialBusinessResponse{}, err
	}
	if rec != nil {
		return OfficialBusinessResponse{}, officialbusinesserrors.BlockedByLeave(rec.DateFrom, rec.DateTo)
	}

	now := time.Now().UTC()
	ok, err := s.repo.Approve(ctx, id, approverUUID, now)
	if err != nil {
		return OfficialBusinessResponse{}, err
	}
	if !ok {
		return OfficialBusinessResponse{}, officialbusinesserrors.ErrAlreadyProcessed
	}

	ob.Status = StatusApproved
	ob.ApprovedBy = &approverUUID
	ob.ApprovedAt = &now

	s.logger.Info("official business request approved",
		zap.String("ob_id", id),
		zap.String("approved_by", actorID),
	)
	return mapToResponse(*ob), nil
}

func (s *service) Reject(ctx context.Context, actorID, id, reason string) (OfficialBusinessResponse, error) {
	rejectorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return OfficialBusinessResponse{}, officialbusinesserrors.ErrInvalidActorID
	}
	if reason == "" {
		return OfficialBusinessResponse{}, officialbusinesserrors.ErrRejectionReasonRequired
	}

	ob, err := s.find(ctx, id)
	if err != nil {
		return OfficialBusinessResponse{}, err
	}
	if ob.Status != StatusPending {
		return OfficialBusinessResponse{}, officialbusinesserrors.ErrAlreadyProcessed
	}

	now := time.Now().UTC()
	ok, err := s.repo.RejectPending(ctx, id, rejectorUUID, now, reason)
	if err != nil {
		return OfficialBusinessResponse{}, err
	}
	if !ok {
		return OfficialBusinessResponse{}, officialbusinesserrors.ErrAlreadyProcessed
	}

	ob.Status = StatusRejected
	ob.RejectedBy = &rejectorUUID
	ob.RejectedAt = &now
	ob.RejectionReason = &reason
	return mapToResponse(*ob), nil
}

func (s *service) find(ctx context.Context, id string) (*OfficialBusiness, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, officialbusinesserrors.ErrNotFound
	}
	ob, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, officialbusinesserrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ob, nil
}

func (s *service) checkOverlap(ctx context.Context, employeeID string, from, to time.Time, excludeID *string) error {
	rec, err := s.detector.OverlappingOfficialBusiness(ctx, employeeID, from, to, excludeID)
	if err != nil {
		return err
	}
	if rec != nil {
		return officialbusinesserrors.OverlappingRequest(rec.DateFrom, rec.DateTo, rec.Status)
	}
	return nil
}

func parseRange(rawFrom, rawTo string) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, rawFrom)
	if err != nil {
		return time.Time{}, time.Time{}, officialbusinesserrors.ErrInvalidDateFormat
	}
	to, err := time.Parse(dateLayout, rawTo)
	if err != nil {
		return time.Time{}, time.Time{}, officialbusinesserrors.ErrInvalidDateFormat
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, officialbusinesserrors.ErrInvalidDateRange
	}
	return from, to, nil
}

func mapToResponse(ob OfficialBusiness) OfficialBusinessResponse {
	resp := OfficialBusinessResponse{
		ID:         ob.ID.String(),
		EmployeeID: ob.EmployeeID.String(),
		DateFrom:   ob.DateFrom.Format(dateLayout),
		DateTo:     ob.DateTo.Format(dateLayout),
		Reason:     ob.Reason,
		Status:     ob.Status,
	}
	if ob.ApprovedBy != nil {
		v := ob.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if ob.ApprovedAt != nil {
		v := ob.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if ob.RejectedBy != nil {
		v := ob.RejectedBy.String()
		resp.RejectedBy = &v
	}
	if ob.RejectedAt != nil {
		v := ob.RejectedAt.Format(time.RFC3339)
		resp.RejectedAt = &v
	}
	resp.RejectionReason = ob.RejectionReason
	return resp
}

func mapToResponses(rows []OfficialBusiness) []OfficialBusinessResponse {
	out := make([]OfficialBusinessResponse, len(rows))
	for i, ob := range rows {
		out[i] = mapToResponse(ob)
	}
	return out
}
