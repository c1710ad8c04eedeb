package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hrms/internal/conflict"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAll(ctx context.Context, limit, offset int) ([]Leave, int64, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]Leave, error)
	FindByID(ctx context.Context, id string) (*Leave, error)
	Update(ctx context.Context, l *Leave) error
	Delete(ctx context.Context, id string) error
	// FindOverlapping implements conflict.LeaveSource: first request of the
	// employee in any of the given statuses whose [date_from, date_to]
	// touches [from, to], skipping excludeID when set.
	FindOverlapping(ctx context.Context, employeeID string, from, to time.Time, statuses []string, excludeID *string) (*conflict.Record, error)
	// Approve flips pending -> approved in one conditional update; false
	// means the row was no longer pending.
	Approve(ctx context.Context, id string, approverID uuid.UUID, at time.Time) (bool, error)
	// RejectPending flips pending -> rejected, recording who and why.
	RejectPending(ctx context.Context, id string, rejectorID uuid.UUID, at time.Time, reason string) (bool, error)
	// RevokeApproved flips approved -> rejected for an admin revocation.
	RevokeApproved(ctx context.Context, id string, actorID uuid.UUID, at time.Time, reason string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context, limit, offset int) ([]Leave, int64, error) {
	var rows []Leave
	var total int64

	if err := r.db.WithContext(ctx).Model(&Leave{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]Leave, error) {
	var rows []Leave
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("date_from DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error
	return &l, err
}

func (r *repository) Update(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Leave{}).Error
}

func (r *repository) FindOverlapping(ctx context.Context, employeeID string, from, to time.Time, statuses []string, excludeID *string) (*conflict.Record, error) {
	q := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", statuses).
		Where("date_from <= ?", to.Format("2006-01-02")).
		Where("date_to >= ?", from.Format("2006-01-02"))
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var l Leave
	err := q.Order("date_from ASC").First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conflict.Record{
		ID:       l.ID,
		DateFrom: l.DateFrom,
		DateTo:   l.DateTo,
		Status:   l.Status,
	}, nil
}

func (r *repository) Approve(ctx context.Context, id string, approverID uuid.UUID, at time.Time) (bool, error) {
	query := `
UPDATE leaves
SET
	status = $2,
	approved_by = $3,
	approved_at = $4,
	updated_at = NOW()
WHERE id = $1
	AND status = $5
`
	res, err := r.execer().ExecContext(ctx, query, id, StatusApproved, approverID, at, StatusPending)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) RejectPending(ctx context.Context, id string, rejectorID uuid.UUID, at time.Time, reason string) (bool, error) {
	query := `
UPDATE leaves
SET
	status = $2,
	rejected_by = $3,
	rejected_at = $4,
	rejection_reason = $5,
	updated_at = NOW()
WHERE id = $1
	AND status = $6
`
	res, err := r.execer().ExecContext(ctx, query, id, StatusRejected, rejectorID, at, reason, StatusPending)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) RevokeApproved(ctx context.Context, id string, actorID uuid.UUID, at time.Time, reason string) (bool, error) {
	query := `
UPDATE leaves
SET
	status = $2,
	rejected_by = $3,
	rejected_at = $4,
	rejection_reason = $5,
	approved_by = NULL,
	approved_at = NULL,
	updated_at = NOW()
WHERE id = $1
	AND status = $6
`
	res, err := r.execer().ExecContext(ctx, query, id, StatusRejected, actorID, at, reason, StatusApproved)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Status transitions go through database/sql directly so they can join the
// approval transaction, same as the credit ledger repository.
func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return sqlExecer{db: r.db}
}

type sqlExecer struct {
	db *gorm.DB
}

func (e sqlExecer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	sqlDB, err := e.db.DB()
	if err != nil {
		return nil, err
	}
	return sqlDB.ExecContext(ctx, query, args...)
}
