package overtime

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=overtime_repo.go -destination=mock/overtime_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, o *Overtime) error
	FindAll(ctx context.Context, limit, offset int) ([]Overtime, int64, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]Overtime, error)
	FindByID(ctx context.Context, id string) (*Overtime, error)
	Update(ctx context.Context, o *Overtime) error
	Delete(ctx context.Context, id string) error
	// FindActiveByDate returns the employee's non-rejected request on the
	// date, skipping excludeID when set; nil when the day is free.
	FindActiveByDate(ctx context.Context, employeeID string, date time.Time, excludeID *string) (*Overtime, error)
	// Approve flips pending -> approved in one conditional update.
	Approve(ctx context.Context, id string, approverID uuid.UUID, at time.Time) (bool, error)
	// RejectPending flips pending -> rejected, recording who and why.
	RejectPending(ctx context.Context, id string, rejectorID uuid.UUID, at time.Time, reason string) (bool, error)
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

func (r *repository) Create(ctx context.Context, o *Overtime) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *repository) FindAll(ctx context.Context, limit, offset int) ([]Overtime, int64, error) {
	var rows []Overtime
	var total int64

	if err := r.db.WithContext(ctx).Model(&Overtime{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]Overtime, error) {
	var rows []Overtime
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("overtime_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Overtime, error) {
	var o Overtime
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	return &o, err
}

func (r *repository) Update(ctx context.Context, o *Overtime) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Overtime{}).Error
}

func (r *repository) FindActiveByDate(ctx context.Context, employeeID string, date time.Time, excludeID *string) (*Overtime, error) {
	q := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("overtime_date = ?", date.Format("2006-01-02")).
		Where("status <> ?", StatusRejected)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var o Overtime
	err := q.First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Approve(ctx context.Context, id string, approverID uuid.UUID, at time.Time) (bool, error) {
	query := `
UPDATE overtimes
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
UPDATE overtimes
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
