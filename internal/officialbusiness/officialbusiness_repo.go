package officialbusiness

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hrms/internal/conflict"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=officialbusiness_repo.go -destination=mock/officialbusiness_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, ob *OfficialBusiness) error
	FindAll(ctx context.Context, limit, offset int) ([]OfficialBusiness, int64, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]OfficialBusiness, error)
	FindByID(ctx context.Context, id string) (*OfficialBusiness, error)
	Update(ctx context.Context, ob *OfficialBusiness) error
	Delete(ctx context.Context, id string) error
	// FindOverlapping implements conflict.OfficialBusinessSource: first
	// non-rejected request of the employee overlapping [from, to].
	FindOverlapping(ctx context.Context, employeeID string, from, to time.Time, excludeID *string) (*conflict.Record, error)
	Approve(ctx context.Context, id string, approverID uuid.UUID, at time.Time) (bool, error)
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

func (r *repository) Create(ctx context.Context, ob *OfficialBusiness) error {
	return r.db.WithContext(ctx).Create(ob).Error
}

func (r *repository) FindAll(ctx context.Context, limit, offset int) ([]OfficialBusiness, int64, error) {
	var rows []OfficialBusiness
	var total int64

	if err := r.db.WithContext(ctx).Model(&OfficialBusiness{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]OfficialBusiness, error) {
	var rows []OfficialBusiness
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("date_from DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*OfficialBusiness, error) {
	var ob OfficialBusiness
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ob).Error
	return &ob, err
}

func (r *repository) Update(ctx context.Context, ob *OfficialBusiness) error {
	return r.db.WithContext(ctx).Save(ob).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&OfficialBusiness{}).Error
}

func (r *repository) FindOverlapping(ctx context.Context, employeeID string, from, to time.Time, excludeID *string) (*conflict.Record, error) {
	q := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", StatusRejected).
		Where("date_from <= ?", to.Format("2006-01-02")).
		Where("date_to >= ?", from.Format("2006-01-02"))
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var ob OfficialBusiness
	err := q.Order("date_from ASC").First(&ob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conflict.Record{
		ID:       ob.ID,
		DateFrom: ob.DateFrom,
		DateTo:   ob.DateTo,
		Status:   ob.Status,
	}, nil
}

func (r *repository) Approve(ctx context.Context, id string, approverID uuid.UUID, at time.Time) (bool, error) {
	query := `
UPDATE official_business_requests
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
UPDATE official_business_requests
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
