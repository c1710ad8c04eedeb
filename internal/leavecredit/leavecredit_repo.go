package leavecredit

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leavecredit_repo.go -destination=mock/leavecredit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, c *Credit) error
	FindByEmployee(ctx context.Context, employeeID string) ([]Credit, error)
	FindByEmployeeAndType(ctx context.Context, employeeID string, leaveType Type) (*Credit, error)
	// ConsumeIfAvailable deducts days in a single conditional update guarded
	// by remaining >= days for the given year. Returns false without
	// mutating anything when the guard fails.
	ConsumeIfAvailable(ctx context.Context, employeeID string, leaveType Type, year, days int) (bool, error)
	// Restore gives days back: used = max(used-days, 0), remaining += days.
	Restore(ctx context.Context, employeeID string, leaveType Type, days int) (bool, error)
	// Reset zeroes usage for every type of the employee and stamps the year.
	Reset(ctx context.Context, employeeID string, year int) error
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

func (r *repository) Create(ctx context.Context, c *Credit) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]Credit, error) {
	var credits []Credit
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("leave_type ASC").
		Find(&credits).Error
	return credits, err
}

func (r *repository) FindByEmployeeAndType(ctx context.Context, employeeID string, leaveType Type) (*Credit, error) {
	var c Credit
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", leaveType).
		First(&c).Error
	return &c, err
}

func (r *repository) ConsumeIfAvailable(ctx context.Context, employeeID string, leaveType Type, year, days int) (bool, error) {
	query := `
UPDATE leave_credits
SET
	used = used + $4,
	remaining = remaining - $4,
	updated_at = NOW()
WHERE employee_id = $1
	AND leave_type = $2
	AND year = $3
	AND remaining >= $4
`
	res, err := r.execer().ExecContext(ctx, query, employeeID, string(leaveType), year, days)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) Restore(ctx context.Context, employeeID string, leaveType Type, days int) (bool, error) {
	query := `
UPDATE leave_credits
SET
	used = GREATEST(used - $3, 0),
	remaining = remaining + $3,
	updated_at = NOW()
WHERE employee_id = $1
	AND leave_type = $2
`
	res, err := r.execer().ExecContext(ctx, query, employeeID, string(leaveType), days)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) Reset(ctx context.Context, employeeID string, year int) error {
	query := `
UPDATE leave_credits
SET
	used = 0,
	remaining = total,
	year = $2,
	last_reset_at = NOW(),
	updated_at = NOW()
WHERE employee_id = $1
`
	_, err := r.execer().ExecContext(ctx, query, employeeID, year)
	return err
}

// The conditional updates go through database/sql directly so they can join
// a caller-owned transaction, same as the outbox repository.
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
