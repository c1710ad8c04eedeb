package attendance

import (
	"context"
	"database/sql"
	"time"

	"hrms/internal/conflict"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// Create inserts the day's record; returns false when a record for the
	// (employee, date) pair already exists.
	Create(ctx context.Context, a *Attendance) (bool, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	FindAll(ctx context.Context) ([]Attendance, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]Attendance, error)
	// FindRangeByEmployee returns rows in [from, to] ordered by date
	// ascending with the linked leave preloaded; the projector's read path.
	FindRangeByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
	Update(ctx context.Context, a *Attendance) error
	// FindInRange implements conflict.AttendanceSource.
	FindInRange(ctx context.Context, employeeID string, from, to time.Time) ([]conflict.Record, error)
	// CreateOnLeave synthesizes an on_leave row for one day of an approved
	// leave, honoring the caller's transaction. Days that already have a
	// record are left untouched.
	CreateOnLeave(ctx context.Context, employeeID uuid.UUID, date time.Time, leaveRequestID uuid.UUID) error
	// DeleteByLeaveRequest removes the synthesized rows of a revoked leave.
	DeleteByLeaveRequest(ctx context.Context, leaveRequestID string) error
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

func (r *repository) Create(ctx context.Context, a *Attendance) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "attendance_date"}},
			DoNothing: true,
		}).
		Create(a)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date.Format("2006-01-02")).
		First(&a).Error
	return &a, err
}

func (r *repository) FindAll(ctx context.Context) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Order("attendance_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("attendance_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindRangeByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Preload("Leave").
		Where("employee_id = ?", employeeID).
		Where("attendance_date >= ?", from.Format("2006-01-02")).
		Where("attendance_date <= ?", to.Format("2006-01-02")).
		Order("attendance_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) FindInRange(ctx context.Context, employeeID string, from, to time.Time) ([]conflict.Record, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("attendance_date >= ?", from).
		Where("attendance_date <= ?", to).
		Order("attendance_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]conflict.Record, len(rows))
	for i, a := range rows {
		records[i] = conflict.Record{
			ID:       a.ID,
			DateFrom: a.AttendanceDate,
			DateTo:   a.AttendanceDate,
			Status:   a.Status,
		}
	}
	return records, nil
}

func (r *repository) CreateOnLeave(ctx context.Context, employeeID uuid.UUID, date time.Time, leaveRequestID uuid.UUID) error {
	query := `
INSERT INTO attendances (
	id, employee_id, attendance_date, status, scheduled_in, scheduled_out, leave_request_id, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
ON CONFLICT (employee_id, attendance_date) DO NOTHING
`
	_, err := r.execer().ExecContext(ctx, query,
		uuid.New(), employeeID, date.Format("2006-01-02"),
		StatusOnLeave, DefaultScheduledIn, DefaultScheduledOut,
		leaveRequestID,
	)
	return err
}

func (r *repository) DeleteByLeaveRequest(ctx context.Context, leaveRequestID string) error {
	query := `DELETE FROM attendances WHERE leave_request_id = $1`
	_, err := r.execer().ExecContext(ctx, query, leaveRequestID)
	return err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return gormExecer{db: r.db}
}

type gormExecer struct {
	db *gorm.DB
}

func (e gormExecer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	sqlDB, err := e.db.DB()
	if err != nil {
		return nil, err
	}
	return sqlDB.ExecContext(ctx, query, args...)
}
