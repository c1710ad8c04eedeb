package leave

import (
	"time"

	"hrms/internal/leavecredit"

	"github.com/google/uuid"
)

type Leave struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;not null;index:idx_leaves_employee_dates"`

	LeaveType      leavecredit.Type `gorm:"column:leave_type;type:varchar(10);not null"`
	DateFrom       time.Time        `gorm:"column:date_from;type:date;not null;index:idx_leaves_employee_dates"`
	DateTo         time.Time        `gorm:"column:date_to;type:date;not null;index:idx_leaves_employee_dates"`
	TotalLeaveDays int              `gorm:"column:total_leave_days;not null;default:1"`
	Notes          string           `gorm:"column:notes;type:text"`

	Status          string     `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	ApprovedBy      *uuid.UUID `gorm:"column:approved_by;type:uuid"`
	ApprovedAt      *time.Time `gorm:"column:approved_at"`
	RejectedBy      *uuid.UUID `gorm:"column:rejected_by;type:uuid"`
	RejectedAt      *time.Time `gorm:"column:rejected_at"`
	RejectionReason *string    `gorm:"column:rejection_reason;type:text"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Leave) TableName() string {
	return "leaves"
}
