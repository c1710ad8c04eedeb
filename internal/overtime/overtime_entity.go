package overtime

import (
	"time"

	"github.com/google/uuid"
)

type Overtime struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;not null;index:idx_overtimes_employee_date"`

	OvertimeDate time.Time `gorm:"column:overtime_date;type:date;not null;index:idx_overtimes_employee_date"`
	Hours        float64   `gorm:"column:hours;type:numeric(4,2);not null"`
	OvertimeType string    `gorm:"column:overtime_type;type:varchar(20);not null;default:'regular'"`
	Reason       string    `gorm:"column:reason;type:text"`

	Status          string     `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	ApprovedBy      *uuid.UUID `gorm:"column:approved_by;type:uuid"`
	ApprovedAt      *time.Time `gorm:"column:approved_at"`
	RejectedBy      *uuid.UUID `gorm:"column:rejected_by;type:uuid"`
	RejectedAt      *time.Time `gorm:"column:rejected_at"`
	RejectionReason *string    `gorm:"column:rejection_reason;type:text"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Overtime) TableName() string {
	return "overtimes"
}
