package leavecredit

import (
	"time"

	"github.com/google/uuid"
)

// Credit is one leave-type balance of one employee's yearly ledger.
// Invariants: remaining = total - used and remaining >= 0 after every
// mutation; both are enforced by the conditional updates in the repository.
type Credit struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:idx_leave_credits_employee_type"`
	LeaveType  Type      `gorm:"column:leave_type;type:varchar(10);not null;uniqueIndex:idx_leave_credits_employee_type"`
	Year       int       `gorm:"column:year;not null"`
	Total      int       `gorm:"column:total;not null;default:5"`
	Used       int       `gorm:"column:used;not null;default:0"`
	Remaining  int       `gorm:"column:remaining;not null;default:5"`

	LastResetAt *time.Time `gorm:"column:last_reset_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (Credit) TableName() string {
	return "leave_credits"
}
