package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Attendance is the single record of one employee's day. The unique index
// on (employee_id, attendance_date) is the source of the one-record-per-day
// invariant; everything else derives from it.
type Attendance struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID     uuid.UUID `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:idx_attendance_employee_date"`
	AttendanceDate time.Time `gorm:"column:attendance_date;type:date;not null;uniqueIndex:idx_attendance_employee_date"`

	Status       string `gorm:"column:status;type:varchar(20);not null;default:present"`
	ScheduledIn  string `gorm:"column:scheduled_in;type:varchar(10);not null;default:'08:00 AM'"`
	ScheduledOut string `gorm:"column:scheduled_out;type:varchar(10);not null;default:'05:00 PM'"`

	CheckIn              *time.Time `gorm:"column:check_in;type:timestamptz"`
	CheckOut             *time.Time `gorm:"column:check_out;type:timestamptz"`
	TardinessMinutes     int        `gorm:"column:tardiness_minutes;not null;default:0"`
	HoursRenderedMinutes int        `gorm:"column:hours_rendered_minutes;not null;default:0"`

	// Set when the row was synthesized by a leave approval; links the
	// on_leave day back to the request that produced it.
	LeaveRequestID *uuid.UUID `gorm:"column:leave_request_id;type:uuid;index"`
	Leave          *LeaveRef  `gorm:"foreignKey:LeaveRequestID;references:ID"`

	Notes     *string   `gorm:"column:notes;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// LeaveRef is the read-side slice of the leaves table the projector needs.
type LeaveRef struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	LeaveType string    `gorm:"column:leave_type"`
}

func (LeaveRef) TableName() string {
	return "leaves"
}
