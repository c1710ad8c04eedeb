// Package conflict owns the single interval-overlap predicate reused by
// every scheduling check in the system: leave-vs-leave, leave-vs-overtime,
// leave-vs-official-business, and leave-vs-attendance.
package conflict

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is the neutral shape a conflicting row is reported as, regardless
// of which table it came from.
type Record struct {
	ID       uuid.UUID
	DateFrom time.Time
	DateTo   time.Time
	Status   string
}

// LeaveSource is implemented by the leave repository.
type LeaveSource interface {
	FindOverlapping(ctx context.Context, employeeID string, from, to time.Time, statuses []string, excludeID *string) (*Record, error)
}

// OfficialBusinessSource is implemented by the official business repository.
type OfficialBusinessSource interface {
	FindOverlapping(ctx context.Context, employeeID string, from, to time.Time, excludeID *string) (*Record, error)
}

// AttendanceSource is implemented by the attendance repository.
type AttendanceSource interface {
	FindInRange(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)
}

// Overlaps reports whether [aFrom, aTo] and [bFrom, bTo] share at least one
// day. Both intervals are inclusive.
func Overlaps(aFrom, aTo, bFrom, bTo time.Time) bool {
	return !aFrom.After(bTo) && !bFrom.After(aTo)
}

// NormalizeRange floors from to 00:00:00.000 and ceils to to 23:59:59.999
// so timestamp columns compare against the full calendar days.
func NormalizeRange(from, to time.Time) (time.Time, time.Time) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	end := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, int(999*time.Millisecond), to.Location())
	return start, end
}

type Detector struct {
	leaves     LeaveSource
	business   OfficialBusinessSource
	attendance AttendanceSource
}

func NewDetector(leaves LeaveSource, business OfficialBusinessSource, attendance AttendanceSource) *Detector {
	return &Detector{leaves: leaves, business: business, attendance: attendance}
}

// OverlappingLeave returns the first leave request of the employee in the
// given statuses whose interval overlaps [from, to], or nil.
func (d *Detector) OverlappingLeave(ctx context.Context, employeeID string, from, to time.Time, statuses []string, excludeID *string) (*Record, error) {
	return d.leaves.FindOverlapping(ctx, employeeID, from, to, statuses, excludeID)
}

// OverlappingOfficialBusiness returns the first non-rejected official
// business request overlapping [from, to], or nil. excludeID skips the
// record currently being edited.
func (d *Detector) OverlappingOfficialBusiness(ctx context.Context, employeeID string, from, to time.Time, excludeID *string) (*Record, error) {
	return d.business.FindOverlapping(ctx, employeeID, from, to, excludeID)
}

// AttendanceInRange returns attendance rows falling inside the normalized
// inclusive range. A non-empty result blocks new leave over days already
// attended.
func (d *Detector) AttendanceInRange(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error) {
	start, end := NormalizeRange(from, to)
	return d.attendance.FindInRange(ctx, employeeID, start, end)
}
