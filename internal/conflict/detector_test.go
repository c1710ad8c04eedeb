package conflict_test

import (
	"context"
	"testing"
	"time"

	"hrms/internal/conflict"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                   string
		aFrom, aTo, bFrom, bTo time.Time
		want                   bool
	}{
		{"identical", day(2025, 6, 2), day(2025, 6, 4), day(2025, 6, 2), day(2025, 6, 4), true},
		{"shared boundary day", day(2025, 6, 2), day(2025, 6, 4), day(2025, 6, 4), day(2025, 6, 5), true},
		{"contained", day(2025, 7, 1), day(2025, 7, 3), day(2025, 7, 2), day(2025, 7, 2), true},
		{"adjacent no overlap", day(2025, 6, 2), day(2025, 6, 4), day(2025, 6, 5), day(2025, 6, 6), false},
		{"disjoint", day(2025, 6, 2), day(2025, 6, 4), day(2025, 6, 10), day(2025, 6, 12), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, conflict.Overlaps(tc.aFrom, tc.aTo, tc.bFrom, tc.bTo))
			// the predicate is symmetric
			assert.Equal(t, tc.want, conflict.Overlaps(tc.bFrom, tc.bTo, tc.aFrom, tc.aTo))
		})
	}
}

func TestNormalizeRange(t *testing.T) {
	from := time.Date(2025, 6, 2, 14, 30, 12, 0, time.UTC)
	to := time.Date(2025, 6, 4, 3, 1, 2, 0, time.UTC)

	start, end := conflict.NormalizeRange(from, to)

	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.Equal(t, 59, end.Second())
	assert.Equal(t, 4, end.Day())
}

type fakeLeaveSource struct {
	fn func(ctx context.Context, employeeID string, from, to time.Time, statuses []string, excludeID *string) (*conflict.Record, error)
}

func (f *fakeLeaveSource) FindOverlapping(ctx context.Context, employeeID string, from, to time.Time, statuses []string, excludeID *string) (*conflict.Record, error) {
	return f.fn(ctx, employeeID, from, to, statuses, excludeID)
}

type fakeBusinessSource struct {
	fn func(ctx context.Context, employeeID string, from, to time.Time, excludeID *string) (*conflict.Record, error)
}

func (f *fakeBusinessSource) FindOverlapping(ctx context.Context, employeeID string, from, to time.Time, excludeID *string) (*conflict.Record, error) {
	return f.fn(ctx, employeeID, from, to, excludeID)
}

type fakeAttendanceSource struct {
	fn func(ctx context.Context, employeeID string, from, to time.Time) ([]conflict.Record, error)
}

func (f *fakeAttendanceSource) FindInRange(ctx context.Context, employeeID string, from, to time.Time) ([]conflict.Record, error) {
	return f.fn(ctx, employeeID, from, to)
}

func TestDetectorAttendanceInRangeNormalizes(t *testing.T) {
	var gotFrom, gotTo time.Time
	att := &fakeAttendanceSource{fn: func(ctx context.Context, employeeID string, from, to time.Time) ([]conflict.Record, error) {
		gotFrom, gotTo = from, to
		return []conflict.Record{{ID: uuid.New(), Status: "present"}}, nil
	}}
	d := conflict.NewDetector(nil, nil, att)

	rows, err := d.AttendanceInRange(context.Background(),
		uuid.New().String(),
		time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC),
	)

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 0, gotFrom.Hour())
	assert.Equal(t, 23, gotTo.Hour())
}

func TestDetectorOverlappingLeavePassesStatuses(t *testing.T) {
	want := &conflict.Record{ID: uuid.New(), DateFrom: day(2025, 6, 2), DateTo: day(2025, 6, 4), Status: "pending"}
	var gotStatuses []string
	leaves := &fakeLeaveSource{fn: func(ctx context.Context, employeeID string, from, to time.Time, statuses []string, excludeID *string) (*conflict.Record, error) {
		gotStatuses = statuses
		return want, nil
	}}
	d := conflict.NewDetector(leaves, &fakeBusinessSource{}, nil)

	got, err := d.OverlappingLeave(context.Background(), uuid.New().String(), day(2025, 6, 4), day(2025, 6, 5), []string{"pending", "approved"}, nil)

	assert.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, []string{"pending", "approved"}, gotStatuses)
}
