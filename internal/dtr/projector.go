// Package dtr projects attendance records into daily time record reports:
// one formatted row per recorded day plus a computed summary. Days with no
// attendance record are not synthesized.
package dtr

import (
	"context"
	"time"

	"hrms/internal/attendance"
	"hrms/internal/timemath"
)

const dateLayout = "2006-01-02"

type Projector struct {
	attendance attendance.Repository
}

func NewProjector(repo attendance.Repository) *Projector {
	return &Projector{attendance: repo}
}

// ProjectMonth projects the employee's full calendar month.
func (p *Projector) ProjectMonth(ctx context.Context, employeeID string, year int, month time.Month) (Report, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return p.ProjectRange(ctx, employeeID, from, to)
}

// ProjectRange projects [from, to] inclusive, rows ordered by date asc.
func (p *Projector) ProjectRange(ctx context.Context, employeeID string, from, to time.Time) (Report, error) {
	rows, err := p.attendance.FindRangeByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		EmployeeID: employeeID,
		From:       from.Format(dateLayout),
		To:         to.Format(dateLayout),
		Days:       make([]DailyRow, len(rows)),
		Summary:    Summary{LeaveCounts: map[string]int{}},
	}

	for i, a := range rows {
		row := projectDay(a)
		report.Days[i] = row

		report.Summary.DaysRecorded++
		if row.IsLate {
			report.Summary.LateCount++
			report.Summary.TotalTardinessMinutes += row.TardinessMinutes
		}
		if row.IsAbsent {
			report.Summary.Absences++
		}
		if row.IsOnLeave && row.LeaveType != "" {
			report.Summary.LeaveCounts[row.LeaveType]++
		}
	}

	return report, nil
}

func projectDay(a attendance.Attendance) DailyRow {
	row := DailyRow{
		Date:               a.AttendanceDate.Format(dateLayout),
		Weekday:            a.AttendanceDate.Format("Mon"),
		Status:             a.Status,
		ScheduledIn:        a.ScheduledIn,
		ScheduledOut:       a.ScheduledOut,
		HoursRendered:      timemath.FormatMinutes(a.HoursRenderedMinutes),
		TardinessMinutes:   a.TardinessMinutes,
		TardinessFormatted: timemath.FormatMinutes(a.TardinessMinutes),
		IsLate:             a.Status == attendance.StatusLate,
		IsAbsent:           a.Status == attendance.StatusAbsent,
		IsOnLeave:          a.Status == attendance.StatusOnLeave,
	}
	if a.CheckIn != nil {
		row.CheckIn = timemath.FormatClock(*a.CheckIn)
	}
	if a.CheckOut != nil {
		row.CheckOut = timemath.FormatClock(*a.CheckOut)
	}
	if a.Leave != nil {
		row.LeaveType = a.Leave.LeaveType
	}
	return row
}
