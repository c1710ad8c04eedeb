package dtr

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "DTR"

var columns = []string{
	"Date", "Day", "Status", "Scheduled In", "Scheduled Out",
	"Check In", "Check Out", "Hours Rendered", "Tardiness", "Leave Type",
}

// buildWorkbook renders the report as a single-sheet xlsx: header row, one
// row per recorded day, then the summary block.
func buildWorkbook(report Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := f.SetCellValue(sheetName, "A1", fmt.Sprintf("Daily Time Record — %s to %s", report.From, report.To)); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheetName, "A2", fmt.Sprintf("Employee: %s", report.EmployeeID)); err != nil {
		return nil, err
	}

	headerRow := 4
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for i, day := range report.Days {
		values := []any{
			day.Date, day.Weekday, day.Status, day.ScheduledIn, day.ScheduledOut,
			day.CheckIn, day.CheckOut, day.HoursRendered, day.TardinessFormatted, day.LeaveType,
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, headerRow+1+i)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	summaryRow := headerRow + len(report.Days) + 2
	summary := [][2]any{
		{"Days Recorded", report.Summary.DaysRecorded},
		{"Times Late", report.Summary.LateCount},
		{"Total Tardiness (min)", report.Summary.TotalTardinessMinutes},
		{"Absences", report.Summary.Absences},
	}
	for leaveType, count := range report.Summary.LeaveCounts {
		summary = append(summary, [2]any{fmt.Sprintf("%s Days", leaveType), count})
	}

	for i, pair := range summary {
		labelCell, err := excelize.CoordinatesToCellName(1, summaryRow+i)
		if err != nil {
			return nil, err
		}
		valueCell, err := excelize.CoordinatesToCellName(2, summaryRow+i)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, labelCell, pair[0]); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, labelCell, labelCell, headerStyle); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, valueCell, pair[1]); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
