package dtr

// DailyRow is one printable line of the daily time record: everything is
// pre-formatted so views and exports render it verbatim.
type DailyRow struct {
	Date               string `json:"date"`
	Weekday            string `json:"weekday"`
	Status             string `json:"status"`
	ScheduledIn        string `json:"scheduled_in"`
	ScheduledOut       string `json:"scheduled_out"`
	CheckIn            string `json:"check_in"`
	CheckOut           string `json:"check_out"`
	HoursRendered      string `json:"hours_rendered"`
	TardinessMinutes   int    `json:"tardiness_minutes"`
	TardinessFormatted string `json:"tardiness_formatted"`
	IsLate             bool   `json:"is_late"`
	IsAbsent           bool   `json:"is_absent"`
	IsOnLeave          bool   `json:"is_on_leave"`
	LeaveType          string `json:"leave_type,omitempty"`
}

type Summary struct {
	DaysRecorded          int            `json:"days_recorded"`
	LateCount             int            `json:"late_count"`
	TotalTardinessMinutes int            `json:"total_tardiness_minutes"`
	Absences              int            `json:"absences"`
	LeaveCounts           map[string]int `json:"leave_counts"`
}

type Report struct {
	EmployeeID string     `json:"employee_id"`
	From       string     `json:"from"`
	To         string     `json:"to"`
	Days       []DailyRow `json:"days"`
	Summary    Summary    `json:"summary"`
}
