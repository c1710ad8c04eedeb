package attendance

type ClockInRequest struct {
	Notes *string `json:"notes"`
}

type ClockOutRequest struct {
	Notes *string `json:"notes"`
}

type AttendanceResponse struct {
	ID                   string  `json:"id"`
	EmployeeID           string  `json:"employee_id"`
	AttendanceDate       string  `json:"attendance_date"`
	Status               string  `json:"status"`
	ScheduledIn          string  `json:"scheduled_in"`
	ScheduledOut         string  `json:"scheduled_out"`
	CheckIn              *string `json:"check_in,omitempty"`
	CheckOut             *string `json:"check_out,omitempty"`
	TardinessMinutes     int     `json:"tardiness_minutes"`
	HoursRenderedMinutes int     `json:"hours_rendered_minutes"`
	LeaveRequestID       *string `json:"leave_request_id,omitempty"`
	Notes                *string `json:"notes,omitempty"`
}
