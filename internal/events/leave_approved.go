package events

import "time"

const LeaveApprovedTopic = "hr.leave.lifecycle.v1"

type LeaveApprovedEvent struct {
	EventType      string    `json:"event_type"`
	LeaveID        string    `json:"leave_id"`
	EmployeeID     string    `json:"employee_id"`
	LeaveType      string    `json:"leave_type"`
	DateFrom       string    `json:"date_from"`
	DateTo         string    `json:"date_to"`
	TotalLeaveDays int       `json:"total_leave_days"`
	ApprovedBy     string    `json:"approved_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}
