package events

import "time"

const OvertimeApprovedTopic = "hr.overtime.lifecycle.v1"

type OvertimeApprovedEvent struct {
	EventType  string    `json:"event_type"`
	OvertimeID string    `json:"overtime_id"`
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date"`
	Hours      float64   `json:"hours"`
	ApprovedBy string    `json:"approved_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
