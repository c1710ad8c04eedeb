package leavecredit

type CreditResponse struct {
	LeaveType   string  `json:"leave_type"`
	Year        int     `json:"year"`
	Total       int     `json:"total"`
	Used        int     `json:"used"`
	Remaining   int     `json:"remaining"`
	LastResetAt *string `json:"last_reset_at,omitempty"`
}

type LedgerResponse struct {
	EmployeeID string           `json:"employee_id"`
	Year       int              `json:"year"`
	Credits    []CreditResponse `json:"credits"`
}
