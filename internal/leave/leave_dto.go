package leave

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=VL SL LWOP BL CL"`
	DateFrom  string `json:"date_from" binding:"required"`
	DateTo    string `json:"date_to" binding:"required"`
	Notes     string `json:"notes"`
}

type UpdateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=VL SL LWOP BL CL"`
	DateFrom  string `json:"date_from" binding:"required"`
	DateTo    string `json:"date_to" binding:"required"`
	Notes     string `json:"notes"`
}

type RejectLeaveRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type RevokeLeaveRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type BulkApproveRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,uuid"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	LeaveType       string  `json:"leave_type"`
	DateFrom        string  `json:"date_from"`
	DateTo          string  `json:"date_to"`
	TotalLeaveDays  int     `json:"total_leave_days"`
	Notes           string  `json:"notes"`
	Status          string  `json:"status"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectedBy      *string `json:"rejected_by,omitempty"`
	RejectedAt      *string `json:"rejected_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}
