package overtime

type CreateOvertimeRequest struct {
	Date         string  `json:"date" binding:"required"`
	Hours        float64 `json:"hours" binding:"required,gt=0,lte=24"`
	OvertimeType string  `json:"overtime_type" binding:"required,oneof=regular holiday weekend other"`
	Reason       string  `json:"reason" binding:"required"`
}

type UpdateOvertimeRequest struct {
	Date         string  `json:"date" binding:"required"`
	Hours        float64 `json:"hours" binding:"required,gt=0,lte=24"`
	OvertimeType string  `json:"overtime_type" binding:"required,oneof=regular holiday weekend other"`
	Reason       string  `json:"reason" binding:"required"`
}

type RejectOvertimeRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type BulkApproveRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,uuid"`
}

type OvertimeResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	Date            string  `json:"date"`
	Hours           float64 `json:"hours"`
	OvertimeType    string  `json:"overtime_type"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectedBy      *string `json:"rejected_by,omitempty"`
	RejectedAt      *string `json:"rejected_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}
