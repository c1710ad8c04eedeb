package officialbusiness

type CreateOfficialBusinessRequest struct {
	DateFrom string `json:"date_from" binding:"required"`
	DateTo   string `json:"date_to" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}

type UpdateOfficialBusinessRequest struct {
	DateFrom string `json:"date_from" binding:"required"`
	DateTo   string `json:"date_to" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}

type RejectOfficialBusinessRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type OfficialBusinessResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	DateFrom        string  `json:"date_from"`
	DateTo          string  `json:"date_to"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectedBy      *string `json:"rejected_by,omitempty"`
	RejectedAt      *string `json:"rejected_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}
