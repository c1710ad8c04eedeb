package leaveerrors

import (
	"fmt"
	"net/http"
	"time"

	"hrms/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave_type must be one of VL, SL, LWOP, BL, CL",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"date_from must be before or equal date_to",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been processed",
		http.StatusConflict,
	)
	ErrNotApproved = apperror.New(
		apperror.CodeInvalidState,
		"only an approved leave request can be revoked",
		http.StatusConflict,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required when rejecting",
		http.StatusBadRequest,
	)
)

// OverlappingLeave carries the conflicting request's dates and status so
// the client can explain the block.
func OverlappingLeave(from, to time.Time, status string) *apperror.AppError {
	return apperror.New(
		apperror.CodeSchedulingConflict,
		fmt.Sprintf("overlaps an existing %s leave request (%s to %s)",
			status, from.Format("2006-01-02"), to.Format("2006-01-02")),
		http.StatusConflict,
	)
}

// AttendanceExists blocks leave filed retroactively over attended days.
func AttendanceExists(from, to time.Time) *apperror.AppError {
	return apperror.New(
		apperror.CodeSchedulingConflict,
		fmt.Sprintf("attendance already recorded between %s and %s",
			from.Format("2006-01-02"), to.Format("2006-01-02")),
		http.StatusConflict,
	)
}
