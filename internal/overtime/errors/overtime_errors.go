package overtimeerrors

import (
	"fmt"
	"net/http"
	"time"

	"hrms/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidHours = apperror.New(
		apperror.CodeInvalidInput,
		"hours must be greater than 0 and at most 24",
		http.StatusBadRequest,
	)
	ErrInvalidOvertimeType = apperror.New(
		apperror.CodeInvalidInput,
		"overtime_type must be one of regular, holiday, weekend, other",
		http.StatusBadRequest,
	)
	ErrOvertimeNotFound = apperror.New(
		apperror.CodeNotFound,
		"overtime request not found",
		http.StatusNotFound,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"overtime request has already been processed",
		http.StatusConflict,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required when rejecting",
		http.StatusBadRequest,
	)
)

// DuplicateForDate blocks a second non-rejected request on the same day.
func DuplicateForDate(date time.Time) *apperror.AppError {
	return apperror.New(
		apperror.CodeSchedulingConflict,
		fmt.Sprintf("an overtime request for %s already exists", date.Format("2006-01-02")),
		http.StatusConflict,
	)
}

// BlockedByLeave rejects approval when the day is inside an approved leave.
func BlockedByLeave(date, leaveFrom, leaveTo time.Time) *apperror.AppError {
	return apperror.New(
		apperror.CodeSchedulingConflict,
		fmt.Sprintf("%s falls inside an approved leave (%s to %s)",
			date.Format("2006-01-02"),
			leaveFrom.Format("2006-01-02"), leaveTo.Format("2006-01-02")),
		http.StatusConflict,
	)
}
