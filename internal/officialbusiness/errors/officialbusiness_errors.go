package officialbusinesserrors

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
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"date_from must be before or equal date_to",
		http.StatusBadRequest,
	)
	ErrNotFound = apperror.New(
		apperror.CodeNotFound,
		"official business request not found",
		http.StatusNotFound,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"official business request has already been processed",
		http.StatusConflict,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required when rejecting",
		http.StatusBadRequest,
	)
)

func OverlappingRequest(from, to time.Time, status string) *apperror.AppError {
	return apperror.New(
		apperror.CodeSchedulingConflict,
		fmt.Sprintf("overlaps an existing %s official business request (%s to %s)",
			status, from.Format("2006-01-02"), to.Format("2006-01-02")),
		http.StatusConflict,
	)
}

func BlockedByLeave(leaveFrom, leaveTo time.Time) *apperror.AppError {
	return apperror.New(
		apperror.CodeSchedulingConflict,
		fmt.Sprintf("overlaps an approved leave (%s to %s)",
			leaveFrom.Format("2006-01-02"), leaveTo.Format("2006-01-02")),
		http.StatusConflict,
	)
}
