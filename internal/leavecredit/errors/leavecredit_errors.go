package leavecrediterrors

import (
	"fmt"
	"net/http"

	"hrms/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrUnknownLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown leave type",
		http.StatusBadRequest,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"days must be a positive number",
		http.StatusBadRequest,
	)
)

// InsufficientCredit reports how much was requested against what remains so
// the client can explain the shortfall.
func InsufficientCredit(leaveType string, remaining, requested int) *apperror.AppError {
	return apperror.New(
		apperror.CodeInsufficientCredit,
		fmt.Sprintf("insufficient %s credits: %d remaining, %d requested", leaveType, remaining, requested),
		http.StatusUnprocessableEntity,
	)
}
