package leaveerrors

import (
	"net/http"

	"leavetrack/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrLeaveAccessDenied = apperror.New(
		apperror.CodeForbidden,
		"you are not authorized to view this leave",
		http.StatusForbidden,
	)
	ErrNotTeamManager = apperror.New(
		apperror.CodeForbidden,
		"you are not authorized to decide this leave",
		http.StatusForbidden,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"leave has already been decided",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required when rejecting a leave",
		http.StatusBadRequest,
	)
	ErrAttachmentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"sick leave requires an attachment",
		http.StatusBadRequest,
	)
)

// NewBlockedDate reports the specific day and calendar entry that blocks a
// requested range.
func NewBlockedDate(date, holidayName string, critical bool) *apperror.AppError {
	kind := "Holiday"
	if critical {
		kind = "Critical Day"
	}
	return apperror.New(
		apperror.CodeConflict,
		"cannot apply for leave on "+date+" which is "+holidayName+" ("+kind+")",
		http.StatusConflict,
	)
}
