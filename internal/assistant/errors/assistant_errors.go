package assistanterrors

import (
	"net/http"

	"leavetrack/internal/shared/apperror"
)

var (
	ErrNotConfigured = apperror.New(
		apperror.CodeServiceUnavailable,
		"The assistant is not configured on this server",
		http.StatusServiceUnavailable,
	)
	ErrEmptyMessage = apperror.New(
		apperror.CodeInvalidInput,
		"Message must not be empty",
		http.StatusBadRequest,
	)
	ErrAssistantUnavailable = apperror.New(
		apperror.CodeUpstreamError,
		"Sorry, I'm having trouble responding right now. Please try again.",
		http.StatusBadGateway,
	)
)
