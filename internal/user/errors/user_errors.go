package usererrors

import (
	"net/http"

	"leavetrack/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"an account with this email already exists",
		http.StatusConflict,
	)
	ErrInvalidManagerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid manager id",
		http.StatusBadRequest,
	)
	ErrManagerNotManager = apperror.New(
		apperror.CodeInvalidInput,
		"assigned manager must have the MANAGER role",
		http.StatusBadRequest,
	)
	ErrLastAdmin = apperror.New(
		apperror.CodeInvalidState,
		"cannot delete the last admin user",
		http.StatusBadRequest,
	)
)
