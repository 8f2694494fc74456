package leaveerrors

import (
	"net/http"

	"pacs-portal/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyReviewed = apperror.New(
		apperror.CodeInvalidState,
		"Leave request has already been reviewed",
		http.StatusConflict,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"End date must not be before start date",
		http.StatusBadRequest,
	)
)
