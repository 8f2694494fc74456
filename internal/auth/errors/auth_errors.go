package autherrors

import (
	"net/http"

	"pacs-portal/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		"INVALID_CREDENTIALS",
		"Invalid email or password",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		"INVALID_TOKEN",
		"Invalid or malformed token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		"TOKEN_EXPIRED",
		"Token has expired",
		http.StatusUnauthorized,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"You don't have permission to access this resource",
		http.StatusForbidden,
	)
	ErrAccountInactive = apperror.New(
		"ACCOUNT_INACTIVE",
		"This account has been deactivated",
		http.StatusForbidden,
	)
	ErrSetupAlreadyDone = apperror.New(
		apperror.CodeConflict,
		"Initial setup has already been completed",
		http.StatusConflict,
	)
)
