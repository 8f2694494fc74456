package attendanceerrors

import (
	"net/http"

	"pacs-portal/internal/shared/apperror"
)

var (
	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeConflict,
		"Already clocked in for today",
		http.StatusConflict,
	)
	ErrNotClockedIn = apperror.New(
		apperror.CodeNotFound,
		"No clock-in record found for today",
		http.StatusNotFound,
	)
	ErrAlreadyClockedOut = apperror.New(
		apperror.CodeConflict,
		"Already clocked out for today",
		http.StatusConflict,
	)
)
