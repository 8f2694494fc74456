package ticketerrors

import (
	"net/http"

	"pacs-portal/internal/shared/apperror"
)

var (
	ErrTicketNotFound = apperror.New(
		apperror.CodeNotFound,
		"Ticket not found",
		http.StatusNotFound,
	)
	ErrTicketNumberExists = apperror.New(
		apperror.CodeConflict,
		"Ticket number already exists",
		http.StatusConflict,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"Ticket cannot move to the requested status",
		http.StatusConflict,
	)
	ErrNotTicketOwner = apperror.New(
		apperror.CodeForbidden,
		"You can only view your own tickets",
		http.StatusForbidden,
	)
)
