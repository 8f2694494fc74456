package employeeerrors

import (
	"net/http"

	"pacs-portal/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrEmployeeCodeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee code already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
)
