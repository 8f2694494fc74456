package apperror

import (
	"errors"
	"net/http"
)

// HTTPError is the flattened form handlers hand to the response writer.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP maps any error to an HTTPError. AppErrors keep their code and
// status; everything else is masked as a generic internal error so raw
// driver messages never leak to clients.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "Internal server error",
	}
}
