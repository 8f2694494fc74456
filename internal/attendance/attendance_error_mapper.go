package attendance

import (
	"errors"
	"strings"

	attendanceerrors "pacs-portal/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_attendances_employee_date" {
			return attendanceerrors.ErrAlreadyClockedIn
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_attendances_employee_date") {
		return attendanceerrors.ErrAlreadyClockedIn
	}

	return err
}
