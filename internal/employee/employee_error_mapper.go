package employee

import (
	"errors"
	"strings"

	employeeerrors "pacs-portal/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_employees_email":
				return employeeerrors.ErrEmailAlreadyExists
			case "uq_employees_employee_code":
				return employeeerrors.ErrEmployeeCodeAlreadyExists
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "email") {
		return employeeerrors.ErrEmailAlreadyExists
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "employee_code") {
		return employeeerrors.ErrEmployeeCodeAlreadyExists
	}

	return err
}
