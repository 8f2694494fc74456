package ticket

import (
	"errors"
	"strings"

	ticketerrors "pacs-portal/internal/ticket/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ticketerrors.ErrTicketNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_tickets_ticket_number" {
			return ticketerrors.ErrTicketNumberExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_tickets_ticket_number") {
		return ticketerrors.ErrTicketNumberExists
	}

	return err
}
