package ticket

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"pacs-portal/internal/events"
	"pacs-portal/internal/messaging/kafka"
	"pacs-portal/internal/shared/contextutil"
	"pacs-portal/internal/shared/counter"
	ticketerrors "pacs-portal/internal/ticket/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const listLimit = 20

//go:generate mockgen -source=ticket_service.go -destination=mock/ticket_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, reporterID string, req CreateTicketRequest) (TicketResponse, error)
	List(ctx context.Context, actorID string, isAdmin bool) ([]TicketResponse, error)
	GetByID(ctx context.Context, id, actorID string, isAdmin bool) (TicketResponse, error)
	GetStats(ctx context.Context, actorID string, isAdmin bool) (TicketStats, error)
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (TicketResponse, error)
	Assign(ctx context.Context, id string, req AssignRequest) (TicketResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("ticket.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ticket.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		outbox:  outboxRepo,
		logger:  l,
	}
}

// Create allocates the ticket number and writes the ticket row plus its
// outbox event inside a single transaction.
func (s *service) Create(ctx context.Context, reporterID string, req CreateTicketRequest) (TicketResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create ticket requested",
		zap.String("request_id", rid),
		zap.String("reporter_id", reporterID),
		zap.String("category", req.Category),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create ticket begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return TicketResponse{}, err
	}
	defer tx.Rollback()

	nextVal, err := s.counter.GetNextValue(ctx, "ticket_number")
	if err != nil {
		s.logger.Error("create ticket generate number failed", zap.Error(err))
		return TicketResponse{}, err
	}

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	row := &Ticket{
		ID:           uuid.New(),
		TicketNumber: fmt.Sprintf("PACS-%05d", nextVal),
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Priority:     priority,
		Status:       StatusOpen,
		ReporterID:   uuid.MustParse(reporterID),
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, row); err != nil {
		s.logger.Error("create ticket persist failed", zap.Error(err))
		return TicketResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.TicketCreatedEvent{
			EventType:    "ticket_created",
			RequestID:    rid,
			TicketID:     row.ID.String(),
			TicketNumber: row.TicketNumber,
			Category:     row.Category,
			Priority:     row.Priority,
			ReporterID:   reporterID,
			OccurredAt:   time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal ticket event failed", zap.String("request_id", rid), zap.Error(err))
			return TicketResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "ticket",
			AggregateID:   row.ID.String(),
			EventType:     event.EventType,
			Topic:         events.TicketLifecycleTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create ticket outbox persist failed",
				zap.String("ticket_id", row.ID.String()),
				zap.Error(err),
			)
			return TicketResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create ticket commit failed", zap.String("request_id", rid), zap.Error(err))
		return TicketResponse{}, err
	}

	s.logger.Info("create ticket success",
		zap.String("request_id", rid),
		zap.String("ticket_id", row.ID.String()),
		zap.String("ticket_number", row.TicketNumber),
	)

	return mapToResponse(*row), nil
}

func (s *service) List(ctx context.Context, actorID string, isAdmin bool) ([]TicketResponse, error) {
	var (
		rows []Ticket
		err  error
	)
	if isAdmin {
		rows, err = s.repo.FindRecent(ctx, listLimit)
	} else {
		rows, err = s.repo.FindRecentByReporter(ctx, actorID, listLimit)
	}
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]TicketResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id, actorID string, isAdmin bool) (TicketResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return TicketResponse{}, mapRepositoryError(err)
	}

	if !isAdmin && row.ReporterID.String() != actorID {
		return TicketResponse{}, ticketerrors.ErrNotTicketOwner
	}

	return mapToResponse(*row), nil
}

// GetStats counts tickets in the caller's visibility scope. Admins see
// every ticket, employees only their own.
func (s *service) GetStats(ctx context.Context, actorID string, isAdmin bool) (TicketStats, error) {
	scope := actorID
	if isAdmin {
		scope = ""
	}

	total, err := s.repo.CountAll(ctx, scope)
	if err != nil {
		return TicketStats{}, err
	}
	open, err := s.repo.CountByStatus(ctx, StatusOpen, scope)
	if err != nil {
		return TicketStats{}, err
	}
	inProgress, err := s.repo.CountByStatus(ctx, StatusInProgress, scope)
	if err != nil {
		return TicketStats{}, err
	}
	resolved, err := s.repo.CountByStatus(ctx, StatusResolved, scope)
	if err != nil {
		return TicketStats{}, err
	}
	closed, err := s.repo.CountByStatus(ctx, StatusClosed, scope)
	if err != nil {
		return TicketStats{}, err
	}

	return TicketStats{
		Total:      total,
		Open:       open,
		InProgress: inProgress,
		Resolved:   resolved + closed,
	}, nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (TicketResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TicketResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		return TicketResponse{}, mapRepositoryError(err)
	}

	if !CanTransition(row.Status, req.Status) {
		s.logger.Warn("invalid ticket status transition",
			zap.String("ticket_id", id),
			zap.String("from", row.Status),
			zap.String("to", req.Status),
		)
		return TicketResponse{}, ticketerrors.ErrInvalidTransition
	}

	row.Status = req.Status
	switch req.Status {
	case StatusResolved:
		now := time.Now().UTC()
		row.ResolvedAt = &now
	case StatusOpen, StatusInProgress:
		row.ResolvedAt = nil
	}

	if err := qtx.Update(ctx, row); err != nil {
		return TicketResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return TicketResponse{}, err
	}

	s.logger.Info("ticket status updated",
		zap.String("ticket_id", id),
		zap.String("status", req.Status),
	)
	return mapToResponse(*row), nil
}

func (s *service) Assign(ctx context.Context, id string, req AssignRequest) (TicketResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TicketResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		return TicketResponse{}, mapRepositoryError(err)
	}

	assigneeID := uuid.MustParse(req.AssigneeID)
	row.AssigneeID = &assigneeID
	// Picking up an open ticket moves it to in_progress in one step.
	if row.Status == StatusOpen {
		row.Status = StatusInProgress
	}

	if err := qtx.Update(ctx, row); err != nil {
		return TicketResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return TicketResponse{}, err
	}

	s.logger.Info("ticket assigned",
		zap.String("ticket_id", id),
		zap.String("assignee_id", req.AssigneeID),
	)
	return mapToResponse(*row), nil
}

func mapToResponse(t Ticket) TicketResponse {
	resp := TicketResponse{
		ID:           t.ID.String(),
		TicketNumber: t.TicketNumber,
		Title:        t.Title,
		Description:  t.Description,
		Category:     t.Category,
		Priority:     t.Priority,
		Status:       t.Status,
		ReporterID:   t.ReporterID.String(),
		CreatedAt:    t.CreatedAt.Format(time.RFC3339),
	}
	if t.Reporter != nil {
		resp.ReporterName = t.Reporter.FullName()
	}
	if t.AssigneeID != nil {
		resp.AssigneeID = t.AssigneeID.String()
	}
	if t.Assignee != nil {
		resp.AssigneeName = t.Assignee.FullName()
	}
	if t.ResolvedAt != nil {
		resp.ResolvedAt = t.ResolvedAt.Format(time.RFC3339)
	}
	return resp
}
