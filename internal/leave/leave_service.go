package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"pacs-portal/internal/events"
	leaveerrors "pacs-portal/internal/leave/errors"
	"pacs-portal/internal/messaging/kafka"
	"pacs-portal/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	historyLimit = 20
	dateLayout   = "2006-01-02"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveResponse, error)
	GetHistory(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	GetPending(ctx context.Context) ([]LeaveResponse, error)
	Approve(ctx context.Context, id, reviewerID string) (LeaveResponse, error)
	Reject(ctx context.Context, id, reviewerID string) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

// DaysBetween counts calendar days with both endpoints included, so a
// single-day request covers one day.
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func (s *service) Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveResponse, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	if end.Before(start) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	row := &LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: uuid.MustParse(employeeID),
		LeaveType:  req.LeaveType,
		StartDate:  start,
		EndDate:    end,
		DaysCount:  DaysBetween(start, end),
		Reason:     req.Reason,
		Status:     StatusPending,
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("submit leave request failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return LeaveResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("leave request submitted",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("leave_request_id", row.ID.String()),
		zap.Int("days", row.DaysCount),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetHistory(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	rows, err := s.repo.FindRecentByEmployee(ctx, employeeID, historyLimit)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]LeaveResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) GetPending(ctx context.Context) ([]LeaveResponse, error) {
	rows, err := s.repo.FindPending(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]LeaveResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) Approve(ctx context.Context, id, reviewerID string) (LeaveResponse, error) {
	return s.review(ctx, id, reviewerID, StatusApproved)
}

func (s *service) Reject(ctx context.Context, id, reviewerID string) (LeaveResponse, error) {
	return s.review(ctx, id, reviewerID, StatusRejected)
}

// review moves a pending request to its final status and records the
// decision event in the outbox within the same transaction.
func (s *service) review(ctx context.Context, id, reviewerID, status string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if row.Status != StatusPending {
		s.logger.Warn("leave request already reviewed",
			zap.String("leave_request_id", id),
			zap.String("status", row.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyReviewed
	}

	reviewer := uuid.MustParse(reviewerID)
	now := time.Now().UTC()
	row.Status = status
	row.ReviewedBy = &reviewer
	row.ReviewedAt = &now

	if err := qtx.Update(ctx, row); err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.LeaveReviewedEvent{
			EventType:      "leave_reviewed",
			RequestID:      rid,
			LeaveRequestID: row.ID.String(),
			EmployeeID:     row.EmployeeID.String(),
			LeaveType:      row.LeaveType,
			Status:         status,
			ReviewedBy:     reviewerID,
			OccurredAt:     now,
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return LeaveResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "leave_request",
			AggregateID:   row.ID.String(),
			EventType:     event.EventType,
			Topic:         events.LeaveLifecycleTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("leave review outbox persist failed",
				zap.String("leave_request_id", id),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request reviewed",
		zap.String("request_id", rid),
		zap.String("leave_request_id", id),
		zap.String("status", status),
		zap.String("reviewed_by", reviewerID),
	)
	return mapToResponse(*row), nil
}

func mapToResponse(lr LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:         lr.ID.String(),
		EmployeeID: lr.EmployeeID.String(),
		LeaveType:  lr.LeaveType,
		StartDate:  lr.StartDate.Format(dateLayout),
		EndDate:    lr.EndDate.Format(dateLayout),
		DaysCount:  lr.DaysCount,
		Reason:     lr.Reason,
		Status:     lr.Status,
		CreatedAt:  lr.CreatedAt.Format(time.RFC3339),
	}
	if lr.Employee != nil {
		resp.EmployeeName = lr.Employee.FullName()
		resp.Department = lr.Employee.Department
	}
	if lr.ReviewedBy != nil {
		resp.ReviewedBy = lr.ReviewedBy.String()
	}
	if lr.Reviewer != nil {
		resp.ReviewerName = lr.Reviewer.FullName()
	}
	if lr.ReviewedAt != nil {
		resp.ReviewedAt = lr.ReviewedAt.Format(time.RFC3339)
	}
	return resp
}
