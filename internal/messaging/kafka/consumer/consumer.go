package consumer

import (
	"context"
	"encoding/json"

	"pacs-portal/internal/employee"
	"pacs-portal/internal/events"
	"pacs-portal/internal/ticket"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeTicketLifecycle watches ticket_created events and hands urgent
// tickets straight to an on-duty admin. Each urgent event triggers a
// sweep over every open unassigned urgent ticket, which also catches
// tickets whose events were dropped or redelivered. Tickets that
// already picked up an assignee are left alone.
func ConsumeTicketLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	ticketService ticket.Service,
	ticketRepo ticket.Repository,
	employeeRepo employee.Repository,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.ticket_lifecycle")
	log.Info("ticket lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("ticket lifecycle consumer stopped")
				return
			}
			log.Error("fetch ticket lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.TicketCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode ticket_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if event.EventType != "ticket_created" || event.Priority != ticket.PriorityUrgent {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := assignPendingUrgentTickets(ctx, ticketService, ticketRepo, employeeRepo, log); err != nil {
			log.Error("auto-assign urgent tickets failed",
				zap.String("ticket_id", event.TicketID),
				zap.String("ticket_number", event.TicketNumber),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit ticket lifecycle message failed", zap.Error(err))
			continue
		}
	}
}

func assignPendingUrgentTickets(
	ctx context.Context,
	ticketService ticket.Service,
	ticketRepo ticket.Repository,
	employeeRepo employee.Repository,
	log *zap.Logger,
) error {
	rows, err := ticketRepo.FindUnassignedByPriority(ctx, ticket.PriorityUrgent)
	if err != nil {
		return err
	}

	// Redelivered event, or an admin got there first.
	if len(rows) == 0 {
		return nil
	}

	admin, err := employeeRepo.FindFirstActiveAdmin(ctx)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := ticketService.Assign(ctx, row.ID.String(), ticket.AssignRequest{
			AssigneeID: admin.ID.String(),
		}); err != nil {
			return err
		}

		log.Info("urgent ticket auto-assigned",
			zap.String("ticket_id", row.ID.String()),
			zap.String("ticket_number", row.TicketNumber),
			zap.String("assignee_id", admin.ID.String()),
		)
	}
	return nil
}
