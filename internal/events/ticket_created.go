package events

import "time"

const TicketLifecycleTopic = "portal.ticket.lifecycle.v1"

type TicketCreatedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	TicketID     string    `json:"ticket_id"`
	TicketNumber string    `json:"ticket_number"`
	Category     string    `json:"category"`
	Priority     string    `json:"priority"`
	ReporterID   string    `json:"reporter_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}
