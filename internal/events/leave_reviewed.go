package events

import "time"

const LeaveLifecycleTopic = "portal.leave.lifecycle.v1"

type LeaveReviewedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	LeaveRequestID string    `json:"leave_request_id"`
	EmployeeID     string    `json:"employee_id"`
	LeaveType      string    `json:"leave_type"`
	Status         string    `json:"status"`
	ReviewedBy     string    `json:"reviewed_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}
