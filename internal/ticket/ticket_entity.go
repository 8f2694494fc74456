package ticket

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CategoryHardware   = "hardware"
	CategorySoftware   = "software"
	CategoryNetwork    = "network"
	CategoryFacilities = "facilities"
	CategoryHR         = "hr"
	CategoryOther      = "other"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"

	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

type Ticket struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	TicketNumber string         `gorm:"column:ticket_number;size:20;uniqueIndex:uq_tickets_ticket_number;not null"`
	Title        string         `gorm:"column:title;size:200;not null"`
	Description  string         `gorm:"column:description;type:text;not null"`
	Category     string         `gorm:"column:category;size:20;not null"`
	Priority     string         `gorm:"column:priority;size:20;not null;default:medium"`
	Status       string         `gorm:"column:status;size:20;not null;default:open"`
	ReporterID   uuid.UUID      `gorm:"column:reporter_id;type:uuid;not null;index"`
	AssigneeID   *uuid.UUID     `gorm:"column:assignee_id;type:uuid;index"`
	ResolvedAt   *time.Time     `gorm:"column:resolved_at;type:timestamptz"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Reporter     *EmployeeRef   `gorm:"foreignKey:ReporterID;references:ID"`
	Assignee     *EmployeeRef   `gorm:"foreignKey:AssigneeID;references:ID"`
}

func (Ticket) TableName() string {
	return "tickets"
}

type EmployeeRef struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

func (e EmployeeRef) FullName() string {
	return e.FirstName + " " + e.LastName
}

// allowedTransitions is the ticket state machine. Reopening a resolved
// ticket is allowed; a closed ticket stays closed.
var allowedTransitions = map[string][]string{
	StatusOpen:       {StatusInProgress, StatusResolved, StatusClosed},
	StatusInProgress: {StatusOpen, StatusResolved, StatusClosed},
	StatusResolved:   {StatusOpen, StatusInProgress, StatusClosed},
	StatusClosed:     {},
}

func CanTransition(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
