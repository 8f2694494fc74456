package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeVacation  = "vacation"
	TypeSick      = "sick"
	TypePersonal  = "personal"
	TypeEmergency = "emergency"
	TypeOther     = "other"

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type LeaveRequest struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID uuid.UUID      `gorm:"column:employee_id;type:uuid;not null;index"`
	LeaveType  string         `gorm:"column:leave_type;size:20;not null"`
	StartDate  time.Time      `gorm:"column:start_date;type:date;not null"`
	EndDate    time.Time      `gorm:"column:end_date;type:date;not null"`
	DaysCount  int            `gorm:"column:days_count;not null"`
	Reason     string         `gorm:"column:reason;type:text;not null"`
	Status     string         `gorm:"column:status;size:20;not null;default:pending"`
	ReviewedBy *uuid.UUID     `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt *time.Time     `gorm:"column:reviewed_at;type:timestamptz"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Employee   *EmployeeRef   `gorm:"foreignKey:EmployeeID;references:ID"`
	Reviewer   *EmployeeRef   `gorm:"foreignKey:ReviewedBy;references:ID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

type EmployeeRef struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName  string    `gorm:"column:first_name"`
	LastName   string    `gorm:"column:last_name"`
	Department string    `gorm:"column:department"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

func (e EmployeeRef) FullName() string {
	return e.FirstName + " " + e.LastName
}
