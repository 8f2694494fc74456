package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// One row per employee per calendar day. The composite unique index is
// the backstop against double clock-ins racing past the in-tx check.
type Attendance struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID     uuid.UUID      `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendances_employee_date"`
	AttendanceDate time.Time      `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendances_employee_date"`
	ClockIn        time.Time      `gorm:"column:clock_in;type:timestamptz;not null"`
	ClockOut       *time.Time     `gorm:"column:clock_out;type:timestamptz"`
	Status         string         `gorm:"column:status;type:varchar(20);not null;default:present"`
	Notes          *string        `gorm:"column:notes;type:text"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Employee       *EmployeeRef   `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Attendance) TableName() string {
	return "attendances"
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
