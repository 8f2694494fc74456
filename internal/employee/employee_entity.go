package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Employee is both the directory record and the auth subject: the row id
// is the id carried in the session token.
type Employee struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	EmployeeCode string         `gorm:"size:20;uniqueIndex:uq_employees_employee_code;not null"`
	FirstName    string         `gorm:"size:100;not null"`
	LastName     string         `gorm:"size:100;not null"`
	Email        string         `gorm:"size:255;uniqueIndex:uq_employees_email;not null"`
	PasswordHash string         `gorm:"size:255;not null"`
	Department   string         `gorm:"size:100"`
	Position     string         `gorm:"size:100"`
	Phone        string         `gorm:"size:30"`
	Role         string         `gorm:"size:20;not null;default:employee"`
	IsActive     bool           `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
