package auth

import (
	"context"

	"pacs-portal/internal/employee"

	"gorm.io/gorm"
)

// Repository reads the employees table: the portal has no separate
// users table, an employee row is the account.
//
//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*employee.Employee, error)
	GetByID(ctx context.Context, id string) (*employee.Employee, error)
	CountAdmins(ctx context.Context) (int64, error)
	Create(ctx context.Context, empl *employee.Employee) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	var empl employee.Employee
	err := r.db.WithContext(ctx).First(&empl, "email = ?", email).Error
	return &empl, err
}

func (r *repository) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	var empl employee.Employee
	err := r.db.WithContext(ctx).First(&empl, "id = ?", id).Error
	return &empl, err
}

func (r *repository) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&employee.Employee{}).
		Where("role = ?", employee.RoleAdmin).
		Count(&count).Error
	return count, err
}

func (r *repository) Create(ctx context.Context, empl *employee.Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}
