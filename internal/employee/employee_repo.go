package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindActive(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	FindFirstActiveAdmin(ctx context.Context) (*Employee, error)
	CountAll(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	Update(ctx context.Context, empl *Employee) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository whose statements run on tx instead of
// the connection pool.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{NewDB: true, Context: r.db.Statement.Context})
	db.Statement.ConnPool = tx
	return &repository{db: db, tx: tx}
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Order("last_name ASC, first_name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindActive(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("last_name ASC, first_name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).First(&empl, "id = ?", id).Error
	return &empl, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).First(&empl, "email = ?", email).Error
	return &empl, err
}

func (r *repository) FindFirstActiveAdmin(ctx context.Context) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", RoleAdmin, true).
		Order("created_at ASC").
		First(&empl).Error
	return &empl, err
}

func (r *repository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Employee{}).Count(&count).Error
	return count, err
}

func (r *repository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Save(empl).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Employee{}, "id = ?", id).Error
}
