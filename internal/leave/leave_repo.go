package leave

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, lr *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]LeaveRequest, error)
	FindPending(ctx context.Context) ([]LeaveRequest, error)
	Update(ctx context.Context, lr *LeaveRequest) error
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

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(lr).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Reviewer").
		First(&lr, "id = ?", id).Error
	return &lr, err
}

func (r *repository) FindRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// FindPending returns the approval queue, oldest request first.
func (r *repository) FindPending(ctx context.Context) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(lr).Error
}
