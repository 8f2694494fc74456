package ticket

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=ticket_repo.go -destination=mock/ticket_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Ticket) error
	FindByID(ctx context.Context, id string) (*Ticket, error)
	FindRecent(ctx context.Context, limit int) ([]Ticket, error)
	FindRecentByReporter(ctx context.Context, reporterID string, limit int) ([]Ticket, error)
	FindUnassignedByPriority(ctx context.Context, priority string) ([]Ticket, error)
	CountAll(ctx context.Context, reporterID string) (int64, error)
	CountByStatus(ctx context.Context, status, reporterID string) (int64, error)
	Update(ctx context.Context, t *Ticket) error
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

func (r *repository) Create(ctx context.Context, t *Ticket) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Ticket, error) {
	var t Ticket
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Assignee").
		First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) FindRecent(ctx context.Context, limit int) ([]Ticket, error) {
	var rows []Ticket
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Assignee").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindRecentByReporter(ctx context.Context, reporterID string, limit int) ([]Ticket, error) {
	var rows []Ticket
	err := r.db.WithContext(ctx).
		Preload("Assignee").
		Where("reporter_id = ?", reporterID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindUnassignedByPriority(ctx context.Context, priority string) ([]Ticket, error) {
	var rows []Ticket
	err := r.db.WithContext(ctx).
		Where("priority = ?", priority).
		Where("assignee_id IS NULL").
		Where("status = ?", StatusOpen).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// CountAll counts every ticket, or only one reporter's when reporterID
// is set.
func (r *repository) CountAll(ctx context.Context, reporterID string) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&Ticket{})
	if reporterID != "" {
		q = q.Where("reporter_id = ?", reporterID)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *repository) CountByStatus(ctx context.Context, status, reporterID string) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("status = ?", status)
	if reporterID != "" {
		q = q.Where("reporter_id = ?", reporterID)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, t *Ticket) error {
	return r.db.WithContext(ctx).Save(t).Error
}
