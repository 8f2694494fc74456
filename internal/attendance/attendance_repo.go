package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	FindRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]Attendance, error)
	FindByDate(ctx context.Context, date time.Time) ([]Attendance, error)
	CountByDateAndStatus(ctx context.Context, date time.Time, status string) (int64, error)
	Update(ctx context.Context, a *Attendance) error
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

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date.Format("2006-01-02")).
		First(&a).Error
	return &a, err
}

func (r *repository) FindRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("attendance_date DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByDate(ctx context.Context, date time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("attendance_date = ?", date.Format("2006-01-02")).
		Order("clock_in ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountByDateAndStatus(ctx context.Context, date time.Time, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("attendance_date = ?", date.Format("2006-01-02")).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}
