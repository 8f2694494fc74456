package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	attendanceerrors "pacs-portal/internal/attendance/errors"
	"pacs-portal/internal/employee"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPresent = "present"
	StatusLate    = "late"
	// Recognized on records written by back-office tooling; clock-in
	// only ever produces present or late.
	StatusHalfDay = "half-day"
	StatusAbsent  = "absent"

	historyLimit = 30

	lateCutoffHour   = 9
	lateCutoffMinute = 15
)

// statusForClockIn marks anyone clocking in after 09:15 as late.
func statusForClockIn(t time.Time) string {
	if t.Hour() > lateCutoffHour || (t.Hour() == lateCutoffHour && t.Minute() > lateCutoffMinute) {
		return StatusLate
	}
	return StatusPresent
}

// WorkedHours renders the shift duration with two decimals, or
// "In Progress" while the employee is still clocked in.
func WorkedHours(clockIn time.Time, clockOut *time.Time) string {
	if clockOut == nil {
		return "In Progress"
	}
	return fmt.Sprintf("%.2f", clockOut.Sub(clockIn).Hours())
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, employeeID string, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, employeeID string, req ClockOutRequest) (AttendanceResponse, error)
	GetHistory(ctx context.Context, employeeID string) ([]AttendanceResponse, error)
	GetToday(ctx context.Context, employeeID string) (*AttendanceResponse, error)
	GetTodaySummary(ctx context.Context) (TodaySummary, error)
	GetTodayRecords(ctx context.Context) ([]AttendanceResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(db *sql.DB, repo Repository, employeeRepo employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		logger:       l,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) ClockIn(ctx context.Context, employeeID string, req ClockInRequest) (AttendanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()
	today := now.Truncate(24 * time.Hour)

	existing, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if err == nil && existing != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
	}

	row := &Attendance{
		ID:             uuid.New(),
		EmployeeID:     uuid.MustParse(employeeID),
		AttendanceDate: today,
		ClockIn:        now,
		Status:         statusForClockIn(now),
		Notes:          req.Notes,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock in recorded",
		zap.String("employee_id", employeeID),
		zap.String("status", row.Status),
	)
	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, employeeID string, req ClockOutRequest) (AttendanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()
	today := now.Truncate(24 * time.Hour)

	row, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNotClockedIn
		}
		return AttendanceResponse{}, err
	}
	if row.ClockOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedOut
	}

	row.ClockOut = &now
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock out recorded", zap.String("employee_id", employeeID))
	return mapToResponse(*row), nil
}

func (s *service) GetHistory(ctx context.Context, employeeID string) ([]AttendanceResponse, error) {
	rows, err := s.repo.FindRecentByEmployee(ctx, employeeID, historyLimit)
	if err != nil {
		return nil, err
	}
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

// GetToday returns nil without error when the employee has not clocked
// in yet; the dashboard treats that as "not started".
func (s *service) GetToday(ctx context.Context, employeeID string) (*AttendanceResponse, error) {
	today := s.now().Truncate(24 * time.Hour)
	row, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	resp := mapToResponse(*row)
	return &resp, nil
}

func (s *service) GetTodaySummary(ctx context.Context) (TodaySummary, error) {
	today := s.now().Truncate(24 * time.Hour)

	total, err := s.employeeRepo.CountActive(ctx)
	if err != nil {
		return TodaySummary{}, err
	}

	rows, err := s.repo.FindByDate(ctx, today)
	if err != nil {
		return TodaySummary{}, err
	}

	late, err := s.repo.CountByDateAndStatus(ctx, today, StatusLate)
	if err != nil {
		return TodaySummary{}, err
	}

	recorded := int64(len(rows))
	absent := total - recorded
	if absent < 0 {
		absent = 0
	}

	return TodaySummary{
		Total:   total,
		Present: recorded,
		Absent:  absent,
		Late:    late,
	}, nil
}

func (s *service) GetTodayRecords(ctx context.Context) ([]AttendanceResponse, error) {
	today := s.now().Truncate(24 * time.Hour)
	rows, err := s.repo.FindByDate(ctx, today)
	if err != nil {
		return nil, err
	}
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.Format("2006-01-02"),
		ClockIn:        a.ClockIn.Format(time.RFC3339),
		Status:         a.Status,
		WorkedHours:    WorkedHours(a.ClockIn, a.ClockOut),
		Notes:          a.Notes,
	}
	if a.ClockOut != nil {
		v := a.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &v
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.FullName()
	}
	return resp
}
