package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"pacs-portal/internal/shared/contextutil"
	"pacs-portal/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
)

const EmployeeOptionsKey = "employees:options"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeOption, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("create employee hash password failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	nextVal, err := s.counter.GetNextValue(ctx, "employee_code")
	if err != nil {
		s.logger.Error("create employee generate code failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = RoleEmployee
	}

	empl := &Employee{
		ID:           uuid.New(),
		EmployeeCode: fmt.Sprintf("EMP-%04d", nextVal),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Department:   req.Department,
		Position:     req.Position,
		Phone:        req.Phone,
		Role:         role,
		IsActive:     true,
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("employee_code", empl.EmployeeCode),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested")
	empls, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(empls), nil
}

// GetOptions serves the assignment picker. The list changes rarely, so
// it is cached in Redis for an hour and rebuilt behind a singleflight
// gate when many admins open the form at once.
func (s *service) GetOptions(ctx context.Context) ([]EmployeeOption, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EmployeeOptionsKey).Result(); err == nil {
			var resp []EmployeeOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(EmployeeOptionsKey, func() (interface{}, error) {
		empls, err := s.repo.FindActive(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]EmployeeOption, len(empls))
		for i, e := range empls {
			resp[i] = EmployeeOption{
				ID:         e.ID.String(),
				FullName:   e.FullName(),
				Department: e.Department,
				Position:   e.Position,
			}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, EmployeeOptionsKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]EmployeeOption), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested", zap.String("employee_id", id))
	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get employee by id failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested", zap.String("employee_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("update employee fetch existing failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl.FirstName = req.FirstName
	empl.LastName = req.LastName
	empl.Email = req.Email
	empl.Department = req.Department
	empl.Position = req.Position
	empl.Phone = req.Phone
	empl.Role = req.Role
	if req.IsActive != nil {
		empl.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)

	s.logger.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	s.logger.Debug("delete employee requested", zap.String("employee_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptionsCache(ctx)

	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, EmployeeOptionsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", EmployeeOptionsKey),
		)
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           empl.ID.String(),
		EmployeeCode: empl.EmployeeCode,
		FirstName:    empl.FirstName,
		LastName:     empl.LastName,
		FullName:     empl.FullName(),
		Email:        empl.Email,
		Department:   empl.Department,
		Position:     empl.Position,
		Phone:        empl.Phone,
		Role:         empl.Role,
		IsActive:     empl.IsActive,
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}
