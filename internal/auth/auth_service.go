package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	autherrors "pacs-portal/internal/auth/errors"
	"pacs-portal/internal/employee"
	employeeerrors "pacs-portal/internal/employee/errors"
	"pacs-portal/internal/shared/counter"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// DashboardPathFor is the single place that maps a role to its landing
// page. Admins land on the operations dashboard, everyone else on the
// self-service portal.
func DashboardPathFor(role string) string {
	if role == employee.RoleAdmin {
		return "/admin"
	}
	return "/dashboard"
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
	Setup(ctx context.Context, req SetupRequest) (AuthResponse, error)
}

type service struct {
	repo    Repository
	counter counter.Repository
	logger  *zap.Logger
}

func NewService(repo Repository, counter counter.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, counter: counter, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Same error whether the account is missing or the password is
		// wrong, so the endpoint cannot be used to probe emails.
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Warn("login rejected for inactive account", zap.String("employee_id", user.ID.String()))
		return "", "", AuthResponse{}, autherrors.ErrAccountInactive
	}

	accessToken, err := s.generateToken(user.ID.String(), user.Role, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, err
	}
	refreshToken, err := s.generateToken(user.ID.String(), user.Role, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	s.logger.Info("login success",
		zap.String("employee_id", user.ID.String()),
		zap.String("role", user.Role),
	)

	return accessToken, refreshToken, mapToAuthResponse(user), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	user, err := s.repo.GetByID(ctx, userID.String())
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}
	if !user.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountInactive
	}

	newAccessToken, err := s.generateToken(user.ID.String(), user.Role, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	newRefreshToken, err := s.generateToken(user.ID.String(), user.Role, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	return newAccessToken, newRefreshToken, mapToAuthResponse(user), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidToken
	}

	u, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, employeeerrors.ErrEmployeeNotFound
	}

	resp := mapToAuthResponse(u)
	return &resp, nil
}

// Setup creates the first admin account. Once any admin exists the
// endpoint is closed for good.
func (s *service) Setup(ctx context.Context, req SetupRequest) (AuthResponse, error) {
	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return AuthResponse{}, err
	}
	if count > 0 {
		return AuthResponse{}, autherrors.ErrSetupAlreadyDone
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	nextVal, err := s.counter.GetNextValue(ctx, "employee_code")
	if err != nil {
		return AuthResponse{}, err
	}

	admin := &employee.Employee{
		ID:           uuid.New(),
		EmployeeCode: fmt.Sprintf("EMP-%04d", nextVal),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         employee.RoleAdmin,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		return AuthResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("initial admin created", zap.String("employee_id", admin.ID.String()))

	return mapToAuthResponse(admin), nil
}

func (s *service) generateToken(userID, role string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToAuthResponse(u *employee.Employee) AuthResponse {
	return AuthResponse{
		ID:           u.ID.String(),
		EmployeeCode: u.EmployeeCode,
		Email:        u.Email,
		Name:         u.FullName(),
		Department:   u.Department,
		Position:     u.Position,
		Role:         u.Role,
	}
}
