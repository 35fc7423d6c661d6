package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"civicconnect/internal/domain"
	"civicconnect/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates users and registers citizens.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*domain.User, error)
	RegisterCitizen(ctx context.Context, req RegisterRequest) (*domain.User, error)
}

type authService struct {
	users  repository.UsersRepo
	wards  repository.WardsRepo
	logger *zap.Logger
}

func NewAuthService(users repository.UsersRepo, wards repository.WardsRepo, logger *zap.Logger) AuthService {
	return &authService{users: users, wards: wards, logger: logger}
}

type LoginRequest struct {
	Email    string
	Password string
	// Client metadata, for logs only.
	IPAddress string
	UserAgent string
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*domain.User, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		s.logger.Warn("Login failed: missing credentials",
			zap.String("ip_address", req.IPAddress),
			zap.String("reason", "missing_credentials"),
		)
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrNotFound {
			s.logger.Warn("Login failed: unknown email",
				zap.String("ip_address", req.IPAddress),
				zap.String("user_agent", req.UserAgent),
				zap.String("reason", "unknown_email"),
			)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Login failed: password mismatch",
			zap.Int64("user_id", user.ID),
			zap.String("ip_address", req.IPAddress),
			zap.String("reason", "password_mismatch"),
		)
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("Login successful",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role),
		zap.String("ip_address", req.IPAddress),
	)
	return user, nil
}

type RegisterRequest struct {
	Name       string
	Email      string
	Password   string
	WardNumber string
	WardCode   string
	Address    string
	Phone      string
}

// RegisterCitizen creates a citizen account under the ward identified
// by WardNumber. The supplied ward code must match the stored one,
// except when the ward has no code yet (legacy rows accept any code).
func (s *authService) RegisterCitizen(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	wardNumber := strings.TrimSpace(req.WardNumber)
	wardCode := strings.TrimSpace(req.WardCode)
	if name == "" || email == "" || req.Password == "" || wardNumber == "" || wardCode == "" {
		return nil, ErrValidation
	}

	ward, err := s.wards.GetWardByNumber(ctx, wardNumber)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrInvalidWard
		}
		return nil, fmt.Errorf("failed to look up ward: %w", err)
	}
	if ward.WardCode != "" && ward.WardCode != wardCode {
		s.logger.Warn("Registration rejected: ward code mismatch",
			zap.String("ward_number", wardNumber),
		)
		return nil, ErrInvalidWardCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleCitizen,
		WardID:       sql.NullInt64{Int64: ward.ID, Valid: true},
	}
	if v := strings.TrimSpace(req.Address); v != "" {
		user.Address = sql.NullString{String: v, Valid: true}
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		user.Phone = sql.NullString{String: v, Valid: true}
	}

	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if err == repository.ErrDuplicateEmail {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id

	s.logger.Info("Citizen registered",
		zap.Int64("user_id", id),
		zap.Int64("ward_id", ward.ID),
		zap.String("ward_number", ward.WardNumber),
	)
	return user, nil
}
