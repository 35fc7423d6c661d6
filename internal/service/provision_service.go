package service

import (
	"context"
	"fmt"
	"strings"

	"civicconnect/internal/domain"
	"civicconnect/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ProvisionService creates wards and their admin accounts on behalf of
// the government role.
type ProvisionService interface {
	AppointWardAdmin(ctx context.Context, req AppointRequest) (*AppointResult, error)
}

type provisionService struct {
	wards  repository.WardsRepo
	logger *zap.Logger
}

func NewProvisionService(wards repository.WardsRepo, logger *zap.Logger) ProvisionService {
	return &provisionService{wards: wards, logger: logger}
}

type AppointRequest struct {
	WardNumber    string
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

type AppointResult struct {
	Ward  *domain.Ward
	Admin *domain.User
}

// NewWardCode derives a registration code for a ward. The suffix comes
// from a fresh UUID so codes are not guessable from the ward number.
func NewWardCode(wardNumber string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("WARD-%s-%s", wardNumber, suffix)
}

// AppointWardAdmin provisions the ward for req.WardNumber (reusing an
// existing row and its code when present) and creates the ward admin
// account inside the same transaction.
func (s *provisionService) AppointWardAdmin(ctx context.Context, req AppointRequest) (*AppointResult, error) {
	wardNumber := strings.TrimSpace(req.WardNumber)
	name := strings.TrimSpace(req.AdminName)
	email := strings.TrimSpace(req.AdminEmail)
	if wardNumber == "" || name == "" || email == "" || req.AdminPassword == "" {
		return nil, ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleWardAdmin,
	}

	ward, created, err := s.wards.ProvisionWardAdmin(ctx, wardNumber, NewWardCode(wardNumber), admin)
	if err != nil {
		if err == repository.ErrDuplicateEmail {
			s.logger.Warn("Provisioning rejected: email already registered",
				zap.String("ward_number", wardNumber),
			)
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to provision ward admin: %w", err)
	}

	s.logger.Info("Ward admin appointed",
		zap.String("ward_number", ward.WardNumber),
		zap.Int64("ward_id", ward.ID),
		zap.Int64("admin_id", created.ID),
	)
	return &AppointResult{Ward: ward, Admin: created}, nil
}
