package service

import (
	"context"
	"testing"

	"civicconnect/internal/domain"
	"civicconnect/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (AuthService, *repository.MemoryStore) {
	t.Helper()
	mem := repository.NewMemoryStore()
	return NewAuthService(mem, mem, zap.NewNop()), mem
}

func seedWard(t *testing.T, mem *repository.MemoryStore, wardNumber, wardCode string) *domain.Ward {
	t.Helper()
	admin := &domain.User{
		Name:         "Admin " + wardNumber,
		Email:        "admin" + wardNumber + "@example.com",
		PasswordHash: "x",
	}
	ward, _, err := mem.ProvisionWardAdmin(context.Background(), wardNumber, wardCode, admin)
	require.NoError(t, err)
	return ward
}

func TestRegisterCitizen(t *testing.T) {
	auth, mem := newAuthFixture(t)
	seedWard(t, mem, "12", "WARD-12-AB12CD34")
	ctx := context.Background()

	req := RegisterRequest{
		Name:       "Asha",
		Email:      "asha@example.com",
		Password:   "secret123",
		WardNumber: "12",
		WardCode:   "WARD-12-AB12CD34",
		Phone:      "9876500000",
	}
	user, err := auth.RegisterCitizen(ctx, req)
	require.NoError(t, err)
	require.Equal(t, domain.RoleCitizen, user.Role)
	require.True(t, user.WardID.Valid)
	require.Equal(t, "9876500000", user.Phone.String)
	require.NotEqual(t, "secret123", user.PasswordHash)

	// Same email again.
	req.WardCode = "WARD-12-AB12CD34"
	_, err = auth.RegisterCitizen(ctx, req)
	require.ErrorIs(t, err, ErrDuplicateEmail)

	// Unknown ward.
	req.Email = "other@example.com"
	req.WardNumber = "99"
	_, err = auth.RegisterCitizen(ctx, req)
	require.ErrorIs(t, err, ErrInvalidWard)

	// Wrong code.
	req.WardNumber = "12"
	req.WardCode = "WARD-12-WRONG000"
	_, err = auth.RegisterCitizen(ctx, req)
	require.ErrorIs(t, err, ErrInvalidWardCode)

	// Missing fields.
	_, err = auth.RegisterCitizen(ctx, RegisterRequest{Email: "x@example.com"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestRegisterCitizenLegacyWardWithoutCode(t *testing.T) {
	auth, mem := newAuthFixture(t)
	// Empty stored code: any supplied code is accepted.
	seedWard(t, mem, "7", "")

	user, err := auth.RegisterCitizen(context.Background(), RegisterRequest{
		Name:       "Ravi",
		Email:      "ravi@example.com",
		Password:   "secret123",
		WardNumber: "7",
		WardCode:   "anything",
	})
	require.NoError(t, err)
	require.True(t, user.WardID.Valid)
}

func TestLogin(t *testing.T) {
	auth, mem := newAuthFixture(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	_, err = mem.CreateUser(ctx, &domain.User{
		Name:         "Asha",
		Email:        "asha@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleCitizen,
	})
	require.NoError(t, err)

	user, err := auth.Login(ctx, LoginRequest{Email: "asha@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, "asha@example.com", user.Email)

	_, err = auth.Login(ctx, LoginRequest{Email: "asha@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, LoginRequest{})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
