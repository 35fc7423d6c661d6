package service

import (
	"context"
	"regexp"
	"testing"

	"civicconnect/internal/domain"
	"civicconnect/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWardCodeFormat(t *testing.T) {
	code := NewWardCode("42")
	require.Regexp(t, regexp.MustCompile(`^WARD-42-[0-9A-F]{8}$`), code)
	require.NotEqual(t, code, NewWardCode("42"))
}

func TestAppointWardAdmin(t *testing.T) {
	mem := repository.NewMemoryStore()
	svc := NewProvisionService(mem, zap.NewNop())
	ctx := context.Background()

	result, err := svc.AppointWardAdmin(ctx, AppointRequest{
		WardNumber:    "15",
		AdminName:     "Ward Fifteen Admin",
		AdminEmail:    "w15@example.com",
		AdminPassword: "secret123",
	})
	require.NoError(t, err)
	require.Equal(t, "15", result.Ward.WardNumber)
	require.Regexp(t, `^WARD-15-[0-9A-F]{8}$`, result.Ward.WardCode)
	require.Equal(t, domain.RoleWardAdmin, result.Admin.Role)
	require.True(t, result.Admin.WardID.Valid)
	require.Equal(t, result.Ward.ID, result.Admin.WardID.Int64)

	// Second admin for the same ward reuses the ward and its code.
	second, err := svc.AppointWardAdmin(ctx, AppointRequest{
		WardNumber:    "15",
		AdminName:     "Backup Admin",
		AdminEmail:    "w15b@example.com",
		AdminPassword: "secret123",
	})
	require.NoError(t, err)
	require.Equal(t, result.Ward.ID, second.Ward.ID)
	require.Equal(t, result.Ward.WardCode, second.Ward.WardCode)

	// Reusing an email fails without touching the ward.
	_, err = svc.AppointWardAdmin(ctx, AppointRequest{
		WardNumber:    "16",
		AdminName:     "Dup",
		AdminEmail:    "w15@example.com",
		AdminPassword: "secret123",
	})
	require.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = svc.AppointWardAdmin(ctx, AppointRequest{WardNumber: "17"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestAppointWardAdminBackfillsLegacyCode(t *testing.T) {
	mem := repository.NewMemoryStore()
	svc := NewProvisionService(mem, zap.NewNop())
	ctx := context.Background()

	// Legacy ward row without a code.
	_, _, err := mem.ProvisionWardAdmin(ctx, "3", "", &domain.User{
		Name: "Old Admin", Email: "old3@example.com", PasswordHash: "x",
	})
	require.NoError(t, err)

	result, err := svc.AppointWardAdmin(ctx, AppointRequest{
		WardNumber:    "3",
		AdminName:     "New Admin",
		AdminEmail:    "new3@example.com",
		AdminPassword: "secret123",
	})
	require.NoError(t, err)
	require.Regexp(t, `^WARD-3-[0-9A-F]{8}$`, result.Ward.WardCode)

	ward, err := mem.GetWardByNumber(ctx, "3")
	require.NoError(t, err)
	require.Equal(t, result.Ward.WardCode, ward.WardCode)
}
