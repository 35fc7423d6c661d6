package repository

import (
	"context"
	"testing"

	"civicconnect/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestProvisionWardAdminDuplicateEmailLeavesWardsUntouched(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()

	_, _, err := mem.ProvisionWardAdmin(ctx, "4", "WARD-4-AAAA1111", &domain.User{
		Name: "First Admin", Email: "taken@example.com", PasswordHash: "x",
	})
	require.NoError(t, err)

	// A duplicate email must not create the new ward.
	_, _, err = mem.ProvisionWardAdmin(ctx, "8", "WARD-8-BBBB2222", &domain.User{
		Name: "Second Admin", Email: "taken@example.com", PasswordHash: "x",
	})
	require.ErrorIs(t, err, ErrDuplicateEmail)
	_, err = mem.GetWardByNumber(ctx, "8")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProvisionWardAdminDuplicateEmailSkipsCodeBackfill(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()

	// Legacy ward row without a code.
	_, _, err := mem.ProvisionWardAdmin(ctx, "9", "", &domain.User{
		Name: "Old Admin", Email: "old9@example.com", PasswordHash: "x",
	})
	require.NoError(t, err)

	// A failed provisioning must not backfill the code either.
	_, _, err = mem.ProvisionWardAdmin(ctx, "9", "WARD-9-CCCC3333", &domain.User{
		Name: "Dup Admin", Email: "old9@example.com", PasswordHash: "x",
	})
	require.ErrorIs(t, err, ErrDuplicateEmail)

	ward, err := mem.GetWardByNumber(ctx, "9")
	require.NoError(t, err)
	require.Empty(t, ward.WardCode)
}
