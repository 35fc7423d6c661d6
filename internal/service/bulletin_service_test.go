package service

import (
	"context"
	"testing"

	"civicconnect/internal/domain"
	"civicconnect/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBulletinFixture(t *testing.T) (BulletinService, *domain.User, *domain.User) {
	t.Helper()
	mem := repository.NewMemoryStore()
	ctx := context.Background()
	_, admin, err := mem.ProvisionWardAdmin(ctx, "9", "WARD-9-CCCC3333", &domain.User{
		Name: "Ward Nine Admin", Email: "w9@example.com", PasswordHash: "x",
	})
	require.NoError(t, err)

	citizen := &domain.User{
		Name: "Meera", Email: "meera@example.com", PasswordHash: "x",
		Role: domain.RoleCitizen, WardID: admin.WardID,
	}
	id, err := mem.CreateUser(ctx, citizen)
	require.NoError(t, err)
	citizen.ID = id

	return NewBulletinService(mem, mem, zap.NewNop()), admin, citizen
}

func TestAnnouncements(t *testing.T) {
	svc, admin, citizen := newBulletinFixture(t)
	ctx := context.Background()

	a, err := svc.PostAnnouncement(ctx, admin, PostAnnouncementRequest{
		Title: "Water cut", Message: "Supply off on Friday", Priority: "high",
	})
	require.NoError(t, err)
	require.Equal(t, "high", a.Priority)

	b, err := svc.PostAnnouncement(ctx, admin, PostAnnouncementRequest{
		Title: "Clean-up drive", Message: "Sunday 7am",
	})
	require.NoError(t, err)
	require.Equal(t, "normal", b.Priority)

	// Citizens read their ward's board, newest first.
	list, err := svc.ListAnnouncements(ctx, citizen)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, b.ID, list[0].ID)

	_, err = svc.PostAnnouncement(ctx, citizen, PostAnnouncementRequest{Title: "x", Message: "y"})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.PostAnnouncement(ctx, admin, PostAnnouncementRequest{Title: "no message"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestProjects(t *testing.T) {
	svc, admin, citizen := newBulletinFixture(t)
	ctx := context.Background()

	p, err := svc.AddProject(ctx, admin, AddProjectRequest{
		Title:          "Road resurfacing",
		ContractorName: "ABC Infra",
		Budget:         "1500000.50",
		Deadline:       "2026-12-31",
		Progress:       "25",
	})
	require.NoError(t, err)
	require.Equal(t, "Started", p.Status)
	require.True(t, p.Budget.Valid)
	require.InDelta(t, 1500000.50, p.Budget.Float64, 0.001)
	require.Equal(t, 25, p.ProgressPercentage)

	list, err := svc.ListProjects(ctx, citizen)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.AddProject(ctx, admin, AddProjectRequest{Title: "Bad date", Deadline: "31-12-2026"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddProject(ctx, admin, AddProjectRequest{Title: "Bad progress", Progress: "150"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddProject(ctx, citizen, AddProjectRequest{Title: "Nope"})
	require.ErrorIs(t, err, ErrForbidden)
}
