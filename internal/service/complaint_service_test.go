package service

import (
	"bytes"
	"context"
	"database/sql"
	"mime/multipart"
	"net/http"
	"testing"

	"civicconnect/internal/blob"
	"civicconnect/internal/domain"
	"civicconnect/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type complaintFixture struct {
	svc     ComplaintService
	mem     *repository.MemoryStore
	citizen *domain.User
	admin   *domain.User
	other   *domain.User // admin of a different ward
}

func newComplaintFixture(t *testing.T) *complaintFixture {
	t.Helper()
	mem := repository.NewMemoryStore()
	blobs, err := blob.NewLocalStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	svc := NewComplaintService(mem, blobs, zap.NewNop())
	ctx := context.Background()

	_, admin, err := mem.ProvisionWardAdmin(ctx, "5", "WARD-5-AAAA1111", &domain.User{
		Name: "Ward Five Admin", Email: "w5@example.com", PasswordHash: "x",
	})
	require.NoError(t, err)
	_, other, err := mem.ProvisionWardAdmin(ctx, "6", "WARD-6-BBBB2222", &domain.User{
		Name: "Ward Six Admin", Email: "w6@example.com", PasswordHash: "x",
	})
	require.NoError(t, err)

	citizen := &domain.User{
		Name:         "Asha",
		Email:        "asha@example.com",
		PasswordHash: "x",
		Role:         domain.RoleCitizen,
		WardID:       admin.WardID,
	}
	id, err := mem.CreateUser(ctx, citizen)
	require.NoError(t, err)
	citizen.ID = id

	return &complaintFixture{svc: svc, mem: mem, citizen: citizen, admin: admin, other: other}
}

// fileHeaders builds real multipart headers the way a form post would.
func fileHeaders(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range names {
		fw, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	r, err := http.NewRequest(http.MethodPost, "/", &buf)
	require.NoError(t, err)
	r.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, r.ParseMultipartForm(32<<20))
	return r.MultipartForm.File["files"]
}

func TestSubmitComplaint(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()

	c, err := f.svc.Submit(ctx, SubmitComplaintRequest{
		Citizen:     f.citizen,
		Category:    "Roads",
		Description: "Pothole near the market",
		Attachments: fileHeaders(t, "pothole.jpg", "notes.pdf", "malware.exe"),
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusReviewing, c.Status)
	require.Equal(t, f.citizen.WardID.Int64, c.WardID)
	// The .exe is skipped silently.
	require.Len(t, c.Attachments, 2)
	require.False(t, c.ViewedByAdmin)

	_, err = f.svc.Submit(ctx, SubmitComplaintRequest{Citizen: f.citizen, Category: "Roads"})
	require.ErrorIs(t, err, ErrValidation)

	// A user without a ward cannot file.
	_, err = f.svc.Submit(ctx, SubmitComplaintRequest{
		Citizen:     &domain.User{ID: 99, Role: domain.RoleGovernment},
		Category:    "Roads",
		Description: "x",
	})
	require.ErrorIs(t, err, ErrForbidden)
}

func submit(t *testing.T, f *complaintFixture, description string) *domain.Complaint {
	t.Helper()
	c, err := f.svc.Submit(context.Background(), SubmitComplaintRequest{
		Citizen:     f.citizen,
		Category:    "Water",
		Description: description,
	})
	require.NoError(t, err)
	return c
}

func TestListForAdminViewedSweep(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	submit(t, f, "first")
	submit(t, f, "second")

	// Any view other than "complaints" leaves the flags alone.
	list, err := f.svc.ListForAdmin(ctx, f.admin, "projects")
	require.NoError(t, err)
	require.Equal(t, 2, list.UnviewedCount)
	require.Len(t, list.Complaints, 2)

	// Opening the complaints view marks everything seen.
	list, err = f.svc.ListForAdmin(ctx, f.admin, "complaints")
	require.NoError(t, err)
	require.Equal(t, 0, list.UnviewedCount)
	for _, c := range list.Complaints {
		require.True(t, c.ViewedByAdmin)
	}

	// Another ward's admin sees nothing of it.
	list, err = f.svc.ListForAdmin(ctx, f.other, "complaints")
	require.NoError(t, err)
	require.Empty(t, list.Complaints)

	_, err = f.svc.ListForAdmin(ctx, f.citizen, "complaints")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateComplaint(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	c := submit(t, f, "streetlight out")

	err := f.svc.Update(ctx, f.admin, UpdateComplaintRequest{
		ComplaintID: c.ID,
		Status:      domain.StatusInProcess,
		WorkPhotos:  fileHeaders(t, "before.png", "report.pdf"),
	})
	require.NoError(t, err)

	got, err := f.mem.GetComplaint(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInProcess, got.Status)
	// Work photos are images only: the pdf is dropped.
	require.Len(t, got.WorkPhotos, 1)

	// An unknown status is ignored, photos still land.
	err = f.svc.Update(ctx, f.admin, UpdateComplaintRequest{
		ComplaintID: c.ID,
		Status:      "Escalated",
		WorkPhotos:  fileHeaders(t, "after.png"),
	})
	require.NoError(t, err)
	got, err = f.mem.GetComplaint(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInProcess, got.Status)
	require.Len(t, got.WorkPhotos, 2)

	// Cross-ward update is Forbidden, not NotFound.
	err = f.svc.Update(ctx, f.other, UpdateComplaintRequest{ComplaintID: c.ID, Status: domain.StatusCompleted})
	require.ErrorIs(t, err, ErrForbidden)

	err = f.svc.Update(ctx, f.admin, UpdateComplaintRequest{ComplaintID: 404, Status: domain.StatusCompleted})
	require.ErrorIs(t, err, ErrNotFound)

	// Completed is not terminal: a further update still applies.
	require.NoError(t, f.svc.Update(ctx, f.admin, UpdateComplaintRequest{ComplaintID: c.ID, Status: domain.StatusCompleted}))
	require.NoError(t, f.svc.Update(ctx, f.admin, UpdateComplaintRequest{ComplaintID: c.ID, Status: domain.StatusReviewing}))
}

func TestRemoveComplaint(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	c := submit(t, f, "garbage pileup")

	require.ErrorIs(t, f.svc.Remove(ctx, f.other, c.ID), ErrForbidden)
	require.NoError(t, f.svc.Remove(ctx, f.admin, c.ID))
	require.ErrorIs(t, f.svc.Remove(ctx, f.admin, c.ID), ErrNotFound)

	_, err := f.mem.GetComplaint(ctx, c.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListForCitizenNewestFirst(t *testing.T) {
	f := newComplaintFixture(t)
	first := submit(t, f, "first")
	second := submit(t, f, "second")

	list, err := f.svc.ListForCitizen(context.Background(), f.citizen)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)

	// Another citizen sees nothing.
	stranger := &domain.User{ID: 555, Role: domain.RoleCitizen, WardID: sql.NullInt64{Int64: 1, Valid: true}}
	list, err = f.svc.ListForCitizen(context.Background(), stranger)
	require.NoError(t, err)
	require.Empty(t, list)
}
