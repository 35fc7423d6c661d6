package repository

import (
	"context"
	"errors"

	"civicconnect/internal/domain"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// WardsRepo owns ward rows and the provisioning transaction.
type WardsRepo interface {
	GetWard(ctx context.Context, id int64) (*domain.Ward, error)
	GetWardByNumber(ctx context.Context, wardNumber string) (*domain.Ward, error)

	// ProvisionWardAdmin creates or reuses the ward for wardNumber,
	// backfills a missing ward code with candidateCode, and creates the
	// admin account, all in one transaction. The returned ward carries
	// the effective code (the stored one when it already existed).
	ProvisionWardAdmin(ctx context.Context, wardNumber, candidateCode string, admin *domain.User) (*domain.Ward, *domain.User, error)
}

type UsersRepo interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) (int64, error)
}

type ComplaintsRepo interface {
	CreateComplaint(ctx context.Context, c *domain.Complaint) (int64, error)
	GetComplaint(ctx context.Context, id int64) (*domain.Complaint, error)
	ListComplaintsByUser(ctx context.Context, userID int64) ([]domain.Complaint, error)
	ListComplaintsByWard(ctx context.Context, wardID int64) ([]domain.Complaint, error)
	CountUnviewed(ctx context.Context, wardID int64) (int, error)
	MarkAllViewed(ctx context.Context, wardID int64) error

	// UpdateComplaint applies a status change and appends work photos in
	// a single transaction: either both persist or neither does. Empty
	// status leaves the current status; empty photos appends nothing.
	UpdateComplaint(ctx context.Context, id int64, status string, photos []string) error
	DeleteComplaint(ctx context.Context, id int64) error
}

type AnnouncementsRepo interface {
	CreateAnnouncement(ctx context.Context, a *domain.Announcement) (int64, error)
	ListAnnouncementsByWard(ctx context.Context, wardID int64) ([]domain.Announcement, error)
}

type ProjectsRepo interface {
	CreateProject(ctx context.Context, p *domain.Project) (int64, error)
	ListProjectsByWard(ctx context.Context, wardID int64) ([]domain.Project, error)
}
