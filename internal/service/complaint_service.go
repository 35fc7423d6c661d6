package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"civicconnect/internal/blob"
	"civicconnect/internal/domain"
	"civicconnect/internal/repository"

	"go.uber.org/zap"
)

// ComplaintService owns the complaint lifecycle: citizen submission,
// ward-scoped admin triage, and removal.
type ComplaintService interface {
	Submit(ctx context.Context, req SubmitComplaintRequest) (*domain.Complaint, error)
	ListForCitizen(ctx context.Context, citizen *domain.User) ([]domain.Complaint, error)
	ListForAdmin(ctx context.Context, admin *domain.User, view string) (*AdminComplaintList, error)
	Update(ctx context.Context, admin *domain.User, req UpdateComplaintRequest) error
	Remove(ctx context.Context, admin *domain.User, complaintID int64) error
}

type complaintService struct {
	complaints repository.ComplaintsRepo
	blobs      *blob.LocalStore
	logger     *zap.Logger
}

func NewComplaintService(complaints repository.ComplaintsRepo, blobs *blob.LocalStore, logger *zap.Logger) ComplaintService {
	return &complaintService{complaints: complaints, blobs: blobs, logger: logger}
}

type SubmitComplaintRequest struct {
	Citizen     *domain.User
	Category    string
	Description string
	Attachments []*multipart.FileHeader
}

// Submit stores the allow-listed attachments and creates the complaint
// under the citizen's ward. Disallowed files are skipped, never
// rejected.
func (s *complaintService) Submit(ctx context.Context, req SubmitComplaintRequest) (*domain.Complaint, error) {
	citizen := req.Citizen
	if citizen == nil || !citizen.WardID.Valid {
		return nil, ErrForbidden
	}
	category := strings.TrimSpace(req.Category)
	description := strings.TrimSpace(req.Description)
	if category == "" || description == "" {
		return nil, ErrValidation
	}

	refs := s.blobs.SaveMultipart(blob.CategoryComplaints, req.Attachments, blob.AttachmentExts)

	c := &domain.Complaint{
		UserID:      citizen.ID,
		WardID:      citizen.WardID.Int64,
		Category:    category,
		Description: description,
		Attachments: refs,
		Status:      domain.StatusReviewing,
	}
	id, err := s.complaints.CreateComplaint(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}
	c.ID = id
	c.WorkPhotos = []string{}
	c.CitizenName = citizen.Name

	s.logger.Info("Complaint submitted",
		zap.Int64("complaint_id", id),
		zap.Int64("user_id", citizen.ID),
		zap.Int64("ward_id", c.WardID),
		zap.String("category", category),
		zap.Int("attachments", len(refs)),
	)
	return c, nil
}

func (s *complaintService) ListForCitizen(ctx context.Context, citizen *domain.User) ([]domain.Complaint, error) {
	if citizen == nil {
		return nil, ErrForbidden
	}
	return s.complaints.ListComplaintsByUser(ctx, citizen.ID)
}

type AdminComplaintList struct {
	Complaints    []domain.Complaint
	UnviewedCount int
}

// ListForAdmin returns the admin's ward complaints. Opening the
// complaints view marks every unviewed complaint as seen, so the badge
// count reported alongside drops to zero on that view and only there.
func (s *complaintService) ListForAdmin(ctx context.Context, admin *domain.User, view string) (*AdminComplaintList, error) {
	if admin == nil || !admin.IsWardAdmin() || !admin.WardID.Valid {
		return nil, ErrForbidden
	}
	wardID := admin.WardID.Int64

	if view == "complaints" {
		if err := s.complaints.MarkAllViewed(ctx, wardID); err != nil {
			return nil, fmt.Errorf("failed to mark complaints viewed: %w", err)
		}
	}

	list, err := s.complaints.ListComplaintsByWard(ctx, wardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	count, err := s.complaints.CountUnviewed(ctx, wardID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unviewed complaints: %w", err)
	}
	return &AdminComplaintList{Complaints: list, UnviewedCount: count}, nil
}

type UpdateComplaintRequest struct {
	ComplaintID int64
	Status      string
	WorkPhotos  []*multipart.FileHeader
}

// Update applies a status change and appends work photos to a
// complaint in the admin's own ward. An unrecognized status is ignored
// rather than rejected; photos must be images.
func (s *complaintService) Update(ctx context.Context, admin *domain.User, req UpdateComplaintRequest) error {
	if _, err := s.wardComplaint(ctx, admin, req.ComplaintID); err != nil {
		return err
	}

	status := strings.TrimSpace(req.Status)
	if status != "" && !domain.ValidStatus(status) {
		s.logger.Warn("Ignoring unknown complaint status",
			zap.Int64("complaint_id", req.ComplaintID),
			zap.String("status", status),
		)
		status = ""
	}

	refs := s.blobs.SaveMultipart(blob.CategoryWorkPhotos, req.WorkPhotos, blob.ImageExts)
	if status == "" && len(refs) == 0 {
		return nil
	}

	if err := s.complaints.UpdateComplaint(ctx, req.ComplaintID, status, refs); err != nil {
		if err == repository.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update complaint: %w", err)
	}

	s.logger.Info("Complaint updated",
		zap.Int64("complaint_id", req.ComplaintID),
		zap.Int64("admin_id", admin.ID),
		zap.String("status", status),
		zap.Int("work_photos", len(refs)),
	)
	return nil
}

// Remove hard-deletes a complaint in the admin's ward. Stored blobs
// are left behind; references to them die with the row.
func (s *complaintService) Remove(ctx context.Context, admin *domain.User, complaintID int64) error {
	if _, err := s.wardComplaint(ctx, admin, complaintID); err != nil {
		return err
	}
	if err := s.complaints.DeleteComplaint(ctx, complaintID); err != nil {
		if err == repository.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete complaint: %w", err)
	}
	s.logger.Info("Complaint removed",
		zap.Int64("complaint_id", complaintID),
		zap.Int64("admin_id", admin.ID),
	)
	return nil
}

// wardComplaint fetches the complaint and verifies it belongs to the
// admin's ward. Cross-ward access is Forbidden, not NotFound, so the
// log trail distinguishes probing from stale links.
func (s *complaintService) wardComplaint(ctx context.Context, admin *domain.User, complaintID int64) (*domain.Complaint, error) {
	if admin == nil || !admin.IsWardAdmin() || !admin.WardID.Valid {
		return nil, ErrForbidden
	}
	c, err := s.complaints.GetComplaint(ctx, complaintID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load complaint: %w", err)
	}
	if c.WardID != admin.WardID.Int64 {
		s.logger.Warn("Cross-ward complaint access denied",
			zap.Int64("complaint_id", complaintID),
			zap.Int64("admin_id", admin.ID),
			zap.Int64("complaint_ward_id", c.WardID),
			zap.Int64("admin_ward_id", admin.WardID.Int64),
		)
		return nil, ErrForbidden
	}
	return c, nil
}
