package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"civicconnect/internal/domain"
	"civicconnect/internal/repository"

	"go.uber.org/zap"
)

// BulletinService covers the ward notice board: announcements posted
// by the ward admin and development projects they track. Citizens read
// their own ward's board.
type BulletinService interface {
	PostAnnouncement(ctx context.Context, admin *domain.User, req PostAnnouncementRequest) (*domain.Announcement, error)
	ListAnnouncements(ctx context.Context, user *domain.User) ([]domain.Announcement, error)
	AddProject(ctx context.Context, admin *domain.User, req AddProjectRequest) (*domain.Project, error)
	ListProjects(ctx context.Context, user *domain.User) ([]domain.Project, error)
}

type bulletinService struct {
	announcements repository.AnnouncementsRepo
	projects      repository.ProjectsRepo
	logger        *zap.Logger
}

func NewBulletinService(announcements repository.AnnouncementsRepo, projects repository.ProjectsRepo, logger *zap.Logger) BulletinService {
	return &bulletinService{announcements: announcements, projects: projects, logger: logger}
}

type PostAnnouncementRequest struct {
	Title    string
	Message  string
	Priority string
}

func (s *bulletinService) PostAnnouncement(ctx context.Context, admin *domain.User, req PostAnnouncementRequest) (*domain.Announcement, error) {
	if admin == nil || !admin.IsWardAdmin() || !admin.WardID.Valid {
		return nil, ErrForbidden
	}
	title := strings.TrimSpace(req.Title)
	message := strings.TrimSpace(req.Message)
	if title == "" || message == "" {
		return nil, ErrValidation
	}
	priority := strings.TrimSpace(req.Priority)
	if priority == "" {
		priority = "normal"
	}

	a := &domain.Announcement{
		WardID:   admin.WardID.Int64,
		Title:    title,
		Message:  message,
		Priority: priority,
	}
	id, err := s.announcements.CreateAnnouncement(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}
	a.ID = id

	s.logger.Info("Announcement posted",
		zap.Int64("announcement_id", id),
		zap.Int64("ward_id", a.WardID),
		zap.String("priority", priority),
	)
	return a, nil
}

func (s *bulletinService) ListAnnouncements(ctx context.Context, user *domain.User) ([]domain.Announcement, error) {
	if user == nil || !user.WardID.Valid {
		return nil, ErrForbidden
	}
	return s.announcements.ListAnnouncementsByWard(ctx, user.WardID.Int64)
}

type AddProjectRequest struct {
	Title          string
	ContractorName string
	Budget         string
	Deadline       string // YYYY-MM-DD
	Status         string
	Progress       string
}

func (s *bulletinService) AddProject(ctx context.Context, admin *domain.User, req AddProjectRequest) (*domain.Project, error) {
	if admin == nil || !admin.IsWardAdmin() || !admin.WardID.Valid {
		return nil, ErrForbidden
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrValidation
	}

	p := &domain.Project{
		WardID:         admin.WardID.Int64,
		Title:          title,
		ContractorName: strings.TrimSpace(req.ContractorName),
		Status:         strings.TrimSpace(req.Status),
	}
	if v := strings.TrimSpace(req.Budget); v != "" {
		budget, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, ErrValidation
		}
		p.Budget = sql.NullFloat64{Float64: budget, Valid: true}
	}
	if v := strings.TrimSpace(req.Deadline); v != "" {
		deadline, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, ErrValidation
		}
		p.Deadline = sql.NullTime{Time: deadline, Valid: true}
	}
	if v := strings.TrimSpace(req.Progress); v != "" {
		progress, err := strconv.Atoi(v)
		if err != nil || progress < 0 || progress > 100 {
			return nil, ErrValidation
		}
		p.ProgressPercentage = progress
	}

	id, err := s.projects.CreateProject(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	p.ID = id
	if p.Status == "" {
		p.Status = "Started"
	}

	s.logger.Info("Project added",
		zap.Int64("project_id", id),
		zap.Int64("ward_id", p.WardID),
		zap.String("title", title),
	)
	return p, nil
}

func (s *bulletinService) ListProjects(ctx context.Context, user *domain.User) ([]domain.Project, error) {
	if user == nil || !user.WardID.Valid {
		return nil, ErrForbidden
	}
	return s.projects.ListProjectsByWard(ctx, user.WardID.Int64)
}
