package repository

import (
	"context"
	"database/sql"
	"fmt"

	"civicconnect/internal/domain"
)

// PostgresAnnouncementsRepo implements AnnouncementsRepo.
type PostgresAnnouncementsRepo struct {
	db *sql.DB
}

func NewPostgresAnnouncementsRepo(db *sql.DB) *PostgresAnnouncementsRepo {
	return &PostgresAnnouncementsRepo{db: db}
}

var _ AnnouncementsRepo = (*PostgresAnnouncementsRepo)(nil)

func (r *PostgresAnnouncementsRepo) CreateAnnouncement(ctx context.Context, a *domain.Announcement) (int64, error) {
	if a == nil || a.WardID == 0 {
		return 0, fmt.Errorf("ward_id is required")
	}
	priority := a.Priority
	if priority == "" {
		priority = "normal"
	}
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO announcements (ward_id, title, message, priority)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		a.WardID, a.Title, a.Message, priority,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert announcement: %w", err)
	}
	return id, nil
}

func (r *PostgresAnnouncementsRepo) ListAnnouncementsByWard(ctx context.Context, wardID int64) ([]domain.Announcement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, ward_id, title, message, priority, created_at
		 FROM announcements
		 WHERE ward_id = $1
		 ORDER BY created_at DESC, id DESC`, wardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Announcement{}
	for rows.Next() {
		var a domain.Announcement
		if err := rows.Scan(&a.ID, &a.WardID, &a.Title, &a.Message, &a.Priority, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// PostgresProjectsRepo implements ProjectsRepo.
type PostgresProjectsRepo struct {
	db *sql.DB
}

func NewPostgresProjectsRepo(db *sql.DB) *PostgresProjectsRepo {
	return &PostgresProjectsRepo{db: db}
}

var _ ProjectsRepo = (*PostgresProjectsRepo)(nil)

func (r *PostgresProjectsRepo) CreateProject(ctx context.Context, p *domain.Project) (int64, error) {
	if p == nil || p.WardID == 0 {
		return 0, fmt.Errorf("ward_id is required")
	}
	status := p.Status
	if status == "" {
		status = "Started"
	}
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO projects (ward_id, title, contractor_name, budget, deadline, status, progress_percentage)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		p.WardID, p.Title, p.ContractorName, p.Budget, p.Deadline, status, p.ProgressPercentage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert project: %w", err)
	}
	return id, nil
}

func (r *PostgresProjectsRepo) ListProjectsByWard(ctx context.Context, wardID int64) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, ward_id, title, contractor_name, budget, deadline, status, progress_percentage
		 FROM projects
		 WHERE ward_id = $1
		 ORDER BY id DESC`, wardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Project{}
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.WardID, &p.Title, &p.ContractorName, &p.Budget, &p.Deadline, &p.Status, &p.ProgressPercentage); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
