package repository

import (
	"context"
	"database/sql"
	"fmt"

	"civicconnect/internal/domain"

	"github.com/lib/pq"
)

// PostgresComplaintsRepo implements ComplaintsRepo over the complaints
// table. Attachment and work-photo references are TEXT[] columns.
type PostgresComplaintsRepo struct {
	db *sql.DB
}

func NewPostgresComplaintsRepo(db *sql.DB) *PostgresComplaintsRepo {
	return &PostgresComplaintsRepo{db: db}
}

var _ ComplaintsRepo = (*PostgresComplaintsRepo)(nil)

func (r *PostgresComplaintsRepo) CreateComplaint(ctx context.Context, c *domain.Complaint) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("complaint is required")
	}
	if c.UserID == 0 || c.WardID == 0 {
		return 0, fmt.Errorf("user_id and ward_id are required")
	}

	status := c.Status
	if status == "" {
		status = domain.StatusReviewing
	}

	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO complaints (user_id, ward_id, category, description, attachments, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		c.UserID, c.WardID, c.Category, c.Description, pq.Array(c.Attachments), status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert complaint: %w", err)
	}
	return id, nil
}

const complaintColumns = `c.id, c.user_id, c.ward_id, c.category, c.description,
	c.attachments, c.work_photos, c.status, c.viewed_by_admin, c.created_at, u.name`

func scanComplaint(rows interface{ Scan(...any) error }) (*domain.Complaint, error) {
	var c domain.Complaint
	var attachments, workPhotos pq.StringArray
	err := rows.Scan(
		&c.ID,
		&c.UserID,
		&c.WardID,
		&c.Category,
		&c.Description,
		&attachments,
		&workPhotos,
		&c.Status,
		&c.ViewedByAdmin,
		&c.CreatedAt,
		&c.CitizenName,
	)
	if err != nil {
		return nil, err
	}
	c.Attachments = attachments
	c.WorkPhotos = workPhotos
	if c.Attachments == nil {
		c.Attachments = []string{}
	}
	if c.WorkPhotos == nil {
		c.WorkPhotos = []string{}
	}
	return &c, nil
}

func (r *PostgresComplaintsRepo) GetComplaint(ctx context.Context, id int64) (*domain.Complaint, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+complaintColumns+`
		 FROM complaints c JOIN users u ON u.id = c.user_id
		 WHERE c.id = $1`, id)
	c, err := scanComplaint(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresComplaintsRepo) listComplaints(ctx context.Context, where string, arg any) ([]domain.Complaint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+complaintColumns+`
		 FROM complaints c JOIN users u ON u.id = c.user_id
		 WHERE `+where+`
		 ORDER BY c.created_at DESC, c.id DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *PostgresComplaintsRepo) ListComplaintsByUser(ctx context.Context, userID int64) ([]domain.Complaint, error) {
	return r.listComplaints(ctx, "c.user_id = $1", userID)
}

func (r *PostgresComplaintsRepo) ListComplaintsByWard(ctx context.Context, wardID int64) ([]domain.Complaint, error) {
	return r.listComplaints(ctx, "c.ward_id = $1", wardID)
}

func (r *PostgresComplaintsRepo) CountUnviewed(ctx context.Context, wardID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM complaints WHERE ward_id = $1 AND NOT viewed_by_admin`,
		wardID,
	).Scan(&n)
	return n, err
}

func (r *PostgresComplaintsRepo) MarkAllViewed(ctx context.Context, wardID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE complaints SET viewed_by_admin = TRUE WHERE ward_id = $1 AND NOT viewed_by_admin`,
		wardID,
	)
	return err
}

func (r *PostgresComplaintsRepo) UpdateComplaint(ctx context.Context, id int64, status string, photos []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if status != "" {
		res, err := tx.ExecContext(ctx,
			`UPDATE complaints SET status = $1 WHERE id = $2`, status, id)
		if err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
	}
	if len(photos) > 0 {
		res, err := tx.ExecContext(ctx,
			`UPDATE complaints SET work_photos = work_photos || $1 WHERE id = $2`,
			pq.Array(photos), id)
		if err != nil {
			return fmt.Errorf("failed to append work photos: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *PostgresComplaintsRepo) DeleteComplaint(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete complaint: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
