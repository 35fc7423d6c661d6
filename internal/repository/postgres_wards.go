package repository

import (
	"context"
	"database/sql"
	"fmt"

	"civicconnect/internal/domain"

	"github.com/lib/pq"
)

// PostgresWardsRepo implements WardsRepo over the wards table.
type PostgresWardsRepo struct {
	db *sql.DB
}

func NewPostgresWardsRepo(db *sql.DB) *PostgresWardsRepo {
	return &PostgresWardsRepo{db: db}
}

var _ WardsRepo = (*PostgresWardsRepo)(nil)

func (r *PostgresWardsRepo) GetWard(ctx context.Context, id int64) (*domain.Ward, error) {
	var w domain.Ward
	err := r.db.QueryRowContext(ctx,
		`SELECT id, ward_number, COALESCE(ward_code, '') FROM wards WHERE id = $1`,
		id,
	).Scan(&w.ID, &w.WardNumber, &w.WardCode)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *PostgresWardsRepo) GetWardByNumber(ctx context.Context, wardNumber string) (*domain.Ward, error) {
	var w domain.Ward
	err := r.db.QueryRowContext(ctx,
		`SELECT id, ward_number, COALESCE(ward_code, '') FROM wards WHERE ward_number = $1`,
		wardNumber,
	).Scan(&w.ID, &w.WardNumber, &w.WardCode)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *PostgresWardsRepo) ProvisionWardAdmin(ctx context.Context, wardNumber, candidateCode string, admin *domain.User) (*domain.Ward, *domain.User, error) {
	if wardNumber == "" {
		return nil, nil, fmt.Errorf("ward_number is required")
	}
	if admin == nil || admin.Email == "" {
		return nil, nil, fmt.Errorf("admin email is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var ward domain.Ward
	err = tx.QueryRowContext(ctx,
		`SELECT id, ward_number, COALESCE(ward_code, '') FROM wards WHERE ward_number = $1 FOR UPDATE`,
		wardNumber,
	).Scan(&ward.ID, &ward.WardNumber, &ward.WardCode)
	switch {
	case err == sql.ErrNoRows:
		err = tx.QueryRowContext(ctx,
			`INSERT INTO wards (ward_number, ward_code) VALUES ($1, $2) RETURNING id`,
			wardNumber, candidateCode,
		).Scan(&ward.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create ward: %w", err)
		}
		ward.WardNumber = wardNumber
		ward.WardCode = candidateCode
	case err != nil:
		return nil, nil, err
	case ward.WardCode == "":
		// Legacy row without a code: backfill it.
		if _, err := tx.ExecContext(ctx,
			`UPDATE wards SET ward_code = $1 WHERE id = $2`,
			candidateCode, ward.ID,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to backfill ward code: %w", err)
		}
		ward.WardCode = candidateCode
	}

	created := *admin
	created.Role = domain.RoleWardAdmin
	created.WardID = sql.NullInt64{Int64: ward.ID, Valid: true}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash, role, ward_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		created.Name, created.Email, created.PasswordHash, created.Role, created.WardID,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, nil, ErrDuplicateEmail
		}
		return nil, nil, fmt.Errorf("failed to create ward admin: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &ward, &created, nil
}
