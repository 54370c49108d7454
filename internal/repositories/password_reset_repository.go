package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"notificationservice/internal/models"
)

type PasswordResetRepository struct {
	DB *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) *PasswordResetRepository {
	return &PasswordResetRepository{DB: db}
}

func (r *PasswordResetRepository) Replace(ctx context.Context, pr *models.PasswordResetRequest) error {
	return withSubjectLock(ctx, r.DB, "password_reset", pr.ID, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM password_reset_requests WHERE id = $1`, pr.ID); err != nil {
			return fmt.Errorf("password reset delete: %w", err)
		}
		const q = `
			INSERT INTO password_reset_requests (id, created_at, expires_at)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, q, pr.ID, pr.CreatedAt, pr.ExpiresAt); err != nil {
			return fmt.Errorf("password reset insert: %w", err)
		}
		return nil
	})
}

func (r *PasswordResetRepository) GetByID(ctx context.Context, id string) (*models.PasswordResetRequest, error) {
	const q = `
		SELECT id, created_at, expires_at
		FROM password_reset_requests
		WHERE id = $1
	`
	pr := &models.PasswordResetRequest{}
	if err := r.DB.QueryRowContext(ctx, q, id).Scan(&pr.ID, &pr.CreatedAt, &pr.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("password reset get: %w", err)
	}
	return pr, nil
}
