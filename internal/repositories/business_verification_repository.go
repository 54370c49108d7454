package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// BusinessVerificationRepository reads and flags rows owned by the business
// service (businesses, business_verifications).
type BusinessVerificationRepository struct {
	DB *sql.DB
}

func NewBusinessVerificationRepository(db *sql.DB) *BusinessVerificationRepository {
	return &BusinessVerificationRepository{DB: db}
}

func (r *BusinessVerificationRepository) GetBusinessIDByEmail(ctx context.Context, email string) (*uuid.UUID, error) {
	return r.businessID(ctx, `SELECT id FROM businesses WHERE business_email = $1 LIMIT 1`, email)
}

func (r *BusinessVerificationRepository) GetBusinessIDByPhone(ctx context.Context, phone string) (*uuid.UUID, error) {
	return r.businessID(ctx, `SELECT id FROM businesses WHERE business_phone_number = $1 LIMIT 1`, phone)
}

func (r *BusinessVerificationRepository) businessID(ctx context.Context, q, arg string) (*uuid.UUID, error) {
	var id uuid.UUID
	if err := r.DB.QueryRowContext(ctx, q, arg).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("business lookup: %w", err)
	}
	return &id, nil
}

func (r *BusinessVerificationRepository) SetEmailVerified(ctx context.Context, businessID uuid.UUID) error {
	const q = `UPDATE business_verifications SET email_verified = TRUE WHERE business_id = $1`
	if _, err := r.DB.ExecContext(ctx, q, businessID); err != nil {
		return fmt.Errorf("business set email verified: %w", err)
	}
	return nil
}

func (r *BusinessVerificationRepository) SetPhoneVerified(ctx context.Context, businessID uuid.UUID) error {
	const q = `UPDATE business_verifications SET phone_verified = TRUE WHERE business_id = $1`
	if _, err := r.DB.ExecContext(ctx, q, businessID); err != nil {
		return fmt.Errorf("business set phone verified: %w", err)
	}
	return nil
}
