package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"notificationservice/internal/models"
)

type OtpRepository struct {
	DB       *sql.DB
	hashCost int
}

// NewOtpRepository stores codes as bcrypt hashes of the given cost. A cost
// outside bcrypt's range falls back to bcrypt.DefaultCost.
func NewOtpRepository(db *sql.DB, hashCost int) *OtpRepository {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &OtpRepository{DB: db, hashCost: hashCost}
}

// Replace drops any code stored for otp.ID and stores otp in its place.
// otp.CodeHash is set from otp.Code.
func (r *OtpRepository) Replace(ctx context.Context, otp *models.Otp) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(otp.Code), r.hashCost)
	if err != nil {
		return fmt.Errorf("otp hash code: %w", err)
	}
	otp.CodeHash = string(hash)

	return withSubjectLock(ctx, r.DB, "otp", otp.ID, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM otp WHERE id = $1`, otp.ID); err != nil {
			return fmt.Errorf("otp delete: %w", err)
		}
		const q = `
			INSERT INTO otp (id, code_hash, created_at, expires_at)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.ExecContext(ctx, q, otp.ID, otp.CodeHash, otp.CreatedAt, otp.ExpiresAt); err != nil {
			return fmt.Errorf("otp insert: %w", err)
		}
		return nil
	})
}

// FindByIDAndCode returns nil, nil when no code is stored for id or when code
// does not match it.
func (r *OtpRepository) FindByIDAndCode(ctx context.Context, id, code string) (*models.Otp, error) {
	const q = `
		SELECT id, code_hash, created_at, expires_at
		FROM otp
		WHERE id = $1
	`
	var otp models.Otp
	if err := r.DB.QueryRowContext(ctx, q, id).Scan(&otp.ID, &otp.CodeHash, &otp.CreatedAt, &otp.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("otp get: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, nil
		}
		return nil, fmt.Errorf("otp compare: %w", err)
	}
	return &otp, nil
}

// Consume deletes exactly the row FindByIDAndCode returned. It reports false
// when the row is already gone or was replaced by a newer code.
func (r *OtpRepository) Consume(ctx context.Context, otp *models.Otp) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM otp WHERE id = $1 AND code_hash = $2`, otp.ID, otp.CodeHash)
	if err != nil {
		return false, fmt.Errorf("otp consume: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("otp consume rows: %w", err)
	}
	return n > 0, nil
}

func (r *OtpRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM otp WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return fmt.Errorf("otp delete many: %w", err)
	}
	return nil
}
