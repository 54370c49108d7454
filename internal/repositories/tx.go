package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// withSubjectLock runs fn in a transaction holding a postgres advisory lock on
// scope+id. Concurrent callers for the same subject run one after another.
func withSubjectLock(ctx context.Context, db *sql.DB, scope, id string, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s begin tx: %w", scope, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, scope+":"+id); err != nil {
		return fmt.Errorf("%s lock: %w", scope, err)
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s commit: %w", scope, err)
	}
	return nil
}
