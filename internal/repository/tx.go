package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// inTx runs fn inside a transaction, rolling back on any error. Every
// multi-row catalog mutation (business rows + audit row) goes through here
// so the rows commit or fail as one unit.
func inTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
