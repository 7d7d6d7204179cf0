package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/examdesk/answersheet-api/internal/models"
)

// UserRepository provides database access for accounts and the audit trail.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateWithAudit inserts a user row and its signup audit entry in one
// transaction and returns the allocated id.
func (r *UserRepository) CreateWithAudit(ctx context.Context, passwordHash string, role models.UserRole, entry *models.AuditLog) (int64, error) {
	const query = `INSERT INTO users (password_hash, role, created_at) VALUES ($1, $2, $3) RETURNING id`

	var id int64
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &id, query, passwordHash, role, time.Now().UTC()); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		entry.UserID = id
		return insertAudit(ctx, tx, entry)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT id, password_hash, role, created_at FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// AppendAudit durably appends a standalone audit entry (used by workflows
// with no accompanying catalog mutation, e.g. login and image retrieval).
func (r *UserRepository) AppendAudit(ctx context.Context, entry *models.AuditLog) error {
	return insertAudit(ctx, r.db, entry)
}
