package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/examdesk/answersheet-api/internal/models"
	appErrors "github.com/examdesk/answersheet-api/pkg/errors"
)

// QuestionRepository provides database access for the question bank.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository creates a new instance of QuestionRepository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// CreateWithAudit inserts a question row and its audit entry in one
// transaction. Duplicate (paper_id, question_no) surfaces as a conflict.
func (r *QuestionRepository) CreateWithAudit(ctx context.Context, question *models.Question, entry *models.AuditLog) error {
	const query = `INSERT INTO question_bank (paper_id, question_no, max_marks, object_key, created_at)
VALUES ($1, $2, $3, $4, $5)`

	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			question.PaperID,
			question.QuestionNo,
			question.MaxMarks,
			question.ObjectKey,
			time.Now().UTC(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return appErrors.Clone(appErrors.ErrConflict, "question already exists for this paper")
			}
			return fmt.Errorf("insert question: %w", err)
		}
		return insertAudit(ctx, tx, entry)
	})
}

// FindByKey returns one question by its (paper_id, question_no) key.
func (r *QuestionRepository) FindByKey(ctx context.Context, paperID string, questionNo int) (*models.Question, error) {
	const query = `SELECT paper_id, question_no, max_marks, object_key, created_at FROM question_bank
WHERE paper_id = $1 AND question_no = $2 LIMIT 1`
	var question models.Question
	if err := r.db.GetContext(ctx, &question, query, paperID, questionNo); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find question: %w", err)
	}
	return &question, nil
}
