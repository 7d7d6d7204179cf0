package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/examdesk/answersheet-api/internal/models"
	appErrors "github.com/examdesk/answersheet-api/pkg/errors"
)

// ImageRepository provides database access for answer-page scans.
type ImageRepository struct {
	db *sqlx.DB
}

// NewImageRepository creates a new instance of ImageRepository.
func NewImageRepository(db *sqlx.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// CreateWithAudit records an uploaded page and its audit entry in one
// transaction. The unique constraint on (workbook_id, question_no, page_no)
// is the sole arbiter when concurrent uploads race for a slot: exactly one
// insert wins, the rest surface as conflicts.
func (r *ImageRepository) CreateWithAudit(ctx context.Context, img *models.Image, paperID string, entry *models.AuditLog) error {
	const questionQuery = `SELECT EXISTS (SELECT 1 FROM question_bank WHERE paper_id = $1 AND question_no = $2)`
	const insertQuery = `INSERT INTO images (workbook_id, question_no, page_no, object_key, created_at)
VALUES ($1, $2, $3, $4, $5)`

	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var questionExists bool
		if err := tx.GetContext(ctx, &questionExists, questionQuery, paperID, img.QuestionNo); err != nil {
			return fmt.Errorf("check question: %w", err)
		}
		if !questionExists {
			return appErrors.Clone(appErrors.ErrNotFound, "question not found for this paper")
		}

		_, err := tx.ExecContext(ctx, insertQuery,
			img.WorkbookID,
			img.QuestionNo,
			img.PageNo,
			img.ObjectKey,
			time.Now().UTC(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return appErrors.Clone(appErrors.ErrConflict, "page already uploaded for this slot")
			}
			if isForeignKeyViolation(err) {
				return appErrors.Clone(appErrors.ErrNotFound, "workbook not found")
			}
			return fmt.Errorf("insert image: %w", err)
		}
		return insertAudit(ctx, tx, entry)
	})
}

// ListPages returns every (page_no, object_key) pair for a question slot,
// ordered by page number. An empty result is a valid answer.
func (r *ImageRepository) ListPages(ctx context.Context, workbookID string, questionNo int) ([]models.PageObject, error) {
	const query = `SELECT page_no, object_key FROM images WHERE workbook_id = $1 AND question_no = $2 ORDER BY page_no`

	pages := []models.PageObject{}
	if err := r.db.SelectContext(ctx, &pages, query, workbookID, questionNo); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}
