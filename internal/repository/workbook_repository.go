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

// WorkbookRepository provides database access for workbook assignment and
// the marking workflow.
type WorkbookRepository struct {
	db *sqlx.DB
}

// NewWorkbookRepository creates a new instance of WorkbookRepository.
func NewWorkbookRepository(db *sqlx.DB) *WorkbookRepository {
	return &WorkbookRepository{db: db}
}

// AssignWithAudit binds a workbook to a (student, paper) pair and appends
// the audit entry, all in one transaction. The paper must already have at
// least one question registered; paper_id has no single-column FK because
// the question bank is keyed by (paper_id, question_no).
func (r *WorkbookRepository) AssignWithAudit(ctx context.Context, wb *models.Workbook, entry *models.AuditLog) error {
	const paperQuery = `SELECT EXISTS (SELECT 1 FROM question_bank WHERE paper_id = $1)`
	const insertQuery = `INSERT INTO student_workbook (workbook_id, student_id, paper_id, created_at)
VALUES ($1, $2, $3, $4)`

	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var paperExists bool
		if err := tx.GetContext(ctx, &paperExists, paperQuery, wb.PaperID); err != nil {
			return fmt.Errorf("check paper: %w", err)
		}
		if !paperExists {
			return appErrors.Clone(appErrors.ErrNotFound, "paper not found")
		}

		_, err := tx.ExecContext(ctx, insertQuery, wb.WorkbookID, wb.StudentID, wb.PaperID, time.Now().UTC())
		if err != nil {
			if isUniqueViolation(err) {
				return appErrors.Clone(appErrors.ErrConflict, "workbook already assigned")
			}
			if isForeignKeyViolation(err) {
				return appErrors.Clone(appErrors.ErrNotFound, "student not found")
			}
			return fmt.Errorf("insert workbook: %w", err)
		}
		return insertAudit(ctx, tx, entry)
	})
}

// ResolvePaperID returns the paper bound to a workbook.
func (r *WorkbookRepository) ResolvePaperID(ctx context.Context, workbookID string) (string, error) {
	const query = `SELECT paper_id FROM student_workbook WHERE workbook_id = $1 LIMIT 1`
	var paperID string
	if err := r.db.GetContext(ctx, &paperID, query, workbookID); err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("resolve paper for workbook: %w", err)
	}
	return paperID, nil
}

// OpenMarkingWithAudit starts evaluation of one question slot.
func (r *WorkbookRepository) OpenMarkingWithAudit(ctx context.Context, marking *models.Marking, entry *models.AuditLog) error {
	const query = `INSERT INTO workbook_marking (workbook_id, question_no, open_time) VALUES ($1, $2, $3)`

	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query, marking.WorkbookID, marking.QuestionNo, marking.OpenTime)
		if err != nil {
			if isUniqueViolation(err) {
				return appErrors.Clone(appErrors.ErrConflict, "marking already opened")
			}
			if isForeignKeyViolation(err) {
				return appErrors.Clone(appErrors.ErrNotFound, "workbook not found")
			}
			return fmt.Errorf("insert marking: %w", err)
		}
		return insertAudit(ctx, tx, entry)
	})
}

// SubmitMarkingWithAudit records awarded marks for an opened slot. The audit
// entry captures the previous and new mark values.
func (r *WorkbookRepository) SubmitMarkingWithAudit(ctx context.Context, workbookID string, questionNo, marks int, entry *models.AuditLog) error {
	const selectQuery = `SELECT marks FROM workbook_marking WHERE workbook_id = $1 AND question_no = $2 FOR UPDATE`
	const updateQuery = `UPDATE workbook_marking SET marks = $3, submit_time = $4 WHERE workbook_id = $1 AND question_no = $2`

	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var oldMarks *int
		if err := tx.GetContext(ctx, &oldMarks, selectQuery, workbookID, questionNo); err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrNotFound, "marking not opened for this question")
			}
			return fmt.Errorf("lock marking: %w", err)
		}

		if _, err := tx.ExecContext(ctx, updateQuery, workbookID, questionNo, marks, time.Now().UTC()); err != nil {
			return fmt.Errorf("update marking: %w", err)
		}

		entry.OldVal = oldMarks
		entry.NewVal = &marks
		return insertAudit(ctx, tx, entry)
	})
}

// ListMarkRows returns per-question max marks and awarded marks for a
// workbook, ordered by question number.
func (r *WorkbookRepository) ListMarkRows(ctx context.Context, workbookID string) ([]models.MarkRow, error) {
	const query = `SELECT q.question_no, q.max_marks, m.marks, m.submit_time
FROM question_bank q
JOIN student_workbook w ON w.paper_id = q.paper_id
LEFT JOIN workbook_marking m ON m.workbook_id = w.workbook_id AND m.question_no = q.question_no
WHERE w.workbook_id = $1
ORDER BY q.question_no`

	rows := []models.MarkRow{}
	if err := r.db.SelectContext(ctx, &rows, query, workbookID); err != nil {
		return nil, fmt.Errorf("list mark rows: %w", err)
	}
	return rows, nil
}
