package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/examdesk/answersheet-api/internal/models"
	appErrors "github.com/examdesk/answersheet-api/pkg/errors"
)

const insertAuditQuery = `INSERT INTO audit_log (user_id, mac_addr, ip_addr, action, workbook_id, question_no, old_val, new_val, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// insertAudit appends one trail record. A failure here must not be
// swallowed: it aborts the enclosing transaction when called inside one.
func insertAudit(ctx context.Context, q sqlx.ExtContext, entry *models.AuditLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := q.ExecContext(ctx, insertAuditQuery,
		entry.UserID,
		entry.MacAddr,
		entry.IPAddr,
		entry.Action,
		entry.WorkbookID,
		entry.QuestionNo,
		entry.OldVal,
		entry.NewVal,
		entry.CreatedAt,
	)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrAuditWriteFailed.Code, appErrors.ErrAuditWriteFailed.Status, appErrors.ErrAuditWriteFailed.Message)
	}
	return nil
}
