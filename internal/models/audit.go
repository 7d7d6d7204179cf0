package models

import "time"

// Audit actions recorded alongside every workflow commit.
const (
	AuditActionSignup         = "signup"
	AuditActionLogin          = "login"
	AuditActionCreateQuestion = "create_question"
	AuditActionAssignWorkbook = "assign_workbook"
	AuditActionUploadImage    = "upload_image"
	AuditActionGetImages      = "get_images"
	AuditActionOpenMarking    = "open_marking"
	AuditActionSubmitMarking  = "submit_marking"
	AuditActionWorkbookReport = "workbook_report"
)

// AuditLog is an append-only trail record: who did what, from where, and
// when, with optional workbook/question context and value transitions.
type AuditLog struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	MacAddr    string    `db:"mac_addr" json:"mac_addr"`
	IPAddr     string    `db:"ip_addr" json:"ip_addr"`
	Action     string    `db:"action" json:"action"`
	WorkbookID *string   `db:"workbook_id" json:"workbook_id,omitempty"`
	QuestionNo *int      `db:"question_no" json:"question_no,omitempty"`
	OldVal     *int      `db:"old_val" json:"old_val,omitempty"`
	NewVal     *int      `db:"new_val" json:"new_val,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
