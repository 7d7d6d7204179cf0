package models

import "time"

// Workbook binds one physical answer booklet to exactly one student and one
// question paper. The id is an opaque, unguessable token and the binding is
// fixed at creation.
type Workbook struct {
	WorkbookID string    `db:"workbook_id" json:"workbook_id"`
	StudentID  int64     `db:"student_id" json:"student_id"`
	PaperID    string    `db:"paper_id" json:"paper_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AssignWorkbookRequest assigns a workbook to a student for a paper.
type AssignWorkbookRequest struct {
	StudentID  int64  `json:"student_id" validate:"required"`
	WorkbookID string `json:"workbook_id" validate:"required"`
	PaperID    string `json:"paper_id" validate:"required"`
	MacAddr    string `json:"mac_addr" validate:"required"`
	IP         string `json:"-"`
}

// Marking tracks the evaluation of one question within a workbook.
type Marking struct {
	WorkbookID string     `db:"workbook_id" json:"workbook_id"`
	QuestionNo int        `db:"question_no" json:"question_no"`
	OpenTime   time.Time  `db:"open_time" json:"open_time"`
	Marks      *int       `db:"marks" json:"marks,omitempty"`
	SubmitTime *time.Time `db:"submit_time" json:"submit_time,omitempty"`
}

// OpenMarkingRequest starts evaluating a question of a workbook.
type OpenMarkingRequest struct {
	WorkbookID string `json:"workbook_id" validate:"required"`
	QuestionNo int    `json:"question_no" validate:"min=0"`
	MacAddr    string `json:"mac_addr" validate:"required"`
	IP         string `json:"-"`
}

// SubmitMarkingRequest records the awarded marks for an opened question.
type SubmitMarkingRequest struct {
	WorkbookID string `json:"workbook_id" validate:"required"`
	QuestionNo int    `json:"question_no" validate:"min=0"`
	Marks      int    `json:"marks" validate:"min=0"`
	MacAddr    string `json:"mac_addr" validate:"required"`
	IP         string `json:"-"`
}

// MarkRow is one line of a workbook mark report.
type MarkRow struct {
	QuestionNo int        `db:"question_no"`
	MaxMarks   int        `db:"max_marks"`
	Marks      *int       `db:"marks"`
	SubmitTime *time.Time `db:"submit_time"`
}
