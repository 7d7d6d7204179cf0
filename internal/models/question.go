package models

import "time"

// Question is one entry of a question paper, identified by
// (paper_id, question_no). The scanned question image lives in the blob
// store behind ObjectKey.
type Question struct {
	PaperID    string    `db:"paper_id" json:"paper_id"`
	QuestionNo int       `db:"question_no" json:"question_no"`
	MaxMarks   int       `db:"max_marks" json:"max_marks"`
	ObjectKey  string    `db:"object_key" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// CreateQuestionRequest registers one question of a paper. The image file
// arrives alongside as multipart content.
type CreateQuestionRequest struct {
	PaperID    string `form:"paper_id" validate:"required"`
	QuestionNo int    `form:"question_no" validate:"min=0"`
	MaxMarks   int    `form:"max_marks" validate:"required,gt=0"`
	MacAddr    string `form:"mac_addr" validate:"required"`
	IP         string `form:"-"`
}

// MessageResponse is the generic acknowledgement payload.
type MessageResponse struct {
	Message string `json:"message"`
}
