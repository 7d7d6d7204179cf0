package models

import "time"

// Image is one uploaded answer-page scan occupying the page slot
// (workbook_id, question_no, page_no). At most one image per slot.
type Image struct {
	WorkbookID string    `db:"workbook_id" json:"workbook_id"`
	QuestionNo int       `db:"question_no" json:"question_no"`
	PageNo     int       `db:"page_no" json:"page_no"`
	ObjectKey  string    `db:"object_key" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// PageObject pairs a page number with its stored object key.
type PageObject struct {
	PageNo    int    `db:"page_no"`
	ObjectKey string `db:"object_key"`
}

// UploadImageRequest uploads one answer-page scan into a page slot. The
// file arrives alongside as multipart content.
type UploadImageRequest struct {
	WorkbookID string `form:"workbook_id" validate:"required"`
	QuestionNo int    `form:"question_no" validate:"min=0"`
	PageNo     int    `form:"page_no" validate:"min=0"`
	MacAddr    string `form:"mac_addr" validate:"required"`
	IP         string `form:"-"`
}

// UploadImageResponse confirms the upload with a short-lived retrieval URL.
type UploadImageResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// GetImagesRequest retrieves every page uploaded for a question slot.
type GetImagesRequest struct {
	WorkbookID string `json:"workbook_id" validate:"required"`
	QuestionNo int    `json:"question_no" validate:"min=0"`
	MacAddr    string `json:"mac_addr" validate:"required"`
	IP         string `json:"-"`
}

// GetImagesResponse maps page numbers to fresh presigned URLs.
type GetImagesResponse struct {
	URLs map[int]string `json:"urls"`
}
