package storage

import (
	"fmt"

	"github.com/google/uuid"
)

// AnswerSheetKey names an uploaded answer-page object. The random suffix
// keeps keys collision-free and unguessable from the visible slot tuple.
func AnswerSheetKey(workbookID, paperID string, questionNo, pageNo int) string {
	return fmt.Sprintf("answer_sheet_%s_%s_%d_%d_%s", workbookID, paperID, questionNo, pageNo, uuid.NewString())
}

// QuestionKey names a question-image object.
func QuestionKey(paperID string, questionNo int) string {
	return fmt.Sprintf("question_%s_%d_%s", paperID, questionNo, uuid.NewString())
}
