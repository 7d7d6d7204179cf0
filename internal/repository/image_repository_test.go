package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examdesk/answersheet-api/internal/models"
	appErrors "github.com/examdesk/answersheet-api/pkg/errors"
)

func TestCreateImageWithAudit(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewImageRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM question_bank WHERE paper_id = $1 AND question_no = $2)")).
		WithArgs("paper-1", 2).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("INSERT INTO images").
		WithArgs("wb-1", 2, 1, "key", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO audit_log").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.CreateWithAudit(context.Background(), &models.Image{
		WorkbookID: "wb-1",
		QuestionNo: 2,
		PageNo:     1,
		ObjectKey:  "key",
	}, "paper-1", &models.AuditLog{UserID: 1, Action: models.AuditActionUploadImage})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateImageQuestionMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewImageRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	err := repo.CreateWithAudit(context.Background(), &models.Image{WorkbookID: "wb-1", QuestionNo: 9, PageNo: 1}, "paper-1", &models.AuditLog{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "question not found for this paper", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateImageDuplicatePage(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewImageRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("INSERT INTO images").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.CreateWithAudit(context.Background(), &models.Image{WorkbookID: "wb-1", QuestionNo: 2, PageNo: 1}, "paper-1", &models.AuditLog{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPages(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewImageRepository(db)

	rows := sqlmock.NewRows([]string{"page_no", "object_key"}).
		AddRow(1, "key-1").
		AddRow(2, "key-2")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT page_no, object_key FROM images WHERE workbook_id = $1 AND question_no = $2 ORDER BY page_no")).
		WithArgs("wb-1", 2).
		WillReturnRows(rows)

	pages, err := repo.ListPages(context.Background(), "wb-1", 2)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "key-1", pages[0].ObjectKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPagesEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewImageRepository(db)

	mock.ExpectQuery("SELECT page_no, object_key FROM images").
		WillReturnRows(sqlmock.NewRows([]string{"page_no", "object_key"}))

	pages, err := repo.ListPages(context.Background(), "wb-1", 2)
	require.NoError(t, err)
	assert.Empty(t, pages)
	assert.NoError(t, mock.ExpectationsWereMet())
}
