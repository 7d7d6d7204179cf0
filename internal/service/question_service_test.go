package service

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/examdesk/answersheet-api/internal/models"
	appErrors "github.com/examdesk/answersheet-api/pkg/errors"
)

type mockQuestionRepo struct {
	created   []*models.Question
	createErr error
	entries   []*models.AuditLog
}

func (m *mockQuestionRepo) CreateWithAudit(ctx context.Context, question *models.Question, entry *models.AuditLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, question)
	m.entries = append(m.entries, entry)
	return nil
}

func questionReq() models.CreateQuestionRequest {
	return models.CreateQuestionRequest{PaperID: "paper-1", QuestionNo: 4, MaxMarks: 10, MacAddr: "aa:bb", IP: "10.0.0.1"}
}

func TestCreateQuestion(t *testing.T) {
	repo := &mockQuestionRepo{}
	store := &mockObjectStore{}
	svc := NewQuestionService(repo, store, validator.New(), zap.NewNop())

	err := svc.Create(context.Background(), &models.User{ID: 1, Role: models.RoleAdmin}, questionReq(), strings.NewReader("scan"), 4, "image/jpeg")
	require.NoError(t, err)

	require.Len(t, store.putKeys, 1)
	assert.True(t, strings.HasPrefix(store.putKeys[0], "question_paper-1_4_"))

	require.Len(t, repo.created, 1)
	assert.Equal(t, store.putKeys[0], repo.created[0].ObjectKey)
	require.Len(t, repo.entries, 1)
	assert.Equal(t, models.AuditActionCreateQuestion, repo.entries[0].Action)
}

func TestCreateQuestionRejectsNonImage(t *testing.T) {
	store := &mockObjectStore{}
	svc := NewQuestionService(&mockQuestionRepo{}, store, validator.New(), zap.NewNop())

	err := svc.Create(context.Background(), &models.User{ID: 1}, questionReq(), strings.NewReader("text"), 4, "text/plain")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.putKeys)
}

func TestCreateQuestionZeroMaxMarks(t *testing.T) {
	svc := NewQuestionService(&mockQuestionRepo{}, &mockObjectStore{}, validator.New(), zap.NewNop())

	req := questionReq()
	req.MaxMarks = 0
	err := svc.Create(context.Background(), &models.User{ID: 1}, req, strings.NewReader("scan"), 4, "image/png")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateQuestionStorageDown(t *testing.T) {
	store := &mockObjectStore{putErr: assert.AnError}
	repo := &mockQuestionRepo{}
	svc := NewQuestionService(repo, store, validator.New(), zap.NewNop())

	err := svc.Create(context.Background(), &models.User{ID: 1}, questionReq(), strings.NewReader("scan"), 4, "image/png")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStorageUnavailable.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}
