package service

import (
	"context"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/examdesk/answersheet-api/internal/models"
	appErrors "github.com/examdesk/answersheet-api/pkg/errors"
	"github.com/examdesk/answersheet-api/pkg/storage"
)

type questionRepository interface {
	CreateWithAudit(ctx context.Context, question *models.Question, entry *models.AuditLog) error
}

// QuestionService registers question papers.
type QuestionService struct {
	repo      questionRepository
	store     storage.ObjectStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewQuestionService constructs a QuestionService instance.
func NewQuestionService(repo questionRepository, store storage.ObjectStore, validate *validator.Validate, logger *zap.Logger) *QuestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &QuestionService{repo: repo, store: store, validator: validate, logger: logger}
}

// Create stores the question image and registers the question row plus its
// audit entry atomically. The blob write happens before the catalog
// transaction opens so a slow upload never holds a database lock.
func (s *QuestionService) Create(ctx context.Context, actor *models.User, req models.CreateQuestionRequest, file io.Reader, size int64, contentType string) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}
	if !isImageContentType(contentType) {
		return appErrors.Clone(appErrors.ErrValidation, "file must be an image")
	}

	key := storage.QuestionKey(req.PaperID, req.QuestionNo)
	if err := s.store.Put(ctx, key, file, size, contentType); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, appErrors.ErrStorageUnavailable.Message)
	}

	question := &models.Question{
		PaperID:    req.PaperID,
		QuestionNo: req.QuestionNo,
		MaxMarks:   req.MaxMarks,
		ObjectKey:  key,
	}
	questionNo := req.QuestionNo
	return s.repo.CreateWithAudit(ctx, question, &models.AuditLog{
		UserID:     actor.ID,
		MacAddr:    req.MacAddr,
		IPAddr:     req.IP,
		Action:     models.AuditActionCreateQuestion,
		QuestionNo: &questionNo,
	})
}

func isImageContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}
