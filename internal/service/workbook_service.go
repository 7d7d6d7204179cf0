package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/examdesk/answersheet-api/internal/models"
	appErrors "github.com/examdesk/answersheet-api/pkg/errors"
)

type workbookRepository interface {
	AssignWithAudit(ctx context.Context, wb *models.Workbook, entry *models.AuditLog) error
	ResolvePaperID(ctx context.Context, workbookID string) (string, error)
	OpenMarkingWithAudit(ctx context.Context, marking *models.Marking, entry *models.AuditLog) error
	SubmitMarkingWithAudit(ctx context.Context, workbookID string, questionNo, marks int, entry *models.AuditLog) error
}

type questionFinder interface {
	FindByKey(ctx context.Context, paperID string, questionNo int) (*models.Question, error)
}

// WorkbookService assigns workbooks and runs the marking workflow.
type WorkbookService struct {
	repo      workbookRepository
	questions questionFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWorkbookService constructs a WorkbookService instance.
func NewWorkbookService(repo workbookRepository, questions questionFinder, validate *validator.Validate, logger *zap.Logger) *WorkbookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &WorkbookService{repo: repo, questions: questions, validator: validate, logger: logger}
}

// Assign binds a workbook to a student and paper. The binding is immutable:
// a second assignment of the same workbook id fails and leaves the first
// untouched.
func (s *WorkbookService) Assign(ctx context.Context, actor *models.User, req models.AssignWorkbookRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	wb := &models.Workbook{
		WorkbookID: req.WorkbookID,
		StudentID:  req.StudentID,
		PaperID:    req.PaperID,
	}
	workbookID := req.WorkbookID
	return s.repo.AssignWithAudit(ctx, wb, &models.AuditLog{
		UserID:     actor.ID,
		MacAddr:    req.MacAddr,
		IPAddr:     req.IP,
		Action:     models.AuditActionAssignWorkbook,
		WorkbookID: &workbookID,
	})
}

// OpenMarking starts evaluation of one question of a workbook.
func (s *WorkbookService) OpenMarking(ctx context.Context, actor *models.User, req models.OpenMarkingRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid marking payload")
	}

	if _, err := s.lookupQuestion(ctx, req.WorkbookID, req.QuestionNo); err != nil {
		return err
	}

	marking := &models.Marking{
		WorkbookID: req.WorkbookID,
		QuestionNo: req.QuestionNo,
		OpenTime:   time.Now().UTC(),
	}
	questionNo := req.QuestionNo
	workbookID := req.WorkbookID
	return s.repo.OpenMarkingWithAudit(ctx, marking, &models.AuditLog{
		UserID:     actor.ID,
		MacAddr:    req.MacAddr,
		IPAddr:     req.IP,
		Action:     models.AuditActionOpenMarking,
		WorkbookID: &workbookID,
		QuestionNo: &questionNo,
	})
}

// SubmitMarking records the awarded marks for an opened question. Marks are
// bounded by the question's maximum.
func (s *WorkbookService) SubmitMarking(ctx context.Context, actor *models.User, req models.SubmitMarkingRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid marking payload")
	}

	question, err := s.lookupQuestion(ctx, req.WorkbookID, req.QuestionNo)
	if err != nil {
		return err
	}
	if req.Marks > question.MaxMarks {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("marks exceed maximum of %d", question.MaxMarks))
	}

	questionNo := req.QuestionNo
	workbookID := req.WorkbookID
	return s.repo.SubmitMarkingWithAudit(ctx, req.WorkbookID, req.QuestionNo, req.Marks, &models.AuditLog{
		UserID:     actor.ID,
		MacAddr:    req.MacAddr,
		IPAddr:     req.IP,
		Action:     models.AuditActionSubmitMarking,
		WorkbookID: &workbookID,
		QuestionNo: &questionNo,
	})
}

func (s *WorkbookService) lookupQuestion(ctx context.Context, workbookID string, questionNo int) (*models.Question, error) {
	paperID, err := s.repo.ResolvePaperID(ctx, workbookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workbook not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve workbook")
	}

	question, err := s.questions.FindByKey(ctx, paperID, questionNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found for this paper")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question")
	}
	return question, nil
}
