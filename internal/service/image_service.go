package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/examdesk/answersheet-api/internal/models"
	appErrors "github.com/examdesk/answersheet-api/pkg/errors"
	"github.com/examdesk/answersheet-api/pkg/storage"
)

type imageRepository interface {
	CreateWithAudit(ctx context.Context, img *models.Image, paperID string, entry *models.AuditLog) error
	ListPages(ctx context.Context, workbookID string, questionNo int) ([]models.PageObject, error)
}

type paperResolver interface {
	ResolvePaperID(ctx context.Context, workbookID string) (string, error)
}

type auditAppender interface {
	AppendAudit(ctx context.Context, entry *models.AuditLog) error
}

// ImageService handles answer-page uploads and presigned retrieval.
type ImageService struct {
	repo       imageRepository
	workbooks  paperResolver
	audit      auditAppender
	store      storage.ObjectStore
	cache      *PaperCache
	validator  *validator.Validate
	logger     *zap.Logger
	presignTTL time.Duration
}

// NewImageService constructs an ImageService instance. cache may be nil.
func NewImageService(repo imageRepository, workbooks paperResolver, audit auditAppender, store storage.ObjectStore, cache *PaperCache, validate *validator.Validate, logger *zap.Logger, presignTTL time.Duration) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if presignTTL <= 0 {
		presignTTL = 60 * time.Second
	}
	return &ImageService{
		repo:       repo,
		workbooks:  workbooks,
		audit:      audit,
		store:      store,
		cache:      cache,
		validator:  validate,
		logger:     logger,
		presignTTL: presignTTL,
	}
}

// Upload stores one answer-page scan: resolve the workbook's paper, write
// the blob under a fresh unique key, then commit the image row and audit
// entry as one unit. On success it returns a short-lived presigned URL for
// the just-uploaded object so the caller can confirm the write without a
// second round trip. A losing racer on the same page slot gets a conflict
// and its blob becomes an accepted orphan.
func (s *ImageService) Upload(ctx context.Context, actor *models.User, req models.UploadImageRequest, file io.Reader, size int64, contentType string) (*models.UploadImageResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid upload payload")
	}
	if !isImageContentType(contentType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file must be an image")
	}

	paperID, err := s.resolvePaper(ctx, req.WorkbookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// An upload against an unmapped workbook indicates a broken
			// ingest pipeline rather than a caller mistake.
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "workbook is not assigned to a paper")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve workbook")
	}

	key := storage.AnswerSheetKey(req.WorkbookID, paperID, req.QuestionNo, req.PageNo)
	if err := s.store.Put(ctx, key, file, size, contentType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, appErrors.ErrStorageUnavailable.Message)
	}

	img := &models.Image{
		WorkbookID: req.WorkbookID,
		QuestionNo: req.QuestionNo,
		PageNo:     req.PageNo,
		ObjectKey:  key,
	}
	questionNo := req.QuestionNo
	workbookID := req.WorkbookID
	if err := s.repo.CreateWithAudit(ctx, img, paperID, &models.AuditLog{
		UserID:     actor.ID,
		MacAddr:    req.MacAddr,
		IPAddr:     req.IP,
		Action:     models.AuditActionUploadImage,
		WorkbookID: &workbookID,
		QuestionNo: &questionNo,
	}); err != nil {
		return nil, err
	}

	url, err := s.store.PresignGet(ctx, key, s.presignTTL)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, appErrors.ErrStorageUnavailable.Message)
	}

	return &models.UploadImageResponse{Message: "Image uploaded", URL: url}, nil
}

// Get lists every uploaded page for a question slot and mints a fresh
// presigned URL per page. One audit entry covers the whole batch.
func (s *ImageService) Get(ctx context.Context, actor *models.User, req models.GetImagesRequest) (*models.GetImagesResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid retrieval payload")
	}

	if _, err := s.resolvePaper(ctx, req.WorkbookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workbook not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve workbook")
	}

	pages, err := s.repo.ListPages(ctx, req.WorkbookID, req.QuestionNo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pages")
	}

	urls := make(map[int]string, len(pages))
	for _, page := range pages {
		url, err := s.store.PresignGet(ctx, page.ObjectKey, s.presignTTL)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, appErrors.ErrStorageUnavailable.Message)
		}
		urls[page.PageNo] = url
	}

	questionNo := req.QuestionNo
	workbookID := req.WorkbookID
	if err := s.audit.AppendAudit(ctx, &models.AuditLog{
		UserID:     actor.ID,
		MacAddr:    req.MacAddr,
		IPAddr:     req.IP,
		Action:     models.AuditActionGetImages,
		WorkbookID: &workbookID,
		QuestionNo: &questionNo,
	}); err != nil {
		return nil, err
	}

	return &models.GetImagesResponse{URLs: urls}, nil
}

func (s *ImageService) resolvePaper(ctx context.Context, workbookID string) (string, error) {
	if s.cache != nil {
		if paperID, ok := s.cache.GetPaper(ctx, workbookID); ok {
			return paperID, nil
		}
	}

	paperID, err := s.workbooks.ResolvePaperID(ctx, workbookID)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		s.cache.SetPaper(ctx, workbookID, paperID)
	}
	return paperID, nil
}
