package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/examdesk/answersheet-api/internal/models"
	appErrors "github.com/examdesk/answersheet-api/pkg/errors"
	"github.com/examdesk/answersheet-api/pkg/export"
)

type markReportRepository interface {
	ResolvePaperID(ctx context.Context, workbookID string) (string, error)
	ListMarkRows(ctx context.Context, workbookID string) ([]models.MarkRow, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ReportService renders per-workbook mark sheets.
type ReportService struct {
	repo     markReportRepository
	audit    auditAppender
	exporter pdfRenderer
	logger   *zap.Logger
}

// NewReportService constructs a ReportService instance.
func NewReportService(repo markReportRepository, audit auditAppender, exporter pdfRenderer, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if exporter == nil {
		exporter = export.NewPDFExporter()
	}
	return &ReportService{repo: repo, audit: audit, exporter: exporter, logger: logger}
}

// WorkbookReport renders a PDF mark sheet for one workbook: every question
// of its paper with the maximum and awarded marks.
func (s *ReportService) WorkbookReport(ctx context.Context, actor *models.User, workbookID, macAddr, ip string) ([]byte, error) {
	if workbookID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "workbook_id required")
	}

	paperID, err := s.repo.ResolvePaperID(ctx, workbookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workbook not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve workbook")
	}

	rows, err := s.repo.ListMarkRows(ctx, workbookID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load marks")
	}

	data := export.Dataset{
		Headers: []string{"Question", "Max Marks", "Marks", "Submitted"},
		Rows:    make([]map[string]string, 0, len(rows)),
	}
	for _, row := range rows {
		marks := "-"
		if row.Marks != nil {
			marks = strconv.Itoa(*row.Marks)
		}
		submitted := "-"
		if row.SubmitTime != nil {
			submitted = row.SubmitTime.UTC().Format("2006-01-02 15:04")
		}
		data.Rows = append(data.Rows, map[string]string{
			"Question":  strconv.Itoa(row.QuestionNo),
			"Max Marks": strconv.Itoa(row.MaxMarks),
			"Marks":     marks,
			"Submitted": submitted,
		})
	}

	pdf, err := s.exporter.Render(data, fmt.Sprintf("Mark sheet %s (%s)", workbookID, paperID))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	if err := s.audit.AppendAudit(ctx, &models.AuditLog{
		UserID:     actor.ID,
		MacAddr:    macAddr,
		IPAddr:     ip,
		Action:     models.AuditActionWorkbookReport,
		WorkbookID: &workbookID,
	}); err != nil {
		return nil, err
	}

	return pdf, nil
}
