package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examdesk/answersheet-api/internal/middleware"
	"github.com/examdesk/answersheet-api/internal/service"
	appErrors "github.com/examdesk/answersheet-api/pkg/errors"
	"github.com/examdesk/answersheet-api/pkg/response"
)

// ReportHandler wires HTTP endpoints to the report service.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Workbook godoc
// @Summary Workbook mark sheet
// @Description Render a PDF mark sheet for one workbook
// @Tags Reports
// @Produce application/pdf
// @Param workbook_id path string true "Workbook id"
// @Success 200 {file} binary
// @Failure 404 {object} response.ErrorBody
// @Router /reports/workbook/{workbook_id} [get]
func (h *ReportHandler) Workbook(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	workbookID := c.Param("workbook_id")
	macAddr := c.Query("mac_addr")

	pdf, err := h.service.WorkbookReport(c.Request.Context(), actor, workbookID, macAddr, c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="mark_sheet_`+workbookID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
