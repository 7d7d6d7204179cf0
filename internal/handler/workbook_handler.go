package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examdesk/answersheet-api/internal/middleware"
	"github.com/examdesk/answersheet-api/internal/models"
	"github.com/examdesk/answersheet-api/internal/service"
	appErrors "github.com/examdesk/answersheet-api/pkg/errors"
	"github.com/examdesk/answersheet-api/pkg/response"
)

// WorkbookHandler wires HTTP endpoints to the workbook service.
type WorkbookHandler struct {
	service *service.WorkbookService
}

// NewWorkbookHandler creates a new handler.
func NewWorkbookHandler(svc *service.WorkbookService) *WorkbookHandler {
	return &WorkbookHandler{service: svc}
}

// Assign godoc
// @Summary Assign workbook
// @Description Bind a workbook to a student and question paper
// @Tags Workbooks
// @Accept json
// @Produce json
// @Param payload body models.AssignWorkbookRequest true "Assignment payload"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /users/workbook/assign [post]
func (h *WorkbookHandler) Assign(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.AssignWorkbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	req.IP = c.ClientIP()

	if err := h.service.Assign(c.Request.Context(), actor, req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, models.MessageResponse{Message: "Workbook assigned"})
}

// OpenMarking godoc
// @Summary Open marking
// @Description Start evaluating one question of a workbook
// @Tags Marking
// @Accept json
// @Produce json
// @Param payload body models.OpenMarkingRequest true "Marking payload"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /marking/open [post]
func (h *WorkbookHandler) OpenMarking(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.OpenMarkingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid marking payload"))
		return
	}
	req.IP = c.ClientIP()

	if err := h.service.OpenMarking(c.Request.Context(), actor, req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, models.MessageResponse{Message: "Marking opened"})
}

// SubmitMarking godoc
// @Summary Submit marks
// @Description Record awarded marks for an opened question
// @Tags Marking
// @Accept json
// @Produce json
// @Param payload body models.SubmitMarkingRequest true "Marking payload"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /marking/submit [post]
func (h *WorkbookHandler) SubmitMarking(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.SubmitMarkingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid marking payload"))
		return
	}
	req.IP = c.ClientIP()

	if err := h.service.SubmitMarking(c.Request.Context(), actor, req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, models.MessageResponse{Message: "Marks submitted"})
}
