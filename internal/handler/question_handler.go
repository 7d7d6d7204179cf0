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

// QuestionHandler wires HTTP endpoints to the question service.
type QuestionHandler struct {
	service     *service.QuestionService
	maxFileSize int64
}

// NewQuestionHandler creates a new handler.
func NewQuestionHandler(svc *service.QuestionService, maxFileSize int64) *QuestionHandler {
	return &QuestionHandler{service: svc, maxFileSize: maxFileSize}
}

// Create godoc
// @Summary Register a question
// @Description Register one question of a paper with its scanned image
// @Tags Questions
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /questions/create [post]
func (h *QuestionHandler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateQuestionRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid question payload"))
		return
	}
	req.IP = c.ClientIP()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file required"))
		return
	}
	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable file"))
		return
	}
	defer file.Close() //nolint:errcheck

	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.service.Create(c.Request.Context(), actor, req, file, fileHeader.Size, contentType); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, models.MessageResponse{Message: "Question created"})
}
