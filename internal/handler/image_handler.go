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

// ImageHandler wires HTTP endpoints to the image service.
type ImageHandler struct {
	service     *service.ImageService
	maxFileSize int64
}

// NewImageHandler creates a new handler.
func NewImageHandler(svc *service.ImageService, maxFileSize int64) *ImageHandler {
	return &ImageHandler{service: svc, maxFileSize: maxFileSize}
}

// Upload godoc
// @Summary Upload answer page
// @Description Upload one scanned answer page into a page slot
// @Tags Images
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} models.UploadImageResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /images/upload [post]
func (h *ImageHandler) Upload(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UploadImageRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid upload payload"))
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
	res, err := h.service.Upload(c.Request.Context(), actor, req, file, fileHeader.Size, contentType)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// Get godoc
// @Summary Retrieve answer pages
// @Description Return presigned URLs for every page of a question slot
// @Tags Images
// @Accept json
// @Produce json
// @Param payload body models.GetImagesRequest true "Retrieval payload"
// @Success 200 {object} models.GetImagesResponse
// @Failure 404 {object} response.ErrorBody
// @Router /images/get [post]
func (h *ImageHandler) Get(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.GetImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid retrieval payload"))
		return
	}
	req.IP = c.ClientIP()

	res, err := h.service.Get(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}
