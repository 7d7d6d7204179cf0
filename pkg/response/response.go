package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/examdesk/answersheet-api/pkg/errors"
)

// ErrorBody is the uniform failure payload. Success payloads are written
// unwrapped because the endpoint contracts fix their exact shapes.
type ErrorBody struct {
	Error *appErrors.Error `json:"error"`
}

// JSON sends a success payload as-is.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, ErrorBody{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
