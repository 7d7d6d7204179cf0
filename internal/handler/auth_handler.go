package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examdesk/answersheet-api/internal/models"
	"github.com/examdesk/answersheet-api/internal/service"
	appErrors "github.com/examdesk/answersheet-api/pkg/errors"
	"github.com/examdesk/answersheet-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Signup godoc
// @Summary Create account
// @Description Register a new user with a password and role type
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body models.SignupRequest true "Signup payload"
// @Success 200 {object} models.SignupResponse
// @Failure 400 {object} response.ErrorBody
// @Router /users/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid signup payload"))
		return
	}
	req.IP = c.ClientIP()

	res, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate by numeric id and password
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} response.ErrorBody
// @Router /users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}
