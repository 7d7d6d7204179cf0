package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/examdesk/answersheet-api/internal/models"
	"github.com/examdesk/answersheet-api/internal/service"
)

type userRepoStub struct {
	users     map[int64]*models.User
	nextID    int64
	auditLogs []*models.AuditLog
}

func (s *userRepoStub) CreateWithAudit(ctx context.Context, passwordHash string, role models.UserRole, entry *models.AuditLog) (int64, error) {
	if s.users == nil {
		s.users = make(map[int64]*models.User)
	}
	s.nextID++
	s.users[s.nextID] = &models.User{ID: s.nextID, PasswordHash: passwordHash, Role: role}
	entry.UserID = s.nextID
	s.auditLogs = append(s.auditLogs, entry)
	return s.nextID, nil
}

func (s *userRepoStub) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (s *userRepoStub) AppendAudit(ctx context.Context, entry *models.AuditLog) error {
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func newAuthService(repo *userRepoStub) *service.AuthService {
	return service.NewAuthService(repo, validator.New(), zap.NewNop(), service.AuthConfig{
		Secret:     "secret",
		Expiration: 30 * time.Minute,
		Issuer:     "answersheet-api",
	})
}

func postJSON(c *gin.Context, path, body string) {
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
}

func TestSignupHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(newAuthService(&userRepoStub{}))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	postJSON(c, "/users/signup", `{"password":"password","mac_addr":"aa:bb","type":"student"}`)

	handler.Signup(c)
	require.Equal(t, http.StatusOK, w.Code)

	var res models.SignupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "User created", res.Message)
	assert.Equal(t, int64(1), res.ID)
}

func TestSignupHandlerInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(newAuthService(&userRepoStub{}))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	postJSON(c, "/users/signup", `{"password":`)

	handler.Signup(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &userRepoStub{users: map[int64]*models.User{
		5: {ID: 5, PasswordHash: string(hash), Role: models.RoleStudent},
	}}
	handler := NewAuthHandler(newAuthService(repo))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	postJSON(c, "/users/login", `{"id":5,"password":"password","mac_addr":"aa:bb"}`)

	handler.Login(c)
	require.Equal(t, http.StatusOK, w.Code)

	var res models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "bearer", res.TokenType)
}

func TestLoginHandlerBadCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(newAuthService(&userRepoStub{}))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	postJSON(c, "/users/login", `{"id":5,"password":"nope","mac_addr":"aa:bb"}`)

	handler.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}
