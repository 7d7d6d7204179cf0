package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/examdesk/answersheet-api/internal/models"
	"github.com/examdesk/answersheet-api/internal/service"
)

type userRepoStub struct {
	users map[int64]*models.User
}

func (s *userRepoStub) CreateWithAudit(ctx context.Context, passwordHash string, role models.UserRole, entry *models.AuditLog) (int64, error) {
	return 0, nil
}

func (s *userRepoStub) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (s *userRepoStub) AppendAudit(ctx context.Context, entry *models.AuditLog) error {
	return nil
}

func newRouter(svc *service.AuthService) (*gin.Engine, *[]*models.User) {
	gin.SetMode(gin.TestMode)
	seen := &[]*models.User{}
	r := gin.New()
	r.GET("/protected", JWT(svc), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if ok {
			*seen = append(*seen, user)
		}
		c.Status(http.StatusOK)
	})
	return r, seen
}

func newService(repo *userRepoStub) *service.AuthService {
	return service.NewAuthService(repo, validator.New(), zap.NewNop(), service.AuthConfig{
		Secret:     "secret",
		Expiration: 30 * time.Minute,
	})
}

func TestJWTMissingHeader(t *testing.T) {
	r, _ := newRouter(newService(&userRepoStub{}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTValidToken(t *testing.T) {
	repo := &userRepoStub{users: map[int64]*models.User{
		5: {ID: 5, Role: models.RoleExaminer},
	}}
	svc := newService(repo)
	r, seen := newRouter(svc)

	token, err := svc.IssueToken(5, models.RoleExaminer, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, *seen, 1)
	assert.Equal(t, int64(5), (*seen)[0].ID)
}

func TestJWTVanishedUser(t *testing.T) {
	svc := newService(&userRepoStub{})
	r, seen := newRouter(svc)

	token, err := svc.IssueToken(5, models.RoleExaminer, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, *seen)
}

func TestJWTExpiredToken(t *testing.T) {
	repo := &userRepoStub{users: map[int64]*models.User{
		5: {ID: 5, Role: models.RoleExaminer},
	}}
	svc := newService(repo)
	r, _ := newRouter(svc)

	token, err := svc.IssueToken(5, models.RoleExaminer, -time.Minute)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
