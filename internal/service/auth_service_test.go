package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/examdesk/answersheet-api/internal/models"
	appErrors "github.com/examdesk/answersheet-api/pkg/errors"
)

type mockUserRepo struct {
	users     map[int64]*models.User
	nextID    int64
	createErr error
	findErr   error
	auditLogs []*models.AuditLog
}

func (m *mockUserRepo) CreateWithAudit(ctx context.Context, passwordHash string, role models.UserRole, entry *models.AuditLog) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	if m.users == nil {
		m.users = make(map[int64]*models.User)
	}
	m.nextID++
	m.users[m.nextID] = &models.User{ID: m.nextID, PasswordHash: passwordHash, Role: role}
	entry.UserID = m.nextID
	m.auditLogs = append(m.auditLogs, entry)
	return m.nextID, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	user, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) AppendAudit(ctx context.Context, entry *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, entry)
	return nil
}

func newAuthService(repo *mockUserRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		Secret:     "secret",
		Expiration: 30 * time.Minute,
		Issuer:     "answersheet-api",
	})
}

func TestSignupSuccess(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newAuthService(repo)

	res, err := svc.Signup(context.Background(), models.SignupRequest{Password: "password", MacAddr: "aa:bb", Type: "student", IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, "User created", res.Message)
	assert.Equal(t, int64(1), res.ID)

	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionSignup, repo.auditLogs[0].Action)
	assert.Equal(t, int64(1), repo.auditLogs[0].UserID)

	// stored hash must verify against the original password
	user := repo.users[1]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password")))
}

func TestSignupUnknownType(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	_, err := svc.Signup(context.Background(), models.SignupRequest{Password: "password", MacAddr: "aa:bb", Type: "headmaster"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLoginSuccess(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockUserRepo{users: map[int64]*models.User{
		5: {ID: 5, PasswordHash: string(hash), Role: models.RoleExaminer},
	}}
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{ID: 5, Password: "password", MacAddr: "aa:bb"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "bearer", res.TokenType)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID)
	assert.Equal(t, models.RoleExaminer, claims.Role)

	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionLogin, repo.auditLogs[0].Action)
}

func TestLoginIndistinguishableFailures(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockUserRepo{users: map[int64]*models.User{
		5: {ID: 5, PasswordHash: string(hash), Role: models.RoleStudent},
	}}
	svc := newAuthService(repo)

	_, unknownErr := svc.Login(context.Background(), models.LoginRequest{ID: 99, Password: "password", MacAddr: "aa:bb"})
	_, wrongErr := svc.Login(context.Background(), models.LoginRequest{ID: 5, Password: "nope", MacAddr: "aa:bb"})
	require.Error(t, unknownErr)
	require.Error(t, wrongErr)

	unknown := appErrors.FromError(unknownErr)
	wrong := appErrors.FromError(wrongErr)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, unknown.Code)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, unknown.Message, wrong.Message)
	assert.Empty(t, repo.auditLogs)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	token, err := svc.IssueToken(5, models.RoleStudent, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})
	other := NewAuthService(&mockUserRepo{}, validator.New(), zap.NewNop(), AuthConfig{Secret: "other", Expiration: time.Hour})

	token, err := other.IssueToken(5, models.RoleStudent, time.Hour)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

func TestCurrentUserGone(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	_, err := svc.CurrentUser(context.Background(), &models.JWTClaims{UserID: 404})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
	assert.Equal(t, "user no longer exists", appErr.Message)
}
