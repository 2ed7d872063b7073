package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nlac-edu/gradetrack-api/internal/models"
	"github.com/nlac-edu/gradetrack-api/internal/store"
	appErrors "github.com/nlac-edu/gradetrack-api/pkg/errors"
)

type stubSnapshots struct {
	snap *models.Snapshot
	err  error
}

func (s *stubSnapshots) DownloadPreferred(ctx context.Context) (*models.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func newTestAuthService(snap *models.Snapshot, cfg AuthConfig) *AuthService {
	if cfg.Secret == "" {
		cfg.Secret = "test-secret"
	}
	if cfg.Expiration == 0 {
		cfg.Expiration = time.Hour
	}
	return NewAuthService(&stubSnapshots{snap: snap}, validator.New(), zap.NewNop(), cfg)
}

func TestStudentLoginByIDNumber(t *testing.T) {
	svc := newTestAuthService(store.DefaultSnapshot(), AuthConfig{})

	resp, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{Credential: "2024-0001"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, resp.Role)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.Student)
	assert.Equal(t, int64(1), resp.Student.ID)
}

func TestStudentLoginByPin(t *testing.T) {
	svc := newTestAuthService(store.DefaultSnapshot(), AuthConfig{})

	resp, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{Credential: "7832"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Student.ID)
}

func TestStudentLoginTrimsWhitespace(t *testing.T) {
	svc := newTestAuthService(store.DefaultSnapshot(), AuthConfig{})

	resp, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{Credential: "  2024-0003  "})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Student.ID)
}

func TestStudentLoginWithPinDistinguishesFailures(t *testing.T) {
	svc := newTestAuthService(store.DefaultSnapshot(), AuthConfig{})

	_, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{Credential: "2024-9999", Pin: "4521"})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound.Code))

	_, err = svc.StudentLogin(context.Background(), models.StudentLoginRequest{Credential: "2024-0001", Pin: "0000"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials.Code))

	resp, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{Credential: "2024-0001", Pin: "4521"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Student.ID)
}

func TestStudentLoginUnknownCredential(t *testing.T) {
	svc := newTestAuthService(store.DefaultSnapshot(), AuthConfig{})

	_, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{Credential: "nobody"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials.Code))
}

func TestStudentLoginMissingCredential(t *testing.T) {
	svc := newTestAuthService(store.DefaultSnapshot(), AuthConfig{})

	_, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{Credential: "   "})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))
}

func TestAdminLoginPlaintext(t *testing.T) {
	svc := newTestAuthService(nil, AuthConfig{AdminUsername: "admin", AdminPassword: "admin123"})

	resp, err := svc.AdminLogin(context.Background(), models.AdminLoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.Role)
	assert.Nil(t, resp.Student)

	_, err = svc.AdminLogin(context.Background(), models.AdminLoginRequest{Username: "admin", Password: "wrong"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials.Code))
}

func TestAdminLoginBcryptHashTakesPrecedence(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := newTestAuthService(nil, AuthConfig{
		AdminUsername:     "admin",
		AdminPassword:     "ignored",
		AdminPasswordHash: string(hash),
	})

	_, err = svc.AdminLogin(context.Background(), models.AdminLoginRequest{Username: "admin", Password: "ignored"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials.Code))

	resp, err := svc.AdminLogin(context.Background(), models.AdminLoginRequest{Username: "admin", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService(store.DefaultSnapshot(), AuthConfig{Issuer: "gradetrack-api"})

	resp, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{Credential: "2024-0001"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, int64(1), claims.StudentID)
	assert.Equal(t, "2024-0001", claims.Subject)

	_, err = svc.ValidateToken("not-a-token")
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized.Code))
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	issuer := newTestAuthService(store.DefaultSnapshot(), AuthConfig{Secret: "one"})
	verifier := newTestAuthService(store.DefaultSnapshot(), AuthConfig{Secret: "two"})

	resp, err := issuer.StudentLogin(context.Background(), models.StudentLoginRequest{Credential: "2024-0001"})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(resp.Token)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized.Code))
}
