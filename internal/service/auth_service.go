package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nlac-edu/gradetrack-api/internal/models"
	appErrors "github.com/nlac-edu/gradetrack-api/pkg/errors"
)

// snapshotReader is the mirror-backed read path used for student login: the
// freshest reachable view of the collections (tier A, then B, then the store,
// then the default dataset).
type snapshotReader interface {
	DownloadPreferred(ctx context.Context) (*models.Snapshot, error)
}

// AuthConfig defines configuration for login flows.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string

	AdminUsername string
	// AdminPasswordHash takes precedence over AdminPassword when set.
	AdminPassword     string
	AdminPasswordHash string
}

// AuthService authenticates students and admins and issues session tokens.
type AuthService struct {
	snapshots snapshotReader
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(snapshots snapshotReader, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{snapshots: snapshots, validator: validate, logger: logger, config: config}
}

// StudentLogin authenticates a student by ID number or PIN. The single
// credential matches either field exactly after trimming. When a PIN is also
// supplied the credential must be the ID number: an unknown ID reports not
// found, a wrong PIN reports invalid credentials, so the client can tell the
// two apart.
func (s *AuthService) StudentLogin(ctx context.Context, req models.StudentLoginRequest) (*models.LoginResponse, error) {
	req.Credential = strings.TrimSpace(req.Credential)
	req.Pin = strings.TrimSpace(req.Pin)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	snap, err := s.snapshots.DownloadPreferred(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}

	var student *models.Student
	if req.Pin != "" {
		for i := range snap.Students {
			if snap.Students[i].StudentIDNum == req.Credential {
				student = &snap.Students[i]
				break
			}
		}
		if student == nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student id not found")
		}
		if subtle.ConstantTimeCompare([]byte(student.PinCode), []byte(req.Pin)) != 1 {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "pin does not match")
		}
	} else {
		for i := range snap.Students {
			if snap.Students[i].StudentIDNum == req.Credential || snap.Students[i].PinCode == req.Credential {
				student = &snap.Students[i]
				break
			}
		}
		if student == nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "no student matches the credential")
		}
	}

	token, err := s.generateToken(models.RoleStudent, student.StudentIDNum, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create token")
	}

	s.logger.Info("student logged in", zap.Int64("student_id", student.ID))
	return &models.LoginResponse{Token: token, Role: models.RoleStudent, Student: student}, nil
}

// AdminLogin authenticates the configured admin account. A bcrypt hash is
// compared when configured, otherwise the plaintext password from config.
func (s *AuthService) AdminLogin(ctx context.Context, req models.AdminLoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	if subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.config.AdminUsername)) != 1 {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}
	if s.config.AdminPasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.config.AdminPasswordHash), []byte(req.Password)); err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
		}
	} else if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.config.AdminPassword)) != 1 {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	token, err := s.generateToken(models.RoleAdmin, req.Username, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create token")
	}

	s.logger.Info("admin logged in", zap.String("username", req.Username))
	return &models.LoginResponse{Token: token, Role: models.RoleAdmin}, nil
}

// ValidateToken parses and validates a session token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) generateToken(role, subject string, studentID int64) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.JWTClaims{
		Role:      role,
		StudentID: studentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiration)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}
