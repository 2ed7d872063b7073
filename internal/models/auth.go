package models

import "github.com/golang-jwt/jwt/v5"

// StudentLoginRequest carries the single-input student credential: either the
// student ID number or the PIN. When Pin is also supplied the credential must
// be the ID number and the PIN is verified against it.
type StudentLoginRequest struct {
	Credential string `json:"credential" validate:"required"`
	Pin        string `json:"pin"`
}

// AdminLoginRequest carries admin credentials.
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and, for students, the profile.
type LoginResponse struct {
	Token   string   `json:"token"`
	Role    string   `json:"role"`
	Student *Student `json:"student,omitempty"`
}

// JWTClaims is the signed token payload attached to authenticated requests.
type JWTClaims struct {
	Role      string `json:"role"`
	StudentID int64  `json:"studentId,omitempty"`
	jwt.RegisteredClaims
}

// Roles used in token claims.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)
