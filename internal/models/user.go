package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole tags an account with its workflow role.
type UserRole string

const (
	RoleStudent  UserRole = "student"
	RoleExaminer UserRole = "examiner"
	RoleAdmin    UserRole = "admin"
)

// Valid reports whether the role is one of the known tags.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleExaminer, RoleAdmin:
		return true
	}
	return false
}

// User is an account row. Users are never hard-deleted; audit entries and
// workbook ownership keep referencing them.
type User struct {
	ID           int64     `db:"id" json:"id"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// SignupRequest creates a new account.
type SignupRequest struct {
	Password string `json:"password" validate:"required"`
	MacAddr  string `json:"mac_addr" validate:"required"`
	Type     string `json:"type" validate:"required"`
	IP       string `json:"-"`
}

// SignupResponse acknowledges account creation.
type SignupResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// LoginRequest authenticates an existing account by numeric id.
type LoginRequest struct {
	ID       int64  `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
	MacAddr  string `json:"mac_addr" validate:"required"`
	IP       string `json:"-"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// JWTClaims is the access-token payload.
type JWTClaims struct {
	UserID int64    `json:"user_id"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}
