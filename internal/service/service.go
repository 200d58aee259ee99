package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/casuse/website-backend/internal/platform/auth"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type TokenIssuer interface {
	NewAccessToken(email string, customerID uuid.UUID, isAdmin bool, ttl time.Duration) (string, error)
	Parse(token string) (*auth.Claims, error)
}

const (
	StatusOK   = "ok"
	TokenType  = "bearer"
	setupPath  = "/password-setup"
	tokenParam = "token"
)
