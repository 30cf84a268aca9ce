package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sunil-gumatimath/wave-length/internal/middleware"
	"github.com/sunil-gumatimath/wave-length/internal/models"
)

// AuthService checks the single configured admin account and issues tokens.
type AuthService struct {
	email        string
	passwordHash []byte
	secret       string
	ttl          time.Duration
}

func NewAuthService(email, passwordHash, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: []byte(passwordHash),
		secret:       secret,
		ttl:          ttl,
	}
}

// Login returns a signed admin token when email and password match.
func (s *AuthService) Login(_ context.Context, email, password string) (string, error) {
	if s.email == "" || len(s.passwordHash) == 0 {
		return "", models.NewUnauthorizedError("admin login is not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.email)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !emailOK || passwordErr != nil {
		return "", models.NewUnauthorizedError("invalid credentials")
	}
	return middleware.GenerateAdminToken(s.secret, s.email, s.ttl)
}
