package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type TokenSigner func(subject string, ttl time.Duration) (string, error)

// AdminService authenticates the single configured operator account.
type AdminService struct {
	username     string
	passwordHash []byte
	now          func() time.Time
	signToken    TokenSigner
	tokenTTL     time.Duration
}

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewAdminService(username, passwordHash string, signer TokenSigner, ttl time.Duration) *AdminService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AdminService{
		username:     strings.TrimSpace(username),
		passwordHash: []byte(passwordHash),
		now:          func() time.Time { return time.Now().UTC() },
		signToken:    signer,
		tokenTTL:     ttl,
	}
}

// Enabled reports whether a password hash is configured.
func (s *AdminService) Enabled() bool { return len(s.passwordHash) > 0 }

func (s *AdminService) Login(username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("err.missing_fields", "username/password required")
	}
	if !s.Enabled() || username != s.username {
		return nil, NewUnauthorizedError("err.invalid_credentials", "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("err.invalid_credentials", "invalid credentials")
	}
	if s.signToken == nil {
		return nil, errors.New("token signer not configured")
	}
	token, err := s.signToken(username, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: s.now().Add(s.tokenTTL)}, nil
}

func (s *AdminService) TokenTTL() time.Duration {
	return s.tokenTTL
}
