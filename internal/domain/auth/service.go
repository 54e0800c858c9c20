package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Operator is the single account allowed to change records.
type Operator struct {
	Email        string
	PasswordHash string
}

type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Service struct {
	secret   string
	operator Operator
	ttl      time.Duration
	now      func() time.Time
}

func NewService(secret string, operator Operator, ttl time.Duration) *Service {
	return &Service{secret: secret, operator: operator, ttl: ttl, now: time.Now}
}

// Login checks the operator credentials. Email comparison ignores case.
func (s *Service) Login(email, password string) (Token, error) {
	if !strings.EqualFold(strings.TrimSpace(email), s.operator.Email) {
		return Token{}, ErrInvalidCredentials
	}
	if err := CheckPassword(s.operator.PasswordHash, password); err != nil {
		return Token{}, ErrInvalidCredentials
	}
	signed, expires, err := GenerateToken(s.secret, s.operator.Email, s.now(), s.ttl)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Token: signed, ExpiresAt: expires.UTC()}, nil
}

// Verify returns the claims of a token issued by Login.
func (s *Service) Verify(token string) (*Claims, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Role != RoleOperator || !strings.EqualFold(claims.Subject, s.operator.Email) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
