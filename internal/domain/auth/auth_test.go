package auth

import (
	"errors"
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	if err := CheckPassword(hash, "super-secret"); err != nil {
		t.Fatalf("expected password to match, got %v", err)
	}

	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	now := time.Now()
	token, expires, err := GenerateToken("test-secret", "hr@example.com", now, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if !expires.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %s", expires)
	}

	claims, err := ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.Subject != "hr@example.com" || claims.Role != RoleOperator {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	token, _, err := GenerateToken("test-secret", "hr@example.com", time.Now().Add(-2*time.Hour), time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("test-secret", token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func newOperatorService(t *testing.T) *Service {
	t.Helper()
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	return NewService("test-secret", Operator{Email: "hr@example.com", PasswordHash: hash}, time.Hour)
}

func TestLoginAndVerify(t *testing.T) {
	svc := newOperatorService(t)

	tok, err := svc.Login(" HR@example.com ", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok.Token == "" || !tok.ExpiresAt.After(time.Now()) {
		t.Fatalf("unexpected token %+v", tok)
	}
	if _, err := svc.Verify(tok.Token); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if _, err := svc.Verify("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newOperatorService(t)
	if _, err := svc.Login("hr@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login("someone@example.com", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyRejectsOtherSubject(t *testing.T) {
	svc := newOperatorService(t)
	token, _, err := GenerateToken("test-secret", "intruder@example.com", time.Now(), time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
