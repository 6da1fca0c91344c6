package services

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/saddleworks/stablecare-backend/internal/data/repos/testutil"
)

func TestAuthLoginAndVerify(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("stirrup-cup"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD_HASH", string(hash))
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	svc := NewAuthService(testutil.Logger(t))
	ctx := context.Background()

	token, expiresIn, err := svc.Login(ctx, "admin@example.com", "stirrup-cup")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || expiresIn <= 0 {
		t.Fatalf("unexpected token %q expires_in %d", token, expiresIn)
	}
	if err := svc.Verify(token); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if _, _, err := svc.Login(ctx, "admin@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "stranger@example.com", "stirrup-cup"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.Verify("not-a-token"); err == nil {
		t.Fatalf("Verify must reject garbage tokens")
	}
}
