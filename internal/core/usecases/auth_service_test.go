package usecases_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/samirrijal/geonotes/internal/core/domain"
	"github.com/samirrijal/geonotes/internal/core/usecases"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	users := newMockUserRepo()
	svc := usecases.NewAuthService(users, mockTokens{})
	ctx := context.Background()

	u, err := svc.Register(ctx, usecases.Credentials{Username: "alice", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID == 0 || u.PasswordHash == "correct-horse" {
		t.Fatalf("unexpected user %+v", u)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct-horse")); err != nil {
		t.Errorf("password not hashed with bcrypt: %v", err)
	}

	tok, err := svc.Login(ctx, usecases.Credentials{Username: "alice", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok.AccessToken != "token-alice" || tok.TokenType != "Bearer" {
		t.Errorf("unexpected token %+v", tok)
	}
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	svc := usecases.NewAuthService(newMockUserRepo(), mockTokens{})
	ctx := context.Background()

	creds := usecases.Credentials{Username: "bob", Password: "password123"}
	if _, err := svc.Register(ctx, creds); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(ctx, creds); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := usecases.NewAuthService(newMockUserRepo(), mockTokens{})

	_, err := svc.Register(context.Background(), usecases.Credentials{Username: "", Password: "short"})
	var fe domain.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if fe["username"] == "" || fe["password"] == "" {
		t.Errorf("expected username and password errors, got %v", fe)
	}
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc := usecases.NewAuthService(newMockUserRepo(), mockTokens{})
	ctx := context.Background()
	_, _ = svc.Register(ctx, usecases.Credentials{Username: "carol", Password: "password123"})

	for _, creds := range []usecases.Credentials{
		{Username: "carol", Password: "wrong-password"},
		{Username: "nobody", Password: "password123"},
	} {
		if _, err := svc.Login(ctx, creds); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", creds.Username, err)
		}
	}
}
