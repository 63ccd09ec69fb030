package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/samirrijal/geonotes/internal/core/domain"
	"github.com/samirrijal/geonotes/internal/core/ports"
	"github.com/samirrijal/geonotes/internal/pkg/validator"
)

// Credentials is the body of register and token requests.
type Credentials struct {
	Username string `json:"username" validate:"required,alphanum,max=150"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// AccessToken is returned by a successful login.
type AccessToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AuthService registers users and issues access tokens.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenIssuer
	cost   int
}

// NewAuthService creates a new AuthService.
func NewAuthService(users ports.UserRepository, tokens ports.TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

// Register creates a new account.
func (s *AuthService) Register(ctx context.Context, in Credentials) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if errs := validator.Struct(in); errs != nil {
		return nil, domain.FieldErrors(errs)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{Username: in.Username, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks the credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, in Credentials) (*AccessToken, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &AccessToken{AccessToken: token, TokenType: "Bearer", ExpiresAt: exp}, nil
}

// Authenticate resolves a bearer token to the user it was issued for.
func (s *AuthService) Authenticate(token string) (*domain.UserRef, error) {
	return s.tokens.Verify(token)
}
