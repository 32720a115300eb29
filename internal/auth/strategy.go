package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ecom-backend/internal/domain"
	"ecom-backend/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned when a request carries no usable token.
	ErrUnauthorized = errors.New("unauthorized")
)

// Credentials is what a client presents. Each strategy reads only the
// fields it understands.
type Credentials struct {
	Email    string
	Password string
	Token    string
}

// Strategy turns credentials into an identity.
type Strategy interface {
	Name() string
	Authenticate(ctx context.Context, creds Credentials) (domain.Identity, error)
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PasswordStrategy checks an email and password against the credential store.
type PasswordStrategy struct {
	users     repository.UserRepository
	hasher    *Hasher
	dummySalt []byte
}

func NewPasswordStrategy(users repository.UserRepository, hasher *Hasher) *PasswordStrategy {
	return &PasswordStrategy{
		users:     users,
		hasher:    hasher,
		dummySalt: make([]byte, SaltLength),
	}
}

func (s *PasswordStrategy) Name() string { return "password" }

func (s *PasswordStrategy) Authenticate(ctx context.Context, creds Credentials) (domain.Identity, error) {
	email := NormalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return domain.Identity{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// keep the unknown-email path as slow as a wrong password
			if _, derr := s.hasher.Derive(ctx, creds.Password, s.dummySalt); derr != nil {
				return domain.Identity{}, derr
			}
			return domain.Identity{}, ErrInvalidCredentials
		}
		return domain.Identity{}, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.Verify(ctx, creds.Password, user.Salt, user.PasswordHash)
	if err != nil {
		return domain.Identity{}, err
	}
	if !ok {
		return domain.Identity{}, ErrInvalidCredentials
	}
	return user.Identity(), nil
}

// TokenStrategy validates an access token and re-resolves its user, so the
// returned role is the current one rather than the one at issuance.
type TokenStrategy struct {
	users  repository.UserRepository
	tokens *TokenIssuer
}

func NewTokenStrategy(users repository.UserRepository, tokens *TokenIssuer) *TokenStrategy {
	return &TokenStrategy{users: users, tokens: tokens}
}

func (s *TokenStrategy) Name() string { return "jwt" }

func (s *TokenStrategy) Authenticate(ctx context.Context, creds Credentials) (domain.Identity, error) {
	if creds.Token == "" {
		return domain.Identity{}, ErrUnauthorized
	}

	claims, err := s.tokens.Parse(creds.Token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Identity{}, ErrUnauthorized
		}
		return domain.Identity{}, fmt.Errorf("resolve token user: %w", err)
	}
	return user.Identity(), nil
}

var (
	_ Strategy = (*PasswordStrategy)(nil)
	_ Strategy = (*TokenStrategy)(nil)
)
