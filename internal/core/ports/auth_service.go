package ports

import (
	"context"

	"github.com/infogov/infogov-api/internal/core/domain"
)

// RegisterInput carries the data needed to create an account.
// RoleID is optional and applied without a policy check at this layer.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	RoleID   string
}

// AuthResult is returned by Register and Login: the acting user plus a
// freshly issued plaintext bearer token.
type AuthResult struct {
	User  *domain.User
	Token string
}

// AuthService defines credential and token lifecycle operations.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Authenticate resolves a presented bearer token to its user, or
	// domain.ErrUnauthenticated when the token is missing, malformed or revoked.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	// Logout revokes exactly the presented token; other live tokens of the
	// same user are unaffected.
	Logout(ctx context.Context, token string) error
}
