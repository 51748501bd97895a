package ports

import (
	"context"
	"time"

	"github.com/infogov/infogov-api/internal/core/domain"
)

// TokenRepository defines persistence operations for access tokens.
// Tokens are independent rows: revoking one never touches its siblings.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.AccessToken) (*domain.AccessToken, error)
	FindByID(ctx context.Context, id string) (*domain.AccessToken, error)
	// Delete revokes the token. Returns domain.ErrTokenNotFound when the
	// token was already revoked.
	Delete(ctx context.Context, id string) error
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
}
