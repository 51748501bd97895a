package ports

import (
	"context"

	"github.com/infogov/infogov-api/internal/core/domain"
)

// RoleRepository defines persistence operations for the fixed role set.
type RoleRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
	// Upsert creates the role if absent, keyed by name. Used at bootstrap.
	Upsert(ctx context.Context, role *domain.Role) (*domain.Role, error)
}
