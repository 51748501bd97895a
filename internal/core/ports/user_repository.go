package ports

import (
	"context"

	"github.com/infogov/infogov-api/internal/core/domain"
)

// ListUsersFilter carries all query parameters for listing users.
type ListUsersFilter struct {
	Name        string // optional: substring match on name
	Email       string // optional: substring match on email
	RoleID      string // optional: exact match on role reference
	WithTrashed bool   // include soft-deleted rows
	SortBy      string // validated against an allow-list by the service
	SortDesc    bool
	Page        int // 1-based
	PerPage     int // capped at 100 by the service
}

// UserRepository defines persistence operations for users.
// Find operations exclude soft-deleted rows unless withTrashed is true.
type UserRepository interface {
	// Create inserts the user and returns it with its assigned id.
	// Returns domain.ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string, withTrashed bool) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	// Update persists mutable fields. Returns domain.ErrEmailTaken on a
	// duplicate email.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
}
