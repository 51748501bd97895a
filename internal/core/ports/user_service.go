package ports

import (
	"context"

	"github.com/infogov/infogov-api/internal/core/domain"
)

// ListUsersInput carries the raw listing parameters for the administrative
// user listing. Normalization mirrors departments: allow-listed sort fields
// with a (name, asc) fallback and a capped page size. Role filters by role
// name and RoleID by reference; an unknown role name matches nothing.
type ListUsersInput struct {
	Name          string
	Email         string
	Role          string
	RoleID        string
	WithTrashed   bool
	SortBy        string
	SortDirection string
	Page          int
	PerPage       int
}

// CreateUserInput carries the fields for administrative user creation.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	RoleID   string
}

// UpdateUserInput carries the writable user fields. Password empty means
// "keep the current hash"; RoleID nil means "keep the current role" while a
// pointer to "" clears it.
type UpdateUserInput struct {
	Name     string
	Email    string
	Password string
	RoleID   *string
}

// ListUsersResult is a page of users plus paging metadata.
type ListUsersResult struct {
	Items    []*domain.User
	Total    int64
	Page     int
	PerPage  int
	LastPage int
}

// UserService defines the administrative user resource. It mirrors the
// department CRUD shape layered with the stricter user policy: no
// self-delete and no self-force-delete, even for administrators.
type UserService interface {
	List(ctx context.Context, subject *domain.User, input ListUsersInput) (*ListUsersResult, error)
	Create(ctx context.Context, subject *domain.User, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, subject *domain.User, id string) (*domain.User, error)
	Update(ctx context.Context, subject *domain.User, id string, input UpdateUserInput) (*domain.User, error)
	SoftDelete(ctx context.Context, subject *domain.User, id string) error
	Restore(ctx context.Context, subject *domain.User, id string) (*domain.User, error)
	HardDelete(ctx context.Context, subject *domain.User, id string) error
}
