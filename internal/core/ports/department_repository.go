package ports

import (
	"context"

	"github.com/infogov/infogov-api/internal/core/domain"
)

// ActiveFilter is the three-state active flag filter for listings.
type ActiveFilter int

const (
	ActiveAny ActiveFilter = iota // no filter
	ActiveOnly
	InactiveOnly
)

// ListDepartmentsFilter carries all query parameters for listing departments.
// SortBy/SortDesc arrive pre-validated by the service allow-list.
type ListDepartmentsFilter struct {
	Name        string // optional: substring match on name
	Code        string // optional: substring match on code
	Active      ActiveFilter
	WithTrashed bool // include soft-deleted rows
	SortBy      string
	SortDesc    bool
	Page        int // 1-based
	PerPage     int
}

// DepartmentRepository defines persistence operations for departments.
// Find operations exclude soft-deleted rows unless withTrashed is true.
// The code unique index is global: it spans soft-deleted rows.
type DepartmentRepository interface {
	// Create inserts the department and returns it with its assigned id.
	// Returns domain.ErrCodeTaken on a duplicate code.
	Create(ctx context.Context, dept *domain.Department) (*domain.Department, error)
	FindByID(ctx context.Context, id string, withTrashed bool) (*domain.Department, error)
	// List returns a page of departments matching filter and the total count.
	List(ctx context.Context, filter ListDepartmentsFilter) ([]*domain.Department, int64, error)
	// Update persists mutable fields. Returns domain.ErrCodeTaken on a
	// duplicate code.
	Update(ctx context.Context, dept *domain.Department) (*domain.Department, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
}
