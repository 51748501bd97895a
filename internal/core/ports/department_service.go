package ports

import (
	"context"

	"github.com/infogov/infogov-api/internal/core/domain"
)

// ListDepartmentsInput carries the raw listing parameters as received from
// the query string. The service normalizes them: unknown sort fields fall
// back to name, unknown directions to asc, and Active literals other than
// true/1/false/0 mean "no filter".
type ListDepartmentsInput struct {
	Name          string
	Code          string
	Active        string
	WithTrashed   bool
	SortBy        string
	SortDirection string
	Page          int
	PerPage       int
}

// UpsertDepartmentInput carries the writable department fields.
// Active defaults to true on create when nil; on update nil leaves the
// stored flag unchanged.
type UpsertDepartmentInput struct {
	Name   string
	Code   string
	Active *bool
}

// ListDepartmentsResult is a page of departments plus paging metadata.
type ListDepartmentsResult struct {
	Items    []*domain.Department
	Total    int64
	Page     int
	PerPage  int
	LastPage int
}

// DepartmentService defines use-case operations for departments. Every call
// receives the acting subject explicitly; policy enforcement happens here,
// regardless of any route-level gating.
type DepartmentService interface {
	List(ctx context.Context, subject *domain.User, input ListDepartmentsInput) (*ListDepartmentsResult, error)
	Create(ctx context.Context, subject *domain.User, input UpsertDepartmentInput) (*domain.Department, error)
	Get(ctx context.Context, subject *domain.User, id string) (*domain.Department, error)
	Update(ctx context.Context, subject *domain.User, id string, input UpsertDepartmentInput) (*domain.Department, error)
	// SoftDelete marks the department deleted; it disappears from default
	// listings but keeps reserving its code.
	SoftDelete(ctx context.Context, subject *domain.User, id string) error
	// Restore clears the deleted marker. Restoring an already-active
	// department is a no-op success.
	Restore(ctx context.Context, subject *domain.User, id string) (*domain.Department, error)
	// HardDelete removes the row irreversibly, whether or not it was
	// soft-deleted first.
	HardDelete(ctx context.Context, subject *domain.User, id string) error
}
