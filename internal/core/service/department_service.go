package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/infogov/infogov-api/internal/api/metrics"
	"github.com/infogov/infogov-api/internal/core/domain"
	"github.com/infogov/infogov-api/internal/core/policy"
	"github.com/infogov/infogov-api/internal/core/ports"
)

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

// departmentSortFields is the allow-list for the department listing.
// Anything else silently falls back to name, preserved for compatibility.
var departmentSortFields = map[string]struct{}{
	"name":       {},
	"code":       {},
	"active":     {},
	"created_at": {},
	"updated_at": {},
}

// DepartmentService implements department CRUD with soft-delete semantics.
type DepartmentService struct {
	repo   ports.DepartmentRepository
	logger zerolog.Logger
}

func NewDepartmentService(repo ports.DepartmentRepository, logger zerolog.Logger) *DepartmentService {
	return &DepartmentService{repo: repo, logger: logger}
}

func (s *DepartmentService) List(ctx context.Context, subject *domain.User, input ports.ListDepartmentsInput) (*ports.ListDepartmentsResult, error) {
	if !policy.CanDepartment(subject, policy.ActionViewAny) {
		return nil, domain.Forbidden(subject, domain.SystemRoles...)
	}

	sortBy, sortDesc := normalizeSort(input.SortBy, input.SortDirection, departmentSortFields)
	page, perPage := normalizePage(input.Page, input.PerPage)

	items, total, err := s.repo.List(ctx, ports.ListDepartmentsFilter{
		Name:        input.Name,
		Code:        input.Code,
		Active:      parseActiveFilter(input.Active),
		WithTrashed: input.WithTrashed,
		SortBy:      sortBy,
		SortDesc:    sortDesc,
		Page:        page,
		PerPage:     perPage,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListDepartmentsResult{
		Items:    items,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
		LastPage: lastPage(total, perPage),
	}, nil
}

func (s *DepartmentService) Create(ctx context.Context, subject *domain.User, input ports.UpsertDepartmentInput) (*domain.Department, error) {
	if !policy.CanDepartment(subject, policy.ActionCreate) {
		return nil, domain.Forbidden(subject, domain.RoleAdministrator)
	}

	now := time.Now().UTC()
	dept := &domain.Department{
		Name:      strings.TrimSpace(input.Name),
		Code:      normalizeCode(input.Code),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Active != nil {
		dept.Active = *input.Active
	}

	created, err := s.repo.Create(ctx, dept)
	if err != nil {
		return nil, mapCodeTaken(err)
	}

	s.logger.Info().Str("department_id", created.ID).Str("code", created.Code).Msg("department created")
	metrics.DepartmentMutationsTotal.WithLabelValues("create").Inc()
	return created, nil
}

func (s *DepartmentService) Get(ctx context.Context, subject *domain.User, id string) (*domain.Department, error) {
	if !policy.CanDepartment(subject, policy.ActionView) {
		return nil, domain.Forbidden(subject, domain.SystemRoles...)
	}
	return s.repo.FindByID(ctx, id, false)
}

func (s *DepartmentService) Update(ctx context.Context, subject *domain.User, id string, input ports.UpsertDepartmentInput) (*domain.Department, error) {
	if !policy.CanDepartment(subject, policy.ActionUpdate) {
		return nil, domain.Forbidden(subject, domain.RoleAdministrator)
	}

	dept, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	dept.Name = strings.TrimSpace(input.Name)
	dept.Code = normalizeCode(input.Code)
	if input.Active != nil {
		dept.Active = *input.Active
	}
	dept.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, dept)
	if err != nil {
		return nil, mapCodeTaken(err)
	}

	metrics.DepartmentMutationsTotal.WithLabelValues("update").Inc()
	return updated, nil
}

func (s *DepartmentService) SoftDelete(ctx context.Context, subject *domain.User, id string) error {
	if !policy.CanDepartment(subject, policy.ActionDelete) {
		return domain.Forbidden(subject, domain.RoleAdministrator)
	}

	if _, err := s.repo.FindByID(ctx, id, false); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("department_id", id).Msg("department soft-deleted")
	metrics.DepartmentMutationsTotal.WithLabelValues("soft_delete").Inc()
	return nil
}

func (s *DepartmentService) Restore(ctx context.Context, subject *domain.User, id string) (*domain.Department, error) {
	if !policy.CanDepartment(subject, policy.ActionRestore) {
		return nil, domain.Forbidden(subject, domain.RoleAdministrator)
	}

	dept, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if !dept.Trashed() {
		// Restoring an already-active department is a no-op success.
		return dept, nil
	}

	if err := s.repo.Restore(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info().Str("department_id", id).Msg("department restored")
	metrics.DepartmentMutationsTotal.WithLabelValues("restore").Inc()
	return s.repo.FindByID(ctx, id, false)
}

func (s *DepartmentService) HardDelete(ctx context.Context, subject *domain.User, id string) error {
	if !policy.CanDepartment(subject, policy.ActionForceDelete) {
		return domain.Forbidden(subject, domain.RoleAdministrator)
	}

	// Hard delete works on both live and already-soft-deleted rows.
	if _, err := s.repo.FindByID(ctx, id, true); err != nil {
		return err
	}
	if err := s.repo.HardDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("department_id", id).Msg("department hard-deleted")
	metrics.DepartmentMutationsTotal.WithLabelValues("force_delete").Inc()
	return nil
}

// normalizeCode trims and upper-cases a department code before uniqueness
// checks and storage.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// parseActiveFilter interprets the active query literal. Only true/1 and
// false/0 select a state; any other literal means "no filter".
func parseActiveFilter(raw string) ports.ActiveFilter {
	switch raw {
	case "true", "1":
		return ports.ActiveOnly
	case "false", "0":
		return ports.InactiveOnly
	}
	return ports.ActiveAny
}

// normalizeSort applies the allow-list fallback: unknown fields become
// "name", unknown directions become ascending. No error is raised.
func normalizeSort(sortBy, direction string, allowed map[string]struct{}) (string, bool) {
	if _, ok := allowed[sortBy]; !ok {
		sortBy = "name"
	}
	return sortBy, direction == "desc"
}

// normalizePage clamps paging: page defaults to 1, per_page to 15, and the
// effective page size never exceeds 100.
func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func lastPage(total int64, perPage int) int {
	if total <= 0 {
		return 1
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		return 1
	}
	return pages
}

// mapCodeTaken converts the repository's duplicate-code sentinel into the
// validation envelope; duplicates surface as 422, not 409.
func mapCodeTaken(err error) error {
	if errors.Is(err, domain.ErrCodeTaken) {
		ve := domain.NewValidationError()
		ve.Add("code", "code already taken")
		return ve
	}
	return err
}
