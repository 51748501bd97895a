package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/infogov/infogov-api/internal/api/metrics"
	"github.com/infogov/infogov-api/internal/core/domain"
	"github.com/infogov/infogov-api/internal/core/policy"
	"github.com/infogov/infogov-api/internal/core/ports"
)

var userSortFields = map[string]struct{}{
	"name":       {},
	"email":      {},
	"created_at": {},
	"updated_at": {},
}

// UserService implements the administrative user resource. It mirrors the
// department lifecycle but with the stricter user policy: administrators
// can never soft- or hard-delete themselves.
type UserService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, roles ports.RoleRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, logger: logger}
}

func (s *UserService) List(ctx context.Context, subject *domain.User, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
	if !policy.CanUser(subject, policy.ActionViewAny, nil) {
		return nil, domain.Forbidden(subject, domain.RoleAdministrator, domain.RoleStaff)
	}

	sortBy, sortDesc := normalizeSort(input.SortBy, input.SortDirection, userSortFields)
	page, perPage := normalizePage(input.Page, input.PerPage)

	roleID := input.RoleID
	if input.Role != "" {
		role, err := s.roles.FindByName(ctx, domain.RoleName(input.Role))
		if err != nil {
			if errors.Is(err, domain.ErrRoleNotFound) {
				// An unknown role name selects nothing.
				return &ports.ListUsersResult{Page: page, PerPage: perPage, LastPage: 1}, nil
			}
			return nil, err
		}
		roleID = role.ID
	}

	items, total, err := s.users.List(ctx, ports.ListUsersFilter{
		Name:        input.Name,
		Email:       input.Email,
		RoleID:      roleID,
		WithTrashed: input.WithTrashed,
		SortBy:      sortBy,
		SortDesc:    sortDesc,
		Page:        page,
		PerPage:     perPage,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListUsersResult{
		Items:    items,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
		LastPage: lastPage(total, perPage),
	}, nil
}

func (s *UserService) Create(ctx context.Context, subject *domain.User, input ports.CreateUserInput) (*domain.User, error) {
	if !policy.CanUser(subject, policy.ActionCreate, nil) {
		return nil, domain.Forbidden(subject, domain.RoleAdministrator)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.RoleID != "" {
		role, err := s.resolveRole(ctx, input.RoleID)
		if err != nil {
			return nil, err
		}
		user.RoleID = role.ID
		user.Role = role
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, mapEmailTaken(err)
	}

	s.logger.Info().Str("user_id", created.ID).Str("created_by", subject.ID).Msg("user created")
	metrics.UserMutationsTotal.WithLabelValues("create").Inc()
	return created, nil
}

func (s *UserService) Get(ctx context.Context, subject *domain.User, id string) (*domain.User, error) {
	target, err := s.users.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if !policy.CanUser(subject, policy.ActionView, target) {
		return nil, domain.Forbidden(subject, domain.RoleAdministrator, domain.RoleStaff)
	}
	return target, nil
}

func (s *UserService) Update(ctx context.Context, subject *domain.User, id string, input ports.UpdateUserInput) (*domain.User, error) {
	target, err := s.users.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if !policy.CanUser(subject, policy.ActionUpdate, target) {
		return nil, domain.Forbidden(subject, domain.RoleAdministrator)
	}

	target.Name = strings.TrimSpace(input.Name)
	target.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		target.PasswordHash = string(hash)
	}

	if input.RoleID != nil {
		// Changing a role is a separate capability from updating a profile.
		if !policy.CanUser(subject, policy.ActionAssignRole, target) {
			return nil, domain.Forbidden(subject, domain.RoleAdministrator)
		}
		if *input.RoleID == "" {
			target.RoleID = ""
			target.Role = nil
		} else {
			role, err := s.resolveRole(ctx, *input.RoleID)
			if err != nil {
				return nil, err
			}
			target.RoleID = role.ID
			target.Role = role
		}
	}

	target.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, target)
	if err != nil {
		return nil, mapEmailTaken(err)
	}

	metrics.UserMutationsTotal.WithLabelValues("update").Inc()
	return updated, nil
}

func (s *UserService) SoftDelete(ctx context.Context, subject *domain.User, id string) error {
	target, err := s.users.FindByID(ctx, id, false)
	if err != nil {
		return err
	}
	if !policy.CanUser(subject, policy.ActionDelete, target) {
		return domain.Forbidden(subject, domain.RoleAdministrator)
	}

	if err := s.users.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id).Str("deleted_by", subject.ID).Msg("user soft-deleted")
	metrics.UserMutationsTotal.WithLabelValues("soft_delete").Inc()
	return nil
}

func (s *UserService) Restore(ctx context.Context, subject *domain.User, id string) (*domain.User, error) {
	target, err := s.users.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if !policy.CanUser(subject, policy.ActionRestore, target) {
		return nil, domain.Forbidden(subject, domain.RoleAdministrator)
	}
	if !target.Trashed() {
		return target, nil
	}

	if err := s.users.Restore(ctx, id); err != nil {
		return nil, err
	}

	metrics.UserMutationsTotal.WithLabelValues("restore").Inc()
	return s.users.FindByID(ctx, id, false)
}

func (s *UserService) HardDelete(ctx context.Context, subject *domain.User, id string) error {
	target, err := s.users.FindByID(ctx, id, true)
	if err != nil {
		return err
	}
	if !policy.CanUser(subject, policy.ActionForceDelete, target) {
		return domain.Forbidden(subject, domain.RoleAdministrator)
	}

	if err := s.users.HardDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id).Str("deleted_by", subject.ID).Msg("user hard-deleted")
	metrics.UserMutationsTotal.WithLabelValues("force_delete").Inc()
	return nil
}

func (s *UserService) resolveRole(ctx context.Context, roleID string) (*domain.Role, error) {
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			ve := domain.NewValidationError()
			ve.Add("role_id", "the selected role is invalid")
			return nil, ve
		}
		return nil, err
	}
	return role, nil
}

func mapEmailTaken(err error) error {
	if errors.Is(err, domain.ErrEmailTaken) {
		ve := domain.NewValidationError()
		ve.Add("email", "email already taken")
		return ve
	}
	return err
}
