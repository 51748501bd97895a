package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/infogov/infogov-api/internal/core/domain"
	"github.com/infogov/infogov-api/internal/core/ports"
)

// --- users ---

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	copy := cloneUser(user)
	r.nextID++
	copy.ID = "user_" + strconv.Itoa(r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string, withTrashed bool) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok || (!withTrashed && u.DeletedAt != nil) {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.DeletedAt == nil {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.users {
		if !filter.WithTrashed && u.DeletedAt != nil {
			continue
		}
		if filter.RoleID != "" && u.RoleID != filter.RoleID {
			continue
		}
		out = append(out, cloneUser(u))
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, other := range r.users {
		if id != user.ID && other.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return domain.ErrUserNotFound
	}
	now := time.Now().UTC()
	u.DeletedAt = &now
	return nil
}

func (r *stubUserRepo) Restore(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.DeletedAt = nil
	return nil
}

func (r *stubUserRepo) HardDelete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// --- roles ---

type stubRoleRepo struct {
	roles map[string]*domain.Role
}

func newStubRoleRepo() *stubRoleRepo {
	r := &stubRoleRepo{roles: make(map[string]*domain.Role)}
	for i, name := range domain.SystemRoles {
		id := "role_" + strconv.Itoa(i+1)
		r.roles[id] = &domain.Role{ID: id, Name: name}
	}
	return r
}

func (r *stubRoleRepo) roleID(name domain.RoleName) string {
	for id, role := range r.roles {
		if role.Name == name {
			return id
		}
	}
	return ""
}

func (r *stubRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	clone := *role
	return &clone, nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name domain.RoleName) (*domain.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			clone := *role
			return &clone, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) List(_ context.Context) ([]*domain.Role, error) {
	var out []*domain.Role
	for _, role := range r.roles {
		clone := *role
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubRoleRepo) Upsert(_ context.Context, role *domain.Role) (*domain.Role, error) {
	if existing, err := r.FindByName(context.Background(), role.Name); err == nil {
		return existing, nil
	}
	id := "role_" + strconv.Itoa(len(r.roles)+1)
	clone := *role
	clone.ID = id
	r.roles[id] = &clone
	return &clone, nil
}

// --- tokens ---

type stubTokenRepo struct {
	tokens map[string]*domain.AccessToken
	nextID int
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: make(map[string]*domain.AccessToken)}
}

func (r *stubTokenRepo) Create(_ context.Context, token *domain.AccessToken) (*domain.AccessToken, error) {
	clone := *token
	r.nextID++
	clone.ID = "token_" + strconv.Itoa(r.nextID)
	stored := clone
	r.tokens[clone.ID] = &stored
	return &clone, nil
}

func (r *stubTokenRepo) FindByID(_ context.Context, id string) (*domain.AccessToken, error) {
	t, ok := r.tokens[id]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTokenRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tokens[id]; !ok {
		return domain.ErrTokenNotFound
	}
	delete(r.tokens, id)
	return nil
}

func (r *stubTokenRepo) TouchLastUsed(_ context.Context, id string, at time.Time) error {
	t, ok := r.tokens[id]
	if !ok {
		return domain.ErrTokenNotFound
	}
	t.LastUsedAt = &at
	return nil
}

// --- throttle ---

type stubThrottle struct {
	failures map[string]int
	max      int
}

func newStubThrottle(max int) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), max: max}
}

func (t *stubThrottle) TooManyAttempts(_ context.Context, email string) (bool, error) {
	return t.failures[email] >= t.max, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}

func (t *stubThrottle) Clear(_ context.Context, email string) error {
	delete(t.failures, email)
	return nil
}

// --- departments ---

type stubDepartmentRepo struct {
	departments map[string]*domain.Department
	nextID      int
}

func newStubDepartmentRepo() *stubDepartmentRepo {
	return &stubDepartmentRepo{departments: make(map[string]*domain.Department)}
}

func cloneDepartment(d *domain.Department) *domain.Department {
	clone := *d
	return &clone
}

func (r *stubDepartmentRepo) Create(_ context.Context, dept *domain.Department) (*domain.Department, error) {
	for _, existing := range r.departments {
		if existing.Code == dept.Code {
			return nil, domain.ErrCodeTaken
		}
	}
	clone := cloneDepartment(dept)
	r.nextID++
	clone.ID = "dept_" + strconv.Itoa(r.nextID)
	r.departments[clone.ID] = cloneDepartment(clone)
	return clone, nil
}

func (r *stubDepartmentRepo) FindByID(_ context.Context, id string, withTrashed bool) (*domain.Department, error) {
	d, ok := r.departments[id]
	if !ok || (!withTrashed && d.DeletedAt != nil) {
		return nil, domain.ErrDepartmentNotFound
	}
	return cloneDepartment(d), nil
}

func (r *stubDepartmentRepo) List(_ context.Context, filter ports.ListDepartmentsFilter) ([]*domain.Department, int64, error) {
	var out []*domain.Department
	for _, d := range r.departments {
		if !filter.WithTrashed && d.DeletedAt != nil {
			continue
		}
		if filter.Active == ports.ActiveOnly && !d.Active {
			continue
		}
		if filter.Active == ports.InactiveOnly && d.Active {
			continue
		}
		out = append(out, cloneDepartment(d))
	}

	sort.Slice(out, func(i, j int) bool {
		var less bool
		switch filter.SortBy {
		case "code":
			less = out[i].Code < out[j].Code
		case "created_at":
			less = out[i].CreatedAt.Before(out[j].CreatedAt)
		default:
			less = out[i].Name < out[j].Name
		}
		if filter.SortDesc {
			return !less
		}
		return less
	})

	total := int64(len(out))
	start := (filter.Page - 1) * filter.PerPage
	if start >= len(out) {
		return nil, total, nil
	}
	end := start + filter.PerPage
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *stubDepartmentRepo) Update(_ context.Context, dept *domain.Department) (*domain.Department, error) {
	if _, ok := r.departments[dept.ID]; !ok {
		return nil, domain.ErrDepartmentNotFound
	}
	for id, other := range r.departments {
		if id != dept.ID && other.Code == dept.Code {
			return nil, domain.ErrCodeTaken
		}
	}
	r.departments[dept.ID] = cloneDepartment(dept)
	return cloneDepartment(dept), nil
}

func (r *stubDepartmentRepo) SoftDelete(_ context.Context, id string) error {
	d, ok := r.departments[id]
	if !ok || d.DeletedAt != nil {
		return domain.ErrDepartmentNotFound
	}
	now := time.Now().UTC()
	d.DeletedAt = &now
	return nil
}

func (r *stubDepartmentRepo) Restore(_ context.Context, id string) error {
	d, ok := r.departments[id]
	if !ok {
		return domain.ErrDepartmentNotFound
	}
	d.DeletedAt = nil
	return nil
}

func (r *stubDepartmentRepo) HardDelete(_ context.Context, id string) error {
	if _, ok := r.departments[id]; !ok {
		return domain.ErrDepartmentNotFound
	}
	delete(r.departments, id)
	return nil
}

// --- subjects ---

func adminUser() *domain.User {
	return &domain.User{
		ID:     "admin_1",
		Name:   "Admin",
		Email:  "admin@example.gov",
		RoleID: "role_1",
		Role:   &domain.Role{ID: "role_1", Name: domain.RoleAdministrator},
	}
}

func staffUser() *domain.User {
	return &domain.User{
		ID:     "staff_1",
		Name:   "Staff",
		Email:  "staff@example.gov",
		RoleID: "role_2",
		Role:   &domain.Role{ID: "role_2", Name: domain.RoleStaff},
	}
}

func citizenUser() *domain.User {
	return &domain.User{
		ID:     "citizen_1",
		Name:   "Citizen",
		Email:  "citizen@example.gov",
		RoleID: "role_3",
		Role:   &domain.Role{ID: "role_3", Name: domain.RoleCitizen},
	}
}
