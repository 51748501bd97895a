package policy

import (
	"testing"

	"github.com/infogov/infogov-api/internal/core/domain"
)

func subject(id string, role domain.RoleName) *domain.User {
	u := &domain.User{ID: id}
	if role != "" {
		u.Role = &domain.Role{Name: role}
	}
	return u
}

func TestCanDepartment(t *testing.T) {
	admin := subject("u1", domain.RoleAdministrator)
	staff := subject("u2", domain.RoleStaff)
	citizen := subject("u3", domain.RoleCitizen)
	roleless := subject("u4", "")

	cases := []struct {
		name    string
		subject *domain.User
		action  Action
		want    bool
	}{
		{"admin view", admin, ActionView, true},
		{"staff view_any", staff, ActionViewAny, true},
		{"citizen view", citizen, ActionView, true},
		{"roleless view", roleless, ActionView, true},
		{"nil subject view", nil, ActionView, false},
		{"admin create", admin, ActionCreate, true},
		{"staff create", staff, ActionCreate, false},
		{"citizen update", citizen, ActionUpdate, false},
		{"admin delete", admin, ActionDelete, true},
		{"staff restore", staff, ActionRestore, false},
		{"citizen restore", citizen, ActionRestore, false},
		{"admin restore", admin, ActionRestore, true},
		{"admin force_delete", admin, ActionForceDelete, true},
		{"citizen force_delete", citizen, ActionForceDelete, false},
		{"roleless create", roleless, ActionCreate, false},
		{"unknown action", admin, Action("publish"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanDepartment(tc.subject, tc.action); got != tc.want {
				t.Fatalf("CanDepartment(%v) = %v, want %v", tc.action, got, tc.want)
			}
		})
	}
}

func TestCanUser(t *testing.T) {
	admin := subject("admin", domain.RoleAdministrator)
	staff := subject("staff", domain.RoleStaff)
	citizen := subject("cit", domain.RoleCitizen)
	roleless := subject("none", "")
	other := subject("other", domain.RoleCitizen)

	cases := []struct {
		name    string
		subject *domain.User
		action  Action
		target  *domain.User
		want    bool
	}{
		{"admin view_any", admin, ActionViewAny, nil, true},
		{"staff view_any", staff, ActionViewAny, nil, true},
		{"citizen view_any", citizen, ActionViewAny, nil, false},
		{"roleless view_any", roleless, ActionViewAny, nil, false},
		{"staff view other", staff, ActionView, other, true},
		{"citizen view self", citizen, ActionView, citizen, true},
		{"citizen view other", citizen, ActionView, other, false},
		{"admin create", admin, ActionCreate, nil, true},
		{"staff create", staff, ActionCreate, nil, false},
		{"admin update other", admin, ActionUpdate, other, true},
		{"citizen update self", citizen, ActionUpdate, citizen, true},
		{"staff update other", staff, ActionUpdate, other, false},
		{"admin delete other", admin, ActionDelete, other, true},
		{"admin delete self", admin, ActionDelete, admin, false},
		{"staff delete other", staff, ActionDelete, other, false},
		{"admin force_delete self", admin, ActionForceDelete, admin, false},
		{"admin force_delete other", admin, ActionForceDelete, other, true},
		{"admin restore", admin, ActionRestore, other, true},
		{"citizen restore", citizen, ActionRestore, other, false},
		{"admin manage_roles", admin, ActionManageRoles, nil, true},
		{"staff manage_roles", staff, ActionManageRoles, nil, false},
		{"admin assign_role", admin, ActionAssignRole, nil, true},
		{"roleless everything", roleless, ActionUpdate, other, false},
		{"unknown action", admin, Action("impersonate"), other, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanUser(tc.subject, tc.action, tc.target); got != tc.want {
				t.Fatalf("CanUser(%v) = %v, want %v", tc.action, got, tc.want)
			}
		})
	}
}

// Roleless subjects can still update their own profile: ownership rules are
// independent of role-gated capabilities.
func TestCanUser_RolelessSelfOwnership(t *testing.T) {
	roleless := subject("none", "")
	if !CanUser(roleless, ActionUpdate, roleless) {
		t.Fatalf("expected roleless self-update to be allowed")
	}
	if !CanUser(roleless, ActionView, roleless) {
		t.Fatalf("expected roleless self-view to be allowed")
	}
}
