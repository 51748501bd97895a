// Package policy is the authorization engine: pure, deterministic decision
// functions over a closed set of actions. Decisions depend only on the
// subject's role, the subject's id and (for entity checks) the target id —
// never on request state, so they are safe to evaluate in any order.
package policy

import "github.com/infogov/infogov-api/internal/core/domain"

// Action enumerates every authorizable operation. Unlisted actions deny.
type Action string

const (
	ActionViewAny     Action = "view_any"
	ActionView        Action = "view"
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionRestore     Action = "restore"
	ActionForceDelete Action = "force_delete"
	ActionManageRoles Action = "manage_roles"
	ActionAssignRole  Action = "assign_role"
)

// CanDepartment decides whether subject may perform action on departments.
// Any authenticated subject may view; every mutation requires administrator.
func CanDepartment(subject *domain.User, action Action) bool {
	if subject == nil {
		return false
	}

	switch action {
	case ActionViewAny, ActionView:
		return true
	case ActionCreate, ActionUpdate, ActionDelete, ActionRestore, ActionForceDelete:
		return subject.IsAdministrator()
	}
	return false
}

// CanUser decides whether subject may perform action on the target user.
// target may be nil for collection-level actions (view_any, create,
// manage_roles, assign_role).
func CanUser(subject *domain.User, action Action, target *domain.User) bool {
	if subject == nil {
		return false
	}

	switch action {
	case ActionViewAny:
		return subject.HasAnyRole(domain.RoleAdministrator, domain.RoleStaff)
	case ActionView:
		if subject.HasAnyRole(domain.RoleAdministrator, domain.RoleStaff) {
			return true
		}
		return target != nil && subject.ID == target.ID
	case ActionCreate:
		return subject.IsAdministrator()
	case ActionUpdate:
		if subject.IsAdministrator() {
			return true
		}
		return target != nil && subject.ID == target.ID
	case ActionDelete, ActionForceDelete:
		// Administrators cannot remove themselves.
		if !subject.IsAdministrator() {
			return false
		}
		return target != nil && subject.ID != target.ID
	case ActionRestore:
		return subject.IsAdministrator()
	case ActionManageRoles, ActionAssignRole:
		return subject.IsAdministrator()
	}
	return false
}
