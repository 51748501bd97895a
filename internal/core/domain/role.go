package domain

import "time"

// RoleName identifies one of the fixed system roles. The set is closed:
// every authorization decision switches exhaustively over these values.
type RoleName string

const (
	RoleAdministrator RoleName = "administrator"
	RoleStaff         RoleName = "staff"
	RoleCitizen       RoleName = "citizen"
)

// SystemRoles lists every valid role name, in seed order.
var SystemRoles = []RoleName{RoleAdministrator, RoleStaff, RoleCitizen}

// IsValid reports whether r is one of the fixed system roles.
func (r RoleName) IsValid() bool {
	switch r {
	case RoleAdministrator, RoleStaff, RoleCitizen:
		return true
	}
	return false
}

// Role is a reference entity seeded at bootstrap and referenced by users.
// Roles are never deleted while users hold them; a user losing its role is
// expressed by clearing the reference, not by removing the role row.
type Role struct {
	ID          string    `json:"id"`
	Name        RoleName  `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
