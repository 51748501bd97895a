package domain

import "time"

// User models an authenticated actor in the system.
// PasswordHash is a one-way bcrypt digest and is never serialized.
type User struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	RoleID          string     `json:"-"`
	Role            *Role      `json:"role,omitempty"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

// RoleName returns the user's role name, or "" when no role is assigned.
func (u *User) RoleName() RoleName {
	if u == nil || u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(name RoleName) bool {
	return u.RoleName() == name
}

// HasAnyRole reports whether the user holds one of the given roles.
// A user without a role matches nothing.
func (u *User) HasAnyRole(names ...RoleName) bool {
	current := u.RoleName()
	if current == "" {
		return false
	}
	for _, n := range names {
		if current == n {
			return true
		}
	}
	return false
}

// IsAdministrator reports whether the user holds the administrator role.
func (u *User) IsAdministrator() bool {
	return u.HasRole(RoleAdministrator)
}

// Trashed reports whether the user is soft-deleted.
func (u *User) Trashed() bool {
	return u != nil && u.DeletedAt != nil
}
