package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUnauthenticated = errors.New("unauthenticated")
var ErrUserNotFound = errors.New("user not found")
var ErrRoleNotFound = errors.New("role not found")
var ErrDepartmentNotFound = errors.New("department not found")
var ErrTokenNotFound = errors.New("token not found")
var ErrEmailTaken = errors.New("email already taken")
var ErrCodeTaken = errors.New("code already taken")
var ErrTooManyAttempts = errors.New("too many login attempts")

// ValidationError aggregates every violated field of a request so callers
// receive all failures at once, keyed by the external field name.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends a message to a field's violation list.
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any violation was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ForbiddenError carries diagnostics for a policy denial: which roles the
// route or action required and which role the subject actually holds.
type ForbiddenError struct {
	RequiredRoles []RoleName
	UserRole      RoleName
}

func (e *ForbiddenError) Error() string {
	return "access forbidden"
}

// Forbidden builds a ForbiddenError for a subject and the roles that would
// have been accepted.
func Forbidden(subject *User, required ...RoleName) *ForbiddenError {
	return &ForbiddenError{RequiredRoles: required, UserRole: subject.RoleName()}
}
