package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/infogov/infogov-api/internal/core/domain"
)

// RequireRole enforces route-level role gating against a fixed allow-list.
// It runs after Auth and before any entity-level policy check; both layers
// must independently allow the request. A subject without a role is denied
// here even when otherwise authenticated.
func RequireRole(allowed ...domain.RoleName) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(UserContextKey).(*domain.User)
			if user == nil {
				return domain.ErrUnauthenticated
			}
			if !user.HasAnyRole(allowed...) {
				return domain.Forbidden(user, allowed...)
			}
			return next(c)
		}
	}
}
