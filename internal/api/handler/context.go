package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/infogov/infogov-api/internal/api/middleware"
	"github.com/infogov/infogov-api/internal/core/domain"
)

// currentUser extracts the subject injected by the Auth middleware and
// performs a fast-fail check before any service call: a missing subject
// means the route was wired without the middleware.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.UserContextKey).(*domain.User)
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// presentedToken returns the raw bearer token the Auth middleware validated.
func presentedToken(c echo.Context) string {
	token, _ := c.Get(middleware.TokenContextKey).(string)
	return token
}
