package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/infogov/infogov-api/internal/api/metrics"
	"github.com/infogov/infogov-api/internal/core/domain"
)

// errorBody is the error shape of the uniform envelope.
type errorBody struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// forbiddenDetail carries the diagnostics rendered on 403 responses.
type forbiddenDetail struct {
	RequiredRoles []domain.RoleName `json:"required_roles"`
	UserRole      domain.RoleName   `json:"user_role,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the uniform envelope: {"success": false, "message": ..., "errors": ...}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorBody) {
	// Structured domain errors first: they carry their own payload.
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorBody{
			Message: "validation failed",
			Errors:  ve.Fields,
		}
	}

	var fe *domain.ForbiddenError
	if errors.As(err, &fe) {
		metrics.PolicyDenialsTotal.Inc()
		return http.StatusForbidden, errorBody{
			Message: "access denied: insufficient role",
			Data: forbiddenDetail{
				RequiredRoles: fe.RequiredRoles,
				UserRole:      fe.UserRole,
			},
		}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusForbidden {
			metrics.PolicyDenialsTotal.Inc()
		}
		return he.Code, errorBody{Message: fmt.Sprintf("%v", he.Message)}
	}

	// Known sentinel errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorBody{Message: "invalid credentials"}
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrTokenNotFound):
		return http.StatusUnauthorized, errorBody{Message: "unauthenticated"}
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, errorBody{Message: "too many login attempts, retry later"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorBody{Message: "user not found"}
	case errors.Is(err, domain.ErrDepartmentNotFound):
		return http.StatusNotFound, errorBody{Message: "department not found"}
	case errors.Is(err, domain.ErrRoleNotFound):
		return http.StatusNotFound, errorBody{Message: "role not found"}
	case errors.Is(err, domain.ErrEmailTaken):
		// Duplicates surface as validation, not 409.
		return http.StatusUnprocessableEntity, errorBody{
			Message: "validation failed",
			Errors:  map[string][]string{"email": {"email already taken"}},
		}
	case errors.Is(err, domain.ErrCodeTaken):
		return http.StatusUnprocessableEntity, errorBody{
			Message: "validation failed",
			Errors:  map[string][]string{"code": {"code already taken"}},
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorBody{Message: "internal server error"}
}
