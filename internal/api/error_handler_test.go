package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/infogov/infogov-api/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_ValidationError(t *testing.T) {
	ve := domain.NewValidationError()
	ve.Add("email", "email already taken")
	ve.Add("password", "must be at least 6 characters")

	code, body := renderError(t, ve)
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
	fields, _ := body["errors"].(map[string]any)
	if len(fields) != 2 {
		t.Fatalf("expected both violations reported, got %v", body["errors"])
	}
}

func TestErrorHandler_ForbiddenDiagnostics(t *testing.T) {
	subject := &domain.User{Role: &domain.Role{Name: domain.RoleCitizen}}
	code, body := renderError(t, domain.Forbidden(subject, domain.RoleAdministrator))

	if code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
	data, _ := body["data"].(map[string]any)
	if data == nil {
		t.Fatalf("expected diagnostics in data, got %v", body)
	}
	if data["user_role"] != "citizen" {
		t.Fatalf("expected user_role citizen, got %v", data["user_role"])
	}
	required, _ := data["required_roles"].([]any)
	if len(required) != 1 || required[0] != "administrator" {
		t.Fatalf("unexpected required_roles: %v", data["required_roles"])
	}
}

func TestErrorHandler_SentinelMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrTokenNotFound, http.StatusUnauthorized},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrDepartmentNotFound, http.StatusNotFound},
		{domain.ErrRoleNotFound, http.StatusNotFound},
		{domain.ErrEmailTaken, http.StatusUnprocessableEntity},
		{domain.ErrCodeTaken, http.StatusUnprocessableEntity},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		code, body := renderError(t, tc.err)
		if code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
		if body["success"] != false {
			t.Fatalf("%v: expected success=false", tc.err)
		}
	}
}

func TestErrorHandler_InternalErrorHidesCause(t *testing.T) {
	_, body := renderError(t, errors.New("pq: connection refused at 10.0.0.3"))
	if body["message"] != "internal server error" {
		t.Fatalf("internal cause leaked: %v", body["message"])
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, body := renderError(t, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"))
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if body["message"] != "missing authorization header" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}
