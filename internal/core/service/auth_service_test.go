package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/infogov/infogov-api/internal/core/domain"
	"github.com/infogov/infogov-api/internal/core/ports"
)

func newAuthService(users *stubUserRepo, roles *stubRoleRepo, tokens *stubTokenRepo, throttle ports.LoginThrottle) *AuthService {
	return NewAuthService(users, roles, tokens, throttle, zerolog.Nop())
}

func TestAuthService_Register_HashesPasswordAndLowercasesEmail(t *testing.T) {
	users := newStubUserRepo()
	svc := newAuthService(users, newStubRoleRepo(), newStubTokenRepo(), nil)

	result, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Ana Torres",
		Email:    "Ana.Torres@Example.GOV",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if result.User.Email != "ana.torres@example.gov" {
		t.Fatalf("expected lowercased email, got %q", result.User.Email)
	}
	if result.User.PasswordHash == "secret123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte("secret123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a token to be issued at registration")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	users := newStubUserRepo()
	svc := newAuthService(users, newStubRoleRepo(), newStubTokenRepo(), nil)

	input := ports.RegisterInput{Name: "Ana", Email: "ana@example.gov", Password: "secret123"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(context.Background(), input)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields["email"]) == 0 {
		t.Fatalf("expected an email violation, got %v", ve.Fields)
	}
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), newStubRoleRepo(), newStubTokenRepo(), nil)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Ana",
		Email:    "ana@example.gov",
		Password: "secret123",
		RoleID:   "missing",
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields["role_id"]) == 0 {
		t.Fatalf("expected a role_id violation, got %v", ve.Fields)
	}
}

// Self-registration accepts any existing role, including administrator.
// Locking this down is a deployment decision, not enforced here.
func TestAuthService_Register_AcceptsAnySystemRole(t *testing.T) {
	roles := newStubRoleRepo()
	svc := newAuthService(newStubUserRepo(), roles, newStubTokenRepo(), nil)

	result, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Ana",
		Email:    "ana@example.gov",
		Password: "secret123",
		RoleID:   roles.roleID(domain.RoleAdministrator),
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if !result.User.IsAdministrator() {
		t.Fatalf("expected administrator role, got %q", result.User.RoleName())
	}
}

func TestAuthService_Login_GenericFailure(t *testing.T) {
	users := newStubUserRepo()
	svc := newAuthService(users, newStubRoleRepo(), newStubTokenRepo(), nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ana", Email: "ana@example.gov", Password: "secret123",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Unknown email and wrong password must be indistinguishable.
	if _, err := svc.Login(context.Background(), "nobody@example.gov", "secret123"); err != domain.ErrInvalidCredentials {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ana@example.gov", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_ThrottledAfterRepeatedFailures(t *testing.T) {
	throttle := newStubThrottle(3)
	svc := newAuthService(newStubUserRepo(), newStubRoleRepo(), newStubTokenRepo(), throttle)

	for i := 0; i < 3; i++ {
		if _, err := svc.Login(context.Background(), "ana@example.gov", "wrong"); err != domain.ErrInvalidCredentials {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	if _, err := svc.Login(context.Background(), "ana@example.gov", "wrong"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_ClearsThrottleOnSuccess(t *testing.T) {
	throttle := newStubThrottle(3)
	svc := newAuthService(newStubUserRepo(), newStubRoleRepo(), newStubTokenRepo(), throttle)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ana", Email: "ana@example.gov", Password: "secret123",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		_, _ = svc.Login(context.Background(), "ana@example.gov", "wrong")
	}
	if _, err := svc.Login(context.Background(), "ana@example.gov", "secret123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if throttle.failures["ana@example.gov"] != 0 {
		t.Fatalf("expected failure counter cleared, got %d", throttle.failures["ana@example.gov"])
	}
}

func TestAuthService_TokenLifecycle(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), newStubRoleRepo(), newStubTokenRepo(), nil)

	result, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ana", Email: "ana@example.gov", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if user.ID != result.User.ID {
		t.Fatalf("authenticated as %q, expected %q", user.ID, result.User.ID)
	}

	if err := svc.Logout(context.Background(), result.Token); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	// Revoked tokens die immediately, and a second logout finds nothing.
	if _, err := svc.Authenticate(context.Background(), result.Token); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated after revocation, got %v", err)
	}
	if err := svc.Logout(context.Background(), result.Token); err != domain.ErrUnauthenticated {
		t.Fatalf("second logout: expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthService_Logout_LeavesSiblingTokensAlive(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), newStubRoleRepo(), newStubTokenRepo(), nil)

	first, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ana", Email: "ana@example.gov", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	second, err := svc.Login(context.Background(), "ana@example.gov", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if first.Token == second.Token {
		t.Fatalf("expected distinct tokens per session")
	}

	if err := svc.Logout(context.Background(), first.Token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), second.Token); err != nil {
		t.Fatalf("sibling token should stay valid, got %v", err)
	}
}

func TestAuthService_Authenticate_RejectsMalformedAndTampered(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), newStubRoleRepo(), newStubTokenRepo(), nil)

	result, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ana", Email: "ana@example.gov", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	id, _, _ := strings.Cut(result.Token, "|")
	for _, token := range []string{
		"",
		"garbage",
		"|secret-only",
		id + "|",
		id + "|" + strings.Repeat("0", 40),
	} {
		if _, err := svc.Authenticate(context.Background(), token); err != domain.ErrUnauthenticated {
			t.Fatalf("token %q: expected ErrUnauthenticated, got %v", token, err)
		}
	}
}

func TestAuthService_Authenticate_RejectsSoftDeletedUser(t *testing.T) {
	users := newStubUserRepo()
	svc := newAuthService(users, newStubRoleRepo(), newStubTokenRepo(), nil)

	result, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ana", Email: "ana@example.gov", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := users.SoftDelete(context.Background(), result.User.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), result.Token); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated for trashed user, got %v", err)
	}
}
