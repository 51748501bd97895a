package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/infogov/infogov-api/internal/api/metrics"
	"github.com/infogov/infogov-api/internal/core/domain"
	"github.com/infogov/infogov-api/internal/core/ports"
)

const tokenSecretBytes = 20

// AuthService implements registration, login and the token lifecycle.
// Tokens are opaque: "<id>|<secret>", with only a sha256 digest of the
// secret at rest, so each session is individually revocable.
type AuthService struct {
	users    ports.UserRepository
	roles    ports.RoleRepository
	tokens   ports.TokenRepository
	throttle ports.LoginThrottle
	logger   zerolog.Logger
}

// NewAuthService builds an AuthService. throttle may be nil, in which case
// login attempts are not rate-limited.
func NewAuthService(users ports.UserRepository, roles ports.RoleRepository, tokens ports.TokenRepository, throttle ports.LoginThrottle, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, roles: roles, tokens: tokens, throttle: throttle, logger: logger}
}

// Register creates an account and issues a first token. The optional RoleID
// is honored without a policy check; there is deliberately no gate on role
// assignment at self-registration.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	now := time.Now().UTC()
	user := &domain.User{
		Name:      input.Name,
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.RoleID != "" {
		role, err := s.roles.FindByID(ctx, input.RoleID)
		if err != nil {
			if errors.Is(err, domain.ErrRoleNotFound) {
				ve := domain.NewValidationError()
				ve.Add("role_id", "the selected role is invalid")
				return nil, ve
			}
			return nil, err
		}
		user.RoleID = role.ID
		user.Role = role
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			ve := domain.NewValidationError()
			ve.Add("email", "email already taken")
			return nil, ve
		}
		return nil, err
	}

	token, err := s.issueToken(ctx, created)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	metrics.RegistrationsTotal.Inc()

	return &ports.AuthResult{User: created, Token: token}, nil
}

// Login validates credentials and issues a fresh token. Unknown email and
// wrong password are indistinguishable to the caller: both return
// domain.ErrInvalidCredentials. Prior tokens stay valid.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if s.throttle != nil {
		blocked, err := s.throttle.TooManyAttempts(ctx, email)
		if err != nil {
			s.logger.Warn().Err(err).Msg("login throttle unavailable")
		} else if blocked {
			metrics.LoginsThrottledTotal.Inc()
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Clear(ctx, email); err != nil {
			s.logger.Warn().Err(err).Msg("login throttle clear failed")
		}
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("login succeeded")
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return &ports.AuthResult{User: user, Token: token}, nil
}

// Authenticate resolves a presented bearer token to its user. Every request
// re-validates against the token store; there is no trusted client cache.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	id, secret, ok := splitToken(token)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	stored, err := s.tokens.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}

	digest := hashTokenSecret(secret)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(stored.TokenHash)) != 1 {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.FindByID(ctx, stored.UserID, false)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}

	if err := s.tokens.TouchLastUsed(ctx, stored.ID, time.Now().UTC()); err != nil {
		s.logger.Warn().Err(err).Str("token_id", stored.ID).Msg("last_used update failed")
	}

	return user, nil
}

// Logout revokes exactly the presented token. A second revocation of the
// same token fails with domain.ErrUnauthenticated: the token is already gone.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	user, err := s.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	id, _, _ := splitToken(token)
	if err := s.tokens.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return domain.ErrUnauthenticated
		}
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Str("token_id", id).Msg("token revoked")
	metrics.TokensRevokedTotal.Inc()
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	metrics.LoginsTotal.WithLabelValues("failure").Inc()
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("login throttle record failed")
	}
}

func (s *AuthService) issueToken(ctx context.Context, user *domain.User) (string, error) {
	secret, err := generateTokenSecret()
	if err != nil {
		return "", err
	}

	created, err := s.tokens.Create(ctx, &domain.AccessToken{
		UserID:    user.ID,
		Name:      "auth_token",
		TokenHash: hashTokenSecret(secret),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}

	metrics.TokensIssuedTotal.Inc()
	return created.ID + "|" + secret, nil
}

// generateTokenSecret returns a random hex secret for the opaque token.
func generateTokenSecret() (string, error) {
	b := make([]byte, tokenSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashTokenSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func splitToken(token string) (id, secret string, ok bool) {
	id, secret, found := strings.Cut(token, "|")
	if !found || id == "" || secret == "" {
		return "", "", false
	}
	return id, secret, true
}
