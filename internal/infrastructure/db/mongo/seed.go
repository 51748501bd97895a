package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/infogov/infogov-api/internal/core/domain"
)

// roleDescriptions is the bootstrap reference data for the closed role set.
var roleDescriptions = map[domain.RoleName]string{
	domain.RoleAdministrator: "Full system access. Manages users, roles and every resource.",
	domain.RoleStaff:         "Government staff with access to internal listings and processes.",
	domain.RoleCitizen:       "Citizen with basic access to public digital services.",
}

// SeedConfig carries the initial administrator credentials.
type SeedConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Seed upserts the fixed roles and, when configured, the initial
// administrator account. Idempotent: reruns never duplicate rows and never
// overwrite an existing administrator's password.
func Seed(ctx context.Context, roles *RoleRepository, users *UserRepository, cfg SeedConfig, log zerolog.Logger) error {
	var adminRole *domain.Role
	for _, name := range domain.SystemRoles {
		role, err := roles.Upsert(ctx, &domain.Role{
			Name:        name,
			Description: roleDescriptions[name],
		})
		if err != nil {
			return err
		}
		if name == domain.RoleAdministrator {
			adminRole = role
		}
	}
	log.Info().Msg("roles seeded")

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	if _, err := users.FindByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	name := cfg.AdminName
	if name == "" {
		name = "Administrator"
	}
	admin, err := users.Create(ctx, &domain.User{
		Name:            name,
		Email:           cfg.AdminEmail,
		PasswordHash:    string(hash),
		RoleID:          adminRole.ID,
		Role:            adminRole,
		EmailVerifiedAt: &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		// Concurrent bootstrap of another replica may win the insert.
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil
		}
		return err
	}

	log.Info().Str("user_id", admin.ID).Str("email", admin.Email).Msg("administrator seeded")
	return nil
}
