package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kataops/identity-api/internal/core/domain"
	"github.com/kataops/identity-api/internal/core/ports"
)

// Bootstrap seeds the base roles and an initial admin account so a fresh
// deployment can be administered at all. Idempotent: existing records are
// left alone.
func Bootstrap(ctx context.Context, users ports.UserService, registry ports.RoleRegistry, adminName, adminPassword string, logger zerolog.Logger) error {
	for _, name := range []string{domain.RoleAdmin, domain.RoleUser} {
		if _, err := registry.Resolve(ctx, name); err != nil {
			return fmt.Errorf("bootstrap role %s: %w", name, err)
		}
	}

	if adminName == "" || adminPassword == "" {
		logger.Warn().Msg("bootstrap admin credentials not configured, skipping admin seed")
		return nil
	}

	if _, err := users.GetByName(ctx, adminName); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("bootstrap admin lookup: %w", err)
	}

	_, err := users.Create(ctx, ports.CreateUserInput{
		Name:     adminName,
		LastName: "admin",
		Password: adminPassword,
		Roles:    []string{domain.RoleAdmin},
	})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	logger.Info().Str("user", adminName).Msg("bootstrap admin created")
	return nil
}
