package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kataops/identity-api/internal/api/metrics"
	"github.com/kataops/identity-api/internal/core/domain"
	"github.com/kataops/identity-api/internal/core/ports"
)

// RoleRegistry implements get-or-create resolution of roles by name.
//
// The create path is a check-then-act race: two callers can both miss the
// lookup and both attempt the insert. The store's unique index lets exactly
// one insert win; the loser re-reads instead of holding a lock, so the
// common path stays lock-free at the cost of one extra read on conflict.
type RoleRegistry struct {
	repo   ports.RoleRepository
	logger zerolog.Logger
}

func NewRoleRegistry(repo ports.RoleRepository, logger zerolog.Logger) *RoleRegistry {
	return &RoleRegistry{repo: repo, logger: logger}
}

// Resolve returns the role named name, creating it when absent. A
// uniqueness conflict on the insert triggers a single retry of the lookup;
// if that retry still finds nothing the store's invariants are broken and
// domain.ErrRoleIntegrity surfaces.
func (r *RoleRegistry) Resolve(ctx context.Context, name string) (*domain.Role, error) {
	role, err := r.repo.FindByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, domain.ErrRoleNotFound) {
		return nil, fmt.Errorf("find role %q: %w", name, err)
	}

	created, err := r.repo.Create(ctx, &domain.Role{Name: name})
	if err == nil {
		r.logger.Info().Str("role", name).Msg("role created")
		metrics.RolesCreatedTotal.WithLabelValues(name).Inc()
		return created, nil
	}
	if !errors.Is(err, domain.ErrRoleExists) {
		return nil, fmt.Errorf("create role %q: %w", name, err)
	}

	// Another writer won the insert race; the role must exist now.
	role, err = r.repo.FindByName(ctx, name)
	if err != nil {
		r.logger.Error().Str("role", name).Msg("role absent after uniqueness conflict")
		return nil, fmt.Errorf("role %q: %w", name, domain.ErrRoleIntegrity)
	}
	return role, nil
}

// ValidateRoles resolves every name and returns the set deduplicated by
// role id. Order follows first occurrence in names.
func (r *RoleRegistry) ValidateRoles(ctx context.Context, names []string) ([]domain.Role, error) {
	seen := make(map[string]struct{}, len(names))
	roles := make([]domain.Role, 0, len(names))
	for _, name := range names {
		role, err := r.Resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[role.ID]; dup {
			continue
		}
		seen[role.ID] = struct{}{}
		roles = append(roles, *role)
	}
	return roles, nil
}
