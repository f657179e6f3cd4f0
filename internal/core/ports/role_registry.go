package ports

import (
	"context"

	"github.com/kataops/identity-api/internal/core/domain"
)

// RoleRegistry resolves role names to role entities, creating missing roles
// lazily and absorbing the concurrent get-or-create race.
type RoleRegistry interface {
	Resolve(ctx context.Context, name string) (*domain.Role, error)
	// ValidateRoles resolves every name and returns the deduplicated set.
	// A user is never stored with an unresolved role name.
	ValidateRoles(ctx context.Context, names []string) ([]domain.Role, error)
}
