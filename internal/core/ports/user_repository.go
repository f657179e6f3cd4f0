package ports

import (
	"context"

	"github.com/kataops/identity-api/internal/core/domain"
)

// UserRepository defines persistence operations for users. Deleting a user
// removes its role associations but never the referenced roles.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByName(ctx context.Context, name string) (*domain.User, error)
	// FindAll returns every user ordered by id ascending.
	FindAll(ctx context.Context) ([]*domain.User, error)
	// FindByRole computes the reverse view "which users hold this role"
	// with a query; it is never stored as a back-pointer.
	FindByRole(ctx context.Context, roleName string) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// RoleRepository defines persistence operations for roles. There is no
// delete: roles outlive the users that reference them.
type RoleRepository interface {
	// Create inserts a role and returns domain.ErrRoleExists when another
	// writer already created the same name.
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	FindAll(ctx context.Context) ([]*domain.Role, error)
}
