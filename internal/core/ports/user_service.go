package ports

import (
	"context"

	"github.com/kataops/identity-api/internal/core/domain"
)

// CreateUserInput carries the fields accepted when registering a user.
// Roles are names; they are resolved to entities by the role registry
// before anything touches the store.
type CreateUserInput struct {
	Name     string
	LastName string
	Phone    string
	Email    string
	Password string
	Roles    []string
}

// UpdateUserInput mirrors CreateUserInput for updates. An empty Password
// keeps the existing credential untouched.
type UpdateUserInput struct {
	Name     string
	LastName string
	Phone    string
	Email    string
	Password string
	Roles    []string
}

// UserService orchestrates user lifecycle: role resolution, password
// handling, and persistence.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.User, error)
	// ListByRole returns the users holding the named role, computed by
	// query rather than a stored back-pointer.
	ListByRole(ctx context.Context, roleName string) ([]*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByName(ctx context.Context, name string) (*domain.User, error)
}
