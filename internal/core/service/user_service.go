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

// UserService orchestrates the user lifecycle: role resolution through the
// registry, password handling, and persistence through the repository.
type UserService struct {
	repo     ports.UserRepository
	registry ports.RoleRegistry
	logger   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, registry ports.RoleRegistry, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, registry: registry, logger: logger}
}

// Create registers a new user: roles resolved first, password hashed, then
// one persist. A registry integrity failure passes through unchanged (it
// signals a defect, not a save problem); any other failure after role
// validation wraps as domain.ErrUserSave.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	roles, err := s.registry.ValidateRoles(ctx, input.Roles)
	if err != nil {
		return nil, err
	}

	hash, err := EncodePassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUserSave, err)
	}

	user := &domain.User{
		Name:         input.Name,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Email:        input.Email,
		PasswordHash: hash,
		Roles:        roles,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("user", input.Name).Msg("failed to save user")
		return nil, fmt.Errorf("%w: %w", domain.ErrUserSave, err)
	}

	s.logger.Info().Str("user_id", created.ID).Str("user", created.Name).Msg("user created")
	metrics.UsersCreatedTotal.Inc()
	return created, nil
}

// Update modifies an existing user. The existing record is loaded first so a
// request that omits the password keeps the stored hash.
func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrUserUpdate, err)
	}

	roles, err := s.registry.ValidateRoles(ctx, input.Roles)
	if err != nil {
		return nil, err
	}

	hash, err := ProcessPassword(existing.PasswordHash, input.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUserUpdate, err)
	}

	user := &domain.User{
		ID:           id,
		Name:         input.Name,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Email:        input.Email,
		PasswordHash: hash,
		Roles:        roles,
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to update user")
		return nil, fmt.Errorf("%w: %w", domain.ErrUserUpdate, err)
	}

	s.logger.Info().Str("user_id", id).Msg("user updated")
	return updated, nil
}

// Delete removes a user by id. The store never sees a delete for a missing
// id: existence is verified first.
func (s *UserService) Delete(ctx context.Context, id string) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check user %s: %w", id, err)
	}
	if !exists {
		return notFound(id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// List returns all users ordered by id ascending.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.FindAll(ctx)
}

// ListByRole returns the users holding roleName, ordered by id ascending.
func (s *UserService) ListByRole(ctx context.Context, roleName string) ([]*domain.User, error) {
	return s.repo.FindByRole(ctx, roleName)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, notFound(id)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByName(ctx context.Context, name string) (*domain.User, error) {
	return s.repo.FindByName(ctx, name)
}

// notFound decorates ErrUserNotFound with the offending id; the HTTP layer
// surfaces the message verbatim.
func notFound(id string) error {
	return fmt.Errorf("user with id %s: %w", id, domain.ErrUserNotFound)
}
