package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/philly/chirp/internal/users/domain"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when a unique username constraint is violated
	ErrUsernameTaken = errors.New("username already taken")

	// ErrExternalIDTaken is returned when a user for the external ID already exists
	ErrExternalIDTaken = errors.New("user for external ID already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
