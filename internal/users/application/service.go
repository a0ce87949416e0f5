package application

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/philly/chirp/internal/platform/apperror"
	"github.com/philly/chirp/internal/platform/logger"
	"github.com/philly/chirp/internal/platform/validator"
	"github.com/philly/chirp/internal/users/domain"
	"github.com/philly/chirp/internal/users/ports"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		apperror.BusinessCodeUserNotFound,
		"user not found",
		http.StatusNotFound,
	)

	ErrInvalidIdentity = apperror.New(
		apperror.CodeUnauthorized,
		apperror.BusinessCodeNotAuthenticated,
		"identity is missing a subject",
		http.StatusUnauthorized,
	)

	ErrUsernameUnavailable = apperror.New(
		apperror.CodeConflict,
		apperror.BusinessCodeUsernameTaken,
		"unable to allocate a unique username",
		http.StatusConflict,
	)
)

// maxUsernameAttempts bounds the suffix search for a free username.
const maxUsernameAttempts = 100

// SyncIdentityParams carries the identity-provider claims for one user.
type SyncIdentityParams struct {
	ExternalID      string
	Username        string
	ProfileImageURL string
}

type UserService struct {
	repo   ports.UserRepository
	logger logger.Logger
	now    func() time.Time
}

func NewUserService(repo ports.UserRepository, logger logger.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// SyncIdentity makes sure a local user exists for the identity and that its
// username and image follow the latest claims. It is safe to call on every
// authenticated request.
func (s *UserService) SyncIdentity(ctx context.Context, params SyncIdentityParams) (*domain.User, error) {
	if params.ExternalID == "" {
		return nil, ErrInvalidIdentity
	}

	user, err := s.repo.FindByExternalID(ctx, params.ExternalID)
	switch {
	case err == nil:
		return s.refresh(ctx, user, params)
	case errors.Is(err, ports.ErrUserNotFound):
		return s.create(ctx, params)
	default:
		return nil, s.internal(ctx, err, "failed to find user by external ID")
	}
}

func (s *UserService) create(ctx context.Context, params SyncIdentityParams) (*domain.User, error) {
	username, err := s.uniqueUsername(ctx, baseUsername(params), "")
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(params.ExternalID, username, params.ProfileImageURL, s.now())
	if err != nil {
		return nil, s.internal(ctx, err, "failed to build user")
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ports.ErrExternalIDTaken) {
			// a concurrent request created the row first
			existing, findErr := s.repo.FindByExternalID(ctx, params.ExternalID)
			if findErr != nil {
				return nil, s.internal(ctx, findErr, "failed to reload user")
			}
			return existing, nil
		}
		if errors.Is(err, ports.ErrUsernameTaken) {
			return nil, ErrUsernameUnavailable.WithInner(err)
		}
		return nil, s.internal(ctx, err, "failed to save user")
	}

	s.logger.Info(ctx, "user created from identity", "userID", user.ID, "username", user.Username)
	return user, nil
}

func (s *UserService) refresh(ctx context.Context, user *domain.User, params SyncIdentityParams) (*domain.User, error) {
	username := ""
	if desired := validator.NormalizeUsername(params.Username); desired != "" && desired != user.Username {
		var err error
		username, err = s.uniqueUsername(ctx, desired, user.Username)
		if err != nil {
			return nil, err
		}
	}

	changed, err := user.UpdateProfile(username, params.ProfileImageURL, s.now())
	if err != nil {
		return nil, s.internal(ctx, err, "failed to update user profile")
	}
	if !changed {
		return user, nil
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, ports.ErrUsernameTaken) {
			return nil, ErrUsernameUnavailable.WithInner(err)
		}
		return nil, s.internal(ctx, err, "failed to update user")
	}
	return user, nil
}

// uniqueUsername returns base or base-N, skipping names owned by others.
// current is the caller's own username, which never counts as taken.
func (s *UserService) uniqueUsername(ctx context.Context, base, current string) (string, error) {
	for suffix := 0; suffix < maxUsernameAttempts; suffix++ {
		candidate := validator.WithSuffix(base, suffix)
		if candidate == current {
			return candidate, nil
		}
		exists, err := s.repo.ExistsByUsername(ctx, candidate)
		if err != nil {
			return "", s.internal(ctx, err, "failed to check username availability")
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrUsernameUnavailable
}

func baseUsername(params SyncIdentityParams) string {
	if name := validator.NormalizeUsername(params.Username); name != "" {
		return name
	}
	if name := validator.NormalizeUsername(strings.TrimPrefix(params.ExternalID, "user_")); name != "" {
		return validator.NormalizeUsername("user-" + name)
	}
	return "user"
}

// GetByUsername resolves a public profile by handle.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	username = strings.TrimPrefix(username, "@")
	if err := validator.ValidateUsername(username); err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, s.internal(ctx, err, "failed to find user by username")
	}
	return user, nil
}

// GetByID resolves a user by internal ID.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, s.internal(ctx, err, "failed to find user")
	}
	return user, nil
}

func (s *UserService) internal(ctx context.Context, err error, msg string) error {
	s.logger.Error(ctx, msg, "error", err)
	return apperror.Wrap(
		err,
		apperror.CodeInternalError,
		apperror.BusinessCodeGeneral,
		msg,
		http.StatusInternalServerError,
	)
}
