package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/philly/chirp/internal/platform/postgres"
	"github.com/philly/chirp/internal/users/domain"
	"github.com/philly/chirp/internal/users/ports"
)

const (
	uniqueViolation           = "23505"
	usersExternalIDConstraint = "users_external_id_key"
	usersUsernameConstraint   = "users_username_key"
)

var userColumns = []string{"id", "external_id", "username", "profile_image_url", "created_at", "updated_at"}

type UserRepository struct {
	postgres.BaseRepository
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		BaseRepository: postgres.NewBaseRepository(pool),
	}
}

// WithTx creates a new repository instance that uses the provided transaction
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	return &UserRepository{
		BaseRepository: r.BaseRepository.WithTx(tx),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query, args, err := r.SB.
		Insert("users").
		Columns(userColumns...).
		Values(
			pgtype.UUID{Bytes: user.ID, Valid: true},
			user.ExternalID,
			user.Username,
			user.ProfileImageURL,
			pgtype.Timestamptz{Time: user.CreatedAt, Valid: true},
			pgtype.Timestamptz{Time: user.UpdatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("UserRepository.Create: build query: %w", err)
	}

	if _, err := r.DB.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("UserRepository.Create: %w", translateUniqueViolation(err))
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query, args, err := r.SB.
		Update("users").
		Set("username", user.Username).
		Set("profile_image_url", user.ProfileImageURL).
		Set("updated_at", pgtype.Timestamptz{Time: user.UpdatedAt, Valid: true}).
		Where(sq.Eq{"id": pgtype.UUID{Bytes: user.ID, Valid: true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("UserRepository.Update: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("UserRepository.Update: %w", translateUniqueViolation(err))
	}
	if result.RowsAffected() == 0 {
		return ports.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, "UserRepository.FindByID", sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}})
}

func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	return r.findOne(ctx, "UserRepository.FindByExternalID", sq.Eq{"external_id": externalID})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "UserRepository.FindByUsername", sq.Eq{"username": username})
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	sub, args, err := r.SB.Select("1").From("users").Where(sq.Eq{"username": username}).ToSql()
	if err != nil {
		return false, fmt.Errorf("UserRepository.ExistsByUsername: build query: %w", err)
	}

	var exists bool
	if err := r.DB.QueryRow(ctx, "SELECT EXISTS("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("UserRepository.ExistsByUsername: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) findOne(ctx context.Context, op string, where sq.Sqlizer) (*domain.User, error) {
	row, err := r.QueryRowBuilder(ctx, r.SB.Select(userColumns...).From("users").Where(where))
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user domain.User
		id   pgtype.UUID
	)
	if err := row.Scan(&id, &user.ExternalID, &user.Username, &user.ProfileImageURL, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	user.ID = uuid.UUID(id.Bytes)
	return &user, nil
}

// translateUniqueViolation maps unique-constraint failures to port errors.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case usersExternalIDConstraint:
		return fmt.Errorf("%w: %w", ports.ErrExternalIDTaken, err)
	case usersUsernameConstraint:
		return fmt.Errorf("%w: %w", ports.ErrUsernameTaken, err)
	}
	return err
}

var _ ports.UserRepository = (*UserRepository)(nil)
