package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/philly/chirp/internal/platform/postgres"
	"github.com/philly/chirp/internal/posts/domain"
	"github.com/philly/chirp/internal/posts/ports"
)

// PostRepository implements the posts.PostRepository interface using PostgreSQL
type PostRepository struct {
	postgres.BaseRepository
}

// NewPostRepository creates a new PostgreSQL posts repository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

// WithTx creates a new repository instance that uses the provided transaction
func (r *PostRepository) WithTx(tx pgx.Tx) *PostRepository {
	return &PostRepository{
		BaseRepository: r.BaseRepository.WithTx(tx),
	}
}

// Create inserts a new post into the database
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	query, args, err := r.SB.
		Insert("posts").
		Columns("id", "content", "author_id", "created_at").
		Values(
			pgtype.UUID{Bytes: post.ID, Valid: true},
			post.Content,
			pgtype.UUID{Bytes: post.AuthorID, Valid: true},
			pgtype.Timestamptz{Time: post.CreatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("PostRepository.Create: build query: %w", err)
	}

	if _, err := r.DB.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("PostRepository.Create: %w", err)
	}
	return nil
}

// FindByID retrieves a post with its author
func (r *PostRepository) FindByID(ctx context.Context, id uuid.UUID) (*ports.PostWithAuthor, error) {
	row, err := r.QueryRowBuilder(ctx, r.selectWithAuthor().
		Where(sq.Eq{"p.id": pgtype.UUID{Bytes: id, Valid: true}}))
	if err != nil {
		return nil, fmt.Errorf("PostRepository.FindByID: build query: %w", err)
	}

	post, err := scanPostWithAuthor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrPostNotFound
		}
		return nil, fmt.Errorf("PostRepository.FindByID: %w", err)
	}
	return post, nil
}

// ListRecent returns the newest posts first
func (r *PostRepository) ListRecent(ctx context.Context, limit int) ([]*ports.PostWithAuthor, error) {
	return r.list(ctx, "PostRepository.ListRecent", r.selectWithAuthor(), limit)
}

// ListByAuthor returns one author's posts, newest first
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*ports.PostWithAuthor, error) {
	qb := r.selectWithAuthor().Where(sq.Eq{"p.author_id": pgtype.UUID{Bytes: authorID, Valid: true}})
	return r.list(ctx, "PostRepository.ListByAuthor", qb, limit)
}

func (r *PostRepository) list(ctx context.Context, op string, qb sq.SelectBuilder, limit int) ([]*ports.PostWithAuthor, error) {
	qb = qb.OrderBy("p.created_at DESC", "p.id DESC")
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}

	rows, err := r.QueryBuilder(ctx, qb)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	posts := make([]*ports.PostWithAuthor, 0)
	for rows.Next() {
		post, err := scanPostWithAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}
	return posts, nil
}

// selectWithAuthor left-joins users so a missing author surfaces as
// ErrAuthorNotFound instead of silently dropping the post.
func (r *PostRepository) selectWithAuthor() sq.SelectBuilder {
	return r.SB.Select(
		"p.id", "p.content", "p.author_id", "p.created_at",
		"u.id", "u.username", "u.profile_image_url",
	).
		From("posts p").
		LeftJoin("users u ON u.id = p.author_id")
}

func scanPostWithAuthor(row pgx.Row) (*ports.PostWithAuthor, error) {
	var (
		postID, authorID, userID pgtype.UUID
		content                  string
		createdAt                time.Time
		username, imageURL       pgtype.Text
	)

	if err := row.Scan(&postID, &content, &authorID, &createdAt, &userID, &username, &imageURL); err != nil {
		return nil, err
	}

	if !userID.Valid {
		return nil, fmt.Errorf("post %s: %w", uuid.UUID(postID.Bytes), ports.ErrAuthorNotFound)
	}

	return &ports.PostWithAuthor{
		Post: domain.Post{
			ID:        uuid.UUID(postID.Bytes),
			Content:   content,
			AuthorID:  uuid.UUID(authorID.Bytes),
			CreatedAt: createdAt,
		},
		Author: ports.Author{
			ID:              uuid.UUID(userID.Bytes),
			Username:        username.String,
			ProfileImageURL: imageURL.String,
		},
	}, nil
}

// Compile-time check to ensure PostRepository implements ports.PostRepository
var _ ports.PostRepository = (*PostRepository)(nil)
