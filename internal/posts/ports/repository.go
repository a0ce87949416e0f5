package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/philly/chirp/internal/posts/domain"
)

// Repository errors. The PostgreSQL implementation translates pgx.ErrNoRows
// and unresolved joins to these.
var (
	// ErrPostNotFound is returned when a post cannot be found
	ErrPostNotFound = errors.New("post not found")

	// ErrAuthorNotFound is returned when a post's author row is missing
	ErrAuthorNotFound = errors.New("author for post not found")
)

// Author is the public projection of a user shown next to a post.
type Author struct {
	ID              uuid.UUID
	Username        string
	ProfileImageURL string
}

// PostWithAuthor is a read model joining a post to its author.
type PostWithAuthor struct {
	Post   domain.Post
	Author Author
}

// NoLimit makes a list query return every matching post.
const NoLimit = 0

// PostRepository defines the interface for post persistence
type PostRepository interface {
	// Create saves a new post to the database
	Create(ctx context.Context, post *domain.Post) error

	// FindByID retrieves a post with its author
	FindByID(ctx context.Context, id uuid.UUID) (*PostWithAuthor, error)

	// ListRecent returns the newest posts first. A limit <= 0 returns all of them.
	ListRecent(ctx context.Context, limit int) ([]*PostWithAuthor, error)

	// ListByAuthor returns one author's posts, newest first
	ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*PostWithAuthor, error)
}
