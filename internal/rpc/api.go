// Package rpc is the typed boundary between the web tier and the posts API.
// Local calls the services in-process; Client calls a remote API tier over HTTP.
// Both surface failures as *apperror.AppError so callers can read field errors.
package rpc

import (
	"context"
	"net/http"
	"time"

	"github.com/philly/chirp/internal/adapters/auth"
	"github.com/philly/chirp/internal/platform/apperror"
	"github.com/philly/chirp/internal/posts/domain"
	"github.com/philly/chirp/internal/posts/ports"
	userdomain "github.com/philly/chirp/internal/users/domain"
	"github.com/samber/lo"
)

// Route layout shared by the REST handlers and Client.
const (
	Prefix               = "/api/rpc"
	PathGetAll           = "/post.getAll"
	PathGetByID          = "/post.getById"
	PathGetPostsByUserID = "/post.getPostsByUserId"
	PathGetUserByName    = "/profile.getUserByUsername"
	PathCreate           = "/post.create"
)

// Post is the wire form of a post.
type Post struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Author is the public profile shown with a post.
type Author struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// PostWithAuthor pairs a post with its resolved author.
type PostWithAuthor struct {
	Post   Post   `json:"post"`
	Author Author `json:"author"`
}

// CreatePostInput is the body of post.create.
type CreatePostInput struct {
	Content string `json:"content"`
}

// Actor is the signed-in caller of a mutation.
type Actor struct {
	Identity auth.Identity
	// Token is the raw provider token, forwarded by Client.
	Token string
}

// PostsAPI is the query and mutation surface the web tier consumes.
type PostsAPI interface {
	GetAll(ctx context.Context) ([]PostWithAuthor, error)
	GetByID(ctx context.Context, id string) (PostWithAuthor, error)
	GetPostsByUserID(ctx context.Context, userID string) ([]PostWithAuthor, error)
	GetUserByUsername(ctx context.Context, username string) (Author, error)
	Create(ctx context.Context, actor Actor, content string) (Post, error)
}

// ErrInvalidID is returned for ids that are not UUIDs.
var ErrInvalidID = apperror.New(
	apperror.CodeValidationFailed,
	apperror.BusinessCodeInvalidFormat,
	"invalid id",
	http.StatusBadRequest,
)

// FromPost converts a domain post to its wire form.
func FromPost(p *domain.Post) Post {
	return Post{
		ID:        p.ID.String(),
		Content:   p.Content,
		AuthorID:  p.AuthorID.String(),
		CreatedAt: p.CreatedAt,
	}
}

// FromPostWithAuthor converts the storage read model to its wire form.
func FromPostWithAuthor(p *ports.PostWithAuthor) PostWithAuthor {
	return PostWithAuthor{
		Post: Post{
			ID:        p.Post.ID.String(),
			Content:   p.Post.Content,
			AuthorID:  p.Post.AuthorID.String(),
			CreatedAt: p.Post.CreatedAt,
		},
		Author: Author{
			ID:              p.Author.ID.String(),
			Username:        p.Author.Username,
			ProfileImageURL: p.Author.ProfileImageURL,
		},
	}
}

// FromPostsWithAuthor converts a list, keeping order. A nil input yields an empty slice.
func FromPostsWithAuthor(posts []*ports.PostWithAuthor) []PostWithAuthor {
	return lo.Map(posts, func(p *ports.PostWithAuthor, _ int) PostWithAuthor {
		return FromPostWithAuthor(p)
	})
}

// FromUser converts a user to its public author profile.
func FromUser(u *userdomain.User) Author {
	return Author{
		ID:              u.ID.String(),
		Username:        u.Username,
		ProfileImageURL: u.ProfileImageURL,
	}
}
