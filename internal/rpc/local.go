package rpc

import (
	"context"

	"github.com/google/uuid"
	postsapp "github.com/philly/chirp/internal/posts/application"
	usersapp "github.com/philly/chirp/internal/users/application"
)

// Local serves PostsAPI from the in-process services.
type Local struct {
	posts *postsapp.PostsService
	users *usersapp.UserService
}

func NewLocal(posts *postsapp.PostsService, users *usersapp.UserService) *Local {
	return &Local{posts: posts, users: users}
}

func (l *Local) GetAll(ctx context.Context) ([]PostWithAuthor, error) {
	posts, err := l.posts.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return FromPostsWithAuthor(posts), nil
}

func (l *Local) GetByID(ctx context.Context, id string) (PostWithAuthor, error) {
	postID, err := uuid.Parse(id)
	if err != nil {
		return PostWithAuthor{}, ErrInvalidID.WithInner(err)
	}
	post, err := l.posts.GetByID(ctx, postID)
	if err != nil {
		return PostWithAuthor{}, err
	}
	return FromPostWithAuthor(post), nil
}

func (l *Local) GetPostsByUserID(ctx context.Context, userID string) ([]PostWithAuthor, error) {
	authorID, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidID.WithInner(err)
	}
	posts, err := l.posts.GetByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return FromPostsWithAuthor(posts), nil
}

func (l *Local) GetUserByUsername(ctx context.Context, username string) (Author, error) {
	user, err := l.users.GetByUsername(ctx, username)
	if err != nil {
		return Author{}, err
	}
	return FromUser(user), nil
}

// Create mirrors the actor into the users table, then stores the post.
func (l *Local) Create(ctx context.Context, actor Actor, content string) (Post, error) {
	user, err := l.users.SyncIdentity(ctx, usersapp.SyncIdentityParams{
		ExternalID:      actor.Identity.Subject,
		Username:        actor.Identity.Username,
		ProfileImageURL: actor.Identity.ImageURL,
	})
	if err != nil {
		return Post{}, err
	}

	post, err := l.posts.CreatePost(ctx, user.ID, content)
	if err != nil {
		return Post{}, err
	}
	return FromPost(post), nil
}

var _ PostsAPI = (*Local)(nil)
