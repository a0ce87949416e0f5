package application

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/philly/chirp/internal/platform/apperror"
	"github.com/philly/chirp/internal/platform/eventbus"
	"github.com/philly/chirp/internal/platform/events"
	"github.com/philly/chirp/internal/platform/logger"
	"github.com/philly/chirp/internal/posts/domain"
	"github.com/philly/chirp/internal/posts/ports"
)

// Error definitions for service operations
var (
	ErrPostNotFound = apperror.New(
		apperror.CodeNotFound,
		apperror.BusinessCodePostNotFound,
		"post not found",
		http.StatusNotFound,
	)

	ErrInvalidPostData = apperror.New(
		apperror.CodeValidationFailed,
		apperror.BusinessCodeInvalidContent,
		"invalid post data",
		http.StatusBadRequest,
	)

	ErrAuthorNotFound = apperror.New(
		apperror.CodeInternalError,
		apperror.BusinessCodeAuthorNotFound,
		"author for post not found",
		http.StatusInternalServerError,
	)
)

// PostsService handles post-related business logic
type PostsService struct {
	repo      ports.PostRepository
	publisher eventbus.Publisher
	logger    logger.Logger
	now       func() time.Time
}

// NewPostsService creates a new posts service
func NewPostsService(
	repo ports.PostRepository,
	publisher eventbus.Publisher,
	logger logger.Logger,
) *PostsService {
	return &PostsService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// CreatePost validates content and stores a post authored by actorID.
// Validation failures carry field errors keyed by "content".
func (s *PostsService) CreatePost(ctx context.Context, actorID uuid.UUID, content string) (*domain.Post, error) {
	post, err := domain.NewPost(content, actorID, s.now())
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			fields := apperror.FieldErrors{}
			fields.Add(vErr.Field, vErr.Message())
			return nil, ErrInvalidPostData.WithDetails(apperror.ValidationDetails{FieldErrors: fields})
		}
		return nil, ErrInvalidPostData.WithInner(err)
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.logger.Error(ctx, "failed to create post", "error", err, "authorID", actorID)
		return nil, apperror.Wrap(
			err,
			apperror.CodeInternalError,
			apperror.BusinessCodeGeneral,
			"failed to create post",
			http.StatusInternalServerError,
		)
	}

	s.logger.Info(ctx, "post created", "postID", post.ID, "authorID", post.AuthorID)
	s.publishPostCreatedEvent(ctx, post)

	return post, nil
}

// GetAll returns the feed: every post with its author, newest first.
func (s *PostsService) GetAll(ctx context.Context) ([]*ports.PostWithAuthor, error) {
	posts, err := s.repo.ListRecent(ctx, ports.NoLimit)
	if err != nil {
		return nil, s.listError(ctx, err, "failed to list posts")
	}
	return posts, nil
}

// GetByID retrieves a single post with its author.
func (s *PostsService) GetByID(ctx context.Context, id uuid.UUID) (*ports.PostWithAuthor, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrPostNotFound):
			return nil, ErrPostNotFound
		case errors.Is(err, ports.ErrAuthorNotFound):
			s.logger.Error(ctx, "post has no author", "postID", id)
			return nil, ErrAuthorNotFound
		}
		s.logger.Error(ctx, "failed to find post", "error", err, "postID", id)
		return nil, apperror.Wrap(
			err,
			apperror.CodeInternalError,
			apperror.BusinessCodeGeneral,
			"failed to retrieve post",
			http.StatusInternalServerError,
		)
	}
	return post, nil
}

// GetByAuthor returns one author's posts, newest first.
func (s *PostsService) GetByAuthor(ctx context.Context, authorID uuid.UUID) ([]*ports.PostWithAuthor, error) {
	posts, err := s.repo.ListByAuthor(ctx, authorID, ports.NoLimit)
	if err != nil {
		return nil, s.listError(ctx, err, "failed to list posts by author")
	}
	return posts, nil
}

func (s *PostsService) listError(ctx context.Context, err error, msg string) error {
	if errors.Is(err, ports.ErrAuthorNotFound) {
		s.logger.Error(ctx, "post list contains a post without author", "error", err)
		return ErrAuthorNotFound
	}
	s.logger.Error(ctx, msg, "error", err)
	return apperror.Wrap(
		err,
		apperror.CodeInternalError,
		apperror.BusinessCodeGeneral,
		msg,
		http.StatusInternalServerError,
	)
}

func (s *PostsService) publishPostCreatedEvent(ctx context.Context, post *domain.Post) {
	s.publisher.Publish(context.WithoutCancel(ctx), eventbus.Event{
		Topic: events.PostCreatedTopic,
		Payload: events.PostCreatedEvent{
			PostID:     post.ID,
			AuthorID:   post.AuthorID,
			Content:    post.Content,
			OccurredAt: post.CreatedAt,
		},
	})
}
