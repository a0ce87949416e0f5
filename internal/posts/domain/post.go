package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/philly/chirp/internal/platform/validator"
)

// Post is a single emoji post. Posts are immutable once created.
type Post struct {
	ID        uuid.UUID
	Content   string
	AuthorID  uuid.UUID
	CreatedAt time.Time
}

// FieldContent is the input field name used in validation errors.
const FieldContent = "content"

// ErrInvalidAuthorID is returned when a post has no author.
var ErrInvalidAuthorID = errors.New("author ID is required")

// ValidationError ties a validation failure to the input field that caused it.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// Message is the user-facing text of the failure.
func (e *ValidationError) Message() string { return e.Err.Error() }

// NewPost sanitizes and validates content and builds a post stamped with now.
func NewPost(content string, authorID uuid.UUID, now time.Time) (*Post, error) {
	if authorID == uuid.Nil {
		return nil, ErrInvalidAuthorID
	}

	content = validator.SanitizeContent(content)
	if err := validator.ValidateContent(content); err != nil {
		return nil, &ValidationError{Field: FieldContent, Err: err}
	}

	return &Post{
		ID:        uuid.New(),
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: now.UTC(),
	}, nil
}
