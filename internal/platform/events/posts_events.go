package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/philly/chirp/internal/platform/eventbus"
)

// Event topics for posts
const (
	PostCreatedTopic eventbus.Topic = "posts.created"
)

// PostCreatedEvent is published after a new post has been persisted
type PostCreatedEvent struct {
	PostID     uuid.UUID
	AuthorID   uuid.UUID
	Content    string
	OccurredAt time.Time
}
