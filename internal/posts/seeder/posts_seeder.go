// Package seeder writes demo authors and posts for local development.
package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/philly/chirp/internal/platform/validator"
)

// seedNamespace derives stable ids so reseeding updates rows in place.
var seedNamespace = uuid.MustParse("6f1c1a52-8f3e-4d4c-9a55-3c1f0f8d2b7e")

// PostsSeeder handles seeding of demo authors and posts
type PostsSeeder struct {
	users []DemoUser
	posts []DemoPost
	now   func() time.Time
}

// NewPostsSeeder creates a seeder over the default demo data
func NewPostsSeeder() *PostsSeeder {
	return &PostsSeeder{users: DemoUsers, posts: DemoPosts, now: time.Now}
}

// Name returns the name of this seeder
func (s *PostsSeeder) Name() string {
	return "PostsSeeder"
}

// Seed upserts the demo users and posts
func (s *PostsSeeder) Seed(ctx context.Context, tx pgx.Tx) error {
	if err := s.validate(); err != nil {
		return err
	}
	if err := s.seedUsers(ctx, tx); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	if err := s.seedPosts(ctx, tx); err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}
	return nil
}

// UserID returns the seeded id for a demo username.
func UserID(username string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte("user:"+username))
}

// PostID returns the seeded id for a demo post key.
func PostID(key string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte("post:"+key))
}

func (s *PostsSeeder) validate() error {
	known := make(map[string]bool, len(s.users))
	for _, u := range s.users {
		if err := validator.ValidateUsername(u.Username); err != nil {
			return fmt.Errorf("demo user %q: %w", u.Username, err)
		}
		known[u.Username] = true
	}
	for _, p := range s.posts {
		if !known[p.Author] {
			return fmt.Errorf("demo post %q: unknown author %q", p.Key, p.Author)
		}
		if err := validator.ValidateContent(p.Content); err != nil {
			return fmt.Errorf("demo post %q: %w", p.Key, err)
		}
	}
	return nil
}

func (s *PostsSeeder) seedUsers(ctx context.Context, tx pgx.Tx) error {
	batch := &pgx.Batch{}
	for _, u := range s.users {
		query := `
			INSERT INTO users (id, external_id, username, profile_image_url)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (external_id)
			DO UPDATE SET
				username = EXCLUDED.username,
				profile_image_url = EXCLUDED.profile_image_url,
				updated_at = NOW()
		`
		batch.Queue(query, UserID(u.Username), u.ExternalID, u.Username, u.ProfileImageURL)
	}
	return sendBatch(ctx, tx, batch)
}

func (s *PostsSeeder) seedPosts(ctx context.Context, tx pgx.Tx) error {
	now := s.now().UTC()
	batch := &pgx.Batch{}
	for _, p := range s.posts {
		query := `
			INSERT INTO posts (id, content, author_id, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id)
			DO UPDATE SET content = EXCLUDED.content
		`
		batch.Queue(query, PostID(p.Key), p.Content, UserID(p.Author), now.Add(-p.Age))
	}
	return sendBatch(ctx, tx, batch)
}

func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("batch statement %d: %w", i, err)
		}
	}
	return results.Close()
}
