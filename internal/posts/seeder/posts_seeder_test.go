package seeder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResults struct {
	pgx.BatchResults
	n      int
	failAt int
}

func (r *fakeResults) Exec() (pgconn.CommandTag, error) {
	r.n++
	if r.n == r.failAt {
		return pgconn.CommandTag{}, errors.New("constraint violated")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *fakeResults) Close() error { return nil }

type fakeTx struct {
	pgx.Tx
	batches []*pgx.Batch
	failAt  int
}

func (tx *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	tx.batches = append(tx.batches, b)
	return &fakeResults{failAt: tx.failAt}
}

func TestPostsSeederSeedsUsersThenPosts(t *testing.T) {
	s := NewPostsSeeder()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return now }
	tx := &fakeTx{}

	require.NoError(t, s.Seed(context.Background(), tx))

	require.Len(t, tx.batches, 2)
	assert.Equal(t, len(DemoUsers), tx.batches[0].Len())
	assert.Equal(t, len(DemoPosts), tx.batches[1].Len())

	first := tx.batches[1].QueuedQueries[0]
	assert.Equal(t, PostID(DemoPosts[0].Key), first.Arguments[0])
	assert.Equal(t, UserID(DemoPosts[0].Author), first.Arguments[2])
	assert.Equal(t, now.Add(-DemoPosts[0].Age), first.Arguments[3])
}

func TestPostsSeederStopsOnFailure(t *testing.T) {
	tx := &fakeTx{failAt: 2}

	err := NewPostsSeeder().Seed(context.Background(), tx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to seed users")
	assert.Len(t, tx.batches, 1)
}

func TestPostsSeederRejectsInvalidDemoData(t *testing.T) {
	tests := []struct {
		name  string
		users []DemoUser
		posts []DemoPost
	}{
		{
			name:  "non emoji content",
			users: []DemoUser{{ExternalID: "seed_a", Username: "a"}},
			posts: []DemoPost{{Key: "a-1", Author: "a", Content: "hello"}},
		},
		{
			name:  "unknown author",
			users: []DemoUser{{ExternalID: "seed_a", Username: "a"}},
			posts: []DemoPost{{Key: "b-1", Author: "b", Content: "🐝"}},
		},
		{
			name:  "invalid username",
			users: []DemoUser{{ExternalID: "seed_a", Username: "Not Valid"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &PostsSeeder{users: tt.users, posts: tt.posts, now: time.Now}
			tx := &fakeTx{}

			assert.Error(t, s.Seed(context.Background(), tx))
			assert.Empty(t, tx.batches)
		})
	}
}

func TestSeedIDsAreStable(t *testing.T) {
	assert.Equal(t, UserID("ada"), UserID("ada"))
	assert.NotEqual(t, UserID("ada"), UserID("grace"))
	assert.NotEqual(t, UserID("ada"), PostID("ada"))
}
