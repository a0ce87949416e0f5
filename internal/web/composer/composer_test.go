package composer

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/philly/chirp/internal/adapters/auth"
	"github.com/philly/chirp/internal/platform/apperror"
	"github.com/philly/chirp/internal/platform/logger"
	"github.com/philly/chirp/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	mu       sync.Mutex
	contents []string
	err      error
	gate     chan struct{}
	entered  chan struct{}
}

func (f *fakeCreator) Create(ctx context.Context, actor rpc.Actor, content string) (rpc.Post, error) {
	f.mu.Lock()
	f.contents = append(f.contents, content)
	err := f.err
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	if err != nil {
		return rpc.Post{}, err
	}
	return rpc.Post{ID: "p1", Content: content, AuthorID: actor.Identity.Subject}, nil
}

func (f *fakeCreator) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.contents...)
}

type countingFeed struct {
	n    atomic.Int32
	last atomic.Value
}

func (c *countingFeed) InvalidatePost(postID string) {
	c.last.Store(postID)
	c.n.Add(1)
}

var actor = rpc.Actor{Identity: auth.Identity{Subject: "user_1"}, Token: "t"}

func newComposer(api Creator, feed Invalidator) *Composer {
	return New(api, feed, actor, logger.Nop{})
}

func validationError(msgs ...string) error {
	return apperror.New(apperror.CodeValidationFailed, apperror.BusinessCodeInvalidContent, "invalid", http.StatusBadRequest).
		WithDetails(apperror.ValidationDetails{FieldErrors: apperror.FieldErrors{"content": msgs}})
}

func TestInputTransitions(t *testing.T) {
	c := newComposer(&fakeCreator{}, &countingFeed{})

	assert.Equal(t, StateIdle, c.State())
	assert.False(t, c.SubmitVisible())

	assert.Equal(t, StateEditing, c.Input("🎉"))
	assert.True(t, c.SubmitVisible())

	assert.Equal(t, StateIdle, c.Input(""))
	assert.False(t, c.SubmitVisible())
}

func TestClickSuccessClearsDraftAndInvalidates(t *testing.T) {
	api := &fakeCreator{}
	feed := &countingFeed{}
	c := newComposer(api, feed)
	c.Input("🎉")

	res, err := c.Click(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "🎉", res.Post.Content)
	assert.Empty(t, res.Toast)
	assert.Equal(t, "", c.Draft())
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, int32(1), feed.n.Load())
	assert.Equal(t, "p1", feed.last.Load())
	assert.Equal(t, []string{"🎉"}, api.sent())
}

func TestFailureKeepsDraft(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantToast string
	}{
		{name: "content validation message", err: validationError("Only emojis are allowed", "second"), wantToast: "Only emojis are allowed"},
		{name: "validation without content messages", err: validationError(), wantToast: GenericFailure},
		{name: "unknown failure", err: errors.New("connection reset"), wantToast: GenericFailure},
		{name: "app error without details", err: apperror.New(apperror.CodeInternalError, apperror.BusinessCodeGeneral, "boom", 500), wantToast: GenericFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := &countingFeed{}
			c := newComposer(&fakeCreator{err: tt.err}, feed)
			c.Input("hello")

			res, err := c.Click(context.Background())

			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.wantToast, res.Toast)
			assert.Equal(t, "hello", c.Draft())
			assert.Equal(t, StateEditing, c.State())
			assert.True(t, c.SubmitVisible())
			assert.Equal(t, int32(0), feed.n.Load())
		})
	}
}

func TestClickOnEmptyDraftIsRejected(t *testing.T) {
	api := &fakeCreator{}
	c := newComposer(api, &countingFeed{})

	_, err := c.Click(context.Background())

	assert.ErrorIs(t, err, ErrEmptyDraft)
	assert.Empty(t, api.sent())
}

func TestKeyDown(t *testing.T) {
	t.Run("other keys are passed through", func(t *testing.T) {
		api := &fakeCreator{}
		c := newComposer(api, &countingFeed{})
		c.Input("🎉")

		prevented, _, err := c.KeyDown(context.Background(), "a")

		assert.False(t, prevented)
		assert.NoError(t, err)
		assert.Empty(t, api.sent())
	})

	t.Run("commit key on empty draft is prevented without submitting", func(t *testing.T) {
		api := &fakeCreator{}
		c := newComposer(api, &countingFeed{})

		prevented, _, err := c.KeyDown(context.Background(), CommitKey)

		assert.True(t, prevented)
		assert.ErrorIs(t, err, ErrEmptyDraft)
		assert.Empty(t, api.sent())
	})

	t.Run("commit key submits", func(t *testing.T) {
		api := &fakeCreator{}
		c := newComposer(api, &countingFeed{})
		c.Input("🎉")

		prevented, res, err := c.KeyDown(context.Background(), CommitKey)

		assert.True(t, prevented)
		require.NoError(t, err)
		assert.Equal(t, "p1", res.Post.ID)
		assert.Equal(t, "", c.Draft())
	})
}

func TestSecondSubmitWhileInFlightIsRejected(t *testing.T) {
	api := &fakeCreator{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	c := newComposer(api, &countingFeed{})
	c.Input("🎉")

	done := make(chan error, 1)
	go func() {
		_, err := c.Click(context.Background())
		done <- err
	}()

	select {
	case <-api.entered:
	case <-time.After(time.Second):
		t.Fatal("submission never reached the API")
	}

	assert.Equal(t, StateSubmitting, c.State())
	assert.True(t, c.Submitting())
	assert.False(t, c.SubmitVisible())

	_, err := c.Click(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	_, _, err = c.KeyDown(context.Background(), CommitKey)
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	assert.Equal(t, StateSubmitting, c.Input("ignored"))
	assert.Equal(t, "🎉", c.Draft())

	close(api.gate)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"🎉"}, api.sent())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(&fakeCreator{}, &countingFeed{}, 0, logger.Nop{})

	first := r.Acquire(actor)
	first.Input("🎉")
	again := r.Acquire(rpc.Actor{Identity: actor.Identity, Token: "fresh"})
	assert.Same(t, first, again)
	assert.Equal(t, "🎉", again.Draft())

	other := r.Acquire(rpc.Actor{Identity: auth.Identity{Subject: "user_2"}})
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, r.Len())

	r.Release(actor.Identity.Subject)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "", r.Acquire(actor).Draft())
	assert.Equal(t, 0, r.Sweep(), "sweeping is off without an idle ttl")

	r.Close()
	assert.Equal(t, 0, r.Len())
}

func TestRegistryUsesRefreshedToken(t *testing.T) {
	var tokens []string
	api := creatorFunc(func(ctx context.Context, a rpc.Actor, content string) (rpc.Post, error) {
		tokens = append(tokens, a.Token)
		return rpc.Post{}, nil
	})
	r := NewRegistry(api, &countingFeed{}, 0, logger.Nop{})

	c := r.Acquire(rpc.Actor{Identity: actor.Identity, Token: "old"})
	c.Input("🎉")
	r.Acquire(rpc.Actor{Identity: actor.Identity, Token: "new"})

	_, err := c.Click(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, tokens)
}

func TestRegistrySweepDropsIdleComposers(t *testing.T) {
	api := &fakeCreator{entered: make(chan struct{}, 1), gate: make(chan struct{})}
	r := NewRegistry(api, &countingFeed{}, 30*time.Minute, logger.Nop{})
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }

	idle := r.Acquire(actor)
	idle.Input("🌙")
	busy := r.Acquire(rpc.Actor{Identity: auth.Identity{Subject: "user_busy"}})
	busy.Input("🚀")
	done := make(chan error, 1)
	go func() {
		_, err := busy.Click(context.Background())
		done <- err
	}()
	<-api.entered

	clock = clock.Add(10 * time.Minute)
	active := r.Acquire(rpc.Actor{Identity: auth.Identity{Subject: "user_active"}})

	clock = clock.Add(25 * time.Minute)
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 2, r.Len())
	assert.Same(t, active, r.Acquire(rpc.Actor{Identity: auth.Identity{Subject: "user_active"}}))
	assert.Equal(t, "", r.Acquire(actor).Draft(), "idle draft was discarded")

	close(api.gate)
	require.NoError(t, <-done)
}

type creatorFunc func(ctx context.Context, actor rpc.Actor, content string) (rpc.Post, error)

func (f creatorFunc) Create(ctx context.Context, actor rpc.Actor, content string) (rpc.Post, error) {
	return f(ctx, actor, content)
}
