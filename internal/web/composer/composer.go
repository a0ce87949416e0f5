// Package composer holds the per-user post composer and its submission flow.
package composer

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/philly/chirp/internal/platform/apperror"
	"github.com/philly/chirp/internal/platform/logger"
	"github.com/philly/chirp/internal/platform/metrics"
	"github.com/philly/chirp/internal/posts/domain"
	"github.com/philly/chirp/internal/rpc"
)

// CommitKey submits the draft from the keyboard.
const CommitKey = "Enter"

// GenericFailure is shown when a failed submission carries no content error.
const GenericFailure = "Failed to post! Please try again later."

var (
	ErrSubmitInFlight = errors.New("a post is already being submitted")
	ErrEmptyDraft     = errors.New("draft is empty")
)

// State of a composer.
type State string

const (
	StateIdle       State = "idle"
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
)

// Creator sends the create mutation. rpc.PostsAPI satisfies it.
type Creator interface {
	Create(ctx context.Context, actor rpc.Actor, content string) (rpc.Post, error)
}

// Invalidator is told which new post made the feed stale.
type Invalidator interface {
	InvalidatePost(postID string)
}

// Result describes a finished submission.
type Result struct {
	Post rpc.Post
	// Toast is the notification to show on failure.
	Toast string
}

// Composer is one user's draft and submission state.
type Composer struct {
	api    Creator
	feed   Invalidator
	logger logger.Logger

	mu    sync.Mutex
	actor rpc.Actor
	draft string
	state State
}

func New(api Creator, feed Invalidator, actor rpc.Actor, logger logger.Logger) *Composer {
	return &Composer{
		api:    api,
		feed:   feed,
		logger: logger,
		actor:  actor,
		state:  StateIdle,
	}
}

// Input replaces the draft. It is ignored while submitting.
func (c *Composer) Input(text string) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSubmitting {
		return c.state
	}
	c.draft = text
	if text == "" {
		c.state = StateIdle
	} else {
		c.state = StateEditing
	}
	return c.state
}

func (c *Composer) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SubmitVisible reports whether the submit control is shown.
func (c *Composer) SubmitVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft != "" && c.state != StateSubmitting
}

// Submitting reports whether the input is disabled.
func (c *Composer) Submitting() bool {
	return c.State() == StateSubmitting
}

// Click submits through the submit control, which only exists while visible.
func (c *Composer) Click(ctx context.Context) (Result, error) {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return Result{}, ErrSubmitInFlight
	}
	if c.draft == "" {
		c.mu.Unlock()
		return Result{}, ErrEmptyDraft
	}
	c.mu.Unlock()
	return c.submit(ctx)
}

// KeyDown handles a key press in the input. For the commit key it reports
// prevented=true and submits if the draft is still non-empty.
func (c *Composer) KeyDown(ctx context.Context, key string) (prevented bool, res Result, err error) {
	if key != CommitKey {
		return false, Result{}, nil
	}
	if c.Draft() == "" {
		return true, Result{}, ErrEmptyDraft
	}
	res, err = c.submit(ctx)
	return true, res, err
}

// Update refreshes the credentials used for the next submission.
func (c *Composer) Update(actor rpc.Actor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actor = actor
}

func (c *Composer) submit(ctx context.Context) (Result, error) {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		metrics.ComposerSubmissions.WithLabelValues(metrics.ResultBusy).Inc()
		return Result{}, ErrSubmitInFlight
	}
	if c.draft == "" {
		c.mu.Unlock()
		return Result{}, ErrEmptyDraft
	}
	c.state = StateSubmitting
	content, actor := c.draft, c.actor
	c.mu.Unlock()

	post, err := c.api.Create(ctx, actor, content)

	c.mu.Lock()
	if err != nil {
		c.state = StateEditing
		c.mu.Unlock()

		metrics.ComposerSubmissions.WithLabelValues(metrics.ResultError).Inc()
		toast := ToastFor(err)
		c.logger.Warn(ctx, "post submission failed", "error", err, "subject", actor.Identity.Subject)
		return Result{Toast: toast}, err
	}
	c.draft = ""
	c.state = StateIdle
	c.mu.Unlock()

	metrics.ComposerSubmissions.WithLabelValues(metrics.ResultSuccess).Inc()
	c.feed.InvalidatePost(post.ID)
	return Result{Post: post}, nil
}

// ToastFor picks the notification for a failed submission: the first
// content error when there is one, the generic message otherwise.
func ToastFor(err error) string {
	fields, ok := apperror.FieldErrorsOf(err)
	if ok {
		if msg, found := fields.First(domain.FieldContent); found && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	return GenericFailure
}
