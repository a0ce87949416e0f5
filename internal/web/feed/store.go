// Package feed caches the post feed for the web tier and tells listeners when it changes.
package feed

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/philly/chirp/internal/platform/eventbus"
	"github.com/philly/chirp/internal/platform/events"
	"github.com/philly/chirp/internal/platform/logger"
	"github.com/philly/chirp/internal/platform/metrics"
	"github.com/philly/chirp/internal/rpc"
	"golang.org/x/sync/singleflight"
)

// ErrClosed is returned by Load after Close.
var ErrClosed = errors.New("feed store closed")

// State is the lifecycle of the cached feed.
type State string

const (
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateErrored State = "errored"
)

// Snapshot is an immutable view of the store.
type Snapshot struct {
	State      State
	Posts      []rpc.PostWithAuthor
	Err        error
	FetchedAt  time.Time
	Generation uint64
}

// Empty reports whether there is nothing to render. Errors and empty
// results are rendered the same way.
func (s Snapshot) Empty() bool {
	return s.State == StateErrored || len(s.Posts) == 0
}

// Fetcher loads the full feed. rpc.PostsAPI satisfies it.
type Fetcher interface {
	GetAll(ctx context.Context) ([]rpc.PostWithAuthor, error)
}

// Listener is told about every state change.
type Listener func(Snapshot)

// Config tunes the store.
type Config struct {
	// TTL is how long a loaded feed is served without refetching. Zero
	// means the feed is only refetched after Invalidate.
	TTL time.Duration
}

// Store is the observable feed cache. Concurrent loads share one fetch;
// when fetches overlap the last one to resolve wins unless it was started
// before an already applied one.
type Store struct {
	fetcher Fetcher
	logger  logger.Logger
	ttl     time.Duration
	now     func() time.Time

	group singleflight.Group

	mu        sync.Mutex
	snap      Snapshot
	gen       uint64 // bumped by Invalidate
	applied   uint64 // generation of the fetch behind snap
	listeners map[int]Listener
	nextID    int
	closed    bool
	recent    []string // posts that already triggered a refetch, oldest first

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewStore(fetcher Fetcher, cfg Config, logger logger.Logger) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		fetcher:   fetcher,
		logger:    logger,
		ttl:       cfg.TTL,
		now:       time.Now,
		snap:      Snapshot{State: StateLoading},
		listeners: make(map[int]Listener),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Snapshot returns the current state without blocking on a fetch.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Load returns the cached feed when it is fresh and fetches it otherwise.
// A cancelled ctx stops the wait, not the shared fetch.
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Snapshot{}, ErrClosed
	}
	if s.freshLocked() {
		snap := s.snap
		s.mu.Unlock()
		return snap, nil
	}
	gen := s.gen
	s.mu.Unlock()

	ch := s.group.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		return s.fetch(gen), nil
	})

	select {
	case res := <-ch:
		return res.Val.(Snapshot), nil
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	}
}

// Invalidate marks the feed stale and refetches it in the background.
func (s *Store) Invalidate() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.gen++
	gen := s.gen
	s.wg.Add(1)
	s.mu.Unlock()

	metrics.FeedInvalidations.Inc()

	go func() {
		defer s.wg.Done()
		<-s.group.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
			return s.fetch(gen), nil
		})
	}()
}

// recentPosts bounds how many post ids InvalidatePost remembers.
const recentPosts = 64

// InvalidatePost invalidates the feed for a newly created post. The composer
// and the posts.created event both report the same post; only the first
// report refetches, since both arrive after the post is stored.
func (s *Store) InvalidatePost(postID string) {
	s.mu.Lock()
	for _, id := range s.recent {
		if id == postID {
			s.mu.Unlock()
			return
		}
	}
	if len(s.recent) == recentPosts {
		s.recent = s.recent[1:]
	}
	s.recent = append(s.recent, postID)
	s.mu.Unlock()

	s.Invalidate()
}

// Subscribe registers fn for state changes and returns its unsubscribe func.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
		})
	}
}

// InvalidateOn invalidates the feed whenever a post is created.
func (s *Store) InvalidateOn(bus eventbus.Subscriber) func() {
	return bus.Subscribe(events.PostCreatedTopic, func(ctx context.Context, event eventbus.Event) error {
		created, ok := event.Payload.(events.PostCreatedEvent)
		if !ok {
			s.Invalidate()
			return nil
		}
		s.InvalidatePost(created.PostID.String())
		return nil
	})
}

// Close cancels in-flight fetches, waits for background refetches and
// drops all listeners.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	s.mu.Lock()
	clear(s.listeners)
	s.mu.Unlock()
}

func (s *Store) freshLocked() bool {
	if s.snap.State != StateLoaded || s.applied < s.gen {
		return false
	}
	return s.ttl <= 0 || s.now().Sub(s.snap.FetchedAt) < s.ttl
}

func (s *Store) fetch(gen uint64) Snapshot {
	s.mu.Lock()
	if s.freshLocked() {
		snap := s.snap
		s.mu.Unlock()
		return snap
	}
	s.mu.Unlock()

	posts, err := s.fetcher.GetAll(s.ctx)

	next := Snapshot{
		State:      StateLoaded,
		Posts:      posts,
		FetchedAt:  s.now(),
		Generation: gen,
	}
	if err != nil {
		metrics.FeedFetches.WithLabelValues(metrics.ResultError).Inc()
		s.logger.Error(s.ctx, "feed fetch failed", "error", err, "generation", gen)
		next = Snapshot{State: StateErrored, Err: err, FetchedAt: next.FetchedAt, Generation: gen}
	} else {
		metrics.FeedFetches.WithLabelValues(metrics.ResultSuccess).Inc()
	}

	s.mu.Lock()
	if s.closed || gen < s.applied {
		current := s.snap
		s.mu.Unlock()
		return current
	}
	s.applied = gen
	s.snap = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return next
}
