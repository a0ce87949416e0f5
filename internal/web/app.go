// Package web is the server-rendered page tier: session, feed, composer and
// live updates over a PostsAPI.
package web

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/philly/chirp/internal/platform/eventbus"
	"github.com/philly/chirp/internal/platform/logger"
	"github.com/philly/chirp/internal/rpc"
	"github.com/philly/chirp/internal/web/composer"
	"github.com/philly/chirp/internal/web/feed"
	"github.com/philly/chirp/internal/web/live"
)

// Config holds the web tier settings.
type Config struct {
	SignInURL      string
	SessionSecret  string
	SecureCookies  bool
	FeedCacheTTL   time.Duration
	FeedRenderWait time.Duration
	// ComposerIdleTTL drops drafts of users who stopped visiting, for
	// example because their session expired. Zero keeps them until sign-out.
	ComposerIdleTTL time.Duration
}

// App owns the web tier's long-lived state. It is created once at startup
// and torn down by Close.
type App struct {
	cfg       Config
	api       rpc.PostsAPI
	sessions  *SessionResolver
	feed      *feed.Store
	composers *composer.Registry
	hub       *live.Hub
	flashes   *Flashes
	pages     *pages
	logger    logger.Logger
	now       func() time.Time

	unsubscribe []func()
	stop        chan struct{}
	janitor     sync.WaitGroup
	closeOnce   sync.Once
}

// NewApp wires the web tier. bus may be nil when posts are created by a
// remote API tier; the feed then only refreshes on local submissions.
func NewApp(
	cfg Config,
	api rpc.PostsAPI,
	verifier TokenVerifier,
	bus eventbus.Subscriber,
	logger logger.Logger,
) (*App, error) {
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("web: session secret is required")
	}
	p, err := parsePages()
	if err != nil {
		return nil, err
	}

	store := feed.NewStore(api, feed.Config{TTL: cfg.FeedCacheTTL}, logger)
	hub := live.NewHub(logger)

	a := &App{
		cfg:       cfg,
		api:       api,
		sessions:  NewSessionResolver(verifier, logger),
		feed:      store,
		composers: composer.NewRegistry(api, store, cfg.ComposerIdleTTL, logger),
		hub:       hub,
		flashes:   NewFlashes([]byte(cfg.SessionSecret), cfg.SecureCookies),
		pages:     p,
		logger:    logger,
		now:       time.Now,
		stop:      make(chan struct{}),
	}

	a.unsubscribe = append(a.unsubscribe, store.Subscribe(func(snap feed.Snapshot) {
		hub.Broadcast(live.Message{Type: live.MessageFeedUpdated, Generation: snap.Generation})
	}))
	if bus != nil {
		a.unsubscribe = append(a.unsubscribe, store.InvalidateOn(bus))
	}
	if cfg.ComposerIdleTTL > 0 {
		a.janitor.Add(1)
		go a.sweepComposers(cfg.ComposerIdleTTL / 2)
	}

	return a, nil
}

func (a *App) sweepComposers(every time.Duration) {
	defer a.janitor.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := a.composers.Sweep(); n > 0 {
				a.logger.Debug(context.Background(), "dropped idle composers", "count", n)
			}
		case <-a.stop:
			return
		}
	}
}

// Warm starts the first feed fetch so the first page render can use it.
func (a *App) Warm(ctx context.Context) {
	go func() {
		if _, err := a.feed.Load(ctx); err != nil {
			a.logger.Debug(ctx, "feed warm-up interrupted", "error", err)
		}
	}()
}

// Close releases the live connections, composers and feed store.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		close(a.stop)
		a.janitor.Wait()
		for _, fn := range a.unsubscribe {
			fn()
		}
		a.hub.Close()
		a.composers.Close()
		a.feed.Close()
	})
}
