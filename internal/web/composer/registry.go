package composer

import (
	"sync"
	"time"

	"github.com/philly/chirp/internal/platform/logger"
	"github.com/philly/chirp/internal/rpc"
)

type entry struct {
	composer *Composer
	lastUsed time.Time
}

// Registry keeps one composer per signed-in user, keyed by identity subject.
// Composers unused for idleTTL are dropped by Sweep.
type Registry struct {
	api     Creator
	feed    Invalidator
	logger  logger.Logger
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	composers map[string]*entry
}

func NewRegistry(api Creator, feed Invalidator, idleTTL time.Duration, logger logger.Logger) *Registry {
	return &Registry{
		api:       api,
		feed:      feed,
		logger:    logger,
		idleTTL:   idleTTL,
		now:       time.Now,
		composers: make(map[string]*entry),
	}
}

// Acquire returns the user's composer, creating it on first use. The actor's
// token is refreshed on every call.
func (r *Registry) Acquire(actor rpc.Actor) *Composer {
	key := actor.Identity.Subject

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.composers[key]; ok {
		e.lastUsed = r.now()
		e.composer.Update(actor)
		return e.composer
	}
	c := New(r.api, r.feed, actor, r.logger)
	r.composers[key] = &entry{composer: c, lastUsed: r.now()}
	return c
}

// Release discards the user's composer and its draft.
func (r *Registry) Release(subject string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.composers, subject)
}

// Sweep drops composers idle for at least idleTTL and returns how many were
// dropped. A composer with a submission in flight is kept.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for subject, e := range r.composers {
		if e.lastUsed.After(cutoff) || e.composer.Submitting() {
			continue
		}
		delete(r.composers, subject)
		dropped++
	}
	return dropped
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.composers)
}

// Close drops every composer.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.composers)
}
