package eventbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/philly/chirp/internal/platform/logger"
)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus manages subscriptions and event dispatching.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[Topic][]subscription
	nextID        uint64
	wg            sync.WaitGroup
	logger        logger.Logger
}

// NewBus creates a new event bus.
func NewBus(logger logger.Logger) *Bus {
	return &Bus{
		subscriptions: make(map[Topic][]subscription),
		logger:        logger,
	}
}

// Subscribe adds a handler for a topic and returns a function removing it again.
func (b *Bus) Subscribe(topic Topic, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subscriptions[topic] = append(b.subscriptions[topic], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(topic, id) })
	}
}

func (b *Bus) unsubscribe(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscriptions[topic]
	for i, s := range subs {
		if s.id == id {
			b.subscriptions[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subscriptions[topic]) == 0 {
		delete(b.subscriptions, topic)
	}
}

// Publish sends an event to all subscribers of a topic (fire-and-forget).
// Each handler runs in its own goroutine; failures and panics are logged.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subscriptions[event.Topic]...)
	b.mu.RUnlock()

	for _, s := range subs {
		b.wg.Add(1)
		go func(h Handler) {
			defer b.wg.Done()
			if err := b.dispatch(ctx, h, event); err != nil {
				b.logger.Error(ctx, "event handler failed", "topic", event.Topic, "error", err)
			}
		}(s.handler)
	}
}

func (b *Bus) dispatch(ctx context.Context, h Handler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, event)
}

// Wait blocks until every handler started by Publish has returned.
func (b *Bus) Wait() {
	b.wg.Wait()
}

var (
	_ Publisher  = (*Bus)(nil)
	_ Subscriber = (*Bus)(nil)
)
