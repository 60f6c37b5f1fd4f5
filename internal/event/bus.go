// Package event provides the in-process implementation of plugin.EventBus
// that carries cognition events to the notifier and the WebSocket stream.
package event

import (
	"context"
	"sync"
	"time"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/plugin"
	"go.uber.org/zap"
)

var _ plugin.EventBus = (*Bus)(nil)

// Bus fans events out to topic subscribers and catch-all subscribers.
// Publish runs handlers on the caller's goroutine; PublishAsync spawns one
// goroutine per handler. A panicking handler is logged and isolated.
type Bus struct {
	mu     sync.RWMutex
	topics map[string][]subscriber
	all    []subscriber
	seq    uint64
	logger *zap.Logger
}

type subscriber struct {
	id uint64
	fn plugin.EventHandler
}

// NewBus returns an empty bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		topics: make(map[string][]subscriber),
		logger: logger,
	}
}

// Publish delivers event synchronously. It always returns nil; handler
// failures are contained.
func (b *Bus) Publish(ctx context.Context, event plugin.Event) error {
	for _, s := range b.targets(&event) {
		b.dispatch(ctx, s.fn, event)
	}
	return nil
}

// PublishAsync delivers event without waiting for handlers.
func (b *Bus) PublishAsync(ctx context.Context, event plugin.Event) {
	for _, s := range b.targets(&event) {
		go b.dispatch(ctx, s.fn, event)
	}
}

// Subscribe registers fn for topic.
func (b *Bus) Subscribe(topic string, fn plugin.EventHandler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	id := b.seq
	b.topics[topic] = append(b.topics[topic], subscriber{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.topics[topic] = remove(b.topics[topic], id)
	}
}

// SubscribeAll registers fn for every topic.
func (b *Bus) SubscribeAll(fn plugin.EventHandler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	id := b.seq
	b.all = append(b.all, subscriber{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.all = remove(b.all, id)
	}
}

// targets snapshots the subscribers for event and stamps its timestamp.
func (b *Bus) targets(event *plugin.Event) []subscriber {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]subscriber, 0, len(b.topics[event.Topic])+len(b.all))
	out = append(out, b.topics[event.Topic]...)
	return append(out, b.all...)
}

func (b *Bus) dispatch(ctx context.Context, fn plugin.EventHandler, event plugin.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("topic", event.Topic),
				zap.String("source", event.Source),
				zap.Any("panic", r),
			)
		}
	}()
	fn(ctx, event)
}

func remove(subs []subscriber, id uint64) []subscriber {
	out := subs[:0:0]
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}
