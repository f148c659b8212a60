package pubsub

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

const defaultBufferSize = 64

type subscription[T any] struct {
	ch    chan Event[T]
	types []EventType // empty means every type
}

func (s *subscription[T]) wants(t EventType) bool {
	return len(s.types) == 0 || slices.Contains(s.types, t)
}

// Broker fans registry events out to subscribers.
// Publishing never blocks: a subscriber whose buffer is full misses the event
// and the miss is counted in Dropped.
type Broker[T any] struct {
	mu         sync.RWMutex
	subs       map[chan Event[T]]*subscription[T]
	done       chan struct{}
	bufferSize int
	dropped    atomic.Uint64
}

// NewBroker creates a new broker with the default buffer size (64).
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a new broker with a custom per-subscriber buffer size.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:       make(map[chan Event[T]]*subscription[T]),
		done:       make(chan struct{}),
		bufferSize: max(size, 0),
	}
}

func (b *Broker[T]) isClosed() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// Subscribe returns a channel receiving the events of the given types, or of
// every type when none are given. The channel is closed when ctx is done or the
// broker is closed.
func (b *Broker[T]) Subscribe(ctx context.Context, types ...EventType) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event[T], b.bufferSize)
	if b.isClosed() {
		close(ch)
		return ch
	}
	b.subs[ch] = &subscription[T]{ch: ch, types: slices.Clone(types)}

	go func() {
		select {
		case <-ctx.Done():
			b.remove(ch)
		case <-b.done:
		}
	}()
	return ch
}

func (b *Broker[T]) remove(ch chan Event[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[ch]; ok && !b.isClosed() {
		delete(b.subs, ch)
		close(ch)
	}
}

// Publish delivers an event to every subscriber interested in eventType.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.isClosed() {
		return
	}

	event := Event[T]{Type: eventType, Payload: payload, Timestamp: time.Now()}
	for _, sub := range b.subs {
		if !sub.wants(eventType) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Close shuts down the broker and closes every subscriber channel. Close is idempotent.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.isClosed() {
		return
	}
	close(b.done)
	for ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped because a subscriber's
// buffer was full.
func (b *Broker[T]) Dropped() uint64 {
	return b.dropped.Load()
}
