package pubsub

import "context"

// Listener holds a broker subscription and hands out events one at a time.
type Listener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewListener subscribes to broker for the lifetime of ctx, receiving only the
// given event types when any are given.
func NewListener[T any](ctx context.Context, broker Subscriber[T], types ...EventType) *Listener[T] {
	return &Listener[T]{
		ctx: ctx,
		ch:  broker.Subscribe(ctx, types...),
	}
}

// Next blocks until the next event arrives. ok is false once the listener's
// context is done or the subscription has been closed.
func (l *Listener[T]) Next() (event Event[T], ok bool) {
	select {
	case <-l.ctx.Done():
		return event, false
	case event, ok = <-l.ch:
		return event, ok
	}
}

// Each calls fn for every event until the subscription ends or fn returns false.
func (l *Listener[T]) Each(fn func(Event[T]) bool) {
	for {
		event, ok := l.Next()
		if !ok || !fn(event) {
			return
		}
	}
}
