// Package pubsub provides a generic publish/subscribe event system used to fan out
// registry activity (resolutions, loads, invalidations) and log lines.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// ResolvedEvent is published after an identifier resolved to exactly one entry.
	ResolvedEvent EventType = "resolved"
	// LoadedEvent is published after an entry's implementation loaded.
	LoadedEvent EventType = "loaded"
	// FailedEvent is published when resolution or loading failed.
	FailedEvent EventType = "failed"
	// InvalidatedEvent is published when provider state was reloaded or flushed.
	InvalidatedEvent EventType = "invalidated"
	// LoggedEvent carries a formatted log line.
	LoggedEvent EventType = "logged"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events, optionally limited to
// some event types.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context, types ...EventType) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
