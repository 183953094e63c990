package ports

import (
	"context"

	"parceltrack/internal/core/domain/event"
	"parceltrack/internal/core/domain/intent"
	"parceltrack/internal/core/domain/model/user"
)

// QREncoder renders a token as a PNG data URI.
type QREncoder interface {
	Encode(token string) (string, error)
}

// EventPublisher pushes an event to live subscribers. It must not block on
// slow subscribers and has no error result: delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, e event.Event)
}

// Notifier delivers a message over every channel the recipient accepts.
// Failures are absorbed by the implementation.
type Notifier interface {
	Notify(ctx context.Context, recipient *user.User, msg intent.Message)
}
