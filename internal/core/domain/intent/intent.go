// Package intent describes the side effects a lifecycle transition asks for.
// The engine returns intents; the application layer executes them only after
// the new state is committed.
package intent

import (
	"parceltrack/internal/core/domain/event"
	"parceltrack/internal/core/domain/model/user"
)

// Intent is either a Notify or a Publish.
type Intent interface {
	isIntent()
}

// Message is a notification rendered for every channel.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// Notify asks for a best-effort notification to Recipient.
type Notify struct {
	Recipient *user.User
	Message   Message
}

// Publish asks for an event to be pushed to live subscribers.
type Publish struct {
	Event event.Event
}

func (Notify) isIntent()  {}
func (Publish) isIntent() {}
