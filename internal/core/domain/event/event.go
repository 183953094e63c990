// Package event defines the live events published on every lifecycle transition
// and the channels they are addressed to.
package event

import (
	"time"

	"parceltrack/internal/core/domain/model/kernel"
)

// Names of the events published to live subscribers.
const (
	ParcelBooked        = "parcel-booked"
	AgentAssigned       = "agent-assigned"
	AssignmentReceived  = "assignment-received"
	StatusChanged       = "status-changed"
	StatusUpdated       = "status-updated"
	DeliveryCompleted   = "delivery-completed"
	LocationUpdated     = "location-updated"
	AnnouncementPosted  = "announcement"
	parcelChannelPrefix = "parcel-"
)

// Scope selects the subscribers of an event.
type Scope int

const (
	// ScopeParcel reaches sessions that joined the parcel's channel.
	ScopeParcel Scope = iota + 1
	// ScopeGlobal reaches every connected session.
	ScopeGlobal
	// ScopeUser reaches the current session of one user, if any.
	ScopeUser
)

func (s Scope) String() string {
	switch s {
	case ScopeParcel:
		return "parcel"
	case ScopeGlobal:
		return "global"
	case ScopeUser:
		return "user"
	default:
		return "unknown"
	}
}

// Event is a fact to push to live subscribers. Target is the channel name for
// ScopeParcel, the user id for ScopeUser and empty for ScopeGlobal.
type Event struct {
	Name       string
	Scope      Scope
	Target     string
	Payload    any
	OccurredAt time.Time
}

// ParcelChannel is the channel name subscribers join to follow one parcel.
func ParcelChannel(parcelID kernel.UUID) string {
	return parcelChannelPrefix + parcelID.String()
}

func OnParcel(parcelID kernel.UUID, name string, payload any, at time.Time) Event {
	return Event{Name: name, Scope: ScopeParcel, Target: ParcelChannel(parcelID), Payload: payload, OccurredAt: at}
}

func Global(name string, payload any, at time.Time) Event {
	return Event{Name: name, Scope: ScopeGlobal, Payload: payload, OccurredAt: at}
}

func ToUser(userID kernel.UUID, name string, payload any, at time.Time) Event {
	return Event{Name: name, Scope: ScopeUser, Target: userID.String(), Payload: payload, OccurredAt: at}
}
