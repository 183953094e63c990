package parcel

import (
	"fmt"
	"strings"

	"parceltrack/internal/pkg/errs"
)

// Status is the single source of truth for where a parcel is in its lifecycle.
//
// State transitions:
//
//	Pending ──> PickedUp ──> InTransit ──> Delivered
//	               │             │
//	               └─────────────┴──> Failed
//
// The agent completion command may move a parcel to InTransit, Delivered or
// Failed from any state, and admins may override the status freely. Only the
// scan transitions are checked against the current state.
type Status int

const (
	// UnknownStatus catches uninitialized values.
	UnknownStatus Status = iota

	// Pending is the initial status after booking.
	Pending

	// PickedUp is set by a successful pickup scan.
	PickedUp

	// InTransit is reported by the carrying agent.
	InTransit

	// Delivered is final for the scan flow and implies an actual delivery date.
	Delivered

	// Failed ends the attempt without delivery.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		UnknownStatus: "unknown",
		Pending:       "pending",
		PickedUp:      "picked-up",
		InTransit:     "in-transit",
		Delivered:     "delivered",
		Failed:        "failed",
	}
}

// ParseStatus maps the wire name ("picked-up", "in-transit", ...) to a Status.
func ParseStatus(s string) (Status, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for status, name := range getStatusStrings() {
		if status != UnknownStatus && name == needle {
			return status, nil
		}
	}
	return UnknownStatus, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid parcel status", s))
}

// Validate rejects UnknownStatus and out-of-range values.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == UnknownStatus {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid parcel status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// PickUp transitions Pending -> PickedUp. Any other current status is a
// precondition failure that carries the current status.
func (s Status) PickUp() (Status, error) {
	if s != Pending {
		return UnknownStatus, errs.NewPreconditionFailedError("parcel", "must be pending to be picked up", s.String())
	}
	return PickedUp, nil
}

// Deliver transitions any picked-up state to Delivered.
//
// Invalid transitions:
//   - Pending -> Delivered (must be picked up first)
//   - Delivered -> Delivered (already delivered)
//
// Failed parcels can be delivered on a later attempt.
func (s Status) Deliver() (Status, error) {
	switch s {
	case Pending:
		return UnknownStatus, errs.NewPreconditionFailedError("parcel", "must be picked up before delivery", s.String())
	case Delivered:
		return UnknownStatus, errs.NewPreconditionFailedError("parcel", "is already delivered", s.String())
	case UnknownStatus:
		return UnknownStatus, s.Validate()
	default:
		return Delivered, nil
	}
}

// Complete returns target when it is one of the statuses an agent may report
// on completion. The current status is not consulted.
func (s Status) Complete(target Status) (Status, error) {
	if !target.IsCompletionTarget() {
		return UnknownStatus, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to complete a delivery with", target),
		)
	}
	return target, nil
}

// IsCompletionTarget reports whether an agent may complete a delivery with s.
func (s Status) IsCompletionTarget() bool {
	return s == InTransit || s == Delivered || s == Failed
}
