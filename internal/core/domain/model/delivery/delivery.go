package delivery

import (
	"errors"
	"slices"
	"strings"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"
)

var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewAssignedDelivery or NewPickedUpDelivery")

// Delivery is the execution record of getting one parcel to its destination.
// There is at most one per parcel; it is created lazily on assignment or on
// the first pickup scan.
//
// Delivery follows these invariants:
//   - route only grows; samples are never reordered or removed
//   - failureReason is non-empty only while the status is Failed
//   - deliveredTime is set exactly while the status is Delivered
type Delivery struct {
	id       kernel.UUID
	parcelID kernel.UUID
	agentID  kernel.UUID
	status   Status

	pickedUpTime  *time.Time
	deliveredTime *time.Time
	failureReason string
	signature     string
	photos        []string

	route           []TrackPoint
	currentLocation *TrackPoint

	isConstructed bool
}

// NewAssignedDelivery opens a run for an agent chosen by an admin before pickup.
func NewAssignedDelivery(id, parcelID, agentID kernel.UUID) (*Delivery, error) {
	d := &Delivery{
		status:        Assigned,
		isConstructed: true,
	}
	if err := errors.Join(d.setID(id), d.setParcel(parcelID), d.setAgent(agentID)); err != nil {
		return nil, err
	}
	return d, nil
}

// NewPickedUpDelivery opens a run at the moment of a pickup scan.
func NewPickedUpDelivery(id, parcelID, agentID kernel.UUID, now time.Time) (*Delivery, error) {
	d, err := NewAssignedDelivery(id, parcelID, agentID)
	if err != nil {
		return nil, err
	}
	d.status = PickedUp
	d.pickedUpTime = &now
	return d, nil
}

// RestoreParams is the stored state of a delivery run.
type RestoreParams struct {
	ID              kernel.UUID
	ParcelID        kernel.UUID
	AgentID         kernel.UUID
	Status          Status
	PickedUpTime    *time.Time
	DeliveredTime   *time.Time
	FailureReason   string
	Signature       string
	Photos          []string
	Route           []TrackPoint
	CurrentLocation *TrackPoint
}

func RestoreDelivery(r RestoreParams) (*Delivery, error) {
	d, err := NewAssignedDelivery(r.ID, r.ParcelID, r.AgentID)
	if err != nil {
		return nil, err
	}
	if err = r.Status.Validate(); err != nil {
		return nil, err
	}

	d.status = r.Status
	d.pickedUpTime = copyTime(r.PickedUpTime)
	d.deliveredTime = copyTime(r.DeliveredTime)
	d.failureReason = r.FailureReason
	d.signature = r.Signature
	d.photos = slices.Clone(r.Photos)
	d.route = slices.Clone(r.Route)
	if r.CurrentLocation != nil {
		cl := *r.CurrentLocation
		d.currentLocation = &cl
	}
	return d, nil
}

func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

func (d *Delivery) ID() kernel.UUID       { return d.id }
func (d *Delivery) ParcelID() kernel.UUID { return d.parcelID }
func (d *Delivery) AgentID() kernel.UUID  { return d.agentID }
func (d *Delivery) Status() Status        { return d.status }
func (d *Delivery) FailureReason() string { return d.failureReason }
func (d *Delivery) Signature() string     { return d.signature }
func (d *Delivery) Photos() []string      { return slices.Clone(d.photos) }
func (d *Delivery) Route() []TrackPoint   { return slices.Clone(d.route) }

func (d *Delivery) PickedUpTime() *time.Time  { return copyTime(d.pickedUpTime) }
func (d *Delivery) DeliveredTime() *time.Time { return copyTime(d.deliveredTime) }

// CurrentLocation is the last sample, stored separately from the route.
func (d *Delivery) CurrentLocation() *TrackPoint {
	if d.currentLocation == nil {
		return nil
	}
	cl := *d.currentLocation
	return &cl
}

// Reassign hands the run to another agent without touching its status.
func (d *Delivery) Reassign(agentID kernel.UUID) error {
	return d.setAgent(agentID)
}

// MarkPickedUp advances an assigned run after the pickup scan.
func (d *Delivery) MarkPickedUp(agentID kernel.UUID, now time.Time) error {
	if err := d.setAgent(agentID); err != nil {
		return err
	}
	d.status = PickedUp
	d.pickedUpTime = &now
	return nil
}

// MarkDelivered closes the run after the delivery scan. deliveredTime is the
// same instant the parcel records as its actual delivery date.
func (d *Delivery) MarkDelivered(now time.Time, signature string) {
	d.status = Delivered
	d.deliveredTime = &now
	d.failureReason = ""
	d.signature = strings.TrimSpace(signature)
}

// Outcome is what an agent reports when completing a run.
type Outcome struct {
	Status        Status
	FailureReason string
	Signature     string
	Photos        []string
}

// Complete applies an agent reported outcome. Signature and photos are only
// replaced when supplied.
func (d *Delivery) Complete(o Outcome, now time.Time) error {
	if o.Status != InTransit && o.Status != Delivered && o.Status != Failed {
		return errs.NewValueIsInvalidError("status")
	}

	d.applyStatus(o.Status, now)
	if o.Status == Failed {
		d.failureReason = strings.TrimSpace(o.FailureReason)
	}
	if sig := strings.TrimSpace(o.Signature); sig != "" {
		d.signature = sig
	}
	if o.Photos != nil {
		d.photos = slices.Clone(o.Photos)
	}
	return nil
}

// Mirror follows an admin override of the parcel status.
func (d *Delivery) Mirror(s parcel.Status, now time.Time) error {
	next, err := StatusFromParcel(s)
	if err != nil {
		return err
	}
	d.applyStatus(next, now)
	return nil
}

// Record appends a GPS sample to the route and makes it the current location.
func (d *Delivery) Record(point kernel.GeoPoint, at time.Time) (TrackPoint, error) {
	if err := point.Validate(); err != nil {
		return TrackPoint{}, err
	}
	tp := TrackPoint{Point: point, RecordedAt: at}
	d.route = append(d.route, tp)
	current := tp
	d.currentLocation = &current
	return tp, nil
}

func (d *Delivery) applyStatus(next Status, now time.Time) {
	d.status = next
	if next != Failed {
		d.failureReason = ""
	}
	switch {
	case next != Delivered:
		d.deliveredTime = nil
	case d.deliveredTime == nil:
		d.deliveredTime = &now
	}
	if next == PickedUp && d.pickedUpTime == nil {
		d.pickedUpTime = &now
	}
}

func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Delivery) setParcel(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("parcelId", err)
	}
	d.parcelID = id
	return nil
}

func (d *Delivery) setAgent(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("agentId", err)
	}
	d.agentID = id
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
