package services

import (
	"fmt"
	"time"

	"parceltrack/internal/core/domain/event"
	"parceltrack/internal/core/domain/intent"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/errs"
)

// Outcome is the result of a lifecycle command: the new state to persist and
// the side effects to run once it is committed.
type Outcome struct {
	Parcel *parcel.Parcel

	// Delivery is nil when the command did not touch the delivery run.
	Delivery *delivery.Delivery

	// DeliveryCreated tells the caller to insert rather than update Delivery.
	DeliveryCreated bool

	// RoutePoint is the sample appended by UpdateLocation, if any.
	RoutePoint *delivery.TrackPoint

	Intents []intent.Intent
}

// ParcelLifecycle decides every parcel status transition. It performs no I/O:
// callers load the current state, call one method and persist the returned
// Outcome before executing its intents.
//
// Check order for scans is fixed: QR data, then status, then ownership.
// Callers resolve the parcel (not found) before calling in.
//
// Example usage:
//
//	lifecycle := services.NewParcelLifecycle()
//	out, err := lifecycle.ScanForPickup(actor, p, existing, customer, scanned, time.Now())
//	if err != nil {
//	    return err // nothing to persist, nothing to notify
//	}
//	// persist out.Parcel and out.Delivery, commit, then run out.Intents
type ParcelLifecycle struct{}

func NewParcelLifecycle() ParcelLifecycle {
	return ParcelLifecycle{}
}

// Book creates a pending parcel for a customer. qrCode is the rendered image
// of the booking's tracking number.
func (ParcelLifecycle) Book(
	actor user.Actor,
	customer *user.User,
	booking parcel.Booking,
	qrCode string,
) (Outcome, error) {
	if err := actor.Require(user.Customer); err != nil {
		return Outcome{}, err
	}
	booking.CustomerID = actor.ID

	p, err := parcel.NewParcel(booking)
	if err != nil {
		return Outcome{}, err
	}
	if err = p.AttachQRCode(qrCode); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Parcel: p}
	if customer != nil {
		out.Intents = append(out.Intents, intent.Notify{Recipient: customer, Message: bookedMessage(customer, p)})
	}
	out.Intents = append(out.Intents, intent.Publish{Event: event.Global(event.ParcelBooked, event.ParcelBookedPayload{
		ParcelID:       p.ID().String(),
		TrackingNumber: p.TrackingNumber().String(),
		PickupCity:     p.Pickup().City(),
		DeliveryCity:   p.Destination().City(),
		CustomerID:     p.CustomerID().String(),
	}, booking.CreatedAt)})

	return out, nil
}

// AssignAgent binds an agent to a parcel and opens (or hands over) its
// delivery run. The parcel status is not checked; a run opened for a parcel
// that already left pending (through an admin override) starts in the
// matching status.
func (ParcelLifecycle) AssignAgent(
	actor user.Actor,
	p *parcel.Parcel,
	agent *user.User,
	existing *delivery.Delivery,
	now time.Time,
) (Outcome, error) {
	if err := actor.Require(user.Admin); err != nil {
		return Outcome{}, err
	}
	if err := agent.Validate(); err != nil {
		return Outcome{}, err
	}
	if agent.Role() != user.Agent {
		return Outcome{}, errs.NewValueIsInvalidErrorWithCause(
			"agentId", fmt.Errorf("user %s has role %s", agent.ID(), agent.Role()))
	}

	if err := p.AssignAgent(agent.ID()); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Parcel: p}
	if existing != nil {
		if err := existing.Reassign(agent.ID()); err != nil {
			return Outcome{}, err
		}
		out.Delivery = existing
	} else {
		d, err := delivery.NewAssignedDelivery(kernel.NewUUID(), p.ID(), agent.ID())
		if err != nil {
			return Outcome{}, err
		}
		if p.Status() != parcel.Pending {
			at := now
			if delivered := p.ActualDeliveryDate(); delivered != nil {
				at = *delivered
			}
			if err := d.Mirror(p.Status(), at); err != nil {
				return Outcome{}, err
			}
		}
		out.Delivery = d
		out.DeliveryCreated = true
	}

	payload := event.AgentAssignedPayload{
		ParcelID:       p.ID().String(),
		AgentID:        agent.ID().String(),
		AgentName:      agent.Name(),
		TrackingNumber: p.TrackingNumber().String(),
		PickupCity:     p.Pickup().City(),
		DeliveryCity:   p.Destination().City(),
	}
	out.Intents = append(out.Intents,
		intent.Publish{Event: event.Global(event.AgentAssigned, payload, now)},
		intent.Publish{Event: event.ToUser(agent.ID(), event.AssignmentReceived, payload, now)},
	)

	return out, nil
}

// ScanForPickup moves a pending parcel to picked-up for the scanning agent.
// An unassigned parcel is claimed; an assigned delivery run is advanced, and
// a missing one is created.
func (ParcelLifecycle) ScanForPickup(
	actor user.Actor,
	p *parcel.Parcel,
	existing *delivery.Delivery,
	customer *user.User,
	scanned string,
	now time.Time,
) (Outcome, error) {
	if err := actor.Require(user.Agent); err != nil {
		return Outcome{}, err
	}
	if !VerifyQRCode(scanned, p.TrackingNumber().String()) {
		return Outcome{}, qrMismatchError()
	}
	if err := p.PickUp(actor.ID); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Parcel: p}
	if existing != nil {
		if err := existing.MarkPickedUp(actor.ID, now); err != nil {
			return Outcome{}, err
		}
		out.Delivery = existing
	} else {
		d, err := delivery.NewPickedUpDelivery(kernel.NewUUID(), p.ID(), actor.ID, now)
		if err != nil {
			return Outcome{}, err
		}
		out.Delivery = d
		out.DeliveryCreated = true
	}

	if customer != nil {
		out.Intents = append(out.Intents, intent.Notify{Recipient: customer, Message: pickedUpMessage(customer, p)})
	}
	out.Intents = append(out.Intents, intent.Publish{Event: statusChanged(p, actor.ID, now)})

	return out, nil
}

// ScanForDelivery closes a picked-up parcel. The parcel's actual delivery
// date and the run's delivered time are the same instant.
func (ParcelLifecycle) ScanForDelivery(
	actor user.Actor,
	p *parcel.Parcel,
	existing *delivery.Delivery,
	customer *user.User,
	scanned string,
	signature string,
	now time.Time,
) (Outcome, error) {
	if err := actor.Require(user.Agent); err != nil {
		return Outcome{}, err
	}
	if !VerifyQRCode(scanned, p.TrackingNumber().String()) {
		return Outcome{}, qrMismatchError()
	}
	if err := p.Deliver(actor.ID, now); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Parcel: p, Delivery: existing}
	if existing == nil {
		d, err := delivery.NewPickedUpDelivery(kernel.NewUUID(), p.ID(), actor.ID, now)
		if err != nil {
			return Outcome{}, err
		}
		out.Delivery = d
		out.DeliveryCreated = true
	}
	deliveredAt := *p.ActualDeliveryDate()
	out.Delivery.MarkDelivered(deliveredAt, signature)

	if customer != nil {
		out.Intents = append(out.Intents, intent.Notify{
			Recipient: customer,
			Message:   deliveredMessage(customer, p, deliveredAt),
		})
	}
	out.Intents = append(out.Intents,
		intent.Publish{Event: statusChanged(p, actor.ID, now)},
		intent.Publish{Event: event.Global(event.DeliveryCompleted, event.DeliveryCompletedPayload{
			ParcelID:       p.ID().String(),
			TrackingNumber: p.TrackingNumber().String(),
			AgentID:        actor.ID.String(),
			CompletedAt:    deliveredAt,
		}, now)},
	)

	return out, nil
}

// UpdateLocation records a GPS sample from the assigned agent. The delivery
// run is optional; without one only the parcel snapshot moves.
func (ParcelLifecycle) UpdateLocation(
	actor user.Actor,
	p *parcel.Parcel,
	existing *delivery.Delivery,
	point kernel.GeoPoint,
	now time.Time,
) (Outcome, error) {
	if err := actor.Require(user.Agent); err != nil {
		return Outcome{}, err
	}
	if err := p.MoveTo(actor.ID, point); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Parcel: p, Delivery: existing}
	if existing != nil {
		tp, err := existing.Record(point, now)
		if err != nil {
			return Outcome{}, err
		}
		out.RoutePoint = &tp
	}

	out.Intents = append(out.Intents, intent.Publish{Event: event.OnParcel(p.ID(), event.LocationUpdated,
		event.LocationUpdatedPayload{
			ParcelID:  p.ID().String(),
			Latitude:  point.Lat(),
			Longitude: point.Lng(),
			AgentID:   actor.ID.String(),
			Timestamp: now,
		}, now)})

	return out, nil
}

// CompletionReport is what an agent submits when closing a delivery run.
type CompletionReport struct {
	Status        parcel.Status
	FailureReason string
	Signature     string
	Photos        []string
}

// CompleteDelivery applies an agent's report to both the parcel and its run.
// Neither the prior status nor the reporting agent is checked.
func (ParcelLifecycle) CompleteDelivery(
	actor user.Actor,
	p *parcel.Parcel,
	existing *delivery.Delivery,
	report CompletionReport,
	now time.Time,
) (Outcome, error) {
	if err := actor.Require(user.Agent); err != nil {
		return Outcome{}, err
	}
	if existing == nil {
		return Outcome{}, errs.NewObjectNotFoundError("delivery", p.ID().String())
	}
	if err := p.Complete(report.Status, now); err != nil {
		return Outcome{}, err
	}

	runStatus, err := delivery.StatusFromParcel(report.Status)
	if err != nil {
		return Outcome{}, err
	}
	if err = existing.Complete(delivery.Outcome{
		Status:        runStatus,
		FailureReason: report.FailureReason,
		Signature:     report.Signature,
		Photos:        report.Photos,
	}, now); err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Parcel:   p,
		Delivery: existing,
		Intents:  []intent.Intent{intent.Publish{Event: statusChanged(p, actor.ID, now)}},
	}, nil
}

// OverrideStatus is the admin escape hatch: any valid status may be set.
// An existing delivery run follows the new status.
func (ParcelLifecycle) OverrideStatus(
	actor user.Actor,
	p *parcel.Parcel,
	existing *delivery.Delivery,
	customer *user.User,
	target parcel.Status,
	notes string,
	now time.Time,
) (Outcome, error) {
	if err := actor.Require(user.Admin); err != nil {
		return Outcome{}, err
	}
	if err := p.Override(target, notes, now); err != nil {
		return Outcome{}, err
	}
	if existing != nil {
		if err := existing.Mirror(target, now); err != nil {
			return Outcome{}, err
		}
	}

	out := Outcome{Parcel: p, Delivery: existing}
	if customer != nil {
		out.Intents = append(out.Intents, intent.Notify{Recipient: customer, Message: statusUpdatedMessage(p)})
	}

	var agentID kernel.UUID
	if id := p.AgentID(); id != nil {
		agentID = *id
	}
	out.Intents = append(out.Intents,
		intent.Publish{Event: statusChanged(p, agentID, now)},
		intent.Publish{Event: event.Global(event.StatusUpdated, event.StatusUpdatedPayload{
			ParcelID:       p.ID().String(),
			Status:         p.Status().String(),
			TrackingNumber: p.TrackingNumber().String(),
		}, now)},
	)

	return out, nil
}

func statusChanged(p *parcel.Parcel, agentID kernel.UUID, now time.Time) event.Event {
	payload := event.StatusChangedPayload{
		ParcelID:  p.ID().String(),
		Status:    p.Status().String(),
		Timestamp: now,
	}
	if agentID.Validate() == nil {
		payload.AgentID = agentID.String()
	}
	return event.OnParcel(p.ID(), event.StatusChanged, payload, now)
}
