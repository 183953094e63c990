package services_test

import (
	"testing"
	"time"

	"parceltrack/internal/core/domain/event"
	"parceltrack/internal/core/domain/intent"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const qrData = "data:image/png;base64,iVBORw0KGgo="

var now = time.Date(2025, 4, 10, 8, 0, 0, 0, time.UTC)

type fixture struct {
	lifecycle services.ParcelLifecycle
	customer  *user.User
	agent     *user.User
	admin     *user.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	customer, err := user.NewUser(kernel.NewUUID(), "Nadia", user.Customer, "nadia@example.com", "+8801711111111")
	require.NoError(t, err)
	agent, err := user.NewUser(kernel.NewUUID(), "Karim", user.Agent, "karim@example.com", "")
	require.NoError(t, err)
	admin, err := user.NewUser(kernel.NewUUID(), "Ops", user.Admin, "", "")
	require.NoError(t, err)
	return fixture{lifecycle: services.NewParcelLifecycle(), customer: customer, agent: agent, admin: admin}
}

func (f fixture) booking(t *testing.T) parcel.Booking {
	t.Helper()
	pickup, err := parcel.NewAddress("House 4, Road 7", "Dhaka", nil)
	require.NoError(t, err)
	destination, err := parcel.NewAddress("Zindabazar", "Sylhet", nil)
	require.NoError(t, err)
	return parcel.Booking{
		ID:             kernel.NewUUID(),
		TrackingNumber: kernel.NewTrackingNumber(now),
		Pickup:         pickup,
		Destination:    destination,
		Type:           parcel.SmallPackage,
		WeightKg:       2,
		PaymentMethod:  parcel.CashOnDelivery,
		CODAmount:      decimal.NewFromInt(800),
		CreatedAt:      now,
	}
}

func (f fixture) booked(t *testing.T) *parcel.Parcel {
	t.Helper()
	out, err := f.lifecycle.Book(f.customer.Actor(), f.customer, f.booking(t), qrData)
	require.NoError(t, err)
	return out.Parcel
}

func (f fixture) pickedUp(t *testing.T) (*parcel.Parcel, *delivery.Delivery) {
	t.Helper()
	p := f.booked(t)
	out, err := f.lifecycle.ScanForPickup(f.agent.Actor(), p, nil, f.customer, p.TrackingNumber().String(), now)
	require.NoError(t, err)
	return out.Parcel, out.Delivery
}

func publishes(intents []intent.Intent) []event.Event {
	var events []event.Event
	for _, i := range intents {
		if p, ok := i.(intent.Publish); ok {
			events = append(events, p.Event)
		}
	}
	return events
}

func notifies(intents []intent.Intent) []intent.Notify {
	var out []intent.Notify
	for _, i := range intents {
		if n, ok := i.(intent.Notify); ok {
			out = append(out, n)
		}
	}
	return out
}

func TestParcelLifecycle_Book(t *testing.T) {
	f := newFixture(t)

	t.Run("should create a pending parcel and announce it", func(t *testing.T) {
		out, err := f.lifecycle.Book(f.customer.Actor(), f.customer, f.booking(t), qrData)

		require.NoError(t, err)
		p := out.Parcel
		assert.Equal(t, parcel.Pending, p.Status())
		assert.True(t, p.CustomerID().IsEqual(f.customer.ID()))
		assert.Equal(t, qrData, p.QRCode())
		assert.Equal(t, now.Add(72*time.Hour), p.EstimatedDeliveryDate())
		assert.Equal(t, "100.00", p.ShippingCost().StringFixed(2))
		assert.Nil(t, out.Delivery)

		n := notifies(out.Intents)
		require.Len(t, n, 1)
		assert.Equal(t, services.SubjectBooked, n[0].Message.Subject)
		assert.Contains(t, n[0].Message.Text, p.TrackingNumber().String())
		assert.Contains(t, n[0].Message.HTML, "Nadia")

		events := publishes(out.Intents)
		require.Len(t, events, 1)
		assert.Equal(t, event.ParcelBooked, events[0].Name)
		assert.Equal(t, event.ScopeGlobal, events[0].Scope)
		payload, ok := events[0].Payload.(event.ParcelBookedPayload)
		require.True(t, ok)
		assert.Equal(t, "Dhaka", payload.PickupCity)
		assert.Equal(t, "Sylhet", payload.DeliveryCity)
	})

	t.Run("notify precedes publish", func(t *testing.T) {
		out, err := f.lifecycle.Book(f.customer.Actor(), f.customer, f.booking(t), qrData)

		require.NoError(t, err)
		require.Len(t, out.Intents, 2)
		assert.IsType(t, intent.Notify{}, out.Intents[0])
		assert.IsType(t, intent.Publish{}, out.Intents[1])
	})

	t.Run("should use the actor as customer", func(t *testing.T) {
		b := f.booking(t)
		b.CustomerID = kernel.NewUUID()

		out, err := f.lifecycle.Book(f.customer.Actor(), f.customer, b, qrData)

		require.NoError(t, err)
		assert.True(t, out.Parcel.CustomerID().IsEqual(f.customer.ID()))
	})

	t.Run("should reject non customers", func(t *testing.T) {
		_, err := f.lifecycle.Book(f.agent.Actor(), f.agent, f.booking(t), qrData)

		require.ErrorIs(t, err, user.ErrRoleNotAllowed)
	})

	t.Run("should require the QR image", func(t *testing.T) {
		_, err := f.lifecycle.Book(f.customer.Actor(), f.customer, f.booking(t), "")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestParcelLifecycle_AssignAgent(t *testing.T) {
	f := newFixture(t)

	t.Run("should create an assigned delivery run", func(t *testing.T) {
		p := f.booked(t)

		out, err := f.lifecycle.AssignAgent(f.admin.Actor(), p, f.agent, nil, now)

		require.NoError(t, err)
		assert.True(t, out.Parcel.IsAssignedTo(f.agent.ID()))
		assert.Equal(t, parcel.Pending, out.Parcel.Status())
		require.NotNil(t, out.Delivery)
		assert.True(t, out.DeliveryCreated)
		assert.Equal(t, delivery.Assigned, out.Delivery.Status())

		events := publishes(out.Intents)
		require.Len(t, events, 2)
		assert.Equal(t, event.AgentAssigned, events[0].Name)
		assert.Equal(t, event.ScopeGlobal, events[0].Scope)
		assert.Equal(t, event.AssignmentReceived, events[1].Name)
		assert.Equal(t, event.ScopeUser, events[1].Scope)
		assert.Equal(t, f.agent.ID().String(), events[1].Target)
		payload := events[0].Payload.(event.AgentAssignedPayload)
		assert.Equal(t, "Karim", payload.AgentName)
	})

	t.Run("should open the run in the parcel's status after an override", func(t *testing.T) {
		p := f.booked(t)
		deliveredAt := now.Add(-time.Hour)
		require.NoError(t, p.Override(parcel.Delivered, "handed over at depot", deliveredAt))

		out, err := f.lifecycle.AssignAgent(f.admin.Actor(), p, f.agent, nil, now)

		require.NoError(t, err)
		require.True(t, out.DeliveryCreated)
		assert.Equal(t, delivery.Delivered, out.Delivery.Status())
		require.NotNil(t, out.Delivery.DeliveredTime())
		assert.Equal(t, *p.ActualDeliveryDate(), *out.Delivery.DeliveredTime())
	})

	t.Run("should open an in-transit run for an in-transit parcel", func(t *testing.T) {
		p := f.booked(t)
		require.NoError(t, p.Override(parcel.InTransit, "", now))

		out, err := f.lifecycle.AssignAgent(f.admin.Actor(), p, f.agent, nil, now)

		require.NoError(t, err)
		assert.Equal(t, delivery.InTransit, out.Delivery.Status())
		assert.Nil(t, out.Delivery.DeliveredTime())
	})

	t.Run("should reuse the existing run on reassignment", func(t *testing.T) {
		p := f.booked(t)
		first, err := f.lifecycle.AssignAgent(f.admin.Actor(), p, f.agent, nil, now)
		require.NoError(t, err)
		other, _ := user.NewUser(kernel.NewUUID(), "Jamal", user.Agent, "", "")

		out, err := f.lifecycle.AssignAgent(f.admin.Actor(), p, other, first.Delivery, now)

		require.NoError(t, err)
		assert.False(t, out.DeliveryCreated)
		assert.True(t, out.Delivery.ID().IsEqual(first.Delivery.ID()))
		assert.True(t, out.Delivery.AgentID().IsEqual(other.ID()))
	})

	t.Run("should refuse a user that is not an agent", func(t *testing.T) {
		_, err := f.lifecycle.AssignAgent(f.admin.Actor(), f.booked(t), f.customer, nil, now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should be admin only", func(t *testing.T) {
		_, err := f.lifecycle.AssignAgent(f.agent.Actor(), f.booked(t), f.agent, nil, now)

		require.ErrorIs(t, err, user.ErrRoleNotAllowed)
	})
}

func TestParcelLifecycle_ScanForPickup(t *testing.T) {
	f := newFixture(t)

	t.Run("should claim the parcel and open a run", func(t *testing.T) {
		p := f.booked(t)

		out, err := f.lifecycle.ScanForPickup(f.agent.Actor(), p, nil, f.customer, " "+p.TrackingNumber().String()+"\n", now)

		require.NoError(t, err)
		assert.Equal(t, parcel.PickedUp, out.Parcel.Status())
		assert.True(t, out.Parcel.IsAssignedTo(f.agent.ID()))
		assert.True(t, out.DeliveryCreated)
		assert.Equal(t, delivery.PickedUp, out.Delivery.Status())
		assert.Equal(t, now, *out.Delivery.PickedUpTime())

		n := notifies(out.Intents)
		require.Len(t, n, 1)
		assert.Equal(t, services.SubjectPickedUp, n[0].Message.Subject)

		events := publishes(out.Intents)
		require.Len(t, events, 1)
		assert.Equal(t, event.StatusChanged, events[0].Name)
		assert.Equal(t, event.ParcelChannel(p.ID()), events[0].Target)
		payload := events[0].Payload.(event.StatusChangedPayload)
		assert.Equal(t, "picked-up", payload.Status)
		assert.Equal(t, f.agent.ID().String(), payload.AgentID)
	})

	t.Run("should advance an assigned run", func(t *testing.T) {
		p := f.booked(t)
		assigned, err := f.lifecycle.AssignAgent(f.admin.Actor(), p, f.agent, nil, now)
		require.NoError(t, err)

		out, err := f.lifecycle.ScanForPickup(f.agent.Actor(), p, assigned.Delivery, f.customer, p.TrackingNumber().String(), now)

		require.NoError(t, err)
		assert.False(t, out.DeliveryCreated)
		assert.Equal(t, delivery.PickedUp, out.Delivery.Status())
	})

	t.Run("should reject a QR mismatch before anything else", func(t *testing.T) {
		p := f.booked(t)

		out, err := f.lifecycle.ScanForPickup(f.agent.Actor(), p, nil, f.customer, "COURIER-0-0", now)

		require.ErrorIs(t, err, services.ErrQRCodeMismatch)
		assert.Empty(t, out.Intents)
		assert.Equal(t, parcel.Pending, p.Status())
	})

	t.Run("should reject a picked up parcel with its current status", func(t *testing.T) {
		p, _ := f.pickedUp(t)

		_, err := f.lifecycle.ScanForPickup(f.agent.Actor(), p, nil, f.customer, p.TrackingNumber().String(), now)

		var pf *errs.PreconditionFailedError
		require.ErrorAs(t, err, &pf)
		assert.Equal(t, "picked-up", pf.Current)
	})

	t.Run("should reject an agent other than the assigned one", func(t *testing.T) {
		p := f.booked(t)
		_, err := f.lifecycle.AssignAgent(f.admin.Actor(), p, f.agent, nil, now)
		require.NoError(t, err)
		intruder, _ := user.NewActor(kernel.NewUUID(), user.Agent)

		_, err = f.lifecycle.ScanForPickup(intruder, p, nil, f.customer, p.TrackingNumber().String(), now)

		require.ErrorIs(t, err, parcel.ErrNotAssignedToAgent)
	})

	t.Run("should not notify without a known customer", func(t *testing.T) {
		p := f.booked(t)

		out, err := f.lifecycle.ScanForPickup(f.agent.Actor(), p, nil, nil, p.TrackingNumber().String(), now)

		require.NoError(t, err)
		assert.Empty(t, notifies(out.Intents))
	})
}

func TestParcelLifecycle_ScanForDelivery(t *testing.T) {
	f := newFixture(t)
	later := now.Add(5 * time.Hour)

	t.Run("should deliver with one shared instant", func(t *testing.T) {
		p, d := f.pickedUp(t)

		out, err := f.lifecycle.ScanForDelivery(f.agent.Actor(), p, d, f.customer, p.TrackingNumber().String(), "sig", later)

		require.NoError(t, err)
		assert.Equal(t, parcel.Delivered, out.Parcel.Status())
		assert.Equal(t, delivery.Delivered, out.Delivery.Status())
		assert.Equal(t, *out.Parcel.ActualDeliveryDate(), *out.Delivery.DeliveredTime())
		assert.Equal(t, "sig", out.Delivery.Signature())

		n := notifies(out.Intents)
		require.Len(t, n, 1)
		assert.Equal(t, services.SubjectDelivered, n[0].Message.Subject)

		events := publishes(out.Intents)
		require.Len(t, events, 2)
		assert.Equal(t, event.StatusChanged, events[0].Name)
		assert.Equal(t, event.ScopeParcel, events[0].Scope)
		assert.Equal(t, event.DeliveryCompleted, events[1].Name)
		assert.Equal(t, event.ScopeGlobal, events[1].Scope)
	})

	t.Run("should reject a non assigned agent even with valid QR and status", func(t *testing.T) {
		p, d := f.pickedUp(t)
		other, _ := user.NewActor(kernel.NewUUID(), user.Agent)

		_, err := f.lifecycle.ScanForDelivery(other, p, d, f.customer, p.TrackingNumber().String(), "", later)

		require.ErrorIs(t, err, parcel.ErrNotAssignedToAgent)
		assert.Equal(t, parcel.PickedUp, p.Status())
	})

	t.Run("should reject pending and delivered parcels", func(t *testing.T) {
		pending := f.booked(t)
		_, err := f.lifecycle.ScanForDelivery(f.agent.Actor(), pending, nil, f.customer, pending.TrackingNumber().String(), "", later)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)

		p, d := f.pickedUp(t)
		_, err = f.lifecycle.ScanForDelivery(f.agent.Actor(), p, d, f.customer, p.TrackingNumber().String(), "", later)
		require.NoError(t, err)
		_, err = f.lifecycle.ScanForDelivery(f.agent.Actor(), p, d, f.customer, p.TrackingNumber().String(), "", later)

		var pf *errs.PreconditionFailedError
		require.ErrorAs(t, err, &pf)
		assert.Equal(t, "delivered", pf.Current)
	})

	t.Run("should open a run when none exists", func(t *testing.T) {
		p, _ := f.pickedUp(t)

		out, err := f.lifecycle.ScanForDelivery(f.agent.Actor(), p, nil, f.customer, p.TrackingNumber().String(), "", later)

		require.NoError(t, err)
		assert.True(t, out.DeliveryCreated)
		assert.Equal(t, delivery.Delivered, out.Delivery.Status())
	})
}

func TestParcelLifecycle_UpdateLocation(t *testing.T) {
	f := newFixture(t)
	point, _ := kernel.NewGeoPoint(23.75, 90.39)

	t.Run("should move parcel and append to the route", func(t *testing.T) {
		p, d := f.pickedUp(t)

		out, err := f.lifecycle.UpdateLocation(f.agent.Actor(), p, d, point, now)

		require.NoError(t, err)
		require.NotNil(t, out.RoutePoint)
		assert.Len(t, out.Delivery.Route(), 1)
		assert.InDelta(t, 23.75, out.Parcel.CurrentLocation().Lat(), 1e-9)

		events := publishes(out.Intents)
		require.Len(t, events, 1)
		assert.Equal(t, event.LocationUpdated, events[0].Name)
		assert.Equal(t, event.ParcelChannel(p.ID()), events[0].Target)
	})

	t.Run("should work without a delivery run", func(t *testing.T) {
		p := f.booked(t)
		require.NoError(t, p.AssignAgent(f.agent.ID()))

		out, err := f.lifecycle.UpdateLocation(f.agent.Actor(), p, nil, point, now)

		require.NoError(t, err)
		assert.Nil(t, out.RoutePoint)
	})

	t.Run("should reject other agents", func(t *testing.T) {
		p, d := f.pickedUp(t)
		other, _ := user.NewActor(kernel.NewUUID(), user.Agent)

		_, err := f.lifecycle.UpdateLocation(other, p, d, point, now)

		require.ErrorIs(t, err, parcel.ErrNotAssignedToAgent)
		assert.Empty(t, d.Route())
	})
}

func TestParcelLifecycle_CompleteDelivery(t *testing.T) {
	f := newFixture(t)

	t.Run("failed keeps the reason", func(t *testing.T) {
		p, d := f.pickedUp(t)

		out, err := f.lifecycle.CompleteDelivery(f.agent.Actor(), p, d, services.CompletionReport{
			Status:        parcel.Failed,
			FailureReason: "address not found",
			Photos:        []string{"https://cdn.example.com/door.jpg"},
		}, now)

		require.NoError(t, err)
		assert.Equal(t, parcel.Failed, out.Parcel.Status())
		assert.Nil(t, out.Parcel.ActualDeliveryDate())
		assert.Equal(t, delivery.Failed, out.Delivery.Status())
		assert.Equal(t, "address not found", out.Delivery.FailureReason())
		require.Len(t, publishes(out.Intents), 1)
		assert.Empty(t, notifies(out.Intents))
	})

	t.Run("delivered stamps both records", func(t *testing.T) {
		p, d := f.pickedUp(t)

		out, err := f.lifecycle.CompleteDelivery(f.agent.Actor(), p, d, services.CompletionReport{Status: parcel.Delivered}, now)

		require.NoError(t, err)
		assert.Equal(t, now, *out.Parcel.ActualDeliveryDate())
		assert.Equal(t, now, *out.Delivery.DeliveredTime())
	})

	t.Run("requires an existing run", func(t *testing.T) {
		_, err := f.lifecycle.CompleteDelivery(f.agent.Actor(), f.booked(t), nil, services.CompletionReport{Status: parcel.InTransit}, now)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("rejects statuses outside the completion set", func(t *testing.T) {
		p, d := f.pickedUp(t)

		_, err := f.lifecycle.CompleteDelivery(f.agent.Actor(), p, d, services.CompletionReport{Status: parcel.Pending}, now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, parcel.PickedUp, p.Status())
	})
}

func TestParcelLifecycle_OverrideStatus(t *testing.T) {
	f := newFixture(t)

	t.Run("should set status and mirror the run", func(t *testing.T) {
		p, d := f.pickedUp(t)

		out, err := f.lifecycle.OverrideStatus(f.admin.Actor(), p, d, f.customer, parcel.InTransit, "hub transfer", now)

		require.NoError(t, err)
		assert.Equal(t, parcel.InTransit, out.Parcel.Status())
		assert.Equal(t, "hub transfer", out.Parcel.Notes())
		assert.Equal(t, delivery.InTransit, out.Delivery.Status())

		n := notifies(out.Intents)
		require.Len(t, n, 1)
		assert.Equal(t, services.SubjectStatusUpdated, n[0].Message.Subject)
		assert.Contains(t, n[0].Message.Text, "in-transit")

		events := publishes(out.Intents)
		require.Len(t, events, 2)
		assert.Equal(t, event.StatusChanged, events[0].Name)
		assert.Equal(t, event.StatusUpdated, events[1].Name)
		assert.Equal(t, event.ScopeGlobal, events[1].Scope)
	})

	t.Run("should be admin only", func(t *testing.T) {
		_, err := f.lifecycle.OverrideStatus(f.agent.Actor(), f.booked(t), nil, f.customer, parcel.Failed, "", now)

		require.ErrorIs(t, err, user.ErrRoleNotAllowed)
	})
}
