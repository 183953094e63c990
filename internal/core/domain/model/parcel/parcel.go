package parcel

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DeliveryWindow is the promised time between booking and delivery.
const DeliveryWindow = 72 * time.Hour

var (
	// ErrParcelIsNotConstructed is returned when a Parcel was not created through
	// NewParcel or RestoreParcel.
	ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel constructor")

	// ErrNotAssignedToAgent is the cause attached when an agent acts on a parcel
	// bound to somebody else (or to nobody, where an assignment is required).
	ErrNotAssignedToAgent = errors.New("parcel is not assigned to this agent")

	// ErrTrackingNumberTaken is returned by stores when another parcel already
	// holds the tracking number.
	ErrTrackingNumberTaken = errors.New("tracking number is already taken")
)

// Booking carries everything a customer supplies when booking a parcel,
// plus the identifiers generated for it.
type Booking struct {
	ID             kernel.UUID
	TrackingNumber kernel.TrackingNumber
	CustomerID     kernel.UUID
	Pickup         Address
	Destination    Address
	Type           Type
	WeightKg       float64
	PaymentMethod  PaymentMethod
	CODAmount      decimal.Decimal
	CreatedAt      time.Time
}

// Parcel is the aggregate root of the courier domain. It owns the lifecycle
// status and the facts derived from it.
//
// Parcel follows these invariants:
//   - The tracking number and the customer never change after booking
//   - actualDeliveryDate is set if and only if the status is Delivered
//   - An agent, once bound by a pickup scan, is the only one allowed to deliver
//   - estimatedDeliveryDate is createdAt + DeliveryWindow
type Parcel struct {
	id             kernel.UUID
	trackingNumber kernel.TrackingNumber
	customerID     kernel.UUID
	agentID        *kernel.UUID

	pickup      Address
	destination Address

	parcelType    Type
	weightKg      float64
	paymentMethod PaymentMethod
	codAmount     decimal.Decimal
	shippingCost  decimal.Decimal

	status          Status
	currentLocation *kernel.GeoPoint

	createdAt             time.Time
	estimatedDeliveryDate time.Time
	actualDeliveryDate    *time.Time
	notes                 string
	qrCode                string

	// version is the optimistic concurrency token maintained by the store.
	version int

	isConstructed bool
}

// NewParcel books a parcel in Pending status. The shipping cost is computed
// from the parcel type and the straight-line distance between the two
// addresses (zero when either has no coordinates).
//
// Example:
//
//	p, err := parcel.NewParcel(parcel.Booking{
//	    ID:             kernel.NewUUID(),
//	    TrackingNumber: kernel.NewTrackingNumber(now),
//	    CustomerID:     customerID,
//	    Pickup:         pickup,
//	    Destination:    destination,
//	    Type:           parcel.SmallPackage,
//	    WeightKg:       2,
//	    PaymentMethod:  parcel.CashOnDelivery,
//	    CODAmount:      decimal.NewFromInt(1500),
//	    CreatedAt:      now,
//	})
func NewParcel(b Booking) (*Parcel, error) {
	p := &Parcel{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(b.ID),
		p.setTrackingNumber(b.TrackingNumber),
		p.setCustomer(b.CustomerID),
		p.setItinerary(b.Pickup, b.Destination),
		p.setType(b.Type),
		p.setWeight(b.WeightKg),
		p.setPayment(b.PaymentMethod, b.CODAmount),
		p.setCreatedAt(b.CreatedAt),
	); err != nil {
		return nil, err
	}

	cost, err := CalculateShippingCost(p.parcelType, RouteDistanceKm(p.pickup, p.destination))
	if err != nil {
		return nil, err
	}
	p.shippingCost = cost
	p.estimatedDeliveryDate = p.createdAt.Add(DeliveryWindow)

	return p, nil
}

// RestoreParams is the stored state of a parcel.
type RestoreParams struct {
	Booking

	AgentID               *kernel.UUID
	ShippingCost          decimal.Decimal
	Status                Status
	CurrentLocation       *kernel.GeoPoint
	EstimatedDeliveryDate time.Time
	ActualDeliveryDate    *time.Time
	Notes                 string
	QRCode                string
	Version               int
}

// RestoreParcel rebuilds a parcel from storage. Stored cost and dates win
// over recomputed ones so tariff changes never rewrite history.
func RestoreParcel(r RestoreParams) (*Parcel, error) {
	p, err := NewParcel(r.Booking)
	if err != nil {
		return nil, err
	}

	if err = r.Status.Validate(); err != nil {
		return nil, err
	}
	if r.AgentID != nil {
		if err = r.AgentID.Validate(); err != nil {
			return nil, err
		}
		agent := *r.AgentID
		p.agentID = &agent
	}
	if (r.Status == Delivered) != (r.ActualDeliveryDate != nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"actualDeliveryDate",
			fmt.Errorf("must be set exactly when status is delivered, status is %s", r.Status),
		)
	}

	p.status = r.Status
	p.shippingCost = r.ShippingCost
	p.currentLocation = copyPoint(r.CurrentLocation)
	if !r.EstimatedDeliveryDate.IsZero() {
		p.estimatedDeliveryDate = r.EstimatedDeliveryDate
	}
	p.actualDeliveryDate = copyTime(r.ActualDeliveryDate)
	p.notes = r.Notes
	p.qrCode = r.QRCode
	p.version = r.Version

	return p, nil
}

// Validate ensures the Parcel instance was properly constructed.
func (p *Parcel) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrParcelIsNotConstructed
	}
	return nil
}

func (p *Parcel) ID() kernel.UUID                       { return p.id }
func (p *Parcel) TrackingNumber() kernel.TrackingNumber { return p.trackingNumber }
func (p *Parcel) CustomerID() kernel.UUID               { return p.customerID }
func (p *Parcel) Pickup() Address                       { return p.pickup }
func (p *Parcel) Destination() Address                  { return p.destination }
func (p *Parcel) Type() Type                            { return p.parcelType }
func (p *Parcel) WeightKg() float64                     { return p.weightKg }
func (p *Parcel) PaymentMethod() PaymentMethod          { return p.paymentMethod }
func (p *Parcel) CODAmount() decimal.Decimal            { return p.codAmount }
func (p *Parcel) ShippingCost() decimal.Decimal         { return p.shippingCost }
func (p *Parcel) Status() Status                        { return p.status }
func (p *Parcel) CreatedAt() time.Time                  { return p.createdAt }
func (p *Parcel) EstimatedDeliveryDate() time.Time      { return p.estimatedDeliveryDate }
func (p *Parcel) Notes() string                         { return p.notes }
func (p *Parcel) QRCode() string                        { return p.qrCode }
func (p *Parcel) Version() int                          { return p.version }

// AgentID returns the bound agent, or nil while nobody is assigned.
func (p *Parcel) AgentID() *kernel.UUID {
	if p.agentID == nil {
		return nil
	}
	id := *p.agentID
	return &id
}

// ActualDeliveryDate returns nil unless the parcel is delivered.
func (p *Parcel) ActualDeliveryDate() *time.Time {
	return copyTime(p.actualDeliveryDate)
}

// CurrentLocation returns the last reported coordinates, if any.
func (p *Parcel) CurrentLocation() *kernel.GeoPoint {
	return copyPoint(p.currentLocation)
}

// IsAssignedTo reports whether agentID is the bound agent.
func (p *Parcel) IsAssignedTo(agentID kernel.UUID) bool {
	return p.agentID != nil && p.agentID.IsEqual(agentID)
}

// AttachQRCode stores the rendered QR image for the tracking number.
func (p *Parcel) AttachQRCode(dataURI string) error {
	if strings.TrimSpace(dataURI) == "" {
		return errs.NewValueIsRequiredError("qrCode")
	}
	p.qrCode = dataURI
	return nil
}

// AssignAgent binds the parcel to agentID. Reassignment is allowed and the
// current status is not checked; an admin may hand over a parcel at any point.
func (p *Parcel) AssignAgent(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	p.agentID = &agentID
	return nil
}

// PickUp records a successful pickup scan by agentID.
//
// This method enforces the following business rules, in order:
//   - The parcel must be Pending (the error carries the current status)
//   - If an agent is already bound, it must be agentID
//
// An unbound parcel is claimed by agentID.
func (p *Parcel) PickUp(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	next, err := p.status.PickUp()
	if err != nil {
		return err
	}
	if p.agentID != nil && !p.agentID.IsEqual(agentID) {
		return p.notAssignedError()
	}

	p.agentID = &agentID
	p.status = next
	return nil
}

// Deliver records a successful delivery scan by agentID at now.
//
// This method enforces the following business rules, in order:
//   - The parcel must have been picked up and not yet delivered
//   - agentID must be the bound agent
func (p *Parcel) Deliver(agentID kernel.UUID, now time.Time) error {
	next, err := p.status.Deliver()
	if err != nil {
		return err
	}
	if !p.IsAssignedTo(agentID) {
		return p.notAssignedError()
	}

	p.status = next
	p.actualDeliveryDate = &now
	return nil
}

// MoveTo stores the latest coordinates reported by the bound agent.
func (p *Parcel) MoveTo(agentID kernel.UUID, point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	if !p.IsAssignedTo(agentID) {
		return p.notAssignedError()
	}
	p.currentLocation = &point
	return nil
}

// Complete applies an agent reported outcome. The previous status is not
// checked; only the target must be InTransit, Delivered or Failed.
func (p *Parcel) Complete(target Status, now time.Time) error {
	next, err := p.status.Complete(target)
	if err != nil {
		return err
	}
	p.applyStatus(next, now)
	return nil
}

// Override sets status and notes without a transition check. It is reserved
// for admins and still keeps the delivery date consistent with the status.
func (p *Parcel) Override(target Status, notes string, now time.Time) error {
	if err := target.Validate(); err != nil {
		return err
	}
	p.applyStatus(target, now)
	p.notes = strings.TrimSpace(notes)
	return nil
}

// SetVersion is called by stores after a successful optimistic write.
func (p *Parcel) SetVersion(v int) {
	p.version = v
}

func (p *Parcel) applyStatus(target Status, now time.Time) {
	p.status = target
	switch {
	case target != Delivered:
		p.actualDeliveryDate = nil
	case p.actualDeliveryDate == nil:
		p.actualDeliveryDate = &now
	}
}

func (p *Parcel) notAssignedError() error {
	return errs.NewPreconditionFailedErrorWithCause(
		"parcel", "is not assigned to this agent", p.status.String(), ErrNotAssignedToAgent)
}

func (p *Parcel) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Parcel) setTrackingNumber(tn kernel.TrackingNumber) error {
	if err := tn.Validate(); err != nil {
		return err
	}
	p.trackingNumber = tn
	return nil
}

func (p *Parcel) setCustomer(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	p.customerID = id
	return nil
}

func (p *Parcel) setItinerary(pickup, destination Address) error {
	if err := errors.Join(pickup.Validate(), destination.Validate()); err != nil {
		return err
	}
	p.pickup = pickup
	p.destination = destination
	return nil
}

func (p *Parcel) setType(t Type) error {
	if err := t.Validate(); err != nil {
		return err
	}
	p.parcelType = t
	return nil
}

func (p *Parcel) setWeight(kg float64) error {
	if kg < 0 {
		return errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%v is negative", kg))
	}
	p.weightKg = kg
	return nil
}

func (p *Parcel) setPayment(method PaymentMethod, cod decimal.Decimal) error {
	if err := method.Validate(); err != nil {
		return err
	}
	if cod.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("codAmount", fmt.Errorf("%s is negative", cod))
	}
	if method == Prepaid && !cod.IsZero() {
		return errs.NewValueIsInvalidErrorWithCause("codAmount", errors.New("prepaid parcels carry no cash-on-delivery amount"))
	}
	p.paymentMethod = method
	p.codAmount = cod
	return nil
}

func (p *Parcel) setCreatedAt(t time.Time) error {
	if t.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	p.createdAt = t
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func copyPoint(p *kernel.GeoPoint) *kernel.GeoPoint {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
