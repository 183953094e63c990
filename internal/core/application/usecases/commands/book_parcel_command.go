package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrBookParcelCommandIsNotConstructed = errors.New(
	"BookParcelCommand must be created via NewBookParcelCommand constructor",
)

// BookParcelCommand is a customer's request to ship a parcel.
//
// Example:
//
//	pickup, _ := parcel.NewAddress("House 12, Road 5", "Dhaka", nil)
//	dest, _ := parcel.NewAddress("Agrabad C/A", "Chattogram", nil)
//	cmd, err := NewBookParcelCommand(actor, pickup, dest, parcel.SmallPackage, 1.5,
//	    parcel.CashOnDelivery, decimal.NewFromInt(1200))
type BookParcelCommand struct { //nolint:recvcheck //using for validation
	actor         user.Actor
	pickup        parcel.Address
	destination   parcel.Address
	parcelType    parcel.Type
	weightKg      float64
	paymentMethod parcel.PaymentMethod
	codAmount     decimal.Decimal

	guard guard.ConstructorGuard
}

func NewBookParcelCommand(
	actor user.Actor,
	pickup, destination parcel.Address,
	parcelType parcel.Type,
	weightKg float64,
	paymentMethod parcel.PaymentMethod,
	codAmount decimal.Decimal,
) (BookParcelCommand, error) {
	if err := errors.Join(
		validateActor(actor),
		pickup.Validate(),
		destination.Validate(),
		parcelType.Validate(),
		paymentMethod.Validate(),
	); err != nil {
		return BookParcelCommand{}, err
	}

	return BookParcelCommand{
		actor:         actor,
		pickup:        pickup,
		destination:   destination,
		parcelType:    parcelType,
		weightKg:      weightKg,
		paymentMethod: paymentMethod,
		codAmount:     codAmount,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c BookParcelCommand) Validate() error {
	return c.guard.Validate(ErrBookParcelCommandIsNotConstructed)
}

func (c BookParcelCommand) Actor() user.Actor                   { return c.actor }
func (c BookParcelCommand) Pickup() parcel.Address              { return c.pickup }
func (c BookParcelCommand) Destination() parcel.Address         { return c.destination }
func (c BookParcelCommand) Type() parcel.Type                   { return c.parcelType }
func (c BookParcelCommand) WeightKg() float64                   { return c.weightKg }
func (c BookParcelCommand) PaymentMethod() parcel.PaymentMethod { return c.paymentMethod }
func (c BookParcelCommand) CODAmount() decimal.Decimal          { return c.codAmount }
