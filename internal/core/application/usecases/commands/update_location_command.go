package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/guard"
)

var ErrUpdateLocationCommandIsNotConstructed = errors.New(
	"UpdateLocationCommand must be created via NewUpdateLocationCommand constructor",
)

// UpdateLocationCommand is one GPS sample reported by an agent.
type UpdateLocationCommand struct { //nolint:recvcheck //using for validation
	actor    user.Actor
	parcelID kernel.UUID
	point    kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewUpdateLocationCommand(actor user.Actor, parcelID kernel.UUID, point kernel.GeoPoint) (UpdateLocationCommand, error) {
	if err := errors.Join(
		validateActor(actor),
		parcelID.Validate(),
		point.Validate(),
	); err != nil {
		return UpdateLocationCommand{}, err
	}

	return UpdateLocationCommand{
		actor:    actor,
		parcelID: parcelID,
		point:    point,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateLocationCommandIsNotConstructed)
}

func (c UpdateLocationCommand) Actor() user.Actor      { return c.actor }
func (c UpdateLocationCommand) ParcelID() kernel.UUID  { return c.parcelID }
func (c UpdateLocationCommand) Point() kernel.GeoPoint { return c.point }
